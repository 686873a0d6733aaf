package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func testSchema() *Schema {
	return &Schema{
		Name: "test-person",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"age":  map[string]any{"type": "integer", "minimum": 0},
			},
			"required":             []string{"name", "age"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"name":"Ada","age":36}`, true},
		{"missing field", `{"name":"Ada"}`, false},
		{"wrong type", `{"name":"Ada","age":"old"}`, false},
		{"extra field", `{"name":"Ada","age":1,"x":2}`, false},
		{"negative", `{"name":"Ada","age":-1}`, false},
		{"not json", `{"name":`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("want ErrInvalidResponse, got %T: %v", err, err)
			}
			if string(invalid.Content) != tt.raw {
				t.Errorf("content not carried: %s", invalid.Content)
			}
		})
	}
}

func TestValidateNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage("anything")); err != nil {
		t.Fatalf("nil schema rejected: %v", err)
	}
}

func TestMockValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"name":"Ada"}`)},
		MockResponse{Content: json.RawMessage(`{"name":"Ada","age":1}`)},
	)
	p := WithRetry(mock, fastRetry(), zerolog.Nop())
	req := UserPrompt("", "person")
	req.Schema = testSchema()

	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second reply should pass: %v", err)
	}
	var got struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	if err := resp.Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Age != 1 || len(mock.Calls()) != 2 {
		t.Errorf("got %+v after %d calls", got, len(mock.Calls()))
	}
}

func TestMockEmptyQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("want ErrProviderUnavailable, got %v", err)
	}
	mock.Push(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
}
