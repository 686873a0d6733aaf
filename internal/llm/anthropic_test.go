package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func anthropicServer(t *testing.T, status int, body map[string]any) (*AnthropicProvider, *map[string]any) {
	t.Helper()
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seen)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p, &seen
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
	}
}

func TestAnthropicGenerate(t *testing.T) {
	p, seen := anthropicServer(t, http.StatusOK, anthropicMessage(`{"name":"Ada","age":36}`, "end_turn"))

	req := UserPrompt("You write quizzes.", "Write one.")
	req.Schema = testSchema()
	req.MaxTokens = 512
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Usage.TotalTokens != 160 {
		t.Errorf("total tokens = %d, want 160", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q, want end", resp.StopReason)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("alias not resolved: %q", p.ModelID())
	}
	if (*seen)["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("request model = %v", (*seen)["model"])
	}
	if _, ok := (*seen)["output_config"]; !ok {
		t.Error("schema request did not set output_config")
	}
}

func TestAnthropicSchemaViolation(t *testing.T) {
	p, _ := anthropicServer(t, http.StatusOK, anthropicMessage(`{"name":"Ada"}`, "end_turn"))

	req := UserPrompt("", "Write one.")
	req.Schema = testSchema()
	req.MaxTokens = 64
	_, err := p.Generate(context.Background(), req)
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("want ErrInvalidResponse, got %T: %v", err, err)
	}
}

func TestAnthropicMaxTokens(t *testing.T) {
	p, _ := anthropicServer(t, http.StatusOK, anthropicMessage(`{"name":`, "max_tokens"))

	req := UserPrompt("", "Write one.")
	req.MaxTokens = 8
	_, err := p.Generate(context.Background(), req)
	var truncated *ErrMaxTokensExceeded
	if !errors.As(err, &truncated) {
		t.Fatalf("want ErrMaxTokensExceeded, got %T: %v", err, err)
	}
}

func TestAnthropicRateLimit(t *testing.T) {
	p, _ := anthropicServer(t, http.StatusTooManyRequests, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
	})
	req := UserPrompt("", "hi")
	req.MaxTokens = 8
	_, err := p.Generate(context.Background(), req)
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("want ErrRateLimit, got %T: %v", err, err)
	}
}

func TestAnthropicRequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
