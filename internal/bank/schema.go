package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

func stringList(minItems int) map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": minItems,
		"items":    map[string]any{"type": "string", "minLength": 1},
	}
}

func indexList() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "integer", "minimum": 0},
	}
}

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// QuestionDefinition is the JSON schema of one authored question. Index
// ranges and kind/payload agreement are checked by quiz.Validate.
func QuestionDefinition() map[string]any {
	return object([]any{"kind", "prompt"}, map[string]any{
		"kind": map[string]any{
			"type": "string",
			"enum": []any{"matching", "sequencing", "sorting", "multiple_choice"},
		},
		"prompt":      map[string]any{"type": "string", "minLength": 1},
		"explanation": map[string]any{"type": "string"},
		"matching": object([]any{"items", "descriptions", "correct_pairs"}, map[string]any{
			"items":         stringList(1),
			"descriptions":  stringList(1),
			"correct_pairs": indexList(),
		}),
		"sequencing": object([]any{"steps", "correct_order"}, map[string]any{
			"steps":         stringList(2),
			"correct_order": indexList(),
		}),
		"sorting": object([]any{"activities", "categories", "correct_categories"}, map[string]any{
			"activities":         stringList(1),
			"categories":         stringList(1),
			"correct_categories": indexList(),
		}),
		"multiple_choice": object([]any{"options", "correct_answer"}, map[string]any{
			"options":        stringList(2),
			"correct_answer": map[string]any{"type": "integer", "minimum": 0},
		}),
	})
}

// QuizDefinition is the JSON schema of one quiz.
func QuizDefinition() map[string]any {
	return object([]any{"id", "title", "difficulty", "questions"}, map[string]any{
		"id":          map[string]any{"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
		"title":       map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"course":      map[string]any{"type": "string"},
		"difficulty": map[string]any{
			"type": "string",
			"enum": []any{"beginner", "intermediate", "advanced"},
		},
		"time_limit": map[string]any{"type": "integer", "minimum": 0},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    QuestionDefinition(),
		},
	})
}

// DocumentDefinition is the JSON schema of a bank file.
func DocumentDefinition() map[string]any {
	return object([]any{"format_version", "quizzes"}, map[string]any{
		"format_version": map[string]any{"type": "string"},
		"course":         map[string]any{"type": "string"},
		"quizzes": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    QuizDefinition(),
		},
	})
}

var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compile("quizline-bank", DocumentDefinition())
})

// compile turns a schema map into a compiled schema. The library expects a
// value shaped like json.Unmarshal output, so the map takes a JSON round trip.
func compile(name string, def map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	return c.Compile(url)
}

// validateDocument checks a decoded JSON value against the bank schema.
func validateDocument(v any) error {
	sch, err := documentSchema()
	if err != nil {
		return err
	}
	return sch.Validate(v)
}
