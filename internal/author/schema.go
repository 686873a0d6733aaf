package author

import "github.com/abhisek/quizline/internal/llm"

func textList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

func indexList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "integer"}, "description": desc}
}

// QuizSchema is the reply shape. Every payload field is present on every
// question, empty when it does not apply, because strict structured output
// modes reject optional properties.
var QuizSchema = &llm.Schema{
	Name:        "quiz-draft",
	Description: "A quiz of matching, sequencing, sorting and multiple choice questions",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "description", "questions"},
		"properties": map[string]any{
			"title":       map[string]any{"type": "string", "description": "Short quiz title"},
			"description": map[string]any{"type": "string", "description": "One sentence on what the quiz covers"},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required": []any{
						"kind", "prompt", "explanation",
						"items", "descriptions", "correct_pairs",
						"steps", "correct_order",
						"activities", "categories", "correct_categories",
						"options", "correct_answer",
					},
					"properties": map[string]any{
						"kind": map[string]any{
							"type": "string",
							"enum": []any{"matching", "sequencing", "sorting", "multiple_choice"},
						},
						"prompt":      map[string]any{"type": "string", "description": "The question shown to the learner"},
						"explanation": map[string]any{"type": "string", "description": "Shown after answering; may be empty"},

						"items":         textList("matching: left column"),
						"descriptions":  textList("matching: right column, same length as items"),
						"correct_pairs": indexList("matching: correct_pairs[i] is the index in descriptions that matches items[i]"),

						"steps":         textList("sequencing: the steps in any order"),
						"correct_order": indexList("sequencing: indices into steps listed in the correct order"),

						"activities":         textList("sorting: things to sort"),
						"categories":         textList("sorting: category names"),
						"correct_categories": indexList("sorting: correct_categories[i] is the category index of activities[i]"),

						"options":        textList("multiple_choice: answer options"),
						"correct_answer": map[string]any{"type": "integer", "description": "multiple_choice: index of the correct option, -1 for other kinds"},
					},
				},
			},
		},
	},
}
