package author

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizline/internal/quiz"
)

const systemPrompt = `You write short interactive quizzes for self-study.

Question kinds:
- matching: pair each item with one description. items and descriptions have the same length; correct_pairs[i] is the index of the description matching items[i]. Every description is used exactly once.
- sequencing: steps in any order plus correct_order, the step indices in the right order. Use 3 to 6 steps.
- sorting: activities each belong to one category; correct_categories[i] is the category index of activities[i]. Use 2 or 3 categories and 4 to 8 activities.
- multiple_choice: 3 or 4 options with exactly one correct; correct_answer is its index. Distractors should reflect real misconceptions.

Rules:
- Fill only the fields of the question's kind. Leave every other array empty and set correct_answer to -1 unless the kind is multiple_choice.
- Indices are zero-based.
- Prompts are one sentence. Items, steps, activities and options are short phrases.
- Steps may be listed in any order; the quiz shuffles every list when it is shown.
- Facts must be accurate. Prefer precise, checkable statements over opinions.`

// buildUserMessage describes the quiz to write.
func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	if req.Course != "" {
		fmt.Fprintf(&b, "Course: %s\n", req.Course)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Questions)

	kinds := make([]string, len(req.Kinds))
	for i, k := range req.Kinds {
		kinds[i] = string(k)
	}
	fmt.Fprintf(&b, "Use these kinds, each at least once when the count allows: %s\n", strings.Join(kinds, ", "))

	b.WriteString("\nQuizzes that already exist (do not repeat them):\n")
	b.WriteString(numbered(req.Avoid, cfg.MaxAvoid))
	return b.String()
}

// repairMessage asks the model to fix a draft that failed validation.
func repairMessage(err error) string {
	var ve *quiz.ValidationError
	problems := []string{err.Error()}
	if errors.As(err, &ve) {
		problems = ve.Problems
	}
	var b strings.Builder
	b.WriteString("That quiz has problems. Return the whole quiz again with these fixed:\n")
	for _, p := range problems {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return b.String()
}

// numbered lists the most recent max entries, or "None".
func numbered(entries []string, max int) string {
	if len(entries) == 0 {
		return "None"
	}
	if max > 0 && len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	return strings.TrimRight(b.String(), "\n")
}
