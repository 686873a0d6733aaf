package quiz

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports every problem found in a quiz definition.
// It is a configuration error: a quiz that fails validation is never played.
type ValidationError struct {
	QuizID   string
	Problems []string
}

func (e *ValidationError) Error() string {
	name := e.QuizID
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("quiz %s is invalid:\n  %s", name, strings.Join(e.Problems, "\n  "))
}

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
})

// Validate checks the quiz and all of its questions. It returns a
// *ValidationError listing every problem, or nil.
func (q Quiz) Validate() error {
	var problems []string

	if err := structValidator().Struct(q); err != nil {
		problems = append(problems, fieldProblems(err)...)
	}

	for i, question := range q.Questions {
		for _, p := range question.structuralProblems() {
			problems = append(problems, fmt.Sprintf("questions[%d]: %s", i, p))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{QuizID: q.ID, Problems: problems}
	}
	return nil
}

// Validate checks a single question in isolation.
func (q Question) Validate() error {
	var problems []string
	if err := structValidator().Struct(q); err != nil {
		problems = append(problems, fieldProblems(err)...)
	}
	problems = append(problems, q.structuralProblems()...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// fieldProblems flattens validator errors into "path: rule" strings.
func fieldProblems(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out = append(out, fmt.Sprintf("%s: failed %q", path, rule))
	}
	return out
}

// structuralProblems checks the index arrays of the variant payload against
// the lists they point into.
func (q Question) structuralProblems() []string {
	var problems []string

	set := 0
	for _, p := range []bool{q.Matching != nil, q.Sequencing != nil, q.Sorting != nil, q.MultipleChoice != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		problems = append(problems, fmt.Sprintf("exactly one variant payload must be set, found %d", set))
	}

	switch q.Kind {
	case KindMatching:
		if q.Matching == nil {
			return append(problems, "kind matching requires a matching payload")
		}
		m := q.Matching
		if len(m.Descriptions) != len(m.Items) {
			problems = append(problems, fmt.Sprintf("matching has %d items but %d descriptions", len(m.Items), len(m.Descriptions)))
		}
		if len(m.CorrectPairs) != len(m.Items) {
			problems = append(problems, fmt.Sprintf("correct_pairs has %d entries, want %d", len(m.CorrectPairs), len(m.Items)))
		}
		problems = append(problems, permutationProblems("correct_pairs", m.CorrectPairs, len(m.Descriptions))...)

	case KindSequencing:
		if q.Sequencing == nil {
			return append(problems, "kind sequencing requires a sequencing payload")
		}
		s := q.Sequencing
		if len(s.CorrectOrder) != len(s.Steps) {
			problems = append(problems, fmt.Sprintf("correct_order has %d entries, want %d", len(s.CorrectOrder), len(s.Steps)))
		}
		problems = append(problems, permutationProblems("correct_order", s.CorrectOrder, len(s.Steps))...)

	case KindSorting:
		if q.Sorting == nil {
			return append(problems, "kind sorting requires a sorting payload")
		}
		s := q.Sorting
		if len(s.CorrectCategories) != len(s.Activities) {
			problems = append(problems, fmt.Sprintf("correct_categories has %d entries, want %d", len(s.CorrectCategories), len(s.Activities)))
		}
		for i, c := range s.CorrectCategories {
			if c < 0 || c >= len(s.Categories) {
				problems = append(problems, fmt.Sprintf("correct_categories[%d] = %d is out of range [0,%d)", i, c, len(s.Categories)))
			}
		}

	case KindMultipleChoice:
		if q.MultipleChoice == nil {
			return append(problems, "kind multiple_choice requires a multiple_choice payload")
		}
		mc := q.MultipleChoice
		if mc.CorrectAnswer < 0 || mc.CorrectAnswer >= len(mc.Options) {
			problems = append(problems, fmt.Sprintf("correct_answer = %d is out of range [0,%d)", mc.CorrectAnswer, len(mc.Options)))
		}

	default:
		problems = append(problems, fmt.Sprintf("unknown kind %q", q.Kind))
	}

	return problems
}

// permutationProblems reports out-of-range and repeated indices.
func permutationProblems(field string, idx []int, n int) []string {
	var problems []string
	seen := make(map[int]int, len(idx))
	for i, v := range idx {
		if v < 0 || v >= n {
			problems = append(problems, fmt.Sprintf("%s[%d] = %d is out of range [0,%d)", field, i, v, n))
			continue
		}
		if prev, dup := seen[v]; dup {
			problems = append(problems, fmt.Sprintf("%s[%d] repeats index %d from position %d", field, i, v, prev))
			continue
		}
		seen[v] = i
	}
	return problems
}
