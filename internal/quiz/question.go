// Package quiz holds the authored question model, the randomized learner-facing
// presentation derived from it, and the grading rules that compare the two.
package quiz

// Kind identifies a question variant.
type Kind string

const (
	KindMatching       Kind = "matching"
	KindSequencing     Kind = "sequencing"
	KindSorting        Kind = "sorting"
	KindMultipleChoice Kind = "multiple_choice"
)

// Kinds lists every supported question variant in display order.
var Kinds = []Kind{KindMatching, KindSequencing, KindSorting, KindMultipleChoice}

// String returns a human label for the kind.
func (k Kind) String() string {
	switch k {
	case KindMatching:
		return "Matching"
	case KindSequencing:
		return "Sequencing"
	case KindSorting:
		return "Sorting"
	case KindMultipleChoice:
		return "Multiple choice"
	}
	return string(k)
}

// Difficulty is the authored difficulty label of a quiz.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Question is one authored question. Kind selects which of the variant
// payloads is set; exactly one must be non-nil and it must match Kind.
// A Question is the answer key and is never modified after loading.
type Question struct {
	Kind   Kind   `json:"kind" yaml:"kind" validate:"required,oneof=matching sequencing sorting multiple_choice"`
	Prompt string `json:"prompt" yaml:"prompt" validate:"required"`

	// Explanation is optional text shown after the question is answered.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	Matching       *Matching       `json:"matching,omitempty" yaml:"matching,omitempty"`
	Sequencing     *Sequencing     `json:"sequencing,omitempty" yaml:"sequencing,omitempty"`
	Sorting        *Sorting        `json:"sorting,omitempty" yaml:"sorting,omitempty"`
	MultipleChoice *MultipleChoice `json:"multiple_choice,omitempty" yaml:"multiple_choice,omitempty"`
}

// Matching pairs each item with one description.
// CorrectPairs[i] is the index into Descriptions that belongs to Items[i].
type Matching struct {
	Items        []string `json:"items" yaml:"items" validate:"min=1,dive,required"`
	Descriptions []string `json:"descriptions" yaml:"descriptions" validate:"min=1,dive,required"`
	CorrectPairs []int    `json:"correct_pairs" yaml:"correct_pairs" validate:"min=1"`
}

// Sequencing asks for steps in order. CorrectOrder lists step indices in the
// order they should appear; authored banks usually use the identity.
type Sequencing struct {
	Steps        []string `json:"steps" yaml:"steps" validate:"min=2,dive,required"`
	CorrectOrder []int    `json:"correct_order" yaml:"correct_order" validate:"min=2"`
}

// Sorting asks for each activity to be dropped into its category.
// CorrectCategories[i] is the category index for Activities[i].
type Sorting struct {
	Activities        []string `json:"activities" yaml:"activities" validate:"min=1,dive,required"`
	Categories        []string `json:"categories" yaml:"categories" validate:"min=1,dive,required"`
	CorrectCategories []int    `json:"correct_categories" yaml:"correct_categories" validate:"min=1"`
}

// MultipleChoice has exactly one correct option.
type MultipleChoice struct {
	Options       []string `json:"options" yaml:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" yaml:"correct_answer"`
}

// Quiz is an ordered set of questions attempted in one session.
type Quiz struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Title       string     `json:"title" yaml:"title" validate:"required"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Course      string     `json:"course,omitempty" yaml:"course,omitempty"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty" validate:"required,oneof=beginner intermediate advanced"`

	// TimeLimit is the per-question countdown in seconds. Zero means the
	// engine default applies.
	TimeLimit int `json:"time_limit,omitempty" yaml:"time_limit,omitempty" validate:"gte=0"`

	Questions []Question `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
}

// Len returns the number of questions.
func (q Quiz) Len() int {
	return len(q.Questions)
}
