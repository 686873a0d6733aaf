package quiz

import (
	"fmt"
	"math/rand/v2"
)

// UnsortedLabel is the label of the synthetic holding bucket of a sorting question.
const UnsortedLabel = "Unsorted"

// UnsortedCategory is the Category value of the holding bucket.
const UnsortedCategory = -1

// Element is one presented piece of text together with its index in the
// authored list it came from. Grading compares indices, never text.
type Element struct {
	Index int
	Text  string
}

// Shuffler permutes n elements through swap. *rand.Rand from math/rand/v2
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultShuffler draws from the process-wide math/rand/v2 source.
var DefaultShuffler Shuffler = globalShuffler{}

// Presentation is the mutable learner-facing arrangement of one question.
// The concrete type is one of *MatchingState, *SequencingState, *SortingState
// or *ChoiceState.
type Presentation interface {
	Kind() Kind
	presentation()
}

// Pair is one row of a matching question.
type Pair struct {
	Item        Element
	Description Element
}

// MatchingState shows items in authored order, each paired with a shuffled description.
type MatchingState struct {
	Pairs []Pair
}

// SequencingState shows the steps in the learner's current order.
type SequencingState struct {
	Steps []Element
}

// Bucket is one drop target of a sorting question. Category is the
// authored category index, or UnsortedCategory for the holding bucket.
type Bucket struct {
	Label      string
	Category   int
	Activities []Element
}

// SortingState holds one bucket per category followed by the Unsorted bucket.
type SortingState struct {
	Buckets []Bucket
}

// ChoiceState shows the options in the learner's current order. The option
// at position 0 is the selected answer.
type ChoiceState struct {
	Options []Element
}

func (*MatchingState) Kind() Kind   { return KindMatching }
func (*SequencingState) Kind() Kind { return KindSequencing }
func (*SortingState) Kind() Kind    { return KindSorting }
func (*ChoiceState) Kind() Kind     { return KindMultipleChoice }

func (*MatchingState) presentation()   {}
func (*SequencingState) presentation() {}
func (*SortingState) presentation()    {}
func (*ChoiceState) presentation()     {}

// Present builds a freshly shuffled presentation of q. The question itself is
// left untouched; every presented element is a copy tagged with its index.
func Present(q Question, s Shuffler) (Presentation, error) {
	if s == nil {
		s = DefaultShuffler
	}

	switch q.Kind {
	case KindMatching:
		if q.Matching == nil {
			return nil, fmt.Errorf("present %s question: missing payload", q.Kind)
		}
		descs := shuffled(q.Matching.Descriptions, s)
		pairs := make([]Pair, len(q.Matching.Items))
		for i, item := range q.Matching.Items {
			pairs[i].Item = Element{Index: i, Text: item}
			if i < len(descs) {
				pairs[i].Description = descs[i]
			}
		}
		return &MatchingState{Pairs: pairs}, nil

	case KindSequencing:
		if q.Sequencing == nil {
			return nil, fmt.Errorf("present %s question: missing payload", q.Kind)
		}
		return &SequencingState{Steps: shuffled(q.Sequencing.Steps, s)}, nil

	case KindSorting:
		if q.Sorting == nil {
			return nil, fmt.Errorf("present %s question: missing payload", q.Kind)
		}
		buckets := make([]Bucket, 0, len(q.Sorting.Categories)+1)
		for i, c := range q.Sorting.Categories {
			buckets = append(buckets, Bucket{Label: c, Category: i, Activities: []Element{}})
		}
		buckets = append(buckets, Bucket{
			Label:      UnsortedLabel,
			Category:   UnsortedCategory,
			Activities: shuffled(q.Sorting.Activities, s),
		})
		return &SortingState{Buckets: buckets}, nil

	case KindMultipleChoice:
		if q.MultipleChoice == nil {
			return nil, fmt.Errorf("present %s question: missing payload", q.Kind)
		}
		return &ChoiceState{Options: shuffled(q.MultipleChoice.Options, s)}, nil
	}

	return nil, fmt.Errorf("present question: unknown kind %q", q.Kind)
}

// shuffled wraps texts as indexed elements and permutes the copy.
func shuffled(texts []string, s Shuffler) []Element {
	out := make([]Element, len(texts))
	for i, t := range texts {
		out[i] = Element{Index: i, Text: t}
	}
	s.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Unsorted returns the holding bucket.
func (s *SortingState) Unsorted() *Bucket {
	return &s.Buckets[len(s.Buckets)-1]
}

// Locate returns the bucket and position holding the activity with the given
// canonical index, or ok=false.
func (s *SortingState) Locate(activity int) (bucket, pos int, ok bool) {
	for b := range s.Buckets {
		for p, e := range s.Buckets[b].Activities {
			if e.Index == activity {
				return b, p, true
			}
		}
	}
	return 0, 0, false
}

// Selected returns the option at position 0.
func (c *ChoiceState) Selected() (Element, bool) {
	if len(c.Options) == 0 {
		return Element{}, false
	}
	return c.Options[0], true
}
