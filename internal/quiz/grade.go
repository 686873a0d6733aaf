package quiz

// Result is the outcome of grading one presentation.
type Result struct {
	// Correct is true only when every element is in its correct place.
	Correct bool

	// Marks maps the canonical index of each graded element to whether it is
	// in its correct place. For multiple choice only the selected option and
	// the correct option are marked.
	Marks map[int]bool
}

// Grade compares the learner's arrangement in p with the answer key in q.
// A presentation that does not belong to q grades as incorrect.
func Grade(q Question, p Presentation) Result {
	res := Result{Marks: make(map[int]bool)}

	switch p := p.(type) {
	case *MatchingState:
		if q.Matching == nil {
			return res
		}
		res.Correct = len(p.Pairs) == len(q.Matching.CorrectPairs)
		for _, pair := range p.Pairs {
			ok := inRange(pair.Item.Index, len(q.Matching.CorrectPairs)) &&
				q.Matching.CorrectPairs[pair.Item.Index] == pair.Description.Index
			res.Marks[pair.Item.Index] = ok
			res.Correct = res.Correct && ok
		}

	case *SequencingState:
		if q.Sequencing == nil {
			return res
		}
		res.Correct = len(p.Steps) == len(q.Sequencing.CorrectOrder)
		for i, step := range p.Steps {
			ok := i < len(q.Sequencing.CorrectOrder) && q.Sequencing.CorrectOrder[i] == step.Index
			res.Marks[step.Index] = ok
			res.Correct = res.Correct && ok
		}

	case *SortingState:
		if q.Sorting == nil {
			return res
		}
		res.Correct = true
		placed := 0
		for _, b := range p.Buckets {
			for _, a := range b.Activities {
				placed++
				ok := b.Category != UnsortedCategory &&
					inRange(a.Index, len(q.Sorting.CorrectCategories)) &&
					q.Sorting.CorrectCategories[a.Index] == b.Category
				res.Marks[a.Index] = ok
				res.Correct = res.Correct && ok
			}
		}
		res.Correct = res.Correct && placed == len(q.Sorting.CorrectCategories)

	case *ChoiceState:
		if q.MultipleChoice == nil {
			return res
		}
		sel, ok := p.Selected()
		if !ok {
			return res
		}
		res.Correct = sel.Index == q.MultipleChoice.CorrectAnswer
		res.Marks[sel.Index] = res.Correct
		res.Marks[q.MultipleChoice.CorrectAnswer] = true
	}

	return res
}
