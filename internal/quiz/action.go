package quiz

// Action is one learner interaction with a presentation.
type Action interface {
	action()
}

// SwapDescriptions exchanges the descriptions of the pairs at positions A and B
// of a matching question. Items stay where they are.
type SwapDescriptions struct{ A, B int }

// MoveStep removes the step at From and reinserts it at To.
type MoveStep struct{ From, To int }

// MoveActivity moves the activity with canonical index Activity to the end of
// bucket Bucket. The Unsorted bucket is a valid target.
type MoveActivity struct{ Activity, Bucket int }

// MoveOption removes the option at From and reinserts it at To.
type MoveOption struct{ From, To int }

// SelectOption drags the option at Position to the top, making it the answer.
type SelectOption struct{ Position int }

func (SwapDescriptions) action() {}
func (MoveStep) action()         {}
func (MoveActivity) action()     {}
func (MoveOption) action()       {}
func (SelectOption) action()     {}

// Apply mutates p according to a. It reports whether anything changed;
// actions that do not fit the presentation kind or reference positions out
// of range are rejected and leave p untouched.
func Apply(p Presentation, a Action) bool {
	switch a := a.(type) {
	case SwapDescriptions:
		m, ok := p.(*MatchingState)
		if !ok || !inRange(a.A, len(m.Pairs)) || !inRange(a.B, len(m.Pairs)) || a.A == a.B {
			return false
		}
		m.Pairs[a.A].Description, m.Pairs[a.B].Description = m.Pairs[a.B].Description, m.Pairs[a.A].Description
		return true

	case MoveStep:
		s, ok := p.(*SequencingState)
		if !ok {
			return false
		}
		return move(s.Steps, a.From, a.To)

	case MoveActivity:
		s, ok := p.(*SortingState)
		if !ok || !inRange(a.Bucket, len(s.Buckets)) {
			return false
		}
		from, pos, found := s.Locate(a.Activity)
		if !found || from == a.Bucket {
			return false
		}
		e := s.Buckets[from].Activities[pos]
		src := s.Buckets[from].Activities
		s.Buckets[from].Activities = append(src[:pos:pos], src[pos+1:]...)
		s.Buckets[a.Bucket].Activities = append(s.Buckets[a.Bucket].Activities, e)
		return true

	case MoveOption:
		c, ok := p.(*ChoiceState)
		if !ok {
			return false
		}
		return move(c.Options, a.From, a.To)

	case SelectOption:
		c, ok := p.(*ChoiceState)
		if !ok {
			return false
		}
		return move(c.Options, a.Position, 0)
	}
	return false
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

// move shifts s[from] to index to, sliding the elements in between.
func move[T any](s []T, from, to int) bool {
	if !inRange(from, len(s)) || !inRange(to, len(s)) || from == to {
		return false
	}
	e := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = e
	return true
}
