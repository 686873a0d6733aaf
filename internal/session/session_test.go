package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizline/internal/quiz"
)

type noShuffle struct{}

func (noShuffle) Shuffle(int, func(i, j int)) {}

type reverseShuffle struct{}

func (reverseShuffle) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func capitalQuestion() quiz.Question {
	return quiz.Question{
		Kind:   quiz.KindMultipleChoice,
		Prompt: "Capital of France?",
		MultipleChoice: &quiz.MultipleChoice{
			Options:       []string{"London", "Paris", "Berlin"},
			CorrectAnswer: 1,
		},
	}
}

func stepsQuestion() quiz.Question {
	return quiz.Question{
		Kind:   quiz.KindSequencing,
		Prompt: "Order the steps",
		Sequencing: &quiz.Sequencing{
			Steps:        []string{"A", "B", "C"},
			CorrectOrder: []int{0, 1, 2},
		},
	}
}

func bucketsQuestion() quiz.Question {
	return quiz.Question{
		Kind:   quiz.KindSorting,
		Prompt: "Sort the activities",
		Sorting: &quiz.Sorting{
			Activities:        []string{"x", "y", "z"},
			Categories:        []string{"P", "Q"},
			CorrectCategories: []int{0, 1, 0},
		},
	}
}

func pairsQuestion() quiz.Question {
	return quiz.Question{
		Kind:   quiz.KindMatching,
		Prompt: "Match",
		Matching: &quiz.Matching{
			Items:        []string{"a", "b"},
			Descriptions: []string{"1", "2"},
			CorrectPairs: []int{0, 1},
		},
	}
}

func testQuiz(questions ...quiz.Question) quiz.Quiz {
	return quiz.Quiz{
		ID:         "test",
		Title:      "Test quiz",
		Difficulty: quiz.DifficultyBeginner,
		Questions:  questions,
	}
}

func newSession(t *testing.T, q quiz.Quiz, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithShuffler(noShuffle{})}, opts...)
	s, err := New(q, opts...)
	require.NoError(t, err)
	return s
}

// answerCorrectly rearranges the active presentation into the answer key.
func answerCorrectly(t *testing.T, s *Session) {
	t.Helper()
	q, ok := s.Current()
	require.True(t, ok)
	switch p := s.Presentation().(type) {
	case *quiz.ChoiceState:
		for i, o := range p.Options {
			if o.Index == q.MultipleChoice.CorrectAnswer && i != 0 {
				require.True(t, s.Mutate(quiz.SelectOption{Position: i}))
			}
		}
	case *quiz.SortingState:
		for a, c := range q.Sorting.CorrectCategories {
			require.True(t, s.Mutate(quiz.MoveActivity{Activity: a, Bucket: c}))
		}
	case *quiz.SequencingState, *quiz.MatchingState:
		// Identity-shuffled fixtures are already in order.
	}
}

func TestNewRejectsMalformedQuiz(t *testing.T) {
	bad := capitalQuestion()
	bad.MultipleChoice.CorrectAnswer = 7

	_, err := New(testQuiz(bad))
	require.Error(t, err)

	var verr *quiz.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestNewStartsAwaitingFirstQuestion(t *testing.T) {
	s := newSession(t, testQuiz(capitalQuestion(), stepsQuestion()))

	assert.Equal(t, PhaseAwaitingAnswer, s.Phase())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, DefaultQuestionSeconds, s.Remaining())
	assert.False(t, s.Answered())
	assert.NotEmpty(t, s.ID())
	assert.NotNil(t, s.Presentation())

	_, ok := s.Marks()
	assert.False(t, ok, "marks are hidden until answered")
}

func TestQuizTimeLimitOverridesDefault(t *testing.T) {
	q := testQuiz(capitalQuestion())
	q.TimeLimit = 20
	s := newSession(t, q, WithQuestionSeconds(45))
	assert.Equal(t, 20, s.Remaining())

	s = newSession(t, testQuiz(capitalQuestion()), WithQuestionSeconds(45))
	assert.Equal(t, 45, s.Remaining())
}

// Scenario: multiple choice, learner drags Paris to the top.
func TestMultipleChoiceCorrect(t *testing.T) {
	var got []int
	s := newSession(t, testQuiz(capitalQuestion()),
		WithShuffler(reverseShuffle{}),
		WithOnComplete(func(score int) { got = append(got, score) }),
	)

	c := s.Presentation().(*quiz.ChoiceState)
	require.Equal(t, "Berlin", c.Options[0].Text)
	require.True(t, s.Mutate(quiz.SelectOption{Position: 1}))

	require.True(t, s.Submit())
	assert.Equal(t, 1, s.Score())
	assert.True(t, s.Answered())

	marks, ok := s.Marks()
	require.True(t, ok)
	assert.True(t, marks[1])

	require.True(t, s.Advance())
	assert.True(t, s.Completed())
	assert.Equal(t, []int{1}, got)
}

// Scenario: sequencing submitted as B, A, C.
func TestSequencingWrongOrder(t *testing.T) {
	s := newSession(t, testQuiz(stepsQuestion()))
	require.True(t, s.Mutate(quiz.MoveStep{From: 1, To: 0}))
	require.True(t, s.Submit())

	assert.Equal(t, 0, s.Score())
	marks, ok := s.Marks()
	require.True(t, ok)
	assert.Equal(t, map[int]bool{0: false, 1: false, 2: true}, marks)
}

func TestMarksAreCopies(t *testing.T) {
	s := newSession(t, testQuiz(stepsQuestion()))
	require.True(t, s.Submit())

	marks, ok := s.Marks()
	require.True(t, ok)
	for i := range marks {
		marks[i] = !marks[i]
	}
	res, _ := s.Result()
	res.Marks[0] = false

	again, _ := s.Marks()
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, again)
}

// Scenario: sorting with x left in Unsorted.
func TestSortingUnsortedActivityFails(t *testing.T) {
	s := newSession(t, testQuiz(bucketsQuestion()))
	require.True(t, s.Mutate(quiz.MoveActivity{Activity: 1, Bucket: 1}))
	require.True(t, s.Mutate(quiz.MoveActivity{Activity: 2, Bucket: 0}))
	require.True(t, s.Submit())

	assert.Equal(t, 0, s.Score())
	res, ok := s.Result()
	require.True(t, ok)
	assert.False(t, res.Correct)
}

// Scenario: the countdown expires and auto-submits exactly once.
func TestTimeoutAutoSubmitsOnce(t *testing.T) {
	var answers []QuestionResult
	s := newSession(t, testQuiz(bucketsQuestion(), capitalQuestion()),
		WithOnAnswer(func(r QuestionResult) { answers = append(answers, r) }),
	)
	gen := s.Generation()

	for i := 1; i < DefaultQuestionSeconds; i++ {
		require.False(t, s.Tick(gen), "tick %d", i)
	}
	assert.Equal(t, 1, s.Remaining())

	require.True(t, s.Tick(gen))
	assert.Equal(t, 0, s.Remaining())
	assert.True(t, s.Answered())
	assert.Equal(t, 0, s.Score())

	assert.False(t, s.Submit(), "manual submit after timeout is a no-op")
	assert.False(t, s.Tick(gen), "ticks after timeout are ignored")
	assert.Equal(t, 0, s.Score())

	require.Len(t, answers, 1)
	assert.True(t, answers[0].TimedOut)
	assert.False(t, answers[0].Correct)
}

// Scenario: a full three-question session.
func TestFullSessionReportsScoreOnce(t *testing.T) {
	calls := 0
	final := -1
	s := newSession(t, testQuiz(capitalQuestion(), stepsQuestion(), bucketsQuestion()),
		WithOnComplete(func(score int) {
			calls++
			final = score
		}),
	)

	for i := range 3 {
		require.Equal(t, i, s.Index())
		answerCorrectly(t, s)
		require.True(t, s.Submit())
		assert.Equal(t, 0, calls, "no completion before the final advance")
		require.True(t, s.Advance())
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, final)
	assert.True(t, s.Completed())
	assert.Equal(t, 3, s.Index())

	// Terminal: nothing changes and the callback never fires again.
	assert.False(t, s.Advance())
	assert.False(t, s.Submit())
	assert.False(t, s.Mutate(quiz.SelectOption{Position: 1}))
	assert.False(t, s.Tick(s.Generation()))
	assert.False(t, s.Cancel())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, s.Score())
}

func TestSubmitIsIdempotent(t *testing.T) {
	s := newSession(t, testQuiz(capitalQuestion(), stepsQuestion()))
	answerCorrectly(t, s)

	require.True(t, s.Submit())
	assert.False(t, s.Submit())
	assert.Equal(t, 1, s.Score())
	assert.Equal(t, PhaseAnswered, s.Phase())
}

func TestMutateIgnoredOnceAnswered(t *testing.T) {
	s := newSession(t, testQuiz(stepsQuestion()))
	require.True(t, s.Submit())

	before := s.Presentation().(*quiz.SequencingState).Steps[0]
	assert.False(t, s.Mutate(quiz.MoveStep{From: 0, To: 2}))
	assert.Equal(t, before, s.Presentation().(*quiz.SequencingState).Steps[0])
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	s := newSession(t, testQuiz(capitalQuestion(), stepsQuestion()))
	assert.False(t, s.Advance())
	assert.Equal(t, 0, s.Index())

	require.True(t, s.Submit())
	require.True(t, s.Advance())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, PhaseAwaitingAnswer, s.Phase())
}

func TestAdvanceResetsQuestionState(t *testing.T) {
	s := newSession(t, testQuiz(capitalQuestion(), stepsQuestion()))
	gen := s.Generation()
	for range 10 {
		s.Tick(gen)
	}
	require.True(t, s.Submit())
	require.True(t, s.Advance())

	assert.Equal(t, DefaultQuestionSeconds, s.Remaining())
	assert.False(t, s.Answered())
	assert.NotEqual(t, gen, s.Generation())
	_, ok := s.Presentation().(*quiz.SequencingState)
	assert.True(t, ok)

	// A tick armed for the previous question does nothing.
	assert.False(t, s.Tick(gen))
	assert.Equal(t, DefaultQuestionSeconds, s.Remaining())
}

func TestIndexNeverDecreases(t *testing.T) {
	s := newSession(t, testQuiz(capitalQuestion(), stepsQuestion(), pairsQuestion()))
	last := s.Index()
	ops := []func() bool{s.Submit, s.Advance, s.Advance, s.Submit, s.Submit, s.Advance, s.Submit, s.Advance, s.Advance}
	for _, op := range ops {
		op()
		require.GreaterOrEqual(t, s.Index(), last)
		last = s.Index()
	}
	assert.True(t, s.Completed())
}

func TestCancelSkipsCompletion(t *testing.T) {
	called := false
	s := newSession(t, testQuiz(capitalQuestion()), WithOnComplete(func(int) { called = true }))
	gen := s.Generation()

	require.True(t, s.Cancel())
	assert.Equal(t, PhaseCancelled, s.Phase())
	assert.False(t, s.Tick(gen))
	assert.False(t, s.Submit())
	assert.False(t, s.Advance())
	assert.False(t, called)
	assert.Nil(t, s.Presentation())

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	s := newSession(t, testQuiz(capitalQuestion(), stepsQuestion()), WithClock(clock), WithID("s-1"))

	now = now.Add(4 * time.Second)
	answerCorrectly(t, s)
	require.True(t, s.Submit())
	require.True(t, s.Advance())

	require.True(t, s.Mutate(quiz.MoveStep{From: 0, To: 2}))
	gen := s.Generation()
	for range DefaultQuestionSeconds {
		now = now.Add(time.Second)
		s.Tick(gen)
	}
	require.True(t, s.Advance())

	sum := s.Summary()
	assert.Equal(t, "s-1", sum.SessionID)
	assert.Equal(t, "test", sum.QuizID)
	assert.Equal(t, 1, sum.Score)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.TimedOut)
	assert.False(t, sum.Cancelled)
	assert.False(t, sum.Perfect())
	assert.InDelta(t, 0.5, sum.Accuracy(), 1e-9)
	assert.Equal(t, 64*time.Second, sum.Duration)

	require.Len(t, sum.Results, 2)
	assert.Equal(t, 4*time.Second, sum.Results[0].Elapsed)
	assert.True(t, sum.Results[1].TimedOut)
	assert.Equal(t, quiz.KindSequencing, sum.Results[1].Kind)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "awaiting-answer", PhaseAwaitingAnswer.String())
	assert.Equal(t, "completed", PhaseCompleted.String())
	assert.True(t, PhaseCancelled.Terminal())
	assert.False(t, PhaseAnswered.Terminal())
}
