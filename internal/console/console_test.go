package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/store"
)

type noShuffle struct{}

func (noShuffle) Shuffle(int, func(i, j int)) {}

func testQuiz() quiz.Quiz {
	return quiz.Quiz{
		ID:         "basics",
		Title:      "Basics",
		Difficulty: quiz.DifficultyBeginner,
		Questions: []quiz.Question{
			{
				Kind:   quiz.KindMultipleChoice,
				Prompt: "Capital of France?",
				MultipleChoice: &quiz.MultipleChoice{
					Options:       []string{"London", "Paris", "Berlin"},
					CorrectAnswer: 1,
				},
				Explanation: "Paris has been the capital since 987.",
			},
			{
				Kind:   quiz.KindSorting,
				Prompt: "Even or odd?",
				Sorting: &quiz.Sorting{
					Activities:        []string{"2", "3"},
					Categories:        []string{"Even", "Odd"},
					CorrectCategories: []int{0, 1},
				},
			},
		},
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func play(t *testing.T, input string, opts Options) (Result, string) {
	t.Helper()
	if opts.Tick == 0 {
		opts.Tick = time.Hour
	}
	opts.Shuffler = noShuffle{}
	opts.Log = zerolog.Nop()

	var out bytes.Buffer
	res, err := Play(context.Background(), testQuiz(), strings.NewReader(input), &out, opts)
	require.NoError(t, err)
	return res, out.String()
}

func TestPlayToCompletion(t *testing.T) {
	input := strings.Join([]string{
		"pick 2",
		"submit",
		"next",
		"put 1 1",
		"put 2 2",
		"submit",
		"",
	}, "\n") + "\n"

	res, out := play(t, input, Options{})

	assert.Equal(t, 2, res.Summary.Score)
	assert.Equal(t, 2, res.Summary.Total)
	assert.False(t, res.Summary.Cancelled)
	assert.True(t, res.Award.Perfect)
	assert.Contains(t, out, "Question 1/2")
	assert.Contains(t, out, " > 1. Paris")
	assert.Contains(t, out, "Paris has been the capital since 987.")
	assert.Contains(t, out, "Score: 2/2")
	assert.Contains(t, out, "Perfect run!")
}

func TestPlayRejectsBadCommands(t *testing.T) {
	input := strings.Join([]string{
		"swap 1 2",
		"pick 9",
		"pick x",
		"next",
		"submit",
		"pick 1",
		"quit",
	}, "\n")

	res, out := play(t, input, Options{})

	assert.True(t, res.Summary.Cancelled)
	assert.Contains(t, out, `unknown command "swap"`)
	assert.Contains(t, out, "That move is not possible here.")
	assert.Contains(t, out, `"x" is not a position`)
	assert.Contains(t, out, "Submit an answer first.")
	assert.Contains(t, out, "Already answered.")
	assert.Contains(t, out, "Leaving the quiz.")
}

func TestPlayInputClosed(t *testing.T) {
	res, out := play(t, "help\n", Options{})
	assert.True(t, res.Summary.Cancelled)
	assert.Contains(t, out, "pick N")
	assert.Contains(t, out, "Input closed")
}

func TestPlayTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out syncBuffer
	done := make(chan Result, 1)
	go func() {
		res, _ := Play(context.Background(), testQuiz(), pr, &out, Options{
			QuestionSeconds: 1,
			Tick:            5 * time.Millisecond,
			Shuffler:        noShuffle{},
			Log:             zerolog.Nop(),
		})
		done <- res
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Time's up.")
	}, 2*time.Second, 5*time.Millisecond)

	_, err := pw.Write([]byte("quit\n"))
	require.NoError(t, err)

	select {
	case res := <-done:
		require.Len(t, res.Summary.Results, 1)
		assert.True(t, res.Summary.Results[0].TimedOut)
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not return")
	}
}

func TestPlayRecordsProgress(t *testing.T) {
	st, err := store.Open("file:console_records?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	tracker := progress.NewTracker(st.EventRepo(), zerolog.Nop())

	play(t, "pick 2\nsubmit\nnext\nput 1 2\nsubmit\nnext\n", Options{Tracker: tracker})

	results, err := tracker.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "basics", results[0].QuizID)
	assert.Equal(t, 1, results[0].Correct)
}

func TestActivityAt(t *testing.T) {
	p := &quiz.SortingState{Buckets: []quiz.Bucket{
		{Label: "A", Activities: []quiz.Element{{Index: 3}}},
		{Label: "B"},
		{Label: quiz.UnsortedLabel, Category: quiz.UnsortedCategory, Activities: []quiz.Element{{Index: 0}, {Index: 1}}},
	}}
	assert.Equal(t, 3, activityAt(p, 0))
	assert.Equal(t, 1, activityAt(p, 2))
	assert.Equal(t, -1, activityAt(p, 3))
}
