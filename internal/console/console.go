// Package console plays a quiz as a line-oriented conversation over plain
// text streams. It suits terminals without full-screen support and scripted
// runs. The countdown is driven by a session.Runner.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/session"
)

// Options configures a console run.
type Options struct {
	QuestionSeconds int
	Tick            time.Duration
	Shuffler        quiz.Shuffler
	Tracker         *progress.Tracker
	Log             zerolog.Logger
}

// Result is how a console run ended.
type Result struct {
	Summary session.Summary
	Award   progress.Award
}

type console struct {
	ctx     context.Context
	out     io.Writer
	runner  *session.Runner
	tracker *progress.Tracker
	quiz    quiz.Quiz
	id      string
	result  Result
}

// Play runs q reading commands from in and writing to out. It returns when
// the quiz is completed, the learner quits, in is exhausted or ctx is done.
func Play(ctx context.Context, q quiz.Quiz, in io.Reader, out io.Writer, opts Options) (Result, error) {
	tracker := opts.Tracker
	if tracker == nil {
		tracker = progress.NewTracker(nil, opts.Log)
	}

	id := uuid.NewString()
	c := &console{ctx: ctx, out: out, tracker: tracker, quiz: q, id: id}
	sessOpts := []session.Option{
		session.WithID(id),
		session.WithLogger(opts.Log),
		session.WithOnAnswer(func(r session.QuestionResult) {
			tracker.Answered(ctx, id, q.ID, r)
		}),
		session.WithOnComplete(c.completed),
	}
	if opts.QuestionSeconds > 0 {
		sessOpts = append(sessOpts, session.WithQuestionSeconds(opts.QuestionSeconds))
	}
	if opts.Shuffler != nil {
		sessOpts = append(sessOpts, session.WithShuffler(opts.Shuffler))
	}
	s, err := session.New(q, sessOpts...)
	if err != nil {
		return Result{}, err
	}

	done := make(chan struct{})
	events := make(chan session.Event, 16)
	c.runner = session.NewRunner(s, opts.Tick, func(ev session.Event) {
		if ev.Kind != session.EventTimeout {
			select {
			case events <- ev:
			default:
			}
			return
		}
		select {
		case events <- ev:
		case <-done:
		}
	})
	defer func() {
		close(done)
		c.runner.Stop()
	}()

	lines := readLines(in, done)

	tracker.Started(ctx, id, q)
	c.printf("%s\n", q.Title)
	if q.Description != "" {
		c.printf("%s\n", q.Description)
	}
	c.printf("%d questions. Type help for commands.\n", q.Len())
	c.showQuestion()
	c.runner.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			return c.leave(), ctx.Err()

		case ev := <-events:
			c.handleEvent(ev)

		case line, ok := <-lines:
			if !ok {
				c.printf("\nInput closed, leaving the quiz.\n")
				return c.leave(), nil
			}
			if res, finished := c.handleLine(line); finished {
				return res, nil
			}
		}
	}
}

// readLines scans in on its own goroutine so commands and countdown events
// can be waited on together.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) handleEvent(ev session.Event) {
	var index int
	var answered bool
	c.runner.Do(func(s *session.Session) {
		index = s.Index()
		answered = s.Answered()
	})
	if ev.Index != index {
		return
	}

	switch ev.Kind {
	case session.EventTick:
		if !answered && (ev.Remaining == 10 || (ev.Remaining > 0 && ev.Remaining <= 3)) {
			c.printf("  %ds left\n", ev.Remaining)
		}
	case session.EventTimeout:
		c.printf("\nTime's up.\n")
		c.showFeedback()
	}
}

// handleLine runs one command. finished is true once the quiz is over.
func (c *console) handleLine(line string) (Result, bool) {
	fields := strings.Fields(strings.ToLower(line))

	var (
		phase session.Phase
		kind  quiz.Kind
	)
	c.runner.Do(func(s *session.Session) {
		phase = s.Phase()
		if p := s.Presentation(); p != nil {
			kind = p.Kind()
		}
	})

	if len(fields) == 0 {
		if phase == session.PhaseAnswered {
			return c.next()
		}
		return Result{}, false
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help", "h", "?":
		c.printf("%s", helpText(kind))
		return Result{}, false
	case "show", "s":
		c.showQuestion()
		return Result{}, false
	case "quit", "q":
		c.printf("Leaving the quiz.\n")
		return c.leave(), true
	case "next", "n":
		if phase != session.PhaseAnswered {
			c.printf("Submit an answer first.\n")
			return Result{}, false
		}
		return c.next()
	case "submit", "done":
		if !c.runner.Submit() {
			c.printf("Already answered. Type next to continue.\n")
			return Result{}, false
		}
		c.showFeedback()
		return Result{}, false
	}

	if phase != session.PhaseAwaitingAnswer {
		c.printf("Already answered. Type next to continue.\n")
		return Result{}, false
	}
	action, err := c.parseAction(kind, cmd, args)
	if err != nil {
		c.printf("%s\n", err)
		return Result{}, false
	}
	if !c.runner.Mutate(action) {
		c.printf("That move is not possible here.\n")
		return Result{}, false
	}
	c.showArrangement()
	return Result{}, false
}

// parseAction turns a command into a quiz action. Positions are 1-based as
// displayed.
func (c *console) parseAction(kind quiz.Kind, cmd string, args []string) (quiz.Action, error) {
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%q is not a position", a)
		}
		nums[i] = n - 1
	}
	want := func(n int) error {
		if len(nums) != n {
			return fmt.Errorf("%s takes %d numbers", cmd, n)
		}
		return nil
	}

	switch {
	case cmd == "swap" && kind == quiz.KindMatching:
		if err := want(2); err != nil {
			return nil, err
		}
		return quiz.SwapDescriptions{A: nums[0], B: nums[1]}, nil

	case cmd == "move" && kind == quiz.KindSequencing:
		if err := want(2); err != nil {
			return nil, err
		}
		return quiz.MoveStep{From: nums[0], To: nums[1]}, nil

	case cmd == "move" && kind == quiz.KindMultipleChoice:
		if err := want(2); err != nil {
			return nil, err
		}
		return quiz.MoveOption{From: nums[0], To: nums[1]}, nil

	case (cmd == "pick" || cmd == "top") && kind == quiz.KindMultipleChoice:
		if err := want(1); err != nil {
			return nil, err
		}
		return quiz.SelectOption{Position: nums[0]}, nil

	case cmd == "put" && kind == quiz.KindSorting:
		if err := want(2); err != nil {
			return nil, err
		}
		activity := -1
		c.runner.Do(func(s *session.Session) {
			if p, ok := s.Presentation().(*quiz.SortingState); ok {
				activity = activityAt(p, nums[0])
			}
		})
		if activity < 0 {
			return nil, fmt.Errorf("no activity %d", nums[0]+1)
		}
		return quiz.MoveActivity{Activity: activity, Bucket: nums[1]}, nil
	}
	return nil, fmt.Errorf("unknown command %q, type help for the list", cmd)
}

// activityAt returns the canonical index of the activity shown at pos when
// the buckets are listed in order.
func activityAt(p *quiz.SortingState, pos int) int {
	for _, b := range p.Buckets {
		if pos < len(b.Activities) {
			return b.Activities[pos].Index
		}
		pos -= len(b.Activities)
	}
	return -1
}

func (c *console) next() (Result, bool) {
	var completed bool
	if !c.runner.Advance() {
		return Result{}, false
	}
	c.runner.Do(func(s *session.Session) { completed = s.Completed() })
	if !completed {
		c.showQuestion()
		return Result{}, false
	}
	return c.finish(), true
}

// completed records the finished session. The runner calls it once, after
// the final Advance releases the session.
func (c *console) completed(int) {
	c.runner.Do(func(s *session.Session) { c.result.Summary = s.Summary() })
	c.result.Award = c.tracker.Completed(c.ctx, c.result.Summary)
}

func (c *console) finish() Result {
	c.printf("%s", renderSummary(c.result.Summary, c.result.Award))
	return c.result
}

// leave cancels an unfinished session and records it.
func (c *console) leave() Result {
	var sum session.Summary
	c.runner.Do(func(s *session.Session) {
		s.Cancel()
		sum = s.Summary()
	})
	if sum.Cancelled {
		c.tracker.Cancelled(c.ctx, sum)
	}
	return Result{Summary: sum}
}
