package session

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/quizline/internal/quiz"
)

// EventKind classifies a Runner notification.
type EventKind int

const (
	EventTick      EventKind = iota // Countdown decremented
	EventTimeout                    // Countdown reached zero and the answer was submitted
	EventCompleted                  // Session completed
)

// Event is delivered to the Runner's observer.
type Event struct {
	Kind      EventKind
	Index     int
	Remaining int
	Score     int
}

// Runner drives a Session for hosts without their own event loop. Every
// operation is serialized behind one mutex and the countdown of the active
// question runs on a single ticker goroutine that is stopped as soon as the
// question leaves the awaiting phase.
type Runner struct {
	mu       sync.Mutex
	s        *Session
	interval time.Duration
	notify   func(Event)

	onAnswer   func(QuestionResult)
	onComplete func(score int)
	answered   []QuestionResult

	// completedFired guards the completion callback.
	completedFired bool

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

// NewRunner wraps s. notify may be nil; it is called without the lock held,
// from the timer goroutine for ticks and timeouts.
//
// The session's answer and completion callbacks are taken over by the Runner
// and also run without the lock held, so they may call back into it.
func NewRunner(s *Session, interval time.Duration, notify func(Event)) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	if notify == nil {
		notify = func(Event) {}
	}
	r := &Runner{
		s:          s,
		interval:   interval,
		notify:     notify,
		onAnswer:   s.onAnswer,
		onComplete: s.onComplete,
	}
	s.onComplete = nil
	s.onAnswer = func(res QuestionResult) { r.answered = append(r.answered, res) }
	return r
}

// takeAnswered drains results graded under the lock. Callers hold r.mu.
func (r *Runner) takeAnswered() []QuestionResult {
	out := r.answered
	r.answered = nil
	return out
}

func (r *Runner) reportAnswered(results []QuestionResult) {
	if r.onAnswer == nil {
		return
	}
	for _, res := range results {
		r.onAnswer(res)
	}
}

// Start arms the countdown for the current question. The countdown also stops
// when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx != nil || r.stopped {
		return
	}
	r.ctx = ctx
	if r.s.Phase() == PhaseAwaitingAnswer {
		r.arm()
	}
}

// arm starts the ticker for the current question. Callers hold r.mu.
func (r *Runner) arm() {
	r.disarm()
	ctx, cancel := context.WithCancel(r.ctx)
	r.cancel = cancel
	gen := r.s.Generation()

	r.wg.Add(1)
	go r.countdown(ctx, gen)
}

// disarm stops the active ticker without waiting for it. Callers hold r.mu.
func (r *Runner) disarm() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Runner) countdown(ctx context.Context, gen uint64) {
	defer r.wg.Done()

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		r.mu.Lock()
		if ctx.Err() != nil {
			r.mu.Unlock()
			return
		}
		timedOut := r.s.Tick(gen)
		ev := Event{Kind: EventTick, Index: r.s.Index(), Remaining: r.s.Remaining(), Score: r.s.Score()}
		if timedOut {
			ev.Kind = EventTimeout
			r.disarm()
		}
		answered := r.takeAnswered()
		r.mu.Unlock()

		r.reportAnswered(answered)
		r.notify(ev)
		if timedOut {
			return
		}
	}
}

// Do runs fn with exclusive access to the session. fn must not retain s.
// Callbacks fired by fn run after the lock is released.
func (r *Runner) Do(fn func(s *Session)) {
	r.mu.Lock()
	fn(r.s)
	answered := r.takeAnswered()
	score, due := r.takeCompleted()
	r.mu.Unlock()

	r.reportAnswered(answered)
	r.reportCompleted(score, due)
}

// Mutate applies a learner interaction.
func (r *Runner) Mutate(a quiz.Action) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.Mutate(a)
}

// Submit grades the current question and stops its countdown.
func (r *Runner) Submit() bool {
	r.mu.Lock()
	if !r.s.Submit() {
		r.mu.Unlock()
		return false
	}
	r.disarm()
	answered := r.takeAnswered()
	r.mu.Unlock()

	r.reportAnswered(answered)
	return true
}

// Advance moves to the next question, arming a fresh countdown, or completes
// the session.
func (r *Runner) Advance() bool {
	r.mu.Lock()
	if !r.s.Advance() {
		r.mu.Unlock()
		return false
	}
	r.disarm()
	completed := r.s.Completed()
	if !completed && r.ctx != nil && !r.stopped {
		r.arm()
	}
	ev := Event{Kind: EventCompleted, Index: r.s.Index(), Score: r.s.Score()}
	score, due := r.takeCompleted()
	r.mu.Unlock()

	if completed {
		r.reportCompleted(score, due)
		r.notify(ev)
	}
	return true
}

// takeCompleted reports whether the completion callback is due, at most once
// per session, with the final score. Callers hold r.mu.
func (r *Runner) takeCompleted() (int, bool) {
	if !r.s.Completed() || r.completedFired {
		return 0, false
	}
	r.completedFired = true
	return r.s.Score(), true
}

func (r *Runner) reportCompleted(score int, due bool) {
	if due && r.onComplete != nil {
		r.onComplete(score)
	}
}

// Stop cancels an unfinished session and waits for the countdown goroutine
// to exit. It is safe to call more than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.disarm()
	r.s.Cancel()
	r.mu.Unlock()

	r.wg.Wait()
}
