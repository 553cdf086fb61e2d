package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"go.uber.org/zap"
)

var ErrStopped = errors.New("loop stopped")

// idleWait bounds how long Run sleeps when no stage has a deadline.
const idleWait = time.Second

// Stage is one timed step of the loop
type Stage interface {
	Step(now time.Time)
	// NextDeadline reports when the stage next needs a Step
	NextDeadline() (time.Time, bool)
}

// Stages are run by Step in field order after input and posted messages.
// Nil stages are skipped.
type Stages struct {
	Input   func(types.Input)
	Clock   Stage
	Tasks   Stage
	Timers  Stage
	Effects Stage
	Frame   Stage
}

// Config configures the loop
type Config struct {
	QueueSize int
	Now       func() time.Time
}

// Loop is the UI thread: one goroutine (or the host's frame callback)
// calls Step; every other goroutine talks to it through Post.
type Loop struct {
	stages  Stages
	now     func() time.Time
	log     *zap.Logger
	metrics *monitoring.Metrics

	inputs chan types.Input
	posted chan func()
	wake   chan struct{}

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a loop
func New(cfg Config, stages Stages, log *zap.Logger, metrics *monitoring.Metrics) *Loop {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		stages:  stages,
		now:     cfg.Now,
		log:     log,
		metrics: metrics,
		inputs:  make(chan types.Input, cfg.QueueSize),
		posted:  make(chan func(), cfg.QueueSize),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Post queues fn to run on the UI thread during the next Step. It blocks
// while the queue is full and fails once the loop is stopped. Never call
// Post from the UI thread with a full queue.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	select {
	case l.posted <- fn:
		l.metrics.RecordPost("message")
		l.signal()
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// PostInput queues an input event. Input is dropped when the queue is full.
func (l *Loop) PostInput(in types.Input) bool {
	select {
	case l.inputs <- in:
		l.metrics.RecordPost("input")
		l.signal()
		return true
	default:
		l.log.Warn("input queue full, dropping event",
			zap.String("key", in.Key),
			zap.Stringer("kind", in.Kind))
		return false
	}
}

// Call runs fn on the UI thread and waits for it to finish
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Step runs one iteration in fixed order: input, posted messages, clock,
// script tasks, controller timers, device effects, frame.
func (l *Loop) Step(now time.Time) {
	start := time.Now()

	// Only drain what was queued on entry so handlers that post more
	// work can't starve the rest of the step.
	for n := len(l.inputs); n > 0; n-- {
		in := <-l.inputs
		if l.stages.Input != nil {
			l.stages.Input(in)
		}
	}
	for n := len(l.posted); n > 0; n-- {
		fn := <-l.posted
		fn()
	}

	for _, stage := range l.ordered() {
		stage.Step(now)
	}

	animating := 0
	if c, ok := l.stages.Clock.(interface{ Active() int }); ok {
		animating = c.Active()
	}
	l.metrics.RecordStep(time.Since(start), animating)
}

func (l *Loop) ordered() []Stage {
	stages := make([]Stage, 0, 5)
	for _, s := range []Stage{l.stages.Clock, l.stages.Tasks, l.stages.Timers, l.stages.Effects, l.stages.Frame} {
		if s != nil {
			stages = append(stages, s)
		}
	}
	return stages
}

// NextDeadline returns the earliest deadline across stages
func (l *Loop) NextDeadline() (time.Time, bool) {
	var (
		next  time.Time
		found bool
	)
	for _, stage := range []Stage{l.stages.Clock, l.stages.Tasks, l.stages.Timers, l.stages.Effects} {
		if stage == nil {
			continue
		}
		if d, ok := stage.NextDeadline(); ok && (!found || d.Before(next)) {
			next, found = d, true
		}
	}
	return next, found
}

// Run steps the loop until ctx is canceled, sleeping on one timer set to
// the earliest stage deadline or until a message is posted.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		now := l.now()
		l.Step(now)

		wait := idleWait
		if next, ok := l.NextDeadline(); ok {
			wait = max(next.Sub(now), 0)
		}
		if len(l.inputs) > 0 || len(l.posted) > 0 {
			wait = 0
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-l.wake:
		}
	}
}

// Stop releases goroutines blocked in Post or Call
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Done is closed when the loop stops
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
