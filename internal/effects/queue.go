package effects

import (
	"errors"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/resilience"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrUnknownEffect is returned by a client for an effect name it has no
// output for.
var ErrUnknownEffect = errors.New("unknown effect")

// DefaultInterval is the minimum spacing between device events
const DefaultInterval = 30 * time.Millisecond

// Event is one queued device event
type Event struct {
	Name  string
	Value int
	// Noop marks a neutralized OFF. It still consumes a drain slot.
	Noop bool
}

// Config configures the queue
type Config struct {
	Interval time.Duration
	Now      func() time.Time
}

// Queue dispatches named effect events to a device client at no more
// than one event per interval. Not safe for concurrent use; it lives on
// the UI thread.
type Queue struct {
	client   types.EffectClient
	breaker  *resilience.Breaker
	limiter  *rate.Limiter
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
	metrics  *monitoring.Metrics

	pending []Event
	states  map[string]int
}

// NewQueue creates a queue. A nil client drops everything.
func NewQueue(cfg Config, client types.EffectClient, log *zap.Logger, metrics *monitoring.Metrics) *Queue {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	if client == nil {
		client = Disabled{}
	}

	q := &Queue{
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(cfg.Interval), 1),
		interval: cfg.Interval,
		now:      cfg.Now,
		log:      log,
		metrics:  metrics,
		states:   make(map[string]int),
	}
	q.breaker = resilience.New("effects", resilience.Settings{
		Now: cfg.Now,
		OnStateChange: func(from, to resilience.State) {
			log.Warn("effects breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return q
}

// Pulse requests a short ON/OFF pulse of name. Repeated pulses before the
// OFF is dispatched coalesce into one pulse that ends after the last call.
func (q *Queue) Pulse(name string) {
	if !q.client.Ready() {
		q.metrics.RecordEffectDropped("not_ready")
		return
	}

	pending := false
	for i := range q.pending {
		e := &q.pending[i]
		if e.Noop || e.Name != name {
			continue
		}
		pending = true
		if e.Value == 0 {
			e.Noop = true
		}
	}

	if !pending {
		if len(q.pending) == 0 && q.limiter.AllowN(q.now(), 1) {
			q.send(Event{Name: name, Value: 1})
		} else {
			q.pending = append(q.pending, Event{Name: name, Value: 1})
		}
	}
	q.pending = append(q.pending, Event{Name: name, Value: 0})
	q.metrics.SetEffectsQueue(len(q.pending))
}

// Set drives a named state effect immediately. Repeating the current
// value is a no-op.
func (q *Queue) Set(name string, value int) {
	if value != 0 {
		value = 1
	}
	if cur, ok := q.states[name]; ok && cur == value {
		return
	}
	if !q.client.Ready() {
		q.metrics.RecordEffectDropped("not_ready")
		return
	}
	if q.send(Event{Name: name, Value: value}) {
		q.states[name] = value
	}
}

// State returns the last value sent for a state effect
func (q *Queue) State(name string) int {
	return q.states[name]
}

// Pending returns a copy of the undispatched events
func (q *Queue) Pending() []Event {
	return append([]Event(nil), q.pending...)
}

// Step dispatches the head of the queue if the interval allows it
func (q *Queue) Step(now time.Time) {
	if len(q.pending) == 0 {
		return
	}
	if !q.limiter.AllowN(now, 1) {
		return
	}

	e := q.pending[0]
	q.pending = q.pending[1:]
	if len(q.pending) == 0 {
		q.pending = nil
	}
	q.metrics.SetEffectsQueue(len(q.pending))

	if e.Noop {
		return
	}
	if !q.client.Ready() {
		q.metrics.RecordEffectDropped("not_ready")
		return
	}
	q.send(e)
}

// NextDeadline returns when the next queued event may be dispatched
func (q *Queue) NextDeadline() (time.Time, bool) {
	if len(q.pending) == 0 {
		return time.Time{}, false
	}
	now := q.now()
	tokens := q.limiter.TokensAt(now)
	if tokens >= 1 {
		return now, true
	}
	wait := time.Duration((1 - tokens) * float64(q.interval))
	return now.Add(wait + time.Millisecond), true
}

// Reset drops queued events and forgets state values
func (q *Queue) Reset() {
	q.pending = nil
	clear(q.states)
	q.metrics.SetEffectsQueue(0)
}

func (q *Queue) send(e Event) bool {
	unknown := false
	err := q.breaker.Do(func() error {
		err := q.client.SetNamedState(e.Name, e.Value)
		if errors.Is(err, ErrUnknownEffect) {
			unknown = true
			return nil
		}
		return err
	})

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		q.metrics.RecordEffectDropped("circuit_open")
		return false
	case err != nil:
		q.log.Warn("effect dispatch failed", zap.String("name", e.Name), zap.Int("value", e.Value), zap.Error(err))
		q.metrics.RecordEffectDropped("error")
		return false
	case unknown:
		q.log.Debug("no output for effect", zap.String("name", e.Name))
		q.metrics.RecordEffectDropped("unknown")
		return true
	}

	kind := "off"
	if e.Value != 0 {
		kind = "on"
	}
	q.metrics.RecordEffectSent(kind)
	return true
}
