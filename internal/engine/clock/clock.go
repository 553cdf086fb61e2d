package clock

import (
	"time"

	"go.uber.org/zap"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
)

// DefaultInterval is the tick period when none is configured
const DefaultInterval = 8 * time.Millisecond

// Animator is a surface state machine driven by the clock
type Animator interface {
	// Animating reports whether the machine is Opening or Closing
	Animating() bool
	// PhaseStart returns when the current phase began
	PhaseStart() time.Time
	// Advance moves the machine forward to elapsed time since PhaseStart
	// and reports whether it has stopped animating.
	Advance(elapsed time.Duration) bool
}

// Completer is implemented by animators that want a callback after the
// Advance that finished their phase.
type Completer interface {
	OnComplete()
}

// Clock is the single periodic tick shared by every animated surface. It is
// armed on demand and disarms itself once nothing is animating.
type Clock struct {
	interval  time.Duration
	animators []Animator
	log       *zap.Logger
	metrics   *monitoring.Metrics

	armed  bool
	next   time.Time
	ticks  uint64
	active int
}

// New creates a disarmed clock. metrics may be nil.
func New(interval time.Duration, log *zap.Logger, metrics *monitoring.Metrics) *Clock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Clock{
		interval: interval,
		log:      log,
		metrics:  metrics,
	}
}

// Register adds an animator. Animators are ticked in registration order.
func (c *Clock) Register(a Animator) {
	c.animators = append(c.animators, a)
}

// StartIfNeeded arms the clock. Arming an armed clock is a no-op.
func (c *Clock) StartIfNeeded(now time.Time) {
	if c.armed {
		return
	}
	c.armed = true
	c.next = now
	c.metrics.SetClockArmed(true)
	c.log.Debug("clock armed")
}

// Armed reports whether the tick source is active
func (c *Clock) Armed() bool {
	return c.armed
}

// Ticks returns the number of ticks delivered so far
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Active returns how many animators were animating after the last tick
func (c *Clock) Active() int {
	return c.active
}

// Interval returns the tick period
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Step ticks the clock if it is armed and due
func (c *Clock) Step(now time.Time) {
	if !c.armed || now.Before(c.next) {
		return
	}
	c.Tick(now)
}

// Tick advances every animating machine once and disarms the clock when
// none remain animating. Machines started by completion callbacks during
// the tick keep the clock armed.
func (c *Clock) Tick(now time.Time) {
	c.ticks++
	c.metrics.RecordClockTick()

	for _, a := range c.animators {
		if !a.Animating() {
			continue
		}
		if done := a.Advance(now.Sub(a.PhaseStart())); done {
			if comp, ok := a.(Completer); ok {
				comp.OnComplete()
			}
		}
	}

	c.active = 0
	for _, a := range c.animators {
		if a.Animating() {
			c.active++
		}
	}

	if c.active == 0 {
		c.armed = false
		c.metrics.SetClockArmed(false)
		c.log.Debug("clock disarmed", zap.Uint64("ticks", c.ticks))
		return
	}
	c.armed = true
	c.next = now.Add(c.interval)
}

// NextDeadline returns the next tick time while armed
func (c *Clock) NextDeadline() (time.Time, bool) {
	return c.next, c.armed
}
