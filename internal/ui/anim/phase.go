package anim

import (
	"fmt"
	"time"
)

// Phase is the lifecycle stage of one animated surface
type Phase int

const (
	Idle Phase = iota
	Opening
	Steady
	Closing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Opening:
		return "opening"
	case Steady:
		return "steady"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// Animating reports whether the clock must tick this phase
func (p Phase) Animating() bool {
	return p == Opening || p == Closing
}

// Visible reports whether a surface in this phase is on screen
func (p Phase) Visible() bool {
	return p != Idle
}

// allowed lists the legal phase moves. Closing -> Opening is the one
// backwards move, used when a new request supersedes an outgoing surface.
var allowed = map[Phase][]Phase{
	Idle:    {Opening, Steady},
	Opening: {Steady, Closing, Idle},
	Steady:  {Closing, Idle},
	Closing: {Idle, Opening},
}

// CanMove reports whether from -> to is a legal phase transition
func CanMove(from, to Phase) bool {
	for _, p := range allowed[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Transition tracks one surface's phase with its start time and duration.
// The zero value is Idle.
type Transition struct {
	phase    Phase
	start    time.Time
	duration time.Duration
	observer func(from, to Phase)
}

// Observe installs a callback invoked on every phase change
func (t *Transition) Observe(fn func(from, to Phase)) {
	t.observer = fn
}

// Phase returns the current phase
func (t *Transition) Phase() Phase { return t.phase }

// Start returns when the current phase began
func (t *Transition) Start() time.Time { return t.start }

// Duration returns the current phase duration
func (t *Transition) Duration() time.Duration { return t.duration }

// Begin moves into phase p at now for duration d. Illegal moves panic:
// they are programming errors, not runtime conditions.
func (t *Transition) Begin(p Phase, now time.Time, d time.Duration) {
	if p != t.phase && !CanMove(t.phase, p) {
		panic(fmt.Sprintf("anim: illegal phase transition %s -> %s", t.phase, p))
	}
	from := t.phase
	t.phase = p
	t.start = now
	t.duration = d
	if from != p && t.observer != nil {
		t.observer(from, p)
	}
}

// Restart resets the phase start without changing phase
func (t *Transition) Restart(now time.Time) {
	t.start = now
}

// Settle completes the current phase: Opening becomes Steady and Closing
// becomes Idle. Other phases are unchanged.
func (t *Transition) Settle() Phase {
	switch t.phase {
	case Opening:
		t.Begin(Steady, t.start.Add(t.duration), 0)
	case Closing:
		t.Begin(Idle, t.start.Add(t.duration), 0)
	}
	return t.phase
}

// Reset drops straight to Idle
func (t *Transition) Reset() {
	if t.phase != Idle {
		t.Begin(Idle, t.start, 0)
	}
}

// Progress returns the fraction of the current phase completed after
// elapsed, clamped to [0,1]. Zero-length phases are complete.
func (t *Transition) Progress(elapsed time.Duration) float64 {
	if t.duration <= 0 {
		return 1
	}
	return Clamp(float64(elapsed) / float64(t.duration))
}

// Done reports whether elapsed covers the whole phase
func (t *Transition) Done(elapsed time.Duration) bool {
	return elapsed >= t.duration
}

// Visibility maps the phase and progress to a 0..1 "how open" value
// with the given easing applied.
func (t *Transition) Visibility(elapsed time.Duration, ease Easing) float64 {
	switch t.phase {
	case Opening:
		return ease(t.Progress(elapsed))
	case Steady:
		return 1
	case Closing:
		return 1 - ease(t.Progress(elapsed))
	default:
		return 0
	}
}
