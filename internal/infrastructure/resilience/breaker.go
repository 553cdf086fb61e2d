package resilience

import (
	"errors"
	"time"
)

// ErrCircuitOpen is returned by Do while the device is considered dead
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker state
type State int

const (
	StateClosed State = iota
	StateProbing
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateProbing:
		return "probing"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a Breaker
type Settings struct {
	// Threshold is the number of consecutive failures that opens the
	// circuit
	Threshold int
	// Cooldown is how long the circuit stays open before one probe call
	// is let through
	Cooldown time.Duration
	// OnStateChange is called after every state change
	OnStateChange func(from, to State)
	// Now supplies the current time; the effects queue passes the UI clock
	Now func() time.Time
}

// Breaker guards calls to a feedback device so a missing or wedged device
// stops costing a call per signal. It is not safe for concurrent use:
// the effects queue only calls it from the UI thread.
type Breaker struct {
	name     string
	settings Settings

	state    State
	failures int
	openedAt time.Time
	trips    int
}

// New creates a breaker. Zero settings get a threshold of 5 and a 10s
// cooldown.
func New(name string, settings Settings) *Breaker {
	if settings.Threshold <= 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 10 * time.Second
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the breaker name
func (b *Breaker) Name() string { return b.name }

// State returns the current state, moving Open to Probing once the
// cooldown has elapsed
func (b *Breaker) State() State {
	b.refresh()
	return b.state
}

// Failures returns the current run of consecutive failures
func (b *Breaker) Failures() int { return b.failures }

// Trips returns how many times the circuit has opened
func (b *Breaker) Trips() int { return b.trips }

// Allow reports whether Do would call through right now
func (b *Breaker) Allow() bool {
	return b.State() != StateOpen
}

// Do runs call unless the circuit is open. A panic in call counts as a
// failure and is re-raised.
func (b *Breaker) Do(call func() error) (err error) {
	if !b.Allow() {
		return ErrCircuitOpen
	}

	ok := false
	defer func() {
		b.record(ok)
	}()

	err = call()
	ok = err == nil
	return err
}

func (b *Breaker) refresh() {
	if b.state == StateOpen && !b.settings.Now().Before(b.openedAt.Add(b.settings.Cooldown)) {
		b.setState(StateProbing)
	}
}

func (b *Breaker) record(ok bool) {
	if ok {
		b.failures = 0
		if b.state == StateProbing {
			b.setState(StateClosed)
		}
		return
	}

	b.failures++
	if b.state == StateProbing || b.failures >= b.settings.Threshold {
		b.openedAt = b.settings.Now()
		b.trips++
		b.setState(StateOpen)
	}
}

func (b *Breaker) setState(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(from, to)
	}
}
