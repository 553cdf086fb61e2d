// Package running implements the running-game overlay shown while an
// external game process owns the cabinet.
package running

import (
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
)

// GameState is the external process lifecycle as seen by the engine
type GameState int

const (
	None GameState = iota
	Starting
	Running
	Exiting
)

// String returns the string representation of the state
func (s GameState) String() string {
	switch s {
	case None:
		return "none"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Exiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Timing holds overlay fade durations
type Timing struct {
	Open  time.Duration
	Close time.Duration
}

// Machine fades the overlay in on launch and out on exit
type Machine struct {
	timing  Timing
	settled surface.SettleFunc

	tr    anim.Transition
	state GameState
	game  types.GameRef
	vis   float64
}

// New creates an overlay with no game running
func New(timing Timing, settled surface.SettleFunc) *Machine {
	return &Machine{timing: timing, settled: settled}
}

// Observe installs an overlay phase change callback
func (m *Machine) Observe(fn func(from, to anim.Phase)) { m.tr.Observe(fn) }

// State returns the game lifecycle state
func (m *Machine) State() GameState { return m.state }

// Game returns the running game
func (m *Machine) Game() types.GameRef { return m.game }

// Phase returns the overlay phase
func (m *Machine) Phase() anim.Phase { return m.tr.Phase() }

// Animating implements clock.Animator
func (m *Machine) Animating() bool { return m.tr.Phase().Animating() }

// PhaseStart implements clock.Animator
func (m *Machine) PhaseStart() time.Time { return m.tr.Start() }

// Starting moves None -> Starting and fades the overlay in
func (m *Machine) Starting(game types.GameRef, now time.Time) bool {
	if m.state != None {
		return false
	}
	m.state = Starting
	m.game = game
	m.tr.Begin(anim.Opening, now, m.timing.Open)
	return true
}

// Loaded moves Starting -> Running
func (m *Machine) Loaded() bool {
	if m.state != Starting {
		return false
	}
	m.state = Running
	return true
}

// Exited moves Starting/Running -> Exiting and fades the overlay out.
// The state returns to None when the fade completes.
func (m *Machine) Exited(now time.Time) bool {
	if m.state != Starting && m.state != Running {
		return false
	}
	m.state = Exiting
	if m.tr.Phase() == anim.Opening {
		m.tr.Settle()
	}
	m.tr.Begin(anim.Closing, now, m.timing.Close)
	return true
}

// Frozen reports whether background rendering can stop: the game has
// loaded and the overlay fully covers the screen.
func (m *Machine) Frozen() bool {
	return m.state == Running && m.tr.Phase() == anim.Steady
}

// Advance implements clock.Animator
func (m *Machine) Advance(elapsed time.Duration) bool {
	m.vis = m.tr.Visibility(elapsed, anim.Linear)
	if !m.tr.Done(elapsed) {
		return false
	}
	if m.tr.Settle() == anim.Idle {
		m.state = None
		m.game = types.GameRef{}
		m.vis = 0
	}
	return true
}

// OnComplete implements clock.Completer
func (m *Machine) OnComplete() {
	if m.settled != nil {
		m.settled(surface.Running, m.tr.Phase())
	}
}

// AppendVisuals implements surface.Drawable
func (m *Machine) AppendVisuals(dst []types.Visual) []types.Visual {
	if !m.tr.Phase().Visible() {
		return dst
	}
	text := "Loading " + m.game.DisplayName()
	if m.state == Running {
		text = m.game.DisplayName()
	}
	return append(dst, types.Visual{
		ID:    "running/overlay",
		Layer: types.LayerRunning,
		Text:  text,
		X:     0.5,
		Y:     0.5,
		Scale: 1,
		Alpha: m.vis,
	})
}
