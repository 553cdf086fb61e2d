// Package playfield implements the playfield crossfade: when the selection
// changes, the incoming game's media fades in over the outgoing media.
//
// The machine waits for the incoming media after Request. If it hasn't
// arrived within the load timeout, the crossfade goes ahead with a title
// card so the transition never stalls. Media that turns up later
// crossfades in over the title card.
package playfield

import (
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
)

// Timing holds crossfade timings
type Timing struct {
	Crossfade   time.Duration
	LoadTimeout time.Duration
}

// Machine crossfades between playfield media
type Machine struct {
	timing   Timing
	timedOut func(game types.GameRef)
	settled  surface.SettleFunc

	tr       anim.Transition
	game     types.GameRef
	current  types.Media
	incoming types.Media
	waiting  bool
	fade     float64
	seq      uint64
}

// New creates a machine showing nothing
func New(timing Timing, settled surface.SettleFunc, timedOut func(types.GameRef)) *Machine {
	return &Machine{timing: timing, settled: settled, timedOut: timedOut}
}

// Phase returns Opening while a crossfade is pending or running
func (m *Machine) Phase() anim.Phase { return m.tr.Phase() }

// Animating implements clock.Animator
func (m *Machine) Animating() bool { return m.tr.Phase().Animating() }

// PhaseStart implements clock.Animator
func (m *Machine) PhaseStart() time.Time { return m.tr.Start() }

// Game returns the game the playfield is showing or fading to
func (m *Machine) Game() types.GameRef { return m.game }

// Current returns the fully shown media
func (m *Machine) Current() types.Media { return m.current }

// Waiting reports whether the crossfade is held for media
func (m *Machine) Waiting() bool { return m.waiting }

// Request starts waiting for game's media. It returns a sequence number
// that SetMedia callers can compare against Seq to drop stale results.
func (m *Machine) Request(game types.GameRef, now time.Time) uint64 {
	m.seq++
	m.game = game
	m.incoming = types.Media{}
	m.waiting = true
	m.fade = 0
	if m.tr.Phase() == anim.Steady {
		m.tr.Begin(anim.Closing, now, m.timing.Crossfade)
		// Closing -> Opening marks the supersede; the outgoing media
		// stays on screen until the incoming fade completes.
	}
	m.tr.Begin(anim.Opening, now, m.timing.Crossfade)
	return m.seq
}

// Seq returns the latest request number
func (m *Machine) Seq() uint64 { return m.seq }

// SetMedia implements surface.MediaHost
func (m *Machine) SetMedia(media types.Media, now time.Time) {
	switch m.tr.Phase() {
	case anim.Opening:
		m.incoming = media
		if m.waiting {
			m.waiting = false
			m.tr.Restart(now)
		}
	case anim.Steady:
		// late arrival after a timeout: fade over the title card
		if m.current.Placeholder && !media.Placeholder {
			m.tr.Begin(anim.Closing, now, m.timing.Crossfade)
			m.tr.Begin(anim.Opening, now, m.timing.Crossfade)
			m.incoming = media
			m.fade = 0
		}
	}
}

// Advance implements clock.Animator
func (m *Machine) Advance(elapsed time.Duration) bool {
	if m.tr.Phase() != anim.Opening {
		return true
	}
	if m.waiting {
		if elapsed < m.timing.LoadTimeout {
			return false
		}
		m.waiting = false
		m.incoming = types.Media{Kind: types.MediaImage, Placeholder: true}
		m.tr.Restart(m.tr.Start().Add(elapsed))
		if m.timedOut != nil {
			m.timedOut(m.game)
		}
		return false
	}

	m.fade = m.tr.Progress(elapsed)
	if !m.tr.Done(elapsed) {
		return false
	}
	m.current = m.incoming
	m.incoming = types.Media{}
	m.fade = 0
	m.tr.Settle()
	return true
}

// OnComplete implements clock.Completer
func (m *Machine) OnComplete() {
	if m.settled != nil {
		m.settled(surface.Playfield, m.tr.Phase())
	}
}

// AppendVisuals implements surface.Drawable
func (m *Machine) AppendVisuals(dst []types.Visual) []types.Visual {
	if !m.current.IsZero() {
		dst = append(dst, m.visual("playfield/current", m.current, 1))
	}
	if m.tr.Phase() == anim.Opening && !m.waiting && !m.incoming.IsZero() {
		dst = append(dst, m.visual("playfield/incoming", m.incoming, m.fade))
	}
	return dst
}

func (m *Machine) visual(id string, media types.Media, alpha float64) types.Visual {
	v := types.Visual{
		ID:    id,
		Layer: types.LayerPlayfield,
		Media: media,
		X:     0.5,
		Y:     0.5,
		Scale: 1,
		Alpha: alpha,
	}
	if media.Placeholder && media.Image == nil {
		v.Text = m.game.DisplayName()
	}
	return v
}
