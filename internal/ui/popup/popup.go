package popup

import (
	"fmt"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/id"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
)

// Timing holds popup animation durations
type Timing struct {
	Open        time.Duration
	Close       time.Duration
	Fast        time.Duration
	LoadTimeout time.Duration
}

// Machine animates at most one popup with a linear fade. A popup waiting
// on media holds at zero opacity until the media arrives or LoadTimeout
// passes, then fades in.
type Machine struct {
	timing   Timing
	settled  surface.SettleFunc
	timedOut func(desc Descriptor)

	tr      anim.Transition
	desc    Descriptor
	id      id.SurfaceID
	media   types.Media
	waiting bool
	vis     float64
}

// New creates an idle popup machine. timedOut may be nil.
func New(timing Timing, settled surface.SettleFunc, timedOut func(Descriptor)) *Machine {
	return &Machine{timing: timing, settled: settled, timedOut: timedOut}
}

// Observe installs a phase change callback
func (m *Machine) Observe(fn func(from, to anim.Phase)) { m.tr.Observe(fn) }

// Phase returns the current phase
func (m *Machine) Phase() anim.Phase { return m.tr.Phase() }

// Animating implements clock.Animator
func (m *Machine) Animating() bool { return m.tr.Phase().Animating() }

// PhaseStart implements clock.Animator
func (m *Machine) PhaseStart() time.Time { return m.tr.Start() }

// Visible reports whether a popup is on screen
func (m *Machine) Visible() bool { return m.tr.Phase().Visible() }

// Current returns the shown popup
func (m *Machine) Current() (Descriptor, bool) { return m.desc, m.Visible() }

// ID returns the shown popup instance id
func (m *Machine) ID() id.SurfaceID { return m.id }

// Waiting reports whether the open animation is held for media
func (m *Machine) Waiting() bool { return m.waiting }

// BeginOpen installs desc and starts its fade in. The machine must be
// Idle or Closing.
func (m *Machine) BeginOpen(desc Descriptor, now time.Time, fast bool) id.SurfaceID {
	if p := m.tr.Phase(); p == anim.Opening || p == anim.Steady {
		panic(fmt.Sprintf("popup: open %q while %q is %s", desc.Key(), m.desc.Key(), p))
	}

	m.desc = desc
	m.id = id.NewPopupID()
	m.media = types.Media{}
	m.waiting = len(desc.MediaKinds) > 0

	d := m.timing.Open
	if fast {
		d = m.timing.Fast
	}
	m.tr.Begin(anim.Opening, now, d)
	m.vis = 0
	return m.id
}

// Replace swaps the shown popup's content in place without animation
func (m *Machine) Replace(desc Descriptor) id.SurfaceID {
	m.desc = desc
	m.id = id.NewPopupID()
	if len(desc.MediaKinds) == 0 {
		m.media = types.Media{}
	}
	return m.id
}

// SetMedia implements surface.MediaHost. Media arriving while the open
// animation is held releases it.
func (m *Machine) SetMedia(media types.Media, now time.Time) {
	if !m.Visible() {
		return
	}
	m.media = media
	if m.waiting {
		m.waiting = false
		m.tr.Restart(now)
	}
}

// BeginClose starts the fade out, snapping an Opening popup to Steady
func (m *Machine) BeginClose(now time.Time, fast bool) {
	switch m.tr.Phase() {
	case anim.Idle, anim.Closing:
		return
	case anim.Opening:
		m.tr.Settle()
	}
	m.waiting = false

	d := m.timing.Close
	if fast {
		d = m.timing.Fast
	}
	m.tr.Begin(anim.Closing, now, d)
	m.vis = 1
}

// Drop removes the popup immediately
func (m *Machine) Drop() {
	if m.tr.Phase() == anim.Opening {
		m.tr.Settle()
	}
	m.tr.Reset()
	m.clear()
}

func (m *Machine) clear() {
	m.desc = Descriptor{}
	m.id = ""
	m.media = types.Media{}
	m.waiting = false
	m.vis = 0
}

// Advance implements clock.Animator
func (m *Machine) Advance(elapsed time.Duration) bool {
	if m.waiting {
		if elapsed < m.timing.LoadTimeout {
			m.vis = 0
			return false
		}
		m.waiting = false
		m.tr.Restart(m.tr.Start().Add(elapsed))
		m.vis = 0
		if m.timedOut != nil {
			m.timedOut(m.desc)
		}
		return false
	}

	m.vis = m.tr.Visibility(elapsed, anim.Linear)
	if !m.tr.Done(elapsed) {
		return false
	}
	if m.tr.Settle() == anim.Idle {
		m.clear()
	}
	return true
}

// OnComplete implements clock.Completer
func (m *Machine) OnComplete() {
	if m.settled != nil {
		m.settled(surface.Popup, m.tr.Phase())
	}
}

// HandleCommand implements surface.InputTarget. Rating and volume popups
// adjust their value; everything else is left to the controller.
func (m *Machine) HandleCommand(cmd types.Command) bool {
	if !m.Visible() {
		return false
	}
	switch m.desc.Type {
	case TypeRating, TypeVolume:
	default:
		return false
	}

	switch cmd {
	case types.CmdNext:
		m.desc.Value++
	case types.CmdPrev:
		m.desc.Value--
	default:
		return false
	}

	limit := 100
	if m.desc.Type == TypeRating {
		limit = 5
	}
	m.desc.Value = max(0, min(limit, m.desc.Value))
	return true
}

// AppendVisuals implements surface.Drawable
func (m *Machine) AppendVisuals(dst []types.Visual) []types.Visual {
	if !m.Visible() {
		return dst
	}

	dst = append(dst, types.Visual{
		ID:    string(m.id) + "/frame",
		Layer: types.LayerPopup,
		Media: m.media,
		Text:  m.text(),
		X:     0.5,
		Y:     0.5,
		Scale: 1,
		Alpha: m.vis,
	})
	return dst
}

func (m *Machine) text() string {
	switch m.desc.Type {
	case TypeError:
		return m.desc.Message
	case TypeRating:
		return fmt.Sprintf("%s\nRating: %d/5", m.desc.Game.DisplayName(), m.desc.Value)
	case TypeVolume:
		return fmt.Sprintf("%s\nVolume: %d%%", m.desc.Game.DisplayName(), m.desc.Value)
	case TypeInfo:
		text := m.desc.Game.DisplayName()
		for _, line := range m.desc.Lines {
			text += "\n" + line
		}
		return text
	default:
		if m.desc.Message != "" {
			return m.desc.Message
		}
		return ""
	}
}
