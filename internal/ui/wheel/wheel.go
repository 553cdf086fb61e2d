package wheel

import (
	"fmt"
	"math"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
)

// HalfWindow is the number of slots on each side of the selection
const HalfWindow = 2

// State is the wheel's animation state
type State int

const (
	Rest State = iota
	Switching
	Reseeding
	FadingOut
	Hidden
	FadingIn
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Rest:
		return "rest"
	case Switching:
		return "switching"
	case Reseeding:
		return "reseeding"
	case FadingOut:
		return "fading-out"
	case Hidden:
		return "hidden"
	case FadingIn:
		return "fading-in"
	default:
		return "unknown"
	}
}

// Slot is one game image on the wheel. Offsets are relative to the
// current selection; the slot glides from From to To.
type Slot struct {
	Game types.GameRef
	From float64
	To   float64
	Pos  float64
}

// Config tunes the wheel
type Config struct {
	Step            time.Duration
	FastStep        time.Duration
	Fade            time.Duration
	ReseedThreshold int
}

// Machine drives the wheel slots in lockstep along an arc. Switches
// shorter than ReseedThreshold slide every intermediate game past the
// center; longer jumps seed a fresh window around the destination and
// slide it a single step, so the cost is bounded regardless of distance.
type Machine struct {
	cfg    Config
	games  types.GameProvider
	arc    *anim.Arc
	images map[string]types.Media

	state    State
	start    time.Time
	duration time.Duration
	slots    []Slot
	alpha    float64
	progress float64
}

// New creates a wheel at rest showing the provider's current window
func New(cfg Config, games types.GameProvider, arc *anim.Arc) *Machine {
	if cfg.ReseedThreshold < 2 {
		cfg.ReseedThreshold = 5
	}
	if arc == nil {
		arc = anim.MustDefaultArc()
	}
	m := &Machine{
		cfg:    cfg,
		games:  games,
		arc:    arc,
		images: make(map[string]types.Media),
		alpha:  1,
	}
	m.Reset()
	return m
}

// State returns the animation state
func (m *Machine) State() State { return m.state }

// Slots returns a copy of the live slots
func (m *Machine) Slots() []Slot {
	out := make([]Slot, len(m.slots))
	copy(out, m.slots)
	return out
}

// Duration returns the length of the running animation
func (m *Machine) Duration() time.Duration { return m.duration }

// Animating implements clock.Animator
func (m *Machine) Animating() bool {
	switch m.state {
	case Switching, Reseeding, FadingOut, FadingIn:
		return true
	default:
		return false
	}
}

// PhaseStart implements clock.Animator
func (m *Machine) PhaseStart() time.Time { return m.start }

// Reset rebuilds the resting window around the current selection, used
// after the game list or filter changes.
func (m *Machine) Reset() {
	m.slots = m.window(0, 0)
	for i := range m.slots {
		m.slots[i].From = m.slots[i].To
		m.slots[i].Pos = m.slots[i].To
	}
	if m.state == Switching || m.state == Reseeding {
		m.state = Rest
	}
}

// window builds slots for games at offsets lo-HalfWindow..HalfWindow-hi
// relative to the (already moved) selection, each starting shift slots
// away from its resting place.
func (m *Machine) window(shift, extra int) []Slot {
	if m.games == nil || m.games.Count() == 0 {
		return nil
	}
	lo := -HalfWindow - max(extra, 0)
	hi := HalfWindow - min(extra, 0)
	slots := make([]Slot, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		slots = append(slots, Slot{
			Game: m.games.NthGame(r),
			From: float64(r + shift),
			To:   float64(r),
			Pos:  float64(r + shift),
		})
	}
	return slots
}

// Switch animates a selection change of n games. The provider's
// selection must already be moved. An animation in progress is snapped
// to its end first. Returns true when the window was reseeded.
func (m *Machine) Switch(n int, fast bool, now time.Time) bool {
	m.Snap()
	if n == 0 {
		return false
	}

	reseed := abs(n) >= m.cfg.ReseedThreshold
	if m.state != Rest {
		// hidden or fading: move without sliding
		m.Reset()
		return reseed
	}

	d := m.cfg.Step
	if fast {
		d = m.cfg.FastStep
	}
	if reseed {
		dir := sign(n)
		m.slots = m.window(dir, dir)
		m.state = Reseeding
	} else {
		m.slots = m.window(n, n)
		m.state = Switching
	}
	m.start = now
	m.duration = d
	m.progress = 0
	return reseed
}

// Snap jumps a running switch to its end instant
func (m *Machine) Snap() {
	switch m.state {
	case Switching, Reseeding:
		m.progress = 1
		m.settle()
	}
}

func (m *Machine) settle() {
	kept := m.slots[:0]
	for _, s := range m.slots {
		if s.To < -HalfWindow || s.To > HalfWindow {
			continue
		}
		s.From = s.To
		s.Pos = s.To
		kept = append(kept, s)
	}
	m.slots = kept
	m.state = Rest
}

// FadeOut hides the wheel while a game runs
func (m *Machine) FadeOut(now time.Time) {
	m.Snap()
	if m.state == Hidden || m.state == FadingOut {
		return
	}
	m.state = FadingOut
	m.start = now
	m.duration = m.cfg.Fade
}

// FadeIn shows the wheel again
func (m *Machine) FadeIn(now time.Time) {
	if m.state != Hidden && m.state != FadingOut {
		return
	}
	m.state = FadingIn
	m.start = now
	m.duration = m.cfg.Fade
}

// Advance implements clock.Animator
func (m *Machine) Advance(elapsed time.Duration) bool {
	p := 1.0
	if m.duration > 0 {
		p = anim.Clamp(float64(elapsed) / float64(m.duration))
	}

	switch m.state {
	case Switching, Reseeding:
		m.progress = p
		e := anim.SmoothStep(p)
		for i := range m.slots {
			m.slots[i].Pos = anim.Lerp(m.slots[i].From, m.slots[i].To, e)
		}
		if p >= 1 {
			m.settle()
			return true
		}
	case FadingOut:
		m.alpha = 1 - p
		if p >= 1 {
			m.alpha = 0
			m.state = Hidden
			return true
		}
	case FadingIn:
		m.alpha = p
		if p >= 1 {
			m.alpha = 1
			m.state = Rest
			return true
		}
	default:
		return true
	}
	return false
}

// SetGameMedia records the wheel image for a game
func (m *Machine) SetGameMedia(gameID string, media types.Media) {
	m.images[gameID] = media
}

// MissingMedia lists games on the wheel without a wheel image
func (m *Machine) MissingMedia() []types.GameRef {
	var missing []types.GameRef
	seen := make(map[string]bool)
	for _, s := range m.slots {
		if s.Game.IsZero() || seen[s.Game.ID] {
			continue
		}
		seen[s.Game.ID] = true
		if _, ok := m.images[s.Game.ID]; !ok {
			missing = append(missing, s.Game)
		}
	}
	return missing
}

// AppendVisuals implements surface.Drawable
func (m *Machine) AppendVisuals(dst []types.Visual) []types.Visual {
	if m.alpha <= 0 {
		return dst
	}
	for i, s := range m.slots {
		place := m.arc.At(s.Pos)
		// slots fade as they leave the visible window
		edge := anim.Clamp(float64(HalfWindow) + 1 - math.Abs(s.Pos))
		dst = append(dst, types.Visual{
			ID:        fmt.Sprintf("wheel/%d/%s", i, s.Game.ID),
			Layer:     types.LayerWheel,
			Media:     m.images[s.Game.ID],
			Text:      s.Game.Title,
			X:         place.X,
			Y:         place.Y,
			Scale:     place.Scale,
			Rotation:  place.Rotation,
			Alpha:     m.alpha * edge,
			Highlight: math.Abs(s.Pos) < 0.5,
		})
	}
	return dst
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
