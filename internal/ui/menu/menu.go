package menu

import (
	"fmt"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/id"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
)

// Timing holds menu animation durations
type Timing struct {
	Open  time.Duration
	Close time.Duration
	Fast  time.Duration
}

// Machine animates at most one menu at a time. Menus scale and fade on a
// cubic ramp.
type Machine struct {
	timing  Timing
	settled surface.SettleFunc

	tr   anim.Transition
	desc Descriptor
	id   id.SurfaceID
	sel  int
	vis  float64
}

// New creates an idle menu machine
func New(timing Timing, settled surface.SettleFunc) *Machine {
	return &Machine{timing: timing, settled: settled}
}

// Observe installs a phase change callback
func (m *Machine) Observe(fn func(from, to anim.Phase)) {
	m.tr.Observe(fn)
}

// Phase returns the current phase
func (m *Machine) Phase() anim.Phase { return m.tr.Phase() }

// Animating implements clock.Animator
func (m *Machine) Animating() bool { return m.tr.Phase().Animating() }

// PhaseStart implements clock.Animator
func (m *Machine) PhaseStart() time.Time { return m.tr.Start() }

// Visible reports whether a menu is on screen
func (m *Machine) Visible() bool { return m.tr.Phase().Visible() }

// Current returns the shown menu
func (m *Machine) Current() (Descriptor, bool) {
	return m.desc, m.Visible()
}

// ID returns the shown menu instance id
func (m *Machine) ID() id.SurfaceID { return m.id }

// BeginOpen installs desc and starts its open animation. NoAnimation menus
// go straight to Steady. The machine must be Idle or Closing.
func (m *Machine) BeginOpen(desc Descriptor, now time.Time, fast bool) id.SurfaceID {
	if p := m.tr.Phase(); p == anim.Opening || p == anim.Steady {
		panic(fmt.Sprintf("menu: open %q while %q is %s", desc.ID, m.desc.ID, p))
	}

	m.install(desc)
	if desc.Flags.Has(NoAnimation) {
		m.tr.Reset()
		m.tr.Begin(anim.Steady, now, 0)
		m.vis = 1
		return m.id
	}

	d := m.timing.Open
	if fast {
		d = m.timing.Fast
	}
	m.tr.Begin(anim.Opening, now, d)
	m.vis = 0
	return m.id
}

// Replace swaps the shown menu in place without animation
func (m *Machine) Replace(desc Descriptor) id.SurfaceID {
	m.install(desc)
	return m.id
}

func (m *Machine) install(desc Descriptor) {
	if desc.PageSize == 0 && len(desc.Items) > DefaultPageSize {
		desc.PageSize = DefaultPageSize
	}
	m.desc = desc
	m.id = id.NewMenuID()
	m.sel = desc.initialSelection()
}

// BeginClose starts the close animation. An Opening menu snaps to Steady
// first. Closing or Idle menus are left alone.
func (m *Machine) BeginClose(now time.Time, fast bool) {
	switch m.tr.Phase() {
	case anim.Idle, anim.Closing:
		return
	case anim.Opening:
		m.tr.Settle()
	}

	d := m.timing.Close
	if fast {
		d = m.timing.Fast
	}
	m.tr.Begin(anim.Closing, now, d)
	m.vis = 1
}

// Drop removes the menu immediately
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
	m.sel = -1
	m.vis = 0
}

// Advance implements clock.Animator
func (m *Machine) Advance(elapsed time.Duration) bool {
	m.vis = m.tr.Visibility(elapsed, anim.CubicOut)
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
		m.settled(surface.Menu, m.tr.Phase())
	}
}

// Selected returns the highlighted item
func (m *Machine) Selected() (Item, bool) {
	items := m.desc.Visible()
	if !m.Visible() || m.sel < 0 || m.sel >= len(items) {
		return Item{}, false
	}
	return items[m.sel], true
}

// Move moves the highlight by delta selectable items, wrapping
func (m *Machine) Move(delta int) bool {
	items := m.desc.Visible()
	if !m.Visible() || len(items) == 0 || delta == 0 {
		return false
	}

	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	sel := m.sel
	for moved := 0; moved < delta; moved++ {
		found := false
		for range items {
			sel = (sel + step + len(items)) % len(items)
			if m.desc.selectable(items, sel) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	changed := sel != m.sel
	m.sel = sel
	return changed
}

// HandleCommand implements surface.InputTarget
func (m *Machine) HandleCommand(cmd types.Command) bool {
	switch cmd {
	case types.CmdNext:
		m.Move(1)
		return true
	case types.CmdPrev:
		m.Move(-1)
		return true
	default:
		return false
	}
}

// AppendVisuals implements surface.Drawable
func (m *Machine) AppendVisuals(dst []types.Visual) []types.Visual {
	if !m.Visible() {
		return dst
	}

	scale := 0.5 + 0.5*m.vis
	items := m.desc.Visible()
	dst = append(dst, types.Visual{
		ID:    string(m.id) + "/panel",
		Layer: types.LayerMenu,
		X:     0.5,
		Y:     0.5,
		Scale: scale,
		Alpha: 0.85 * m.vis,
	})

	const lineHeight = 0.05
	top := 0.5 - lineHeight*float64(len(items))/2
	for i, item := range items {
		dst = append(dst, types.Visual{
			ID:        fmt.Sprintf("%s/item/%d", m.id, i),
			Layer:     types.LayerMenu,
			Text:      itemText(item),
			X:         0.5,
			Y:         0.5 + (top+lineHeight*float64(i)-0.5)*scale,
			Scale:     scale,
			Alpha:     m.vis,
			Highlight: i == m.sel,
		})
	}
	if pages := m.desc.Pages(); pages > 1 {
		dst = append(dst, types.Visual{
			ID:    string(m.id) + "/pager",
			Layer: types.LayerMenu,
			Text:  fmt.Sprintf("%d / %d", m.desc.Page+1, pages),
			X:     0.5,
			Y:     0.5 + (top+lineHeight*float64(len(items))-0.5)*scale,
			Scale: scale * 0.8,
			Alpha: m.vis,
		})
	}
	return dst
}

func itemText(item Item) string {
	switch {
	case item.Flags.Has(ItemChecked) && item.Flags.Has(ItemRadio):
		return "● " + item.Label
	case item.Flags.Has(ItemChecked):
		return "✓ " + item.Label
	case item.Flags.Has(ItemHasSubmenu):
		return item.Label + " ›"
	default:
		return item.Label
	}
}
