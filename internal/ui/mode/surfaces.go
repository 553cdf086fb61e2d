package mode

import (
	"errors"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/media"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
	"github.com/mjrgh/PinballY-sub000/internal/ui/running"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
	"go.uber.org/zap"
)

// RequestShowMenu shows desc with extra flags on the given page. The
// menuopen event fires first (except for script menus) and can cancel the
// request, in which case nothing changes. An open menu or popup is closed
// first and desc waits until it is gone; NoAnimation menus replace
// whatever is showing immediately.
func (c *Controller) RequestShowMenu(desc menu.Descriptor, flags menu.Flags, page int) error {
	if c.running.State() != running.None {
		return ErrGameRunning
	}
	desc.Flags |= flags
	desc = desc.WithPage(page)

	if !desc.Flags.Has(menu.User) {
		if !c.events.Fire("menuopen", map[string]any{"id": desc.ID, "page": desc.Page}) {
			c.metrics.RecordCanceled("menu")
			c.log.Debug("menu canceled by script", zap.String("menu", desc.ID))
			return ErrCanceled
		}
		// a listener may have launched a game
		if c.running.State() != running.None {
			return ErrGameRunning
		}
	}

	now := c.now()
	c.effects.Pulse("PBYMenuOpen")
	c.showMenu(desc, now)
	c.syncMode()
	c.fireClosed()
	return nil
}

func (c *Controller) showMenu(desc menu.Descriptor, now time.Time) {
	instant := desc.Flags.Has(menu.NoAnimation)

	switch {
	case open(c.menu.Phase()) && instant:
		c.menu.Replace(desc)
		c.incoming = nil
		return
	case open(c.menu.Phase()):
		c.closeMenu(now)
	case open(c.popup.Phase()):
		if instant {
			c.dropPopup()
		} else {
			c.closePopup(now)
		}
	case instant && c.popup.Phase() == anim.Closing:
		c.dropPopup()
	}

	if instant {
		c.incoming = nil
		c.menu.BeginOpen(desc, now, false)
		return
	}
	if c.idle() {
		c.incoming = nil
		c.menu.BeginOpen(desc, now, false)
		c.clock.StartIfNeeded(now)
		return
	}
	c.incoming = &pending{kind: surface.Menu, menu: desc}
}

// RequestShowPopup shows desc. A popup of the same kind that is already
// open is replaced in place. The popupopen event fires first and can
// cancel the request.
func (c *Controller) RequestShowPopup(desc popup.Descriptor) error {
	if c.running.State() != running.None {
		return ErrGameRunning
	}

	if !c.events.Fire("popupopen", map[string]any{"type": string(desc.Type), "name": desc.Name}) {
		c.metrics.RecordCanceled("popup")
		c.log.Debug("popup canceled by script", zap.String("popup", desc.Key()))
		return ErrCanceled
	}
	if c.running.State() != running.None {
		return ErrGameRunning
	}

	now := c.now()
	if cur, ok := c.popup.Current(); ok && open(c.popup.Phase()) && c.incoming == nil && cur.SameKind(desc) {
		c.popup.Replace(desc)
		c.loadPopupMedia(desc)
		return nil
	}

	switch {
	case open(c.menu.Phase()):
		c.closeMenu(now)
	case open(c.popup.Phase()):
		c.closePopup(now)
	}

	if c.idle() {
		c.incoming = nil
		c.openPopup(desc, now)
	} else {
		c.incoming = &pending{kind: surface.Popup, popup: desc}
	}
	c.syncMode()
	c.fireClosed()
	return nil
}

// RequestClose closes the open menu or popup. A surface waiting to open
// is discarded instead.
func (c *Controller) RequestClose() error {
	now := c.now()
	switch {
	case c.incoming != nil:
		c.incoming = nil
	case open(c.menu.Phase()):
		c.closeMenu(now)
	case open(c.popup.Phase()):
		c.closePopup(now)
	default:
		return ErrNoSurface
	}
	c.syncMode()
	c.fireClosed()
	return nil
}

// CloseMenusAndPopups closes everything, discarding pending surfaces
func (c *Controller) CloseMenusAndPopups() {
	now := c.now()
	c.incoming = nil
	if open(c.menu.Phase()) {
		c.closeMenu(now)
	}
	if open(c.popup.Phase()) {
		c.closePopup(now)
	}
	c.syncMode()
	c.fireClosed()
}

// ShowError shows msg in an error popup. Errors arriving while one is
// showing or waiting queue up and show one at a time.
func (c *Controller) ShowError(msg string) {
	if c.errorBusy() {
		c.errors = append(c.errors, msg)
		return
	}
	if err := c.RequestShowPopup(popup.Descriptor{Type: popup.TypeError, Message: msg}); err != nil {
		if errors.Is(err, ErrGameRunning) {
			c.errors = append(c.errors, msg)
			return
		}
		c.log.Info("error popup not shown", zap.String("message", msg), zap.Error(err))
	}
}

func (c *Controller) errorBusy() bool {
	if len(c.errors) > 0 || c.running.State() != running.None {
		return true
	}
	if c.incoming != nil && c.incoming.kind == surface.Popup && c.incoming.popup.Type == popup.TypeError {
		return true
	}
	d, ok := c.popup.Current()
	return ok && d.Type == popup.TypeError
}

// showNextError pops the error queue once the screen is free
func (c *Controller) showNextError() {
	for len(c.errors) > 0 && c.idle() && c.incoming == nil && c.running.State() == running.None {
		msg := c.errors[0]
		c.errors = c.errors[1:]
		if err := c.RequestShowPopup(popup.Descriptor{Type: popup.TypeError, Message: msg}); err == nil {
			return
		}
	}
}

func (c *Controller) idle() bool {
	return c.menu.Phase() == anim.Idle && c.popup.Phase() == anim.Idle
}

func (c *Controller) closeMenu(now time.Time) {
	d, _ := c.menu.Current()
	c.effects.Pulse("PBYMenuClose")
	c.menu.BeginClose(now, false)
	c.clock.StartIfNeeded(now)
	c.queueClosed("menuclose", map[string]any{"id": d.ID})
}

func (c *Controller) closePopup(now time.Time) {
	d, _ := c.popup.Current()
	c.popup.BeginClose(now, false)
	c.clock.StartIfNeeded(now)
	c.queueClosed("popupclose", map[string]any{"type": string(d.Type), "name": d.Name})
}

func (c *Controller) dropMenu() {
	d, ok := c.menu.Current()
	wasOpen := ok && open(c.menu.Phase())
	c.menu.Drop()
	if wasOpen {
		c.queueClosed("menuclose", map[string]any{"id": d.ID})
	}
}

func (c *Controller) dropPopup() {
	d, ok := c.popup.Current()
	wasOpen := ok && open(c.popup.Phase())
	c.popup.Drop()
	if wasOpen {
		c.queueClosed("popupclose", map[string]any{"type": string(d.Type), "name": d.Name})
	}
}

// queueClosed holds a close event until the request that caused it has
// committed every state change. Listeners then see the surface Closing or
// gone, and their own requests follow the pending-incoming rules.
func (c *Controller) queueClosed(name string, detail map[string]any) {
	c.closed = append(c.closed, closedEvent{name: name, detail: detail})
}

// fireClosed delivers queued close events in order. Events queued by a
// listener's own requests are delivered by that nested request.
func (c *Controller) fireClosed() {
	for len(c.closed) > 0 {
		ev := c.closed[0]
		c.closed = c.closed[1:]
		c.events.Fire(ev.name, ev.detail)
	}
}

func (c *Controller) openPopup(desc popup.Descriptor, now time.Time) {
	c.popup.BeginOpen(desc, now, false)
	c.loadPopupMedia(desc)
	c.clock.StartIfNeeded(now)
}

func (c *Controller) loadPopupMedia(desc popup.Descriptor) {
	if len(desc.MediaKinds) == 0 || c.media == nil {
		return
	}
	sid := c.popup.ID()
	c.media.AsyncLoad("popup", media.Request{
		Game:   desc.Game,
		Kinds:  desc.MediaKinds,
		Width:  c.cfg.Width / 2,
		Height: c.cfg.Height / 2,
	}, func(m types.Media) {
		if c.popup.ID() != sid {
			return
		}
		now := c.now()
		c.popup.SetMedia(m, now)
		c.clock.StartIfNeeded(now)
	})
}

// settled is called by the machines when a phase finishes
func (c *Controller) settled(kind surface.Kind, phase anim.Phase) {
	now := c.now()
	switch kind {
	case surface.Menu, surface.Popup:
		if phase != anim.Idle || !c.idle() {
			break
		}
		if p := c.incoming; p != nil {
			c.incoming = nil
			switch p.kind {
			case surface.Menu:
				c.menu.BeginOpen(p.menu, now, false)
				c.clock.StartIfNeeded(now)
			case surface.Popup:
				c.openPopup(p.popup, now)
			}
		} else {
			c.showNextError()
		}
	case surface.Running:
		if phase == anim.Idle {
			c.gameOver(now)
		}
	}
	c.syncMode()
}
