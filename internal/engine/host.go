package engine

import (
	"github.com/mjrgh/PinballY-sub000/internal/effects"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/mode"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
)

// host exposes the controller to scripts through the same request API
// native input uses
type host struct {
	ctrl    *mode.Controller
	games   types.GameProvider
	effects *effects.Queue
}

func (h *host) ShowMenu(desc menu.Descriptor) error {
	return h.ctrl.RequestShowMenu(desc, 0, desc.Page)
}

func (h *host) ShowPopup(desc popup.Descriptor) error {
	return h.ctrl.RequestShowPopup(desc)
}

func (h *host) CloseMenusAndPopups() { h.ctrl.CloseMenusAndPopups() }

func (h *host) UIMode() string { return h.ctrl.NotifyInputModeQuery() }

func (h *host) LaunchGame() error { return h.ctrl.RequestLaunch() }

func (h *host) SetFilter(id string) error { return h.ctrl.SetFilter(id) }

func (h *host) SwitchGame(n int) { h.ctrl.SwitchGame(n) }

func (h *host) CurrentGame() types.GameRef { return h.games.CurrentSelection() }

func (h *host) Pulse(name string) { h.effects.Pulse(name) }

func (h *host) SetEffect(name string, value int) { h.effects.Set(name, value) }
