package mode

import (
	"strings"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
	"github.com/mjrgh/PinballY-sub000/internal/ui/running"
	"go.uber.org/zap"
)

// HandleInput routes one key or joystick event. The matching script
// event fires first and can swallow the input. Key-up events stop there.
func (c *Controller) HandleInput(in types.Input) {
	c.lastInput = c.now()
	if c.attract && in.Kind.Down() {
		c.stopAttract()
		return
	}

	detail := map[string]any{
		"key":        in.Key,
		"unit":       in.Unit,
		"button":     in.Button,
		"repeat":     in.Repeat,
		"background": in.Background,
	}
	if !c.events.Fire(in.Kind.String(), detail) {
		return
	}
	if !in.Kind.Down() || in.Background {
		return
	}

	cmd, ok := c.cfg.Bindings[in.Key]
	if !ok {
		return
	}
	c.HandleCommand(cmd)
}

// HandleCommand routes cmd to the authoritative surface. It returns
// whether anything consumed it.
func (c *Controller) HandleCommand(cmd types.Command) bool {
	if cmd == types.CmdNone {
		return false
	}
	if !c.events.Fire("command", map[string]any{"command": string(cmd)}) {
		return true
	}

	switch c.Mode() {
	case Running:
		return false
	case Menu:
		return c.menuCommand(cmd)
	case Popup:
		return c.popupCommand(cmd)
	default:
		return c.wheelCommand(cmd)
	}
}

func (c *Controller) menuCommand(cmd types.Command) bool {
	// input for a menu still waiting to open is dropped
	if c.incoming != nil || !open(c.menu.Phase()) {
		return false
	}
	desc, _ := c.menu.Current()

	switch cmd {
	case types.CmdNext:
		if c.menu.Move(1) {
			c.effects.Pulse("PBYMenuDown")
		}
	case types.CmdPrev:
		if c.menu.Move(-1) {
			c.effects.Pulse("PBYMenuUp")
		}
	case types.CmdNextPage, types.CmdPrevPage:
		if desc.Pages() < 2 {
			return false
		}
		delta := 1
		if cmd == types.CmdPrevPage {
			delta = -1
		}
		flags := desc.Flags | menu.NoAnimation
		if err := c.RequestShowMenu(desc, flags, desc.Page+delta); err != nil {
			c.log.Debug("menu page change refused", zap.Error(err))
		}
	case types.CmdSelect:
		c.selectMenuItem()
	case types.CmdExit:
		if c.cfg.ExitKeySelectsExitMenu && desc.Flags.Has(menu.IsExitMenu) {
			c.selectMenuItem()
			break
		}
		_ = c.RequestClose()
	default:
		return false
	}
	return true
}

func (c *Controller) selectMenuItem() {
	item, ok := c.menu.Selected()
	if !ok {
		return
	}
	c.effects.Pulse("PBYMenuSelect")
	if !item.Flags.Has(menu.ItemStaysOpen) && !item.Flags.Has(menu.ItemHasSubmenu) {
		_ = c.RequestClose()
	}
	c.runMenuCommand(item.Command)
}

// runMenuCommand executes a menu item's command
func (c *Controller) runMenuCommand(cmd string) {
	game := c.ctx.Games.CurrentSelection()
	showPopup := func(t popup.Type, kinds ...string) {
		err := c.RequestShowPopup(popup.Descriptor{Type: t, Game: game, MediaKinds: kinds})
		if err != nil {
			c.log.Debug("popup refused", zap.String("popup", string(t)), zap.Error(err))
		}
	}

	switch {
	case cmd == CmdClose:
	case cmd == CmdPlay:
		if err := c.RequestLaunch(); err != nil {
			c.log.Info("launch refused", zap.Error(err))
		}
	case cmd == CmdInfo:
		showPopup(popup.TypeInfo, "wheel")
	case cmd == CmdFlyer:
		showPopup(popup.TypeFlyer, "flyer")
	case cmd == CmdInstructions:
		showPopup(popup.TypeInstructions, "instcard")
	case cmd == CmdHighScores:
		showPopup(popup.TypeHighScores)
	case cmd == CmdRate:
		showPopup(popup.TypeRating)
	case cmd == CmdVolume:
		_ = c.RequestShowPopup(popup.Descriptor{Type: popup.TypeVolume, Game: game, Value: 100})
	case cmd == CmdFilters:
		filters := c.cfg.Filters
		if len(filters) == 0 {
			filters = []string{c.ctx.Games.Filter()}
		}
		if err := c.RequestShowMenu(filterMenu(c.ctx.Games.Filter(), filters), 0, 0); err != nil {
			c.log.Debug("filter menu refused", zap.Error(err))
		}
	case strings.HasPrefix(cmd, filterPrefix):
		if err := c.SetFilter(strings.TrimPrefix(cmd, filterPrefix)); err != nil {
			c.ShowError(err.Error())
		}
	default:
		if c.ctx.Commands == nil || !c.ctx.Commands.HandleCommand(cmd) {
			c.log.Debug("unhandled menu command", zap.String("command", cmd))
		}
	}
}

func (c *Controller) popupCommand(cmd types.Command) bool {
	if c.incoming != nil || !open(c.popup.Phase()) {
		return false
	}
	if c.popup.HandleCommand(cmd) {
		return true
	}
	desc, _ := c.popup.Current()

	switch cmd {
	case types.CmdNext, types.CmdPrev:
		if desc.Type != popup.TypeFlyer && desc.Type != popup.TypeInstructions {
			return false
		}
		if cmd == types.CmdNext {
			desc.Page++
		} else if desc.Page > 0 {
			desc.Page--
		}
		return c.RequestShowPopup(desc) == nil
	case types.CmdSelect, types.CmdExit:
		_ = c.RequestClose()
		return true
	default:
		return false
	}
}

func (c *Controller) wheelCommand(cmd types.Command) bool {
	if c.running.State() != running.None {
		return false
	}
	switch cmd {
	case types.CmdNext:
		c.SwitchGame(1)
	case types.CmdPrev:
		c.SwitchGame(-1)
	case types.CmdNextPage:
		c.SwitchGame(c.cfg.PageJump)
	case types.CmdPrevPage:
		c.SwitchGame(-c.cfg.PageJump)
	case types.CmdSelect:
		_ = c.RequestShowMenu(mainMenu(), 0, 0)
	case types.CmdExit:
		_ = c.RequestShowMenu(exitMenu(), 0, 0)
	case types.CmdLaunch:
		if err := c.RequestLaunch(); err != nil {
			c.log.Info("launch refused", zap.Error(err))
		}
	case types.CmdInfo:
		_ = c.RequestShowPopup(popup.Descriptor{
			Type:       popup.TypeInfo,
			Game:       c.ctx.Games.CurrentSelection(),
			MediaKinds: []string{"wheel"},
		})
	default:
		return false
	}
	return true
}
