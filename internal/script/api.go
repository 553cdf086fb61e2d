package script

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/logging"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
)

type jsMenuItem struct {
	Title      string `json:"title"`
	Cmd        string `json:"cmd"`
	Selected   bool   `json:"selected"`
	Checked    bool   `json:"checked"`
	Radio      bool   `json:"radio"`
	HasSubmenu bool   `json:"hasSubmenu"`
	StayOpen   bool   `json:"stayOpen"`
}

type jsMenuOptions struct {
	DialogStyle bool `json:"dialogStyle"`
	NoAnimation bool `json:"noAnimation"`
	IsExitMenu  bool `json:"isExitMenu"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
}

type jsPopupOptions struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Lines   []string `json:"lines"`
	Value   int      `json:"value"`
	Media   []string `json:"media"`
}

// install registers the global script API
func (b *Bridge) install() {
	vm := b.vm
	_ = vm.Set("require", goja.Undefined())
	_ = vm.Set("process", goja.Undefined())

	console := vm.NewObject()
	for _, method := range []string{"log", "debug", "info", "warn", "error"} {
		_ = console.Set(method, b.consoleFunc(method))
	}
	_ = vm.Set("console", console)

	_ = vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value { return b.schedule(call, false) })
	_ = vm.Set("setInterval", func(call goja.FunctionCall) goja.Value { return b.schedule(call, true) })
	_ = vm.Set("clearTimeout", b.clearTask)
	_ = vm.Set("clearInterval", b.clearTask)

	mw := vm.NewObject()
	b.installEvents(mw)
	_ = mw.Set("showMenu", b.showMenu)
	_ = mw.Set("showPopup", b.showPopup)
	_ = mw.Set("closeMenusAndPopups", func(goja.FunctionCall) goja.Value {
		b.requireHost().CloseMenusAndPopups()
		return goja.Undefined()
	})
	_ = mw.Set("getUIMode", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(b.requireHost().UIMode())
	})
	_ = mw.Set("launchGame", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(b.requireHost().LaunchGame() == nil)
	})
	_ = mw.Set("setFilter", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.requireHost().SetFilter(call.Argument(0).String()) == nil)
	})
	_ = mw.Set("switchGame", func(call goja.FunctionCall) goja.Value {
		b.requireHost().SwitchGame(int(call.Argument(0).ToInteger()))
		return goja.Undefined()
	})
	_ = vm.Set("mainWindow", mw)
	b.mainWindow = mw

	gl := vm.NewObject()
	b.installEvents(gl)
	_ = gl.Set("getCurSelection", func(goja.FunctionCall) goja.Value {
		g := b.requireHost().CurrentGame()
		if g.IsZero() {
			return goja.Null()
		}
		return vm.ToValue(g)
	})
	_ = vm.Set("gameList", gl)

	dof := vm.NewObject()
	_ = dof.Set("pulse", func(call goja.FunctionCall) goja.Value {
		b.requireHost().Pulse(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = dof.Set("set", func(call goja.FunctionCall) goja.Value {
		b.requireHost().SetEffect(call.Argument(0).String(), int(call.Argument(1).ToInteger()))
		return goja.Undefined()
	})
	_ = vm.Set("dof", dof)
}

// installEvents adds on/one/off to an event target. All targets share
// one listener registry.
func (b *Bridge) installEvents(target *goja.Object) {
	_ = target.Set("on", func(call goja.FunctionCall) goja.Value {
		b.add(call.Argument(0).String(), call.Argument(1), false)
		return goja.Undefined()
	})
	_ = target.Set("one", func(call goja.FunctionCall) goja.Value {
		b.add(call.Argument(0).String(), call.Argument(1), true)
		return goja.Undefined()
	})
	_ = target.Set("off", func(call goja.FunctionCall) goja.Value {
		b.off(call.Argument(0).String(), call.Argument(1))
		return goja.Undefined()
	})
}

func (b *Bridge) consoleFunc(method string) func(goja.FunctionCall) goja.Value {
	level := logging.ScriptLevel(method)
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		if ce := b.console.Check(level, strings.Join(parts, " ")); ce != nil {
			ce.Write()
		}
		return goja.Undefined()
	}
}

func (b *Bridge) requireHost() Host {
	if b.host == nil {
		panic(b.vm.NewGoError(ErrNoEngine))
	}
	return b.host
}

// showMenu implements mainWindow.showMenu(id, items, options)
func (b *Bridge) showMenu(call goja.FunctionCall) goja.Value {
	host := b.requireHost()

	var items []jsMenuItem
	if v := call.Argument(1); !goja.IsUndefined(v) && !goja.IsNull(v) {
		if err := b.vm.ExportTo(v, &items); err != nil {
			panic(b.vm.NewTypeError(fmt.Sprintf("invalid menu items: %v", err)))
		}
	}
	var opts jsMenuOptions
	if v := call.Argument(2); !goja.IsUndefined(v) && !goja.IsNull(v) {
		if err := b.vm.ExportTo(v, &opts); err != nil {
			panic(b.vm.NewTypeError(fmt.Sprintf("invalid menu options: %v", err)))
		}
	}

	desc := menu.Descriptor{
		ID:       call.Argument(0).String(),
		Page:     opts.Page,
		PageSize: opts.PageSize,
		Flags:    menu.User,
	}
	if opts.DialogStyle {
		desc.Flags |= menu.DialogStyle
	}
	if opts.NoAnimation {
		desc.Flags |= menu.NoAnimation
	}
	if opts.IsExitMenu {
		desc.Flags |= menu.IsExitMenu
	}
	for _, it := range items {
		item := menu.Item{Label: it.Title, Command: it.Cmd}
		if it.Selected {
			item.Flags |= menu.ItemSelected
		}
		if it.Checked {
			item.Flags |= menu.ItemChecked
		}
		if it.Radio {
			item.Flags |= menu.ItemRadio
		}
		if it.HasSubmenu {
			item.Flags |= menu.ItemHasSubmenu
		}
		if it.StayOpen {
			item.Flags |= menu.ItemStaysOpen
		}
		desc.Items = append(desc.Items, item)
	}

	return b.vm.ToValue(host.ShowMenu(desc) == nil)
}

// showPopup implements mainWindow.showPopup(name, options)
func (b *Bridge) showPopup(call goja.FunctionCall) goja.Value {
	host := b.requireHost()

	var opts jsPopupOptions
	if v := call.Argument(1); !goja.IsUndefined(v) && !goja.IsNull(v) {
		if err := b.vm.ExportTo(v, &opts); err != nil {
			panic(b.vm.NewTypeError(fmt.Sprintf("invalid popup options: %v", err)))
		}
	}

	desc := popup.Descriptor{
		Type:       popup.TypeUser,
		Name:       call.Argument(0).String(),
		Game:       host.CurrentGame(),
		Message:    opts.Message,
		Lines:      opts.Lines,
		Value:      opts.Value,
		MediaKinds: opts.Media,
	}
	if opts.Type != "" {
		desc.Type = popup.Type(opts.Type)
	}

	return b.vm.ToValue(host.ShowPopup(desc) == nil)
}
