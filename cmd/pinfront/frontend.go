package main

import (
	"context"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mjrgh/PinballY-sub000/internal/engine"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
)

// Held keys auto-repeat after repeatDelay ticks, every repeatInterval ticks
const (
	repeatDelay    = 30
	repeatInterval = 4
)

// frontend is the ebiten.Game. Update runs on the UI thread, so it is
// the only caller of Engine.Step.
type frontend struct {
	ctx  context.Context
	eng  *engine.Engine
	rend *renderer

	keys []ebiten.Key
	pads []ebiten.GamepadID
}

func newFrontend(ctx context.Context, eng *engine.Engine, rend *renderer) *frontend {
	return &frontend{ctx: ctx, eng: eng, rend: rend}
}

func (f *frontend) Update() error {
	if f.ctx.Err() != nil {
		return ebiten.Termination
	}
	f.pollKeys()
	f.pollGamepads()
	f.eng.Step(time.Now())
	return nil
}

func (f *frontend) Draw(screen *ebiten.Image) {
	f.rend.Draw(screen)
}

func (f *frontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (f *frontend) pollKeys() {
	background := !ebiten.IsFocused()

	f.keys = inpututil.AppendJustPressedKeys(f.keys[:0])
	for _, k := range f.keys {
		f.eng.PostInput(types.Input{Kind: types.KeyDown, Key: keyName(k), Background: background})
	}

	f.keys = inpututil.AppendPressedKeys(f.keys[:0])
	for _, k := range f.keys {
		d := inpututil.KeyPressDuration(k)
		if d > repeatDelay && (d-repeatDelay)%repeatInterval == 0 {
			f.eng.PostInput(types.Input{Kind: types.KeyDown, Key: keyName(k), Repeat: true, Background: background})
		}
	}

	f.keys = inpututil.AppendJustReleasedKeys(f.keys[:0])
	for _, k := range f.keys {
		f.eng.PostInput(types.Input{Kind: types.KeyUp, Key: keyName(k), Background: background})
	}
}

func (f *frontend) pollGamepads() {
	f.pads = ebiten.AppendGamepadIDs(f.pads[:0])
	for _, id := range f.pads {
		for b := ebiten.GamepadButton(0); b < ebiten.GamepadButton(ebiten.GamepadButtonCount(id)); b++ {
			switch {
			case inpututil.IsGamepadButtonJustPressed(id, b):
				f.eng.PostInput(types.Input{Kind: types.JoystickDown, Unit: int(id), Button: int(b)})
			case inpututil.IsGamepadButtonJustReleased(id, b):
				f.eng.PostInput(types.Input{Kind: types.JoystickUp, Unit: int(id), Button: int(b)})
			}
		}
	}
}

// keyName maps ebiten key names onto the binding names: "ArrowLeft"
// becomes "Left", "Digit1" becomes "1".
func keyName(k ebiten.Key) string {
	name := k.String()
	for _, prefix := range []string{"Arrow", "Digit"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			return rest
		}
	}
	return name
}
