package script

import (
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
)

// Host is the native surface scripts can drive. Every method re-enters
// the engine through the same request API native input uses.
type Host interface {
	ShowMenu(desc menu.Descriptor) error
	ShowPopup(desc popup.Descriptor) error
	CloseMenusAndPopups()
	UIMode() string
	LaunchGame() error
	SetFilter(id string) error
	SwitchGame(n int)
	CurrentGame() types.GameRef
	Pulse(name string)
	SetEffect(name string, value int)
}
