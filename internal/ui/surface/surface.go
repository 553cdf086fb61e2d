// Package surface defines the kinds of animated surfaces and the
// capability interfaces they implement. A concrete surface implements
// only the capabilities it needs.
package surface

import (
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
)

// Kind tags a surface
type Kind int

const (
	Wheel Kind = iota
	Menu
	Popup
	Running
	Playfield
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Wheel:
		return "wheel"
	case Menu:
		return "menu"
	case Popup:
		return "popup"
	case Running:
		return "running"
	case Playfield:
		return "playfield"
	default:
		return "unknown"
	}
}

// Drawable contributes visuals to the frame
type Drawable interface {
	AppendVisuals(dst []types.Visual) []types.Visual
}

// InputTarget handles navigation commands while it owns input. It
// returns false for commands it leaves to the controller.
type InputTarget interface {
	HandleCommand(cmd types.Command) bool
}

// MediaHost accepts asynchronously loaded media
type MediaHost interface {
	SetMedia(m types.Media, now time.Time)
}

// SettleFunc is told when a surface finishes a phase (Steady or Idle)
type SettleFunc func(kind Kind, phase anim.Phase)
