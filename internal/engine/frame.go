package engine

import (
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/mode"
)

// frameStage submits the controller's visuals to the renderer, last in
// every Step
type frameStage struct {
	ctrl     *mode.Controller
	renderer types.Renderer
	buf      []types.Visual
	frames   uint64
}

func (f *frameStage) Step(time.Time) {
	if f.renderer == nil {
		return
	}
	f.buf = f.ctrl.AppendVisuals(f.buf[:0])
	visuals := make([]types.Visual, len(f.buf))
	copy(visuals, f.buf)
	f.renderer.Submit(types.Frame{Visuals: visuals, Frozen: f.ctrl.Frozen()})
	f.frames++
}

// NextDeadline never asks for a Step; frames ride along with other work
func (f *frameStage) NextDeadline() (time.Time, bool) {
	return time.Time{}, false
}
