package types

// Layer orders visuals back to front
type Layer int

const (
	LayerPlayfield Layer = iota
	LayerWheel
	LayerRunning
	LayerPopup
	LayerMenu
)

// Visual is one positioned, transformed handle. The engine only sets
// transform and opacity fields; drawing belongs to the renderer.
// Coordinates are normalized to the window: (0,0) top-left, (1,1) bottom-right.
type Visual struct {
	ID       string
	Layer    Layer
	Media    Media
	Text     string
	X, Y     float64
	Scale    float64
	Alpha    float64
	Rotation float64
	// Highlight marks the selected menu item
	Highlight bool
}

// Frame is the full visual list for one step
type Frame struct {
	Visuals []Visual
	// Frozen asks the renderer to stop redrawing the background while an
	// external game owns the display.
	Frozen bool
}

// Renderer draws submitted frames
type Renderer interface {
	Submit(frame Frame)
}
