package main

import (
	"cmp"
	"image"
	"math"
	"slices"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
)

// renderer keeps the last submitted frame and draws it with ebiten.
// Decoded media is uploaded to GPU images once and released when no
// visual uses it any more.
type renderer struct {
	mu     sync.Mutex
	frame  types.Frame
	images map[image.Image]*ebiten.Image
	used   map[image.Image]bool
}

func newRenderer() *renderer {
	return &renderer{
		images: make(map[image.Image]*ebiten.Image),
		used:   make(map[image.Image]bool),
	}
}

// Submit implements types.Renderer
func (r *renderer) Submit(frame types.Frame) {
	slices.SortStableFunc(frame.Visuals, func(a, b types.Visual) int {
		return cmp.Compare(a.Layer, b.Layer)
	})
	r.mu.Lock()
	r.frame = frame
	r.mu.Unlock()
}

// Draw paints the last frame onto screen
func (r *renderer) Draw(screen *ebiten.Image) {
	r.mu.Lock()
	frame := r.frame
	r.mu.Unlock()

	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())
	clear(r.used)

	for _, v := range frame.Visuals {
		// a running game owns the display behind the overlay
		if frame.Frozen && v.Layer < types.LayerRunning {
			continue
		}
		if v.Alpha <= 0 {
			continue
		}
		if v.Media.Image != nil {
			r.drawImage(screen, v, w, h)
		}
		if v.Text != "" {
			text := v.Text
			if v.Highlight {
				text = "> " + text
			}
			ebitenutil.DebugPrintAt(screen, text, int(v.X*w), int(v.Y*h))
		}
	}

	for src, img := range r.images {
		if !r.used[src] {
			img.Deallocate()
			delete(r.images, src)
		}
	}
}

func (r *renderer) drawImage(screen *ebiten.Image, v types.Visual, w, h float64) {
	src := v.Media.Image
	img, ok := r.images[src]
	if !ok {
		img = ebiten.NewImageFromImage(src)
		r.images[src] = img
	}
	r.used[src] = true

	scale := v.Scale
	if scale == 0 {
		scale = 1
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(v.Rotation * math.Pi / 180)
	op.GeoM.Translate(v.X*w, v.Y*h)
	op.ColorScale.ScaleAlpha(float32(v.Alpha))
	screen.DrawImage(img, op)
}
