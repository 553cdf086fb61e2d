package anim

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Placement is where a wheel slot sits at a given offset
type Placement struct {
	X, Y     float64
	Scale    float64
	Rotation float64
}

// Knot pins the wheel path at an integer slot offset
type Knot struct {
	Offset float64
	Placement
}

// DefaultKnots lays the wheel out along a shallow arc across the bottom
// of the window, center slot largest.
var DefaultKnots = []Knot{
	{Offset: -4, Placement: Placement{X: -0.10, Y: 1.02, Scale: 0.30, Rotation: -40}},
	{Offset: -3, Placement: Placement{X: 0.06, Y: 0.95, Scale: 0.40, Rotation: -30}},
	{Offset: -2, Placement: Placement{X: 0.20, Y: 0.88, Scale: 0.50, Rotation: -20}},
	{Offset: -1, Placement: Placement{X: 0.34, Y: 0.83, Scale: 0.62, Rotation: -10}},
	{Offset: 0, Placement: Placement{X: 0.50, Y: 0.80, Scale: 1.00, Rotation: 0}},
	{Offset: 1, Placement: Placement{X: 0.66, Y: 0.83, Scale: 0.62, Rotation: 10}},
	{Offset: 2, Placement: Placement{X: 0.80, Y: 0.88, Scale: 0.50, Rotation: 20}},
	{Offset: 3, Placement: Placement{X: 0.94, Y: 0.95, Scale: 0.40, Rotation: 30}},
	{Offset: 4, Placement: Placement{X: 1.10, Y: 1.02, Scale: 0.30, Rotation: 40}},
}

// Arc maps a fractional slot offset onto a placement. Each coordinate is
// an Akima spline through the knots, so slots glide smoothly between
// integer positions; offsets past the end knots clamp.
type Arc struct {
	x, y, scale, rot interp.AkimaSpline
}

// NewArc fits an arc through knots, which must be sorted by offset
func NewArc(knots []Knot) (*Arc, error) {
	if len(knots) < 2 {
		return nil, fmt.Errorf("arc needs at least 2 knots, got %d", len(knots))
	}

	offsets := make([]float64, len(knots))
	xs := make([]float64, len(knots))
	ys := make([]float64, len(knots))
	scales := make([]float64, len(knots))
	rots := make([]float64, len(knots))
	for i, k := range knots {
		if i > 0 && k.Offset <= knots[i-1].Offset {
			return nil, fmt.Errorf("arc knots must be strictly increasing at index %d", i)
		}
		offsets[i] = k.Offset
		xs[i] = k.X
		ys[i] = k.Y
		scales[i] = k.Scale
		rots[i] = k.Rotation
	}

	a := &Arc{}
	for _, fit := range []struct {
		spline *interp.AkimaSpline
		values []float64
	}{
		{&a.x, xs},
		{&a.y, ys},
		{&a.scale, scales},
		{&a.rot, rots},
	} {
		if err := fit.spline.Fit(offsets, fit.values); err != nil {
			return nil, fmt.Errorf("failed to fit wheel arc: %w", err)
		}
	}
	return a, nil
}

// MustDefaultArc returns the arc through DefaultKnots
func MustDefaultArc() *Arc {
	a, err := NewArc(DefaultKnots)
	if err != nil {
		panic(err)
	}
	return a
}

// At returns the placement at offset
func (a *Arc) At(offset float64) Placement {
	return Placement{
		X:        a.x.Predict(offset),
		Y:        a.y.Predict(offset),
		Scale:    a.scale.Predict(offset),
		Rotation: a.rot.Predict(offset),
	}
}
