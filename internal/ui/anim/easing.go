package anim

// Easing maps linear progress in [0,1] onto an eased value in [0,1]
type Easing func(t float64) float64

// Linear is the identity ramp
func Linear(t float64) float64 { return Clamp(t) }

// CubicOut starts fast and decelerates
func CubicOut(t float64) float64 {
	t = 1 - Clamp(t)
	return 1 - t*t*t
}

// CubicIn starts slow and accelerates
func CubicIn(t float64) float64 {
	t = Clamp(t)
	return t * t * t
}

// SmoothStep eases both ends
func SmoothStep(t float64) float64 {
	t = Clamp(t)
	return t * t * (3 - 2*t)
}

// Clamp limits t to [0,1]
func Clamp(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// Lerp interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
