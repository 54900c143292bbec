package field

import "math"

// CubicBezier is a CSS-style timing function through (0,0), P1, P2, (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

var (
	EaseOut = CubicBezier{0, 0, 0.58, 1}
	Ease    = CubicBezier{0.25, 0.1, 0.25, 1}
)

// FadeInDuration is how long the canvas takes to go from transparent to opaque.
const FadeInDuration = 1.5

// FadeIn is the field opacity at elapsed seconds.
func FadeIn(elapsed float64) float32 {
	if !(elapsed > 0) {
		return 0
	}
	if elapsed >= FadeInDuration {
		return 1
	}
	return float32(EaseOut.At(elapsed / FadeInDuration))
}

// At returns the eased progress for x in [0,1].
func (b CubicBezier) At(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	t := b.solveX(x)
	return bezier(t, b.Y1, b.Y2)
}

func (b CubicBezier) solveX(x float64) float64 {
	// Newton first, bisection if the slope collapses
	t := x
	for i := 0; i < 8; i++ {
		dx := bezier(t, b.X1, b.X2) - x
		if math.Abs(dx) < 1e-7 {
			return t
		}
		d := bezierSlope(t, b.X1, b.X2)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= dx / d
	}

	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 32; i++ {
		v := bezier(t, b.X1, b.X2)
		if math.Abs(v-x) < 1e-7 {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}

func bezier(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}
