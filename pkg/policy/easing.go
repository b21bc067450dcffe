package policy

import "math"

// Ease is the standard cubic-bezier(0.42, 0, 1, 1) curve.
var Ease = CubicBezier(0.42, 0, 1, 1)

// EaseOut mirrors Ease so the motion decelerates into the target.
func EaseOut(t float64) float64 {
	return 1 - Ease(1-t)
}

// Linear is the identity easing.
func Linear(t float64) float64 { return clamp01(t) }

// CubicBezier returns the easing described by control points (x1,y1) and
// (x2,y2), with the end points fixed at (0,0) and (1,1).
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	solve := func(x float64) float64 {
		s := x
		for i := 0; i < 8; i++ {
			dx := sampleX(s) - x
			if math.Abs(dx) < 1e-7 {
				return s
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= dx / d
		}
		// Newton stalled; fall back to bisection.
		lo, hi := 0.0, 1.0
		s = x
		for i := 0; i < 32 && lo < hi; i++ {
			v := sampleX(s)
			if math.Abs(v-x) < 1e-7 {
				return s
			}
			if x > v {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return s
	}

	return func(t float64) float64 {
		t = clamp01(t)
		if t == 0 || t == 1 {
			return t
		}
		return sampleY(solve(t))
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
