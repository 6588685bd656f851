package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// SmoothStep is the cubic ease 3t^2 - 2t^3 of t clamped to [0, 1].
func SmoothStep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// WrapDeg wraps an angle delta into (-180, 180].
func WrapDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// ShortRotation rewrites to so the rotation from from never exceeds 180
// degrees in either direction. ShortRotation(350, 10) == 370.
func ShortRotation(from, to float64) float64 {
	return from + WrapDeg(to-from)
}
