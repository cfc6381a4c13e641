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

// AngleTo returns the angle in radians from (x1, y1) towards (x2, y2).
func AngleTo(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1)
}

// AngleDiff returns the signed shortest rotation from a to b in (-pi, pi].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// AngleLerp rotates a towards b along the shortest arc by fraction t.
func AngleLerp(a, b, t float64) float64 {
	return a + AngleDiff(a, b)*t
}

func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
