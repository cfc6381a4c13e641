package path

import (
	"math"

	"github.com/golang/geo/r2"
)

// Curve is a cardinal spline through Points. Tension 0 gives a Catmull-Rom
// spline; higher values pull the curve towards straight segments.
type Curve struct {
	Points  []r2.Point
	Tension float64
}

// At evaluates the curve at normalized time T in [0, 1]. The curve passes
// through every point and starts and ends exactly on the first and last one.
func (c Curve) At(T float64) r2.Point {
	n := len(c.Points)
	switch {
	case n == 0:
		return r2.Point{}
	case n == 1:
		return c.Points[0]
	}

	segments := n - 1
	segT := T * float64(segments)
	seg := int(math.Floor(segT))
	seg = max(0, min(segments-1, seg))
	t := segT - float64(seg)

	if n == 2 {
		return lerpPoint(c.Points[0], c.Points[1], t)
	}

	p0 := c.Points[max(0, seg-1)]
	p1 := c.Points[seg]
	p2 := c.Points[min(n-1, seg+1)]
	p3 := c.Points[min(n-1, seg+2)]
	return r2.Point{
		X: cardinal(p0.X, p1.X, p2.X, p3.X, t, c.Tension),
		Y: cardinal(p0.Y, p1.Y, p2.Y, p3.Y, t, c.Tension),
	}
}

func cardinal(p0, p1, p2, p3, t, tension float64) float64 {
	t2 := t * t
	t3 := t2 * t
	s := (1 - tension) / 2

	v1 := s * (p2 - p0)
	v2 := s * (p3 - p1)

	c1 := 2*t3 - 3*t2 + 1
	c2 := -2*t3 + 3*t2
	c3 := t3 - 2*t2 + t
	c4 := t3 - t2
	return c1*p1 + c2*p2 + c3*v1 + c4*v2
}
