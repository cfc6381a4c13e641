package path

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/common"
)

// DefaultQuality is the number of samples taken per waypoint pair.
const DefaultQuality = 100

// BakedPoint is one resampled point of a baked path. Index is the fractional
// waypoint index the sample was taken at.
type BakedPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Dist  float64 `json:"dist"`
	Index float64 `json:"nodeIndex"`
}

func (p BakedPoint) Point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Baked is an arc-length annotated polyline. Points are ordered by
// non-decreasing Dist, the first at 0 and the last at Length. A Baked value
// is rebuilt whenever its waypoints change, never edited in place.
type Baked struct {
	Points []BakedPoint `json:"points"`
	Length float64      `json:"length"`
}

// BakeRounded resamples waypoints into a polyline. With rounding > 0 and at
// least three waypoints each corner is replaced by a quadratic Bézier running
// from the middle of the incoming segment to the middle of the outgoing one,
// so interior waypoints are never touched. Otherwise segments are straight.
func BakeRounded(waypoints []r2.Point, quality int, rounding float64) *Baked {
	b := &Baked{}
	if len(waypoints) == 0 {
		return b
	}
	if quality < 1 {
		quality = 1
	}

	last := waypoints[0]
	b.Points = make([]BakedPoint, 0, 1+quality*(len(waypoints)-1))
	b.Points = append(b.Points, BakedPoint{X: last.X, Y: last.Y})

	curved := rounding > 0 && len(waypoints) > 2
	total := 0.0
	for i := 0; i < len(waypoints)-1; i++ {
		p0 := waypoints[i]
		if i > 0 {
			p0 = waypoints[i-1]
		}
		p1, p2 := waypoints[i], waypoints[i+1]
		from := midpoint(p0, p1)
		to := midpoint(p1, p2)

		for j := 1; j <= quality; j++ {
			t := float64(j) / float64(quality)
			var cur r2.Point
			if curved {
				cur = quadratic(from, p1, to, t)
			} else {
				cur = lerpPoint(p1, p2, t)
			}
			total += cur.Sub(last).Norm()
			b.Points = append(b.Points, BakedPoint{X: cur.X, Y: cur.Y, Dist: total, Index: float64(i) + t})
			last = cur
		}
	}
	b.Length = total
	return b
}

// BakeSpline samples the Catmull-Rom curve through waypoints at quality steps
// per segment.
func BakeSpline(waypoints []r2.Point, quality int, tension float64) *Baked {
	b := &Baked{}
	if len(waypoints) == 0 {
		return b
	}
	if quality < 1 {
		quality = 1
	}
	c := Curve{Points: waypoints, Tension: tension}
	last := c.At(0)
	b.Points = append(b.Points, BakedPoint{X: last.X, Y: last.Y})
	if len(waypoints) < 2 {
		return b
	}

	segments := len(waypoints) - 1
	steps := quality * segments
	total := 0.0
	for i := 1; i <= steps; i++ {
		T := float64(i) / float64(steps)
		cur := c.At(T)
		total += cur.Sub(last).Norm()
		b.Points = append(b.Points, BakedPoint{X: cur.X, Y: cur.Y, Dist: total, Index: T * float64(segments)})
		last = cur
	}
	b.Length = total
	return b
}

func midpoint(a, b r2.Point) r2.Point {
	return lerpPoint(a, b, 0.5)
}

func lerpPoint(a, b r2.Point, t float64) r2.Point {
	return r2.Point{X: common.Lerp(a.X, b.X, t), Y: common.Lerp(a.Y, b.Y, t)}
}

func quadratic(a, ctrl, b r2.Point, t float64) r2.Point {
	u := 1 - t
	return a.Mul(u * u).Add(ctrl.Mul(2 * u * t)).Add(b.Mul(t * t))
}
