package path

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/common"
)

// Sample is a position along a track together with the fractional waypoint
// index it falls on.
type Sample struct {
	Pos   r2.Point
	Index float64
}

// Track is anything a mover can travel along by distance.
type Track interface {
	// Empty reports whether there is nothing to travel along, not even a
	// starting point.
	Empty() bool
	Total() float64
	Sample(d float64) Sample
	Start() r2.Point
	End() r2.Point
}

var (
	_ Track = (*Baked)(nil)
	_ Track = (*SplineTrack)(nil)
)

func (b *Baked) Empty() bool {
	return b == nil || len(b.Points) == 0
}

func (b *Baked) Total() float64 {
	return b.Length
}

func (b *Baked) Start() r2.Point {
	if len(b.Points) == 0 {
		return r2.Point{}
	}
	return b.Points[0].Point()
}

func (b *Baked) End() r2.Point {
	if len(b.Points) == 0 {
		return r2.Point{}
	}
	return b.Points[len(b.Points)-1].Point()
}

func (b *Baked) Sample(d float64) Sample {
	return b.PositionAtDistance(d)
}

// PositionAtDistance interpolates the baked polyline at distance d. Distances
// outside [0, Length] clamp to the first or last point.
func (b *Baked) PositionAtDistance(d float64) Sample {
	switch len(b.Points) {
	case 0:
		return Sample{}
	case 1:
		return Sample{Pos: b.Points[0].Point(), Index: b.Points[0].Index}
	}
	if d <= 0 {
		p := b.Points[0]
		return Sample{Pos: p.Point(), Index: p.Index}
	}
	for i := 1; i < len(b.Points); i++ {
		p2 := b.Points[i]
		if p2.Dist < d {
			continue
		}
		p1 := b.Points[i-1]
		width := p2.Dist - p1.Dist
		if width <= 0 {
			return Sample{Pos: p2.Point(), Index: p2.Index}
		}
		t := (d - p1.Dist) / width
		return Sample{
			Pos:   lerpPoint(p1.Point(), p2.Point(), t),
			Index: common.Lerp(p1.Index, p2.Index, t),
		}
	}
	last := b.Points[len(b.Points)-1]
	return Sample{Pos: last.Point(), Index: last.Index}
}

// SplineTrack travels a Curve at constant speed by re-evaluating the curve at
// the time its arc-length table gives for each distance.
type SplineTrack struct {
	Curve Curve
	Table *Table
}

func NewSplineTrack(points []r2.Point, tension float64, steps int) *SplineTrack {
	c := Curve{Points: points, Tension: tension}
	return &SplineTrack{Curve: c, Table: NewTable(c, steps)}
}

// Empty reports true below two points; a spline needs a segment to move on.
func (s *SplineTrack) Empty() bool {
	return s == nil || len(s.Curve.Points) < 2
}

func (s *SplineTrack) Total() float64 {
	if s.Table == nil {
		return 0
	}
	return s.Table.Length
}

func (s *SplineTrack) Start() r2.Point {
	return s.Curve.At(0)
}

func (s *SplineTrack) End() r2.Point {
	return s.Curve.At(1)
}

func (s *SplineTrack) Sample(d float64) Sample {
	T := 0.0
	if s.Table != nil {
		T = s.Table.ParamAtDistance(d)
	}
	segments := max(0, len(s.Curve.Points)-1)
	return Sample{Pos: s.Curve.At(T), Index: T * float64(segments)}
}

// Heading returns the angle from pos to the point lookahead further along t
// than d. ok is false when the two points coincide, which happens at the end
// of a track; callers keep their previous angle then.
func Heading(t Track, pos r2.Point, d, lookahead float64) (float64, bool) {
	if t == nil || t.Total() <= 0 {
		return 0, false
	}
	ahead := t.Sample(d + lookahead).Pos
	if ahead.Sub(pos).Norm() < 1e-9 {
		return 0, false
	}
	return common.AngleTo(pos.X, pos.Y, ahead.X, ahead.Y), true
}
