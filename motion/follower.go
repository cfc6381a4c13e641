package motion

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/path"
)

type Shape int

const (
	// ShapeRounded bakes a polyline whose corners are optionally rounded.
	ShapeRounded Shape = iota
	// ShapeSpline travels a Catmull-Rom curve through the waypoints.
	ShapeSpline
)

// Follower owns a waypoint list and the Controller that travels it.
//
// Waypoints appended while a path is running are not picked up until the
// next StartPath.
type Follower struct {
	Controller

	Shape    Shape
	Rounding float64
	Tension  float64
	Quality  int

	Waypoints []r2.Point

	baked *path.Baked
}

func (f *Follower) AddNode(p r2.Point) {
	f.Waypoints = append(f.Waypoints, p)
}

// ClearPath drops every waypoint and stops immediately.
func (f *Follower) ClearPath() {
	f.Waypoints = f.Waypoints[:0]
	f.State.Active = false
	f.State.Node = 0
	f.State.Speed = 0
	f.State.Target = 0
}

// StartPath builds the track for the current waypoints and starts the
// controller on it. It returns the point the mover should snap to. Fewer
// than two waypoints is a no-op.
func (f *Follower) StartPath() (r2.Point, bool) {
	if len(f.Waypoints) < 2 {
		return r2.Point{}, false
	}
	t := f.build()
	if t == nil {
		return r2.Point{}, false
	}
	return f.Start(t)
}

func (f *Follower) build() path.Track {
	quality := f.Quality
	if quality <= 0 {
		quality = path.DefaultQuality
	}
	switch f.Shape {
	case ShapeSpline:
		f.baked = path.BakeSpline(f.Waypoints, quality, f.Tension)
		return path.NewSplineTrack(clonePoints(f.Waypoints), f.Tension, path.DefaultTableSteps)
	default:
		f.baked = path.BakeRounded(f.Waypoints, quality, f.Rounding)
		return f.baked
	}
}

func (f *Follower) NodeCount() int {
	return len(f.Waypoints)
}

// NodeAt returns waypoint i. ok is false outside the list.
func (f *Follower) NodeAt(i int) (r2.Point, bool) {
	if i < 0 || i >= len(f.Waypoints) {
		return r2.Point{}, false
	}
	return f.Waypoints[i], true
}

func (f *Follower) CurrentNode() int {
	return f.State.Node
}

// Baked returns the polyline of the current path, or nil before the first
// StartPath. Splines are travelled through their arc-length table; their
// polyline is a sampled outline of the same curve.
func (f *Follower) Baked() *path.Baked {
	return f.baked
}

func clonePoints(src []r2.Point) []r2.Point {
	if src == nil {
		return nil
	}
	out := make([]r2.Point, len(src))
	copy(out, src)
	return out
}
