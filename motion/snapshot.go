package motion

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/path"
)

// FollowerSnapshot is the saved form of a Follower. Baked may be empty; the
// path is rebaked from Waypoints on restore then.
type FollowerSnapshot struct {
	Speed     float64           `json:"s"`
	Accel     float64           `json:"a"`
	Decel     float64           `json:"d"`
	Rounding  float64           `json:"r"`
	Tension   float64           `json:"tn,omitempty"`
	Shape     Shape             `json:"shape,omitempty"`
	Stop      StopPolicy        `json:"stop,omitempty"`
	Quality   int               `json:"q,omitempty"`
	Waypoints []r2.Point        `json:"path"`
	Baked     []path.BakedPoint `json:"bp"`
	State
}

func (f *Follower) Snapshot() FollowerSnapshot {
	snap := FollowerSnapshot{
		Speed:     f.Speed,
		Accel:     f.Accel,
		Decel:     f.Decel,
		Rounding:  f.Rounding,
		Tension:   f.Tension,
		Shape:     f.Shape,
		Stop:      f.StopPolicy,
		Quality:   f.Quality,
		Waypoints: clonePoints(f.Waypoints),
		State:     f.State,
	}
	if f.baked != nil && f.Shape == ShapeRounded {
		snap.Baked = append([]path.BakedPoint(nil), f.baked.Points...)
	}
	return snap
}

func (f *Follower) Restore(snap FollowerSnapshot) {
	f.Speed = snap.Speed
	f.Accel = snap.Accel
	f.Decel = snap.Decel
	f.Rounding = snap.Rounding
	f.Tension = snap.Tension
	f.Shape = snap.Shape
	f.StopPolicy = snap.Stop
	f.Quality = snap.Quality
	f.Waypoints = clonePoints(snap.Waypoints)
	if f.Waypoints == nil {
		f.Waypoints = []r2.Point{}
	}
	f.State = snap.State
	f.baked = nil

	var t path.Track
	if f.Shape == ShapeRounded && len(snap.Baked) > 0 {
		f.baked = &path.Baked{Points: append([]path.BakedPoint(nil), snap.Baked...)}
		f.baked.Length = f.baked.Points[len(f.baked.Points)-1].Dist
		t = f.baked
	} else if len(f.Waypoints) >= 2 {
		t = f.build()
	}
	if t == nil {
		f.track = nil
		f.State.Active = false
		return
	}
	f.Resume(t)
}

// TileSnapshot is the saved form of a TileStepper.
type TileSnapshot struct {
	Stack    []TileMove `json:"stack"`
	Current  *TileMove  `json:"currentMove"`
	Sub      *TileMove  `json:"subTarget"`
	Moving   bool       `json:"isMoving"`
	Running  bool       `json:"isRunning"`
	Total    int        `json:"pathTotalSize"`
	Original []TileMove `json:"originalPath"`
}

func (s *TileStepper) Snapshot() TileSnapshot {
	snap := TileSnapshot{
		Stack:    append([]TileMove{}, s.stack...),
		Moving:   s.moving,
		Running:  s.running,
		Total:    s.total,
		Original: append([]TileMove{}, s.original...),
	}
	if s.current != nil {
		c := *s.current
		snap.Current = &c
	}
	if s.sub != nil {
		c := *s.sub
		snap.Sub = &c
	}
	return snap
}

func (s *TileStepper) Restore(snap TileSnapshot) {
	s.stack = append([]TileMove{}, snap.Stack...)
	s.original = append([]TileMove{}, snap.Original...)
	s.moving = snap.Moving
	s.running = snap.Running
	s.total = snap.Total
	s.current, s.sub = nil, nil
	if snap.Current != nil {
		c := *snap.Current
		s.current = &c
	}
	if snap.Sub != nil {
		c := *snap.Sub
		s.sub = &c
	}
}

// WalkerSnapshot is the saved form of a CellWalker.
type WalkerSnapshot struct {
	Speed  float64    `json:"speed"`
	Path   []r2.Point `json:"path"`
	Next   int        `json:"pathIndex"`
	Moving bool       `json:"isMoving"`
	Target r2.Point   `json:"target"`
}

func (w *CellWalker) Snapshot() WalkerSnapshot {
	return WalkerSnapshot{
		Speed:  w.Speed,
		Path:   clonePoints(w.path),
		Next:   w.next,
		Moving: w.moving,
		Target: w.target,
	}
}

func (w *CellWalker) Restore(snap WalkerSnapshot) {
	w.Speed = snap.Speed
	w.path = clonePoints(snap.Path)
	w.next = snap.Next
	if w.next < 0 || w.next >= len(w.path) {
		w.next = 0
		w.moving = false
	} else {
		w.moving = snap.Moving
	}
	w.target = snap.Target
}

// SmoothSnapshot is the saved form of a SmoothFollower. The entity target is
// owned by the TargetRegistry and saved by its owner.
type SmoothSnapshot struct {
	Enabled         bool         `json:"enabled"`
	Mode            SteeringMode `json:"mode"`
	MaxSpeed        float64      `json:"max"`
	MinSpeed        float64      `json:"min"`
	Decel           float64      `json:"dec"`
	RotationSpeed   float64      `json:"rot"`
	EffectiveRadius float64      `json:"rad"`
	StopOnSolids    bool         `json:"sos"`
	Velocity        r2.Point     `json:"vel"`
	HasTarget       bool         `json:"hpt"`
	Target          r2.Point     `json:"target"`
}

func (f *SmoothFollower) Snapshot() SmoothSnapshot {
	return SmoothSnapshot{
		Enabled:         f.Enabled,
		Mode:            f.Mode,
		MaxSpeed:        f.MaxSpeed,
		MinSpeed:        f.MinSpeed,
		Decel:           f.Decel,
		RotationSpeed:   f.RotationSpeed,
		EffectiveRadius: f.EffectiveRadius,
		StopOnSolids:    f.StopOnSolids,
		Velocity:        f.Velocity,
		HasTarget:       f.HasTarget,
		Target:          f.Target,
	}
}

func (f *SmoothFollower) Restore(snap SmoothSnapshot) {
	f.Enabled = snap.Enabled
	f.Mode = snap.Mode
	f.MaxSpeed = snap.MaxSpeed
	f.MinSpeed = snap.MinSpeed
	f.Decel = snap.Decel
	f.RotationSpeed = snap.RotationSpeed
	f.EffectiveRadius = snap.EffectiveRadius
	f.StopOnSolids = snap.StopOnSolids
	f.Velocity = snap.Velocity
	f.HasTarget = snap.HasTarget
	f.Target = snap.Target
}

// SwarmSnapshot is the saved form of a Swarmer. The swarm target is owned by
// the TargetRegistry.
type SwarmSnapshot struct {
	Active  bool `json:"isActive"`
	Flipped bool `json:"flipped,omitempty"`
}

func (s *Swarmer) Snapshot() SwarmSnapshot {
	return SwarmSnapshot{Active: s.Active, Flipped: s.Flipped}
}

func (s *Swarmer) Restore(snap SwarmSnapshot) {
	s.Active = snap.Active
	s.Flipped = snap.Flipped
}
