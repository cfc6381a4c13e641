package motion

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/grid"
)

func TestCellWalkerWalksFoundPath(t *testing.T) {
	idx := grid.Index{CellWidth: 10, CellHeight: 10}
	w := &CellWalker{Index: idx, Speed: 1}
	start := idx.ToWorldCenter(grid.Cell{Col: 0, Row: 0})
	goal := idx.ToWorldCenter(grid.Cell{Col: 3, Row: 0})

	if !w.FindPath(start, goal, grid.NewObstacleMap(idx, nil)) {
		t.Fatalf("expected a path")
	}
	if len(w.Path()) != 3 {
		t.Fatalf("expected 3 cells without the start, got %v", w.Path())
	}
	if !w.Move() {
		t.Fatalf("Move should start walking")
	}
	if w.Target() != (grid.Cell{Col: 1, Row: 0}) {
		t.Fatalf("first target = %v", w.Target())
	}

	pos := start
	finished := 0
	for i := 0; i < 10; i++ {
		step := w.Tick(pos, 1)
		pos = step.Pos
		if step.Finished {
			finished++
		}
	}
	if pos != goal || finished != 1 || w.IsMoving() {
		t.Fatalf("pos=%v finished=%d moving=%v", pos, finished, w.IsMoving())
	}
}

func TestCellWalkerTurnsTowardsTarget(t *testing.T) {
	w := &CellWalker{Index: grid.Index{CellWidth: 10, CellHeight: 10}, Speed: 0.5}
	w.SetPath([]r2.Point{{X: 5, Y: 25}})
	w.Move()
	step := w.Tick(r2.Point{X: 5, Y: 5}, 1)
	if !step.Turned || math.Abs(step.Angle-math.Pi/2) > 1e-9 || step.Pos != (r2.Point{X: 5, Y: 10}) {
		t.Fatalf("unexpected step %+v", step)
	}
}

func TestCellWalkerFailedSearchClearsPath(t *testing.T) {
	idx := grid.Index{CellWidth: 1, CellHeight: 1}
	w := &CellWalker{Index: idx, Search: grid.Octile(0)}
	w.SetPath([]r2.Point{{X: 1, Y: 1}})
	if w.FindPath(r2.Point{}, r2.Point{X: 5, Y: 5}, nil) {
		t.Fatalf("zero iteration search should fail")
	}
	if len(w.Path()) != 0 || w.Move() {
		t.Fatalf("failed search should leave nothing to walk")
	}
}

func TestSmoothFollower(t *testing.T) {
	newFollower := func() *SmoothFollower {
		return &SmoothFollower{
			Enabled:         true,
			MaxSpeed:        100,
			MinSpeed:        10,
			Decel:           50,
			RotationSpeed:   1,
			EffectiveRadius: 50,
		}
	}

	t.Run("eases_by_distance", func(t *testing.T) {
		f := newFollower()
		f.SetTargetPosition(r2.Point{X: 100, Y: 0})
		b := f.Tick(Body{}, r2.Point{}, false, 0.1)
		if math.Abs(b.Pos.X-10) > 1e-9 || b.Pos.Y != 0 {
			t.Fatalf("pos = %v, want (10, 0)", b.Pos)
		}
		f.SetTargetPosition(r2.Point{X: 35, Y: 0})
		f.Tick(b, r2.Point{}, false, 0.1)
		if want := 10 + 90*25.0/50; math.Abs(f.CurrentSpeed()-want) > 1e-9 {
			t.Fatalf("speed = %v, want %v", f.CurrentSpeed(), want)
		}
	})

	t.Run("never_overshoots", func(t *testing.T) {
		f := newFollower()
		f.MinSpeed = 100
		b := f.Tick(Body{}, r2.Point{X: 2, Y: 0}, true, 0.1)
		if math.Abs(b.Pos.X-2) > 1e-9 {
			t.Fatalf("pos = %v, want (2, 0)", b.Pos)
		}
	})

	t.Run("snaps_close_target", func(t *testing.T) {
		f := newFollower()
		f.Velocity = r2.Point{X: 30}
		b := f.Tick(Body{Pos: r2.Point{X: 9.8}}, r2.Point{X: 10}, true, 0.1)
		if b.Pos != (r2.Point{X: 10}) || f.IsMoving() {
			t.Fatalf("expected snap, got %v moving=%v", b.Pos, f.IsMoving())
		}
	})

	t.Run("steering_turns_direct_does_not", func(t *testing.T) {
		f := newFollower()
		b := f.Tick(Body{}, r2.Point{X: 0, Y: 100}, true, 0.5)
		if math.Abs(b.Angle-math.Pi/4) > 1e-9 {
			t.Fatalf("steering angle = %v, want pi/4", b.Angle)
		}
		f = newFollower()
		f.Mode = Direct
		b = f.Tick(Body{}, r2.Point{X: 0, Y: 100}, true, 0.5)
		if b.Angle != 0 {
			t.Fatalf("direct mode rotated to %v", b.Angle)
		}
	})

	t.Run("disabled_decays", func(t *testing.T) {
		f := newFollower()
		f.Enabled = false
		f.Velocity = r2.Point{X: 30, Y: 40}
		f.Tick(Body{}, r2.Point{X: 100}, true, 0.5)
		if math.Abs(f.CurrentSpeed()-25) > 1e-9 {
			t.Fatalf("speed = %v, want 25", f.CurrentSpeed())
		}
		for i := 0; i < 10; i++ {
			f.Tick(Body{}, r2.Point{}, false, 0.5)
		}
		if f.IsMoving() {
			t.Fatalf("disabled follower should come to rest")
		}
	})

	t.Run("stops_on_solids_per_axis", func(t *testing.T) {
		f := newFollower()
		f.StopOnSolids = true
		f.Solid = func(p r2.Point) bool { return p.X > 5 }
		b := f.Tick(Body{Pos: r2.Point{X: 5, Y: 0}}, r2.Point{X: 105, Y: 100}, true, 0.1)
		if b.Pos.X != 5 || b.Pos.Y <= 0 {
			t.Fatalf("expected to slide along y, got %v", b.Pos)
		}
		if f.Velocity.X != 0 || f.Velocity.Y == 0 {
			t.Fatalf("velocity = %v", f.Velocity)
		}
	})
}

func TestTargetRegistry(t *testing.T) {
	r := NewTargetRegistry[int]()
	if _, ok := r.Get("bees"); ok {
		t.Fatalf("empty registry returned a target")
	}
	r.Set("bees", 7)
	r.Set("wasps", 9)
	if e, ok := r.Get("bees"); !ok || e != 7 {
		t.Fatalf("bees target = %v %v", e, ok)
	}
	r.Clear("bees")
	if _, ok := r.Get("bees"); ok {
		t.Fatalf("cleared group still has a target")
	}
	if e, _ := r.Get("wasps"); e != 9 {
		t.Fatalf("clearing one group touched another")
	}
}

func TestFollowerSnapshotContinues(t *testing.T) {
	shapes := []struct {
		name  string
		shape Shape
	}{
		{"rounded", ShapeRounded},
		{"spline", ShapeSpline},
	}
	for _, sh := range shapes {
		t.Run(sh.name, func(t *testing.T) {
			a := &Follower{Controller: Controller{Speed: 60, Accel: 30, Decel: 40}, Shape: sh.shape, Rounding: 1, Tension: 0.2}
			for _, p := range []r2.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 80}, {X: 20, Y: 120}} {
				a.AddNode(p)
			}
			if _, ok := a.StartPath(); !ok {
				t.Fatalf("StartPath failed")
			}
			for i := 0; i < 30; i++ {
				a.Tick(1.0 / 30)
			}

			raw, err := json.Marshal(a.Snapshot())
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var snap FollowerSnapshot
			if err := json.Unmarshal(raw, &snap); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			b := &Follower{}
			b.Restore(snap)

			for i := 0; i < 200; i++ {
				sa, sb := a.Tick(1.0/30), b.Tick(1.0/30)
				if sa.Finished != sb.Finished || sa.Pos.Sub(sb.Pos).Norm() > 1e-6 {
					t.Fatalf("tick %d diverged: %+v vs %+v", i, sa, sb)
				}
			}
		})
	}
}

func TestFollowerRestoreToleratesMissingFields(t *testing.T) {
	var snap FollowerSnapshot
	if err := json.Unmarshal([]byte(`{"s": 50, "act": true}`), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	f := &Follower{}
	f.Restore(snap)
	if f.IsMoving() {
		t.Fatalf("restoring without waypoints must not leave the follower active")
	}
	if f.Waypoints == nil || f.NodeCount() != 0 {
		t.Fatalf("waypoints should default to an empty list")
	}

	var partial FollowerSnapshot
	if err := json.Unmarshal([]byte(`{"s": 50, "act": true, "dt": 5, "path": [{"X": 0, "Y": 0}, {"X": 100, "Y": 0}]}`), &partial); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	f.Restore(partial)
	if !f.IsMoving() || math.Abs(f.State.Length-100) > 1e-9 {
		t.Fatalf("missing baked path should be rebaked, state %+v", f.State)
	}
}

func TestFollowerNodeQueries(t *testing.T) {
	f := &Follower{}
	f.AddNode(r2.Point{X: 1, Y: 2})
	if p, ok := f.NodeAt(0); !ok || p != (r2.Point{X: 1, Y: 2}) {
		t.Fatalf("NodeAt(0) = %v %v", p, ok)
	}
	if _, ok := f.NodeAt(1); ok {
		t.Fatalf("NodeAt past the end should fail")
	}
	f.Shape = ShapeSpline
	if _, ok := f.StartPath(); ok {
		t.Fatalf("a spline needs two points")
	}
	f.ClearPath()
	if f.NodeCount() != 0 {
		t.Fatalf("ClearPath left %d nodes", f.NodeCount())
	}
}

func TestTileSnapshotRoundTrip(t *testing.T) {
	s := &TileStepper{Index: grid.Index{CellWidth: 10, CellHeight: 10}, Speed: 4}
	s.AddTile(3, 0)
	s.Start()
	pos, _ := s.Tick(r2.Point{X: 5, Y: 5}, 1)

	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap TileSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := &TileStepper{Index: s.Index, Speed: s.Speed}
	r.Restore(snap)

	pa, pb := pos, pos
	for i := 0; i < 20; i++ {
		var ea, eb TileEvents
		pa, ea = s.Tick(pa, 1)
		pb, eb = r.Tick(pb, 1)
		if pa != pb || ea != eb {
			t.Fatalf("tick %d diverged: %v %+v vs %v %+v", i, pa, ea, pb, eb)
		}
	}
}

func TestWalkerRestoreRejectsBadIndex(t *testing.T) {
	cases := []struct {
		name string
		next int
	}{
		{"negative", -1},
		{"past the end", 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := &CellWalker{Index: grid.Index{CellWidth: 10, CellHeight: 10}}
			w.Restore(WalkerSnapshot{
				Speed:  1,
				Path:   []r2.Point{{X: 15, Y: 5}, {X: 25, Y: 5}},
				Next:   c.next,
				Moving: true,
			})
			if w.IsMoving() {
				t.Fatalf("walker with index %d should not be moving", c.next)
			}
			step := w.Tick(r2.Point{X: 5, Y: 5}, 1.0/60)
			if step.Pos != (r2.Point{X: 5, Y: 5}) || step.Finished {
				t.Fatalf("unexpected step %+v", step)
			}
			if !w.Move() {
				t.Fatalf("Move should restart the restored path")
			}
		})
	}
}

func TestFollowerBakedOutline(t *testing.T) {
	waypoints := []r2.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 80}, {X: 20, Y: 120}}
	shapes := []struct {
		name  string
		shape Shape
	}{
		{"rounded", ShapeRounded},
		{"spline", ShapeSpline},
	}
	for _, sh := range shapes {
		t.Run(sh.name, func(t *testing.T) {
			f := &Follower{Controller: Controller{Speed: 50}, Shape: sh.shape, Tension: 0.2, Quality: 20}
			if f.Baked() != nil {
				t.Fatalf("Baked before StartPath should be nil")
			}
			for _, p := range waypoints {
				f.AddNode(p)
			}
			if _, ok := f.StartPath(); !ok {
				t.Fatalf("StartPath failed")
			}
			b := f.Baked()
			if b == nil || len(b.Points) < 2 {
				t.Fatalf("no outline baked")
			}
			if b.Points[0].Point() != waypoints[0] {
				t.Fatalf("outline starts at %v", b.Points[0].Point())
			}
			total := f.Track().Total()
			if math.Abs(b.Length-total) > total*0.01 {
				t.Fatalf("outline length %v, track length %v", b.Length, total)
			}
		})
	}
}

func TestSplineSnapshotOmitsOutline(t *testing.T) {
	f := &Follower{Controller: Controller{Speed: 50}, Shape: ShapeSpline}
	f.AddNode(r2.Point{X: 0, Y: 0})
	f.AddNode(r2.Point{X: 100, Y: 0})
	f.StartPath()
	snap := f.Snapshot()
	if len(snap.Baked) != 0 {
		t.Fatalf("spline snapshot carried %d baked points", len(snap.Baked))
	}
	r := &Follower{}
	r.Restore(snap)
	if r.Baked() == nil || !r.IsMoving() {
		t.Fatalf("restored spline lost its outline or state")
	}
}
