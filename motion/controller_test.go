package motion

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/path"
)

func straightTrack(length float64) path.Track {
	return path.BakeRounded([]r2.Point{{X: 0, Y: 0}, {X: length, Y: 0}}, 10, 0)
}

func TestStartSpeed(t *testing.T) {
	cases := []struct {
		name      string
		accel     float64
		wantSpeed float64
	}{
		{"instant", 0, 80},
		{"accelerating", 40, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctl := Controller{Speed: 80, Accel: c.accel}
			start, ok := ctl.Start(straightTrack(100))
			if !ok {
				t.Fatalf("Start failed")
			}
			if start != (r2.Point{}) {
				t.Fatalf("start point = %v", start)
			}
			if ctl.State.Speed != c.wantSpeed || ctl.State.Target != 80 || !ctl.State.Active {
				t.Fatalf("unexpected state %+v", ctl.State)
			}
		})
	}
}

func TestStartRejectsEmptyTrack(t *testing.T) {
	ctl := Controller{Speed: 10}
	if _, ok := ctl.Start(nil); ok {
		t.Fatalf("nil track should be rejected")
	}
	if _, ok := ctl.Start(&path.Baked{}); ok {
		t.Fatalf("empty track should be rejected")
	}
	if ctl.IsMoving() {
		t.Fatalf("controller should stay idle")
	}
}

func TestAccelerationIsMonotonic(t *testing.T) {
	ctl := Controller{Speed: 100, Accel: 50}
	ctl.Start(straightTrack(10000))
	prev := ctl.State.Speed
	for i := 0; i < 240; i++ {
		ctl.Tick(1.0 / 60)
		if ctl.State.Speed < prev {
			t.Fatalf("speed dropped from %v to %v at tick %d", prev, ctl.State.Speed, i)
		}
		if ctl.State.Speed > 100 {
			t.Fatalf("speed overshot target: %v", ctl.State.Speed)
		}
		prev = ctl.State.Speed
	}
	if prev != 100 {
		t.Fatalf("expected cruise speed after 4s, got %v", prev)
	}
}

func TestDecelerationStopsOnTheEnd(t *testing.T) {
	ctl := Controller{Speed: 100, Decel: 200}
	track := straightTrack(100)
	ctl.Start(track)

	finished := 0
	var last Step
	for i := 0; i < 10000 && ctl.IsMoving(); i++ {
		remaining := ctl.State.Length - ctl.State.Distance
		last = ctl.Tick(1.0 / 60)
		if last.Finished {
			finished++
			continue
		}
		if ctl.State.Speed > math.Sqrt(2*200*remaining)+1e-9 {
			t.Fatalf("speed %v exceeds braking limit for %v remaining", ctl.State.Speed, remaining)
		}
	}
	if finished != 1 {
		t.Fatalf("expected one finish, got %d", finished)
	}
	if ctl.State.Speed != 0 || ctl.State.Distance != ctl.State.Length {
		t.Fatalf("unexpected final state %+v", ctl.State)
	}
	if last.Pos != track.End() {
		t.Fatalf("final position %v, want %v", last.Pos, track.End())
	}
}

func TestOneSecondScenario(t *testing.T) {
	ctl := Controller{Speed: 100}
	ctl.Start(straightTrack(100))

	finished := 0
	var pos r2.Point
	for i := 0; i < 3; i++ {
		step := ctl.Tick(1)
		if step.Moved {
			pos = step.Pos
		}
		if step.Finished {
			finished++
		}
	}
	if pos != (r2.Point{X: 100, Y: 0}) {
		t.Fatalf("position = %v, want (100, 0)", pos)
	}
	if finished != 1 {
		t.Fatalf("finished fired %d times", finished)
	}
}

func TestStopPolicies(t *testing.T) {
	t.Run("hard", func(t *testing.T) {
		ctl := Controller{Speed: 100, Decel: 100}
		ctl.Start(straightTrack(1000))
		ctl.Tick(0.1)
		ctl.Stop()
		if ctl.IsMoving() || ctl.State.Speed != 0 || ctl.State.Target != 0 {
			t.Fatalf("hard stop left state %+v", ctl.State)
		}
		if step := ctl.Tick(0.1); step.Moved {
			t.Fatalf("stopped controller moved")
		}
	})

	t.Run("decelerate", func(t *testing.T) {
		ctl := Controller{Speed: 100, Decel: 100, StopPolicy: StopDecelerate}
		ctl.Start(straightTrack(1000))
		ctl.Tick(0.1)
		ctl.Stop()
		if !ctl.IsMoving() {
			t.Fatalf("decelerating stop should keep moving")
		}
		prev := ctl.State.Speed
		for i := 0; i < 100 && ctl.IsMoving(); i++ {
			if step := ctl.Tick(0.1); step.Finished {
				t.Fatalf("decelerating stop must not finish the path")
			}
			if ctl.State.Speed > prev {
				t.Fatalf("speed increased while stopping")
			}
			prev = ctl.State.Speed
		}
		if ctl.IsMoving() || ctl.State.Speed != 0 {
			t.Fatalf("controller did not come to rest: %+v", ctl.State)
		}
		if ctl.State.Distance >= ctl.State.Length {
			t.Fatalf("stop ran to the end of the track")
		}
	})

	t.Run("decelerate_without_decel", func(t *testing.T) {
		ctl := Controller{Speed: 100, StopPolicy: StopDecelerate}
		ctl.Start(straightTrack(1000))
		ctl.Stop()
		if ctl.IsMoving() {
			t.Fatalf("no deceleration means a hard stop")
		}
	})
}

func TestZeroDeltaIsNoop(t *testing.T) {
	ctl := Controller{Speed: 100, Accel: 10, Decel: 10}
	ctl.Start(straightTrack(100))
	before := ctl.State
	if step := ctl.Tick(0); step.Moved || step.Finished {
		t.Fatalf("zero dt produced %+v", step)
	}
	if ctl.State != before {
		t.Fatalf("zero dt changed state: %+v -> %+v", before, ctl.State)
	}
}

func TestSetSpeedOnlyRetargetsWhileActive(t *testing.T) {
	ctl := Controller{Speed: 10}
	ctl.SetSpeed(50)
	if ctl.State.Target != 0 {
		t.Fatalf("idle controller target changed to %v", ctl.State.Target)
	}
	ctl.Start(straightTrack(1000))
	ctl.SetSpeed(70)
	if ctl.State.Target != 70 {
		t.Fatalf("target = %v, want 70", ctl.State.Target)
	}
	ctl.Tick(0.5)
	if ctl.State.Speed != 70 {
		t.Fatalf("instant speed change expected without accel, got %v", ctl.State.Speed)
	}
}

func TestProgressAndHeading(t *testing.T) {
	ctl := Controller{Speed: 25}
	ctl.Start(path.NewSplineTrack([]r2.Point{{X: 0, Y: 0}, {X: 0, Y: 100}}, 0, path.DefaultTableSteps))
	step := ctl.Tick(1)
	if math.Abs(ctl.Progress()-0.25) > 1e-6 {
		t.Fatalf("progress = %v", ctl.Progress())
	}
	angle, ok := ctl.Heading(step.Pos)
	if !ok || math.Abs(angle-math.Pi/2) > 1e-6 {
		t.Fatalf("heading = %v ok=%v", angle, ok)
	}
}

func TestZeroLengthTrackFinishes(t *testing.T) {
	ctl := Controller{Speed: 100, Decel: 50}
	tr := path.BakeRounded([]r2.Point{{X: 10, Y: 10}, {X: 10, Y: 10}}, 10, 0)
	if _, ok := ctl.Start(tr); !ok {
		t.Fatalf("Start failed")
	}
	step := ctl.Tick(1.0 / 60)
	if !step.Finished || ctl.IsMoving() {
		t.Fatalf("zero-length track should finish on the first tick, step %+v state %+v", step, ctl.State)
	}
	if step.Pos != (r2.Point{X: 10, Y: 10}) {
		t.Fatalf("finished at %v", step.Pos)
	}
	if again := ctl.Tick(1.0 / 60); again.Finished {
		t.Fatalf("finished twice")
	}
}

func TestFollowerDegenerateWaypoints(t *testing.T) {
	cases := []struct {
		name      string
		points    []r2.Point
		wantStart bool
	}{
		{"empty", nil, false},
		{"single", []r2.Point{{X: 10, Y: 10}}, false},
		{"duplicate", []r2.Point{{X: 10, Y: 10}, {X: 10, Y: 10}}, true},
	}
	for _, c := range cases {
		for shape, shapeName := range map[Shape]string{ShapeRounded: "rounded", ShapeSpline: "spline"} {
			t.Run(c.name+"/"+shapeName, func(t *testing.T) {
				f := &Follower{Controller: Controller{Speed: 100, Decel: 50}, Shape: shape}
				for _, p := range c.points {
					f.AddNode(p)
				}
				if _, ok := f.StartPath(); ok != c.wantStart {
					t.Fatalf("StartPath ok = %v, want %v", ok, c.wantStart)
				}
				finished := 0
				for i := 0; i < 600; i++ {
					if f.Tick(1.0 / 60).Finished {
						finished++
					}
				}
				if f.IsMoving() {
					t.Fatalf("still moving after 10s, state %+v", f.State)
				}
				want := 0
				if c.wantStart {
					want = 1
				}
				if finished != want {
					t.Fatalf("finished %d times, want %d", finished, want)
				}
			})
		}
	}
}
