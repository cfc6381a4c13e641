package path

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

func pts(xy ...float64) []r2.Point {
	out := make([]r2.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, r2.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func checkDistances(t *testing.T, b *Baked) {
	t.Helper()
	if len(b.Points) == 0 {
		t.Fatalf("empty bake")
	}
	if b.Points[0].Dist != 0 {
		t.Fatalf("first dist = %v, want 0", b.Points[0].Dist)
	}
	sum := 0.0
	for i := 1; i < len(b.Points); i++ {
		if b.Points[i].Dist < b.Points[i-1].Dist {
			t.Fatalf("dist decreases at %d", i)
		}
		sum += b.Points[i].Point().Sub(b.Points[i-1].Point()).Norm()
	}
	last := b.Points[len(b.Points)-1].Dist
	if math.Abs(last-b.Length) > 1e-9 || math.Abs(sum-b.Length) > 1e-6 {
		t.Fatalf("last=%v length=%v sum=%v", last, b.Length, sum)
	}
}

func TestBakeDistancesSelfConsistent(t *testing.T) {
	waypoints := pts(0, 0, 50, 0, 50, 50, 120, 80, 10, 90)
	cases := []struct {
		name string
		bake *Baked
	}{
		{"sharp", BakeRounded(waypoints, DefaultQuality, 0)},
		{"rounded", BakeRounded(waypoints, DefaultQuality, 1)},
		{"rounded_low_quality", BakeRounded(waypoints, 0, 1)},
		{"spline", BakeSpline(waypoints, 20, 0)},
		{"spline_tense", BakeSpline(waypoints, 20, 0.8)},
		{"two_points_rounded", BakeRounded(pts(0, 0, 10, 10), 10, 1)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			checkDistances(t, c.bake)
		})
	}
}

func TestBakeSharpIsPolylineLength(t *testing.T) {
	b := BakeRounded(pts(0, 0, 30, 0, 30, 40), 7, 0)
	if math.Abs(b.Length-70) > 1e-9 {
		t.Fatalf("length = %v, want 70", b.Length)
	}
	if got := b.End(); got != (r2.Point{X: 30, Y: 40}) {
		t.Fatalf("end = %v", got)
	}
	if n := len(b.Points); n != 1+7*2 {
		t.Fatalf("expected %d points, got %d", 1+7*2, n)
	}
}

func TestBakeRoundedSkipsCorner(t *testing.T) {
	corner := r2.Point{X: 100, Y: 0}
	b := BakeRounded([]r2.Point{{X: 0, Y: 0}, corner, {X: 100, Y: 100}}, DefaultQuality, 1)
	for i, p := range b.Points {
		if p.Point().Sub(corner).Norm() < 1 {
			t.Fatalf("point %d (%v) touches the corner", i, p)
		}
	}
}

func TestBakeSingleWaypoint(t *testing.T) {
	b := BakeRounded(pts(5, 5), DefaultQuality, 1)
	if len(b.Points) != 1 || b.Length != 0 {
		t.Fatalf("unexpected bake %+v", b)
	}
	if s := b.PositionAtDistance(10); s.Pos != (r2.Point{X: 5, Y: 5}) {
		t.Fatalf("single point sample = %v", s.Pos)
	}
	if empty := BakeRounded(nil, 10, 0); len(empty.Points) != 0 {
		t.Fatalf("nil waypoints should bake empty")
	}
}

func TestPositionAtDistance(t *testing.T) {
	b := BakeRounded(pts(0, 0, 100, 0, 100, 100), 4, 0)
	cases := []struct {
		name  string
		d     float64
		want  r2.Point
		index float64
	}{
		{"before_start", -5, r2.Point{X: 0, Y: 0}, 0},
		{"start", 0, r2.Point{X: 0, Y: 0}, 0},
		{"mid_first", 50, r2.Point{X: 50, Y: 0}, 0.5},
		{"corner", 100, r2.Point{X: 100, Y: 0}, 1},
		{"mid_second", 130, r2.Point{X: 100, Y: 30}, 1.3},
		{"past_end", 500, r2.Point{X: 100, Y: 100}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := b.PositionAtDistance(c.d)
			if s.Pos.Sub(c.want).Norm() > 1e-9 {
				t.Fatalf("pos = %v, want %v", s.Pos, c.want)
			}
			if math.Abs(s.Index-c.index) > 1e-9 {
				t.Fatalf("index = %v, want %v", s.Index, c.index)
			}
		})
	}
}

func TestCurveEndpoints(t *testing.T) {
	c := Curve{Points: pts(0, 0, 40, 60, 90, 10, 150, 70)}
	if c.At(0) != c.Points[0] {
		t.Fatalf("curve should start on the first point, got %v", c.At(0))
	}
	if c.At(1).Sub(c.Points[3]).Norm() > 1e-9 {
		t.Fatalf("curve should end on the last point, got %v", c.At(1))
	}
	for i, p := range c.Points {
		T := float64(i) / 3
		if c.At(T).Sub(p).Norm() > 1e-9 {
			t.Fatalf("curve misses control point %d: %v", i, c.At(T))
		}
	}
}

func TestCollinearSplineIsStraight(t *testing.T) {
	st := NewSplineTrack(pts(0, 0, 10, 10, 20, 20, 30, 30), 0, DefaultTableSteps)
	for i := 0; i <= 100; i++ {
		p := st.Curve.At(float64(i) / 100)
		if math.Abs(p.X-p.Y) > 1e-9 {
			t.Fatalf("curve leaves the line at T=%v: %v", float64(i)/100, p)
		}
	}
	want := math.Sqrt(2) * 30
	if math.Abs(st.Total()-want) > 1e-6 {
		t.Fatalf("length = %v, want %v", st.Total(), want)
	}
}

func TestParamAtDistance(t *testing.T) {
	tbl := NewTable(Curve{Points: pts(0, 0, 200, 0)}, 10)
	cases := []struct {
		d, want float64
	}{
		{-1, 0},
		{0, 0},
		{50, 0.25},
		{100, 0.5},
		{200, 1},
		{999, 1},
	}
	for _, c := range cases {
		if got := tbl.ParamAtDistance(c.d); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParamAtDistance(%v) = %v, want %v", c.d, got, c.want)
		}
	}

	flat := NewTable(Curve{Points: pts(5, 5, 5, 5, 5, 5)}, 10)
	if flat.Length != 0 || flat.ParamAtDistance(1) != 1 {
		t.Fatalf("degenerate curve should clamp, length=%v", flat.Length)
	}
	if got := NewTable(Curve{Points: pts(1, 1)}, 10); len(got.Entries) != 0 {
		t.Fatalf("single point curve should give an empty table")
	}
}

func TestHeadingLooksAhead(t *testing.T) {
	st := NewSplineTrack(pts(0, 0, 0, 100), 0, DefaultTableSteps)
	angle, ok := Heading(st, st.Sample(10).Pos, 10, 1)
	if !ok || math.Abs(angle-math.Pi/2) > 1e-6 {
		t.Fatalf("heading = %v ok=%v, want pi/2", angle, ok)
	}
	if _, ok := Heading(st, st.End(), st.Total(), 1); ok {
		t.Fatalf("heading at the end should report no direction")
	}
}
