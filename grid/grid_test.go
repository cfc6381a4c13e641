package grid

import (
	"testing"

	"github.com/golang/geo/r2"
)

func TestNewIndexRejectsBadSizes(t *testing.T) {
	cases := []struct {
		name string
		w, h float64
		ok   bool
	}{
		{"square", 16, 16, true},
		{"rect", 32, 8, true},
		{"zero_width", 0, 16, false},
		{"negative_height", 16, -1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewIndex(c.w, c.h)
			if (err == nil) != c.ok {
				t.Fatalf("NewIndex(%v, %v) err=%v, want ok=%v", c.w, c.h, err, c.ok)
			}
		})
	}
}

func TestCellCenterRoundTrip(t *testing.T) {
	idx := Index{CellWidth: 32, CellHeight: 24}
	cells := []Cell{{0, 0}, {1, 2}, {-1, -1}, {-7, 3}, {100, -40}}
	for _, c := range cells {
		if got := idx.PointToCell(idx.ToWorldCenter(c)); got != c {
			t.Fatalf("round trip of %v gave %v", c, got)
		}
	}
}

func TestToCellFloors(t *testing.T) {
	idx := Index{CellWidth: 10, CellHeight: 10}
	cases := []struct {
		x, y float64
		want Cell
	}{
		{0, 0, Cell{0, 0}},
		{9.99, 9.99, Cell{0, 0}},
		{10, 0, Cell{1, 0}},
		{-0.5, -10, Cell{-1, -1}},
	}
	for _, c := range cases {
		if got := idx.ToCell(c.x, c.y); got != c.want {
			t.Fatalf("ToCell(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestBlockRectHalfOpen(t *testing.T) {
	idx := Index{CellWidth: 16, CellHeight: 16}
	m := NewObstacleMap(idx, nil)
	m.BlockRect(r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 32, Y: 16}))
	if m.Len() != 2 {
		t.Fatalf("expected 2 blocked cells, got %d (%v)", m.Len(), m.Cells())
	}
	for _, c := range []Cell{{0, 0}, {1, 0}} {
		if !m.IsBlocked(c) {
			t.Fatalf("expected %v blocked", c)
		}
	}
	if m.IsBlocked(Cell{2, 0}) || m.IsBlocked(Cell{0, 1}) {
		t.Fatalf("rect spilled past its max edge")
	}
}

func TestBoundsBlockOutside(t *testing.T) {
	m := NewObstacleMap(Index{CellWidth: 1, CellHeight: 1}, nil)
	if m.IsBlocked(Cell{-100, 5}) {
		t.Fatalf("unbounded map should not block anything")
	}
	m.SetBounds(Cell{0, 0}, Cell{3, 3})
	if !m.IsBlocked(Cell{-1, 0}) || !m.IsBlocked(Cell{0, 4}) {
		t.Fatalf("cells outside bounds should be blocked")
	}
	if m.IsBlocked(Cell{3, 3}) {
		t.Fatalf("bounds are inclusive")
	}
}

func assertConnected(t *testing.T, path []Cell, blocked Blocker) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if Chebyshev(a, b) != 1 {
			t.Fatalf("step %d: %v -> %v is not a single move", i, a, b)
		}
		if blocked.IsBlocked(b) {
			t.Fatalf("step %d enters blocked cell %v", i, b)
		}
		if a.Col != b.Col && a.Row != b.Row {
			if blocked.IsBlocked(Cell{a.Col, b.Row}) || blocked.IsBlocked(Cell{b.Col, a.Row}) {
				t.Fatalf("step %d cuts a corner %v -> %v", i, a, b)
			}
		}
	}
}

func TestSearchEmptyGridIsChebyshev(t *testing.T) {
	cases := []struct {
		name       string
		start, end Cell
	}{
		{"straight", Cell{0, 0}, Cell{6, 0}},
		{"diagonal", Cell{0, 0}, Cell{4, 4}},
		{"mixed", Cell{0, 0}, Cell{5, 3}},
		{"negative", Cell{2, 2}, Cell{-3, 0}},
	}
	empty := NewObstacleMap(Index{CellWidth: 1, CellHeight: 1}, nil)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := Octile(DefaultMaxIterations)
			path, ok := s.Run(c.start, c.end, empty)
			if !ok {
				t.Fatalf("expected a path")
			}
			if path[0] != c.start || path[len(path)-1] != c.end {
				t.Fatalf("path endpoints %v..%v", path[0], path[len(path)-1])
			}
			if steps := len(path) - 1; steps != Chebyshev(c.start, c.end) {
				t.Fatalf("expected %d steps, got %d", Chebyshev(c.start, c.end), steps)
			}
			assertConnected(t, path, empty)
		})
	}
}

func TestSearchNoCornerCutting(t *testing.T) {
	m := NewObstacleMap(Index{CellWidth: 1, CellHeight: 1}, nil)
	m.Block(Cell{1, 0})

	path, ok := Octile(100).Run(Cell{0, 0}, Cell{1, 1}, m)
	if !ok {
		t.Fatalf("expected a path")
	}
	if len(path) != 3 {
		t.Fatalf("expected detour through (0,1), got %v", path)
	}
	assertConnected(t, path, m)

	cut := Octile(100)
	cut.CutCorners = true
	path, ok = cut.Run(Cell{0, 0}, Cell{1, 1}, m)
	if !ok || len(path) != 2 {
		t.Fatalf("corner cutting search should step diagonally, got %v", path)
	}
}

func TestSearchAroundBlockedCenter(t *testing.T) {
	m := NewObstacleMap(Index{CellWidth: 1, CellHeight: 1}, nil)
	m.SetBounds(Cell{0, 0}, Cell{2, 2})
	m.Block(Cell{1, 1})

	path, ok := Octile(DefaultMaxIterations).Run(Cell{0, 0}, Cell{2, 2}, m)
	if !ok {
		t.Fatalf("expected a path")
	}
	if len(path) != 5 {
		t.Fatalf("expected 5 cells around the center, got %v", path)
	}
	for _, c := range path {
		if c == (Cell{1, 1}) {
			t.Fatalf("path enters the blocked center")
		}
	}
	assertConnected(t, path, m)
}

func TestSearchFailures(t *testing.T) {
	enclosed := NewObstacleMap(Index{CellWidth: 1, CellHeight: 1}, nil)
	for _, c := range []Cell{{4, 4}, {5, 4}, {6, 4}, {4, 5}, {6, 5}, {4, 6}, {5, 6}, {6, 6}} {
		enclosed.Block(c)
	}
	bounded := NewObstacleMap(Index{CellWidth: 1, CellHeight: 1}, nil)
	bounded.SetBounds(Cell{0, 0}, Cell{3, 3})
	bounded.Block(Cell{2, 2})
	bounded.Block(Cell{2, 3})
	bounded.Block(Cell{3, 2})

	cases := []struct {
		name      string
		search    *Search
		blocked   *ObstacleMap
		end       Cell
		exhausted bool
	}{
		{"zero_cap", Octile(0), NewObstacleMap(Index{1, 1}, nil), Cell{3, 0}, false},
		{"one_iteration", Octile(1), NewObstacleMap(Index{1, 1}, nil), Cell{3, 0}, false},
		{"unbounded_enclosure_caps", Octile(500), enclosed, Cell{5, 5}, false},
		{"bounded_enclosure_exhausts", Octile(DefaultMaxIterations), bounded, Cell{3, 3}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path, ok := c.search.Run(Cell{0, 0}, c.end, c.blocked)
			if ok || path != nil {
				t.Fatalf("expected failure, got %v", path)
			}
			if c.search.Stats.Exhausted != c.exhausted || c.search.Stats.Capped == c.exhausted {
				t.Fatalf("unexpected stats %+v", c.search.Stats)
			}
		})
	}
}

func TestSwarmFindsPath(t *testing.T) {
	m := NewObstacleMap(Index{CellWidth: 1, CellHeight: 1}, nil)
	for row := -3; row <= 3; row++ {
		m.Block(Cell{2, row})
	}
	path, ok := Swarm().Run(Cell{0, 0}, Cell{4, 0}, m)
	if !ok {
		t.Fatalf("expected swarm search to go around the wall")
	}
	assertConnected(t, path, m)
}

func TestFindPathDropsStart(t *testing.T) {
	idx := Index{CellWidth: 16, CellHeight: 16}
	from := idx.ToWorldCenter(Cell{0, 0})

	pts, ok := FindPath(idx, nil, from, r2.Point{X: 3, Y: 5}, nil)
	if !ok || pts == nil || len(pts) != 0 {
		t.Fatalf("same cell should give an empty found path, got %v ok=%v", pts, ok)
	}

	pts, ok = FindPath(idx, nil, from, idx.ToWorldCenter(Cell{3, 0}), NewObstacleMap(idx, nil))
	if !ok {
		t.Fatalf("expected a path")
	}
	want := []r2.Point{idx.ToWorldCenter(Cell{1, 0}), idx.ToWorldCenter(Cell{2, 0}), idx.ToWorldCenter(Cell{3, 0})}
	if len(pts) != len(want) {
		t.Fatalf("expected %d points, got %v", len(want), pts)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}

	walls := NewObstacleMap(idx, []r2.Point{idx.ToWorldCenter(Cell{3, 0})})
	if _, ok := FindPath(idx, Octile(50), from, idx.ToWorldCenter(Cell{3, 0}), walls); ok {
		t.Fatalf("blocked destination should fail")
	}
}
