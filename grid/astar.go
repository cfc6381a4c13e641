package grid

import "github.com/golang/geo/r2"

const DefaultMaxIterations = 12000

// Search is a bounded A* over an unbounded 8-connected grid.
//
// The open list is scanned linearly for the lowest f score. Ties keep the
// node that was opened first, so results are deterministic for a given
// obstacle map.
type Search struct {
	Heuristic     func(a, b Cell) int
	StraightCost  int
	DiagonalCost  int
	Diagonals     bool
	CutCorners    bool
	MaxIterations int

	// Stats of the last Run call.
	Stats Stats
}

// Stats describes how the last search ended. A search that neither found a
// path nor exhausted the open set hit the iteration cap.
type Stats struct {
	Iterations int
	Opened     int
	Exhausted  bool
	Capped     bool
}

// Octile returns the search used by grid path requests: 10/14 step costs,
// octile heuristic and no corner cutting.
func Octile(maxIterations int) *Search {
	return &Search{
		Heuristic:     OctileDistance,
		StraightCost:  10,
		DiagonalCost:  14,
		Diagonals:     true,
		MaxIterations: maxIterations,
	}
}

// Swarm returns the cheaper search used by cell walkers. The Manhattan
// heuristic overestimates on diagonals, trading optimality for fewer
// expanded nodes.
func Swarm() *Search {
	return &Search{
		Heuristic:     ManhattanDistance,
		StraightCost:  10,
		DiagonalCost:  14,
		Diagonals:     true,
		MaxIterations: 15000,
	}
}

func OctileDistance(a, b Cell) int {
	dx, dy := absInt(a.Col-b.Col), absInt(a.Row-b.Row)
	return 10*(dx+dy) + (14-20)*min(dx, dy)
}

func ManhattanDistance(a, b Cell) int {
	return 10 * (absInt(a.Col-b.Col) + absInt(a.Row-b.Row))
}

type node struct {
	cell   Cell
	parent int
	g      int
	h      int
	f      int
}

// Run searches from start to end. The returned path includes both the start
// and end cells. ok is false when the open set empties or the iteration cap
// is reached; Stats tells the two apart.
func (s *Search) Run(start, end Cell, blocked Blocker) ([]Cell, bool) {
	s.Stats = Stats{}
	if blocked == nil {
		blocked = BlockerFunc(nil)
	}
	heuristic := s.Heuristic
	if heuristic == nil {
		heuristic = OctileDistance
	}
	straight, diagonal := s.StraightCost, s.DiagonalCost
	if straight <= 0 {
		straight = 10
	}
	if diagonal <= 0 {
		diagonal = 14
	}

	arena := make([]node, 0, 64)
	arena = append(arena, node{cell: start, parent: -1})
	arena[0].h = heuristic(start, end)
	arena[0].f = arena[0].h

	open := []int{0}
	openAt := map[Cell]int{start: 0}
	closed := make(map[Cell]struct{}, 64)

	iterations := 0
	for len(open) > 0 && iterations < s.MaxIterations {
		iterations++

		best := 0
		for i := 1; i < len(open); i++ {
			if arena[open[i]].f < arena[open[best]].f {
				best = i
			}
		}
		cur := open[best]
		open = append(open[:best], open[best+1:]...)
		curCell := arena[cur].cell
		delete(openAt, curCell)
		closed[curCell] = struct{}{}

		if curCell == end {
			s.Stats.Iterations = iterations
			s.Stats.Opened = len(arena)
			return reconstruct(arena, cur), true
		}

		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				isDiagonal := dx != 0 && dy != 0
				if isDiagonal && !s.Diagonals {
					continue
				}
				n := Cell{Col: curCell.Col + dx, Row: curCell.Row + dy}
				if blocked.IsBlocked(n) {
					continue
				}
				if _, done := closed[n]; done {
					continue
				}
				if isDiagonal && !s.CutCorners &&
					(blocked.IsBlocked(Cell{Col: curCell.Col, Row: n.Row}) || blocked.IsBlocked(Cell{Col: n.Col, Row: curCell.Row})) {
					continue
				}

				cost := straight
				if isDiagonal {
					cost = diagonal
				}
				g := arena[cur].g + cost

				if h, ok := openAt[n]; ok {
					if g < arena[h].g {
						arena[h].parent = cur
						arena[h].g = g
						arena[h].f = g + arena[h].h
					}
					continue
				}

				hv := heuristic(n, end)
				arena = append(arena, node{cell: n, parent: cur, g: g, h: hv, f: g + hv})
				handle := len(arena) - 1
				open = append(open, handle)
				openAt[n] = handle
			}
		}
	}

	s.Stats.Iterations = iterations
	s.Stats.Opened = len(arena)
	s.Stats.Exhausted = len(open) == 0
	s.Stats.Capped = !s.Stats.Exhausted
	return nil, false
}

func reconstruct(arena []node, at int) []Cell {
	path := make([]Cell, 0, 32)
	for at >= 0 {
		path = append(path, arena[at].cell)
		at = arena[at].parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindPath runs search between two world positions and returns the pixel
// centers of the cells to visit. The start cell is dropped since the mover
// already stands in it. When both positions share a cell the result is an
// empty, non-nil path and ok is true.
func FindPath(idx Index, search *Search, from, to r2.Point, blocked Blocker) ([]r2.Point, bool) {
	start := idx.PointToCell(from)
	end := idx.PointToCell(to)
	if start == end {
		return []r2.Point{}, true
	}
	if search == nil {
		search = Octile(DefaultMaxIterations)
	}
	cells, ok := search.Run(start, end, blocked)
	if !ok {
		return nil, false
	}
	return idx.Centers(cells[1:]), true
}
