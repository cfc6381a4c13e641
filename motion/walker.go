package motion

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/grid"
)

// WalkStep reports what one CellWalker tick did.
type WalkStep struct {
	Pos      r2.Point
	Angle    float64
	Turned   bool
	Finished bool
}

// CellWalker finds a path with a swarm search and walks it center to center
// at Speed cells per second.
type CellWalker struct {
	Index  grid.Index
	Speed  float64
	Search *grid.Search

	path   []r2.Point
	next   int
	moving bool
	target r2.Point
}

// FindPath searches from one world position to another and keeps the result
// for Move. ok is false when no path exists; the stored path is emptied.
func (w *CellWalker) FindPath(from, to r2.Point, blocked grid.Blocker) bool {
	if w.Search == nil {
		w.Search = grid.Swarm()
	}
	pts, ok := grid.FindPath(w.Index, w.Search, from, to, blocked)
	if !ok {
		w.path = w.path[:0]
		return false
	}
	w.path = pts
	return true
}

// SetPath replaces the stored path.
func (w *CellWalker) SetPath(pts []r2.Point) {
	w.path = clonePoints(pts)
}

func (w *CellWalker) Path() []r2.Point {
	return w.path
}

// Move starts walking the stored path. An empty path does nothing.
func (w *CellWalker) Move() bool {
	if len(w.path) == 0 {
		return false
	}
	w.moving = true
	w.next = 0
	w.target = w.path[0]
	return true
}

func (w *CellWalker) Stop() {
	w.moving = false
}

func (w *CellWalker) Tick(pos r2.Point, dt float64) WalkStep {
	step := WalkStep{Pos: pos}
	if !w.moving || dt == 0 {
		return step
	}
	if w.next < 0 || w.next >= len(w.path) {
		w.moving = false
		return step
	}

	target := w.path[w.next]
	delta := target.Sub(pos)
	dist := delta.Norm()
	amount := w.Speed * w.Index.CellWidth * dt

	if amount >= dist {
		step.Pos = target
		w.next++
		if w.next >= len(w.path) {
			w.moving = false
			step.Finished = true
		} else {
			w.target = w.path[w.next]
		}
		return step
	}

	dir := delta.Mul(1 / dist)
	step.Pos = pos.Add(dir.Mul(amount))
	step.Angle = math.Atan2(dir.Y, dir.X)
	step.Turned = true
	return step
}

func (w *CellWalker) IsMoving() bool {
	return w.moving
}

// Target returns the cell currently walked to.
func (w *CellWalker) Target() grid.Cell {
	return w.Index.PointToCell(w.target)
}
