package grid

import (
	"math"

	"github.com/golang/geo/r2"
)

// Blocker reports whether a cell can be entered.
type Blocker interface {
	IsBlocked(c Cell) bool
}

// BlockerFunc adapts a plain function to Blocker.
type BlockerFunc func(c Cell) bool

func (f BlockerFunc) IsBlocked(c Cell) bool {
	if f == nil {
		return false
	}
	return f(c)
}

// ObstacleMap is a sparse set of occupied cells. It is built fresh for every
// search request and never updated incrementally.
type ObstacleMap struct {
	idx     Index
	cells   map[Cell]struct{}
	bounded bool
	min     Cell
	max     Cell
}

// NewObstacleMap blocks the cell under every obstacle position.
func NewObstacleMap(idx Index, positions []r2.Point) *ObstacleMap {
	m := &ObstacleMap{
		idx:   idx,
		cells: make(map[Cell]struct{}, len(positions)),
	}
	for _, p := range positions {
		m.BlockPoint(p)
	}
	return m
}

func (m *ObstacleMap) Index() Index {
	return m.idx
}

func (m *ObstacleMap) Block(c Cell) {
	if m.cells == nil {
		m.cells = make(map[Cell]struct{})
	}
	m.cells[c] = struct{}{}
}

func (m *ObstacleMap) BlockPoint(p r2.Point) {
	m.Block(m.idx.PointToCell(p))
}

// BlockRect blocks every cell overlapped by r. The max edges are treated as
// open so a box ending exactly on a cell border does not spill into the next
// cell.
func (m *ObstacleMap) BlockRect(r r2.Rect) {
	if r.IsEmpty() {
		return
	}
	const edge = 0.001
	minC := m.idx.ToCell(r.X.Lo, r.Y.Lo)
	maxX := math.Max(r.X.Lo, r.X.Hi-edge)
	maxY := math.Max(r.Y.Lo, r.Y.Hi-edge)
	maxC := m.idx.ToCell(maxX, maxY)
	for row := minC.Row; row <= maxC.Row; row++ {
		for col := minC.Col; col <= maxC.Col; col++ {
			m.Block(Cell{Col: col, Row: row})
		}
	}
}

// SetBounds limits the walkable area to the inclusive cell range [min, max].
// Cells outside it report blocked.
func (m *ObstacleMap) SetBounds(min, max Cell) {
	m.bounded = true
	m.min = min
	m.max = max
}

func (m *ObstacleMap) InBounds(c Cell) bool {
	if m == nil || !m.bounded {
		return true
	}
	return c.Col >= m.min.Col && c.Row >= m.min.Row && c.Col <= m.max.Col && c.Row <= m.max.Row
}

func (m *ObstacleMap) IsBlocked(c Cell) bool {
	if m == nil {
		return false
	}
	if !m.InBounds(c) {
		return true
	}
	_, ok := m.cells[c]
	return ok
}

// Len returns the number of blocked cells, ignoring bounds.
func (m *ObstacleMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.cells)
}

// Cells returns the blocked cells in no particular order.
func (m *ObstacleMap) Cells() []Cell {
	if m == nil {
		return nil
	}
	out := make([]Cell, 0, len(m.cells))
	for c := range m.cells {
		out = append(out, c)
	}
	return out
}
