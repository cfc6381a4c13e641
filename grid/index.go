package grid

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"
)

var ErrInvalidCellSize = errors.New("grid: cell size must be positive")

// Cell addresses one grid square.
type Cell struct {
	Col int
	Row int
}

// Index converts between world (pixel) coordinates and grid cells.
//
// ToCell and ToWorldCenter are deliberately not inverses: going world -> cell
// -> world snaps to the cell center, which is what paths always target.
type Index struct {
	CellWidth  float64
	CellHeight float64
}

func NewIndex(cellWidth, cellHeight float64) (Index, error) {
	if !(cellWidth > 0) || !(cellHeight > 0) {
		return Index{}, ErrInvalidCellSize
	}
	return Index{CellWidth: cellWidth, CellHeight: cellHeight}, nil
}

// Valid reports whether both cell dimensions are positive.
func (idx Index) Valid() bool {
	return idx.CellWidth > 0 && idx.CellHeight > 0
}

func (idx Index) ToCell(x, y float64) Cell {
	return Cell{
		Col: int(math.Floor(x / idx.CellWidth)),
		Row: int(math.Floor(y / idx.CellHeight)),
	}
}

func (idx Index) PointToCell(p r2.Point) Cell {
	return idx.ToCell(p.X, p.Y)
}

// ToWorldCenter returns the pixel center of c.
func (idx Index) ToWorldCenter(c Cell) r2.Point {
	return r2.Point{
		X: float64(c.Col)*idx.CellWidth + idx.CellWidth/2,
		Y: float64(c.Row)*idx.CellHeight + idx.CellHeight/2,
	}
}

// Centers maps a cell sequence to the pixel centers of its cells.
func (idx Index) Centers(cells []Cell) []r2.Point {
	if cells == nil {
		return nil
	}
	out := make([]r2.Point, 0, len(cells))
	for _, c := range cells {
		out = append(out, idx.ToWorldCenter(c))
	}
	return out
}

// Chebyshev returns the 8-connected step distance between two cells.
func Chebyshev(a, b Cell) int {
	dx, dy := absInt(a.Col-b.Col), absInt(a.Row-b.Row)
	if dx > dy {
		return dx
	}
	return dy
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
