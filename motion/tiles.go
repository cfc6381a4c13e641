package motion

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/grid"
)

// TileMove is one queued tile and its pixel center.
type TileMove struct {
	Col int     `json:"tx"`
	Row int     `json:"ty"`
	X   float64 `json:"wx"`
	Y   float64 `json:"wy"`
}

func (m TileMove) Cell() grid.Cell {
	return grid.Cell{Col: m.Col, Row: m.Row}
}

func (m TileMove) Point() r2.Point {
	return r2.Point{X: m.X, Y: m.Y}
}

// TileEvents reports the events raised by one TileStepper tick.
type TileEvents struct {
	Reached  bool
	Finished bool
}

// TileStepper walks a queue of tiles one neighboring tile at a time.
type TileStepper struct {
	Index     grid.Index
	Speed     float64
	Diagonals bool

	stack    []TileMove
	current  *TileMove
	sub      *TileMove
	moving   bool
	running  bool
	total    int
	original []TileMove
}

func (s *TileStepper) move(c grid.Cell) TileMove {
	p := s.Index.ToWorldCenter(c)
	return TileMove{Col: c.Col, Row: c.Row, X: p.X, Y: p.Y}
}

func (s *TileStepper) AddTile(col, row int) {
	s.stack = append(s.stack, s.move(grid.Cell{Col: col, Row: row}))
}

// Clear empties the queue and the recorded path. A move in progress is kept.
func (s *TileStepper) Clear() {
	s.stack = s.stack[:0]
	s.original = s.original[:0]
}

func (s *TileStepper) Start() {
	s.running = true
	s.total = len(s.stack)
	s.original = append(s.original[:0], s.stack...)
}

func (s *TileStepper) Stop() {
	s.stack = s.stack[:0]
	s.current = nil
	s.sub = nil
	s.original = s.original[:0]
	s.moving = false
	s.running = false
}

// Tick advances a mover at pos and returns its new position.
func (s *TileStepper) Tick(pos r2.Point, dt float64) (r2.Point, TileEvents) {
	var ev TileEvents

	if s.running && s.current == nil && len(s.stack) > 0 {
		next := s.stack[0]
		s.stack = s.stack[1:]
		s.current = &next
		s.moving = true
		s.sub = nil
	}
	if s.current == nil {
		return pos, ev
	}

	if s.sub == nil {
		at := s.Index.PointToCell(pos)
		if at == s.current.Cell() {
			pos = s.current.Point()
			s.current = nil
			if len(s.stack) == 0 {
				s.moving = false
				s.running = false
				ev.Finished = true
			}
			return pos, ev
		}

		dx := s.current.Col - at.Col
		dy := s.current.Row - at.Row
		next := at
		if s.Diagonals {
			next.Col += sign(dx)
			next.Row += sign(dy)
		} else if dx != 0 {
			next.Col += sign(dx)
		} else {
			next.Row += sign(dy)
		}
		m := s.move(next)
		s.sub = &m
	}

	target := s.sub.Point()
	delta := target.Sub(pos)
	dist := delta.Norm()
	step := s.Speed * dt
	if dist <= step {
		s.sub = nil
		ev.Reached = true
		return target, ev
	}
	angle := math.Atan2(delta.Y, delta.X)
	pos.X += math.Cos(angle) * step
	pos.Y += math.Sin(angle) * step
	return pos, ev
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (s *TileStepper) IsMoving() bool {
	return s.moving
}

func (s *TileStepper) IsRunning() bool {
	return s.running
}

func (s *TileStepper) StackCount() int {
	return len(s.stack)
}

// Target returns the tile currently walked to, or (-1, -1) when idle.
func (s *TileStepper) Target() grid.Cell {
	if s.current == nil {
		return grid.Cell{Col: -1, Row: -1}
	}
	return s.current.Cell()
}

// CurrentIndex returns the position of the current tile in the started path,
// or -1 when idle.
func (s *TileStepper) CurrentIndex() int {
	if s.current == nil {
		return -1
	}
	return s.total - len(s.stack) - 1
}

// PathAt returns tile i of the started path, or (-1, -1) outside it.
func (s *TileStepper) PathAt(i int) grid.Cell {
	if i < 0 || i >= len(s.original) {
		return grid.Cell{Col: -1, Row: -1}
	}
	return s.original[i].Cell()
}

func (s *TileStepper) PathLen() int {
	return len(s.original)
}
