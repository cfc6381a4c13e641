package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goccy/go-json"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is an ASCII grid. Each rune of Rows is looked up in Legend; '.' and
// ' ' are always empty.
type Level struct {
	Name       string          `json:"name"`
	CellWidth  float64         `json:"cell_width"`
	CellHeight float64         `json:"cell_height"`
	Rows       []string        `json:"rows"`
	Legend     map[string]Tile `json:"legend"`
	Entities   []Entity        `json:"entities,omitempty"`
}

// Tile describes what a legend rune places in its cell.
type Tile struct {
	Group string `json:"group"`
	Solid bool   `json:"solid"`
}

// Entity spawns a prefab at the center of cell (Col, Row). Target, when
// set, becomes the entity's first path, walk or follow target.
type Entity struct {
	Prefab string   `json:"prefab"`
	ID     string   `json:"id,omitempty"`
	Col    int      `json:"col"`
	Row    int      `json:"row"`
	Target *CellRef `json:"target,omitempty"`
}

type CellRef struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// PlacedTile is one non-empty legend cell.
type PlacedTile struct {
	Col, Row int
	Tile
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return lvl, nil
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if l.CellWidth <= 0 || l.CellHeight <= 0 {
		return fmt.Errorf("%w: cell size %vx%v", ErrInvalidLevel, l.CellWidth, l.CellHeight)
	}
	width := l.Width()
	for row, line := range l.Rows {
		runes := []rune(line)
		if len(runes) != width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidLevel, row, len(runes), width)
		}
		for col, r := range runes {
			if isEmptyRune(r) {
				continue
			}
			if _, ok := l.Legend[string(r)]; !ok {
				return fmt.Errorf("%w: unknown rune %q at %d,%d", ErrInvalidLevel, r, col, row)
			}
		}
	}
	for i, e := range l.Entities {
		if e.Prefab == "" {
			return fmt.Errorf("%w: entity %d has no prefab", ErrInvalidLevel, i)
		}
	}
	return nil
}

// Width returns the number of columns.
func (l *Level) Width() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return len([]rune(l.Rows[0]))
}

// Height returns the number of rows.
func (l *Level) Height() int {
	return len(l.Rows)
}

// PixelSize returns the level's world-space width and height.
func (l *Level) PixelSize() (float64, float64) {
	return float64(l.Width()) * l.CellWidth, float64(l.Height()) * l.CellHeight
}

// Tiles lists every non-empty cell in row-major order.
func (l *Level) Tiles() []PlacedTile {
	var out []PlacedTile
	for row, line := range l.Rows {
		for col, r := range []rune(line) {
			if isEmptyRune(r) {
				continue
			}
			if t, ok := l.Legend[string(r)]; ok {
				out = append(out, PlacedTile{Col: col, Row: row, Tile: t})
			}
		}
	}
	return out
}

func isEmptyRune(r rune) bool {
	return r == '.' || r == ' '
}
