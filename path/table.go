package path

import "github.com/milk9111/pathkit/common"

// DefaultTableSteps is the number of normalized-time steps used to measure a
// spline.
const DefaultTableSteps = 200

// TableEntry maps a normalized curve time to the chord length travelled up to
// it.
type TableEntry struct {
	T    float64
	Dist float64
}

// Table is an arc-length lookup for a Curve. It is immutable once built.
type Table struct {
	Entries []TableEntry
	Length  float64
}

// NewTable measures c at steps evenly spaced times. Curves with fewer than two
// points give an empty table of length 0.
func NewTable(c Curve, steps int) *Table {
	tbl := &Table{}
	if len(c.Points) < 2 {
		return tbl
	}
	if steps < 1 {
		steps = DefaultTableSteps
	}

	last := c.At(0)
	tbl.Entries = make([]TableEntry, 0, steps+1)
	tbl.Entries = append(tbl.Entries, TableEntry{})
	total := 0.0
	for i := 1; i <= steps; i++ {
		T := float64(i) / float64(steps)
		cur := c.At(T)
		total += cur.Sub(last).Norm()
		tbl.Entries = append(tbl.Entries, TableEntry{T: T, Dist: total})
		last = cur
	}
	tbl.Length = total
	return tbl
}

// ParamAtDistance converts a travelled distance to normalized curve time.
func (tbl *Table) ParamAtDistance(d float64) float64 {
	if d <= 0 {
		return 0
	}
	if d >= tbl.Length {
		return 1
	}
	for i := 1; i < len(tbl.Entries); i++ {
		hi := tbl.Entries[i]
		if hi.Dist < d {
			continue
		}
		lo := tbl.Entries[i-1]
		width := hi.Dist - lo.Dist
		if width <= 0 {
			return hi.T
		}
		return common.Lerp(lo.T, hi.T, (d-lo.Dist)/width)
	}
	return 1
}
