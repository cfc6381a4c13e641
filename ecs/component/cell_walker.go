package component

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/motion"
)

// CellWalker searches and walks in one step, as swarm units do.
type CellWalker struct {
	motion.CellWalker
	WallGroups []string
	UseSolids  bool
	SetAngle   bool
}

var CellWalkerComponent = NewComponent[CellWalker]()

// WalkRequest starts a CellWalker towards Target. It is removed once handled.
type WalkRequest struct {
	Target r2.Point
}

var WalkRequestComponent = NewComponent[WalkRequest]()
