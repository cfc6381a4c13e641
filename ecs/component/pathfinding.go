package component

import "github.com/golang/geo/r2"

// Pathfinder finds grid paths around Obstacle entities of the listed groups
// and, with UseSolids, around static Solid shapes.
type Pathfinder struct {
	CellWidth     float64
	CellHeight    float64
	MaxIterations int
	WallGroups    []string
	UseSolids     bool
	// Follow hands a found path to the entity's PathFollower and starts it.
	Follow bool

	Path  []r2.Point
	Found bool
}

var PathfinderComponent = NewComponent[Pathfinder]()

// PathRequest asks the pathfinding system for a path to Target. It is
// removed once handled.
type PathRequest struct {
	Target r2.Point
}

var PathRequestComponent = NewComponent[PathRequest]()

// Obstacle marks the cell under the entity's transform as a wall for
// pathfinders listing Group.
type Obstacle struct {
	Group string
}

var ObstacleComponent = NewComponent[Obstacle]()
