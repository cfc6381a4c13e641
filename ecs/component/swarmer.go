package component

import "github.com/milk9111/pathkit/motion"

// Swarmer steers towards the entity registered for TargetGroup together
// with every other swarmer of the group. It is pushed away from Obstacle
// entities of AvoidGroups and, with UseSolids, from Solid entities, which
// also block its moves. HalfWidth and HalfHeight size the tested box.
type Swarmer struct {
	motion.Swarmer
	TargetGroup string
	AvoidGroups []string
	UseSolids   bool
	HalfWidth   float64
	HalfHeight  float64
}

var SwarmerComponent = NewComponent[Swarmer]()
