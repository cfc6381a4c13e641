package component

import "github.com/milk9111/pathkit/motion"

// SmoothFollower chases the entity registered for TargetGroup, or its own
// position target when nothing is registered. HalfWidth and HalfHeight size
// the box tested against solids.
type SmoothFollower struct {
	motion.SmoothFollower
	TargetGroup string
	HalfWidth   float64
	HalfHeight  float64
}

var SmoothFollowerComponent = NewComponent[SmoothFollower]()

// FollowTarget registers the entity as the target of every SmoothFollower
// with the same group.
type FollowTarget struct {
	Group string
}

var FollowTargetComponent = NewComponent[FollowTarget]()
