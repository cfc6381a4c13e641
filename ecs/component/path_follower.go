package component

import "github.com/milk9111/pathkit/motion"

// PathFollower moves the entity along a rounded polyline or a spline.
type PathFollower struct {
	motion.Follower
	SetAngle bool
}

var PathFollowerComponent = NewComponent[PathFollower]()
