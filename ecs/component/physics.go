package component

import "github.com/jakecoffman/cp"

// Solid is a static axis-aligned box centered on the entity's transform.
// Shape is owned by the physics system.
type Solid struct {
	Width  float64
	Height float64
	Shape  *cp.Shape
}

var SolidComponent = NewComponent[Solid]()
