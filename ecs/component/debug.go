package component

import "image/color"

// Debug styles an entity in the debug overlay. A nil Color falls back to
// the overlay palette.
type Debug struct {
	Color color.Color
	Size  float64
}

var DebugComponent = NewComponent[Debug]()
