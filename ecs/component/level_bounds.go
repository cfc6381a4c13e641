package component

// LevelBounds stores the world-space bounds of the current level. When
// present, searches treat cells outside it as blocked.
type LevelBounds struct {
	Width  float64
	Height float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
