package component

import "github.com/golang/geo/r2"

type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

func (t Transform) Point() r2.Point {
	return r2.Point{X: t.X, Y: t.Y}
}

func (t *Transform) SetPoint(p r2.Point) {
	t.X = p.X
	t.Y = p.Y
}

var TransformComponent = NewComponent[Transform]()
