package system

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
)

const collisionTypeSolid cp.CollisionType = 1

// overlapInset keeps boxes that merely touch a solid from counting as overlap.
const overlapInset = 1e-6

// PhysicsSystem mirrors Solid entities into a chipmunk space of static
// boxes. Nothing is simulated; the space is a spatial index for searches and
// stop-on-solids checks.
type PhysicsSystem struct {
	space  *cp.Space
	solids map[ecs.Entity]*solidInfo
}

type solidInfo struct {
	shape *cp.Shape
	bb    cp.BB
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	return &PhysicsSystem{
		space:  space,
		solids: make(map[ecs.Entity]*solidInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = cp.NewSpace()
		ps.space.Iterations = 20
		ps.solids = make(map[ecs.Entity]*solidInfo)
	}
	ps.syncSolids(w)
	ps.cleanupSolids(w)
}

func solidBB(t component.Transform, s component.Solid) cp.BB {
	hw, hh := s.Width/2, s.Height/2
	return cp.BB{L: t.X - hw, B: t.Y - hh, R: t.X + hw, T: t.Y + hh}
}

func (ps *PhysicsSystem) syncSolids(w *ecs.World) {
	ecs.ForEach2(w, component.SolidComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, solid *component.Solid, t *component.Transform) {
		if solid.Width <= 0 || solid.Height <= 0 {
			return
		}
		bb := solidBB(*t, *solid)
		info, ok := ps.solids[e]
		if ok && info.bb == bb {
			return
		}
		if ok {
			ps.space.RemoveShape(info.shape)
		}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetCollisionType(collisionTypeSolid)
		shape.UserData = e
		ps.space.AddShape(shape)

		ps.solids[e] = &solidInfo{shape: shape, bb: bb}
		solid.Shape = shape
	})
}

func (ps *PhysicsSystem) cleanupSolids(w *ecs.World) {
	for e, info := range ps.solids {
		if ecs.Has(w, e, component.SolidComponent.Kind()) {
			continue
		}
		ps.space.RemoveShape(info.shape)
		delete(ps.solids, e)
	}
}

// SolidRects returns the bounds of every static shape in the space.
func (ps *PhysicsSystem) SolidRects() []r2.Rect {
	if ps == nil || ps.space == nil {
		return nil
	}
	var out []r2.Rect
	ps.space.EachShape(func(shape *cp.Shape) {
		out = append(out, bbToRect(shape.BB()))
	})
	return out
}

// Overlaps reports whether r overlaps any solid.
func (ps *PhysicsSystem) Overlaps(r r2.Rect) bool {
	if ps == nil || ps.space == nil || r.IsEmpty() {
		return false
	}
	query := cp.BB{L: r.X.Lo + overlapInset, B: r.Y.Lo + overlapInset, R: r.X.Hi - overlapInset, T: r.Y.Hi - overlapInset}
	hit := false
	ps.space.BBQuery(query, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		hit = true
	}, nil)
	return hit
}

// BoxTest returns a point test for a box of the given half extents centered on
// the point.
func (ps *PhysicsSystem) BoxTest(halfW, halfH float64) func(r2.Point) bool {
	return func(p r2.Point) bool {
		return ps.Overlaps(r2.Rect{
			X: r1.Interval{Lo: p.X - halfW, Hi: p.X + halfW},
			Y: r1.Interval{Lo: p.Y - halfH, Hi: p.Y + halfH},
		})
	}
}

func bbToRect(bb cp.BB) r2.Rect {
	return r2.Rect{X: r1.Interval{Lo: bb.L, Hi: bb.R}, Y: r1.Interval{Lo: bb.B, Hi: bb.T}}
}
