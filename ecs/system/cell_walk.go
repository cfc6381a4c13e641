package system

import (
	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
)

// CellWalkSystem handles WalkRequests with a swarm search and walks found
// paths cell center to cell center.
type CellWalkSystem struct {
	physics *PhysicsSystem
}

func NewCellWalkSystem(physics *PhysicsSystem) *CellWalkSystem {
	return &CellWalkSystem{physics: physics}
}

func (cs *CellWalkSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	ecs.ForEach3(w, component.CellWalkerComponent.Kind(), component.WalkRequestComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cw *component.CellWalker, req *component.WalkRequest, t *component.Transform) {
		target := req.Target
		ecs.Remove(w, e, component.WalkRequestComponent.Kind())

		if !cw.Index.Valid() {
			ecs.EmitPath(w, e, ecs.PathEventFailed)
			return
		}
		obstacles := buildObstacles(w, cw.Index, cw.WallGroups, cw.UseSolids, cs.physics)
		if !cw.FindPath(t.Point(), target, obstacles) {
			ecs.EmitPath(w, e, ecs.PathEventFailed)
			return
		}
		ecs.EmitPath(w, e, ecs.PathEventFound)
		if !cw.Move() {
			// Already standing in the target cell.
			ecs.EmitPath(w, e, ecs.PathEventMoveFinished)
		}
	})

	dt := w.Delta()
	ecs.ForEach2(w, component.CellWalkerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cw *component.CellWalker, t *component.Transform) {
		step := cw.Tick(t.Point(), dt)
		t.SetPoint(step.Pos)
		if step.Turned && cw.SetAngle {
			t.Rotation = step.Angle
		}
		if step.Finished {
			ecs.EmitPath(w, e, ecs.PathEventMoveFinished)
		}
	})
}
