package system

import (
	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
)

// PathFollowSystem ticks every PathFollower and writes the result back to
// its transform.
type PathFollowSystem struct{}

func NewPathFollowSystem() *PathFollowSystem {
	return &PathFollowSystem{}
}

func (ps *PathFollowSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach2(w, component.PathFollowerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pf *component.PathFollower, t *component.Transform) {
		step := pf.Tick(dt)
		if !step.Moved {
			return
		}
		if pf.SetAngle {
			if angle, ok := pf.Heading(t.Point()); ok {
				t.Rotation = angle
			}
		}
		t.SetPoint(step.Pos)
		if step.Finished {
			ecs.EmitPath(w, e, ecs.PathEventFinished)
		}
	})
}
