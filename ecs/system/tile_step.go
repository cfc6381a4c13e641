package system

import (
	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
)

type TileStepSystem struct{}

func NewTileStepSystem() *TileStepSystem {
	return &TileStepSystem{}
}

func (ts *TileStepSystem) Update(w *ecs.World) {
	if ts == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach2(w, component.TileMoverComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tm *component.TileMover, t *component.Transform) {
		pos, ev := tm.Tick(t.Point(), dt)
		t.SetPoint(pos)
		if ev.Reached {
			ecs.EmitPath(w, e, ecs.PathEventTileReached)
		}
		if ev.Finished {
			ecs.EmitPath(w, e, ecs.PathEventMoveFinished)
		}
	})
}
