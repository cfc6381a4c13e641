package entity

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
)

// SetTarget gives e a destination through whichever behavior it carries:
// a path request for pathfinders, a walk request for cell walkers, or a
// position target for smooth followers.
func SetTarget(w *ecs.World, e ecs.Entity, target r2.Point) error {
	switch {
	case ecs.Has(w, e, component.PathfinderComponent.Kind()):
		return ecs.Add(w, e, component.PathRequestComponent.Kind(), &component.PathRequest{Target: target})
	case ecs.Has(w, e, component.CellWalkerComponent.Kind()):
		return ecs.Add(w, e, component.WalkRequestComponent.Kind(), &component.WalkRequest{Target: target})
	}
	if sf, ok := ecs.Get(w, e, component.SmoothFollowerComponent.Kind()); ok {
		sf.SetTargetPosition(target)
		return nil
	}
	return fmt.Errorf("entity %v has no behavior that takes a target", e)
}

// RequestSave queues a save of every Persistent entity into slot.
func RequestSave(w *ecs.World, slot string) error {
	return ecs.Add(w, ecs.CreateEntity(w), component.SaveRequestComponent.Kind(), &component.SaveRequest{Slot: slot})
}

func RequestLoad(w *ecs.World, slot string) error {
	return ecs.Add(w, ecs.CreateEntity(w), component.LoadRequestComponent.Kind(), &component.LoadRequest{Slot: slot})
}
