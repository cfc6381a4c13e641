package system

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/grid"
)

// buildObstacles collects a fresh obstacle map for one search: Obstacle
// entities of the listed groups, static solids when useSolids is set, and
// the level bounds when a LevelBounds entity exists.
func buildObstacles(w *ecs.World, idx grid.Index, groups []string, useSolids bool, physics *PhysicsSystem) *grid.ObstacleMap {
	obstacles := grid.NewObstacleMap(idx, wallPositions(w, groups))

	if useSolids && physics != nil {
		for _, r := range physics.SolidRects() {
			obstacles.BlockRect(r)
		}
	}

	if boundsEnt, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		if b, ok := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind()); ok && b.Width > 0 && b.Height > 0 {
			last := idx.ToCell(b.Width-1e-9, b.Height-1e-9)
			obstacles.SetBounds(grid.Cell{}, last)
		}
	}
	return obstacles
}

func wallPositions(w *ecs.World, groups []string) []r2.Point {
	if len(groups) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		want[g] = struct{}{}
	}
	var out []r2.Point
	ecs.ForEach2(w, component.ObstacleComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, o *component.Obstacle, t *component.Transform) {
		if _, ok := want[o.Group]; ok {
			out = append(out, t.Point())
		}
	})
	return out
}
