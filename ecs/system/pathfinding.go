package system

import (
	"log"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/grid"
)

// PathfindingSystem answers PathRequests with an octile A* search over a
// per-request obstacle map.
type PathfindingSystem struct {
	physics *PhysicsSystem
}

// NewPathfindingSystem builds the system. physics may be nil, in which case
// UseSolids has no effect.
func NewPathfindingSystem(physics *PhysicsSystem) *PathfindingSystem {
	return &PathfindingSystem{physics: physics}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ecs.ForEach3(w, component.PathfinderComponent.Kind(), component.PathRequestComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pf *component.Pathfinder, req *component.PathRequest, t *component.Transform) {
		target := req.Target
		ecs.Remove(w, e, component.PathRequestComponent.Kind())

		idx, err := grid.NewIndex(pf.CellWidth, pf.CellHeight)
		if err != nil {
			log.Printf("pathfinding: entity=%v %v", e, err)
			pf.Path, pf.Found = pf.Path[:0], false
			ecs.EmitPath(w, e, ecs.PathEventFailed)
			return
		}

		maxIter := pf.MaxIterations
		if maxIter <= 0 {
			maxIter = grid.DefaultMaxIterations
		}
		search := grid.Octile(maxIter)
		obstacles := buildObstacles(w, idx, pf.WallGroups, pf.UseSolids, ps.physics)

		path, ok := grid.FindPath(idx, search, t.Point(), target, obstacles)
		if !ok {
			pf.Path, pf.Found = pf.Path[:0], false
			ecs.EmitPath(w, e, ecs.PathEventFailed)
			return
		}
		pf.Path, pf.Found = path, true
		ecs.EmitPath(w, e, ecs.PathEventFound)

		if pf.Follow {
			followFoundPath(w, e, pf, t)
		}
	})
}

// followFoundPath replaces the entity's follower waypoints with the found
// path, starting from the current position.
func followFoundPath(w *ecs.World, e ecs.Entity, pf *component.Pathfinder, t *component.Transform) {
	follower, ok := ecs.Get(w, e, component.PathFollowerComponent.Kind())
	if !ok || len(pf.Path) == 0 {
		return
	}
	follower.ClearPath()
	follower.AddNode(t.Point())
	for _, p := range pf.Path {
		follower.AddNode(p)
	}
	if start, ok := follower.StartPath(); ok {
		t.SetPoint(start)
	}
}
