package system

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/motion"
)

// SwarmSystem moves every Swarmer group towards its registered target.
// Forces for a group are computed from this frame's positions before any
// member moves. A group without a target stands still.
type SwarmSystem struct {
	physics *PhysicsSystem
	targets *motion.TargetRegistry[ecs.Entity]
}

// NewSwarmSystem builds the system. targets may be shared with the smooth
// follow system; nil gives the swarm a registry of its own.
func NewSwarmSystem(physics *PhysicsSystem, targets *motion.TargetRegistry[ecs.Entity]) *SwarmSystem {
	if targets == nil {
		targets = motion.NewTargetRegistry[ecs.Entity]()
	}
	return &SwarmSystem{physics: physics, targets: targets}
}

func (ss *SwarmSystem) SetTarget(group string, e ecs.Entity) {
	ss.targets.Set(group, e)
}

type swarmGroup struct {
	entities []ecs.Entity
	swarm    motion.Swarm
	avoid    []string
	solids   bool
}

func (ss *SwarmSystem) Update(w *ecs.World) {
	if ss == nil || w == nil {
		return
	}
	registerFollowTargets(w, ss.targets)

	var order []string
	groups := make(map[string]*swarmGroup)
	ecs.ForEach2(w, component.SwarmerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sw *component.Swarmer, t *component.Transform) {
		g, ok := groups[sw.TargetGroup]
		if !ok {
			g = &swarmGroup{}
			groups[sw.TargetGroup] = g
			order = append(order, sw.TargetGroup)
		}
		g.entities = append(g.entities, e)
		g.swarm.Members = append(g.swarm.Members, motion.SwarmMember{Pos: t.Point(), Mover: &sw.Swarmer})
		g.avoid = append(g.avoid, sw.AvoidGroups...)
		g.solids = g.solids || sw.UseSolids
	})

	dt := w.Delta()
	for _, name := range order {
		g := groups[name]
		target, ok := resolveTarget(w, ss.targets, name)
		if !ok {
			continue
		}
		g.swarm.Obstacles = ss.obstacles(w, g.avoid, g.solids)
		forces := g.swarm.Forces(target)
		for i, e := range g.entities {
			sw, _ := ecs.Get(w, e, component.SwarmerComponent.Kind())
			t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			sw.Solid = nil
			if sw.UseSolids && ss.physics != nil {
				sw.Solid = ss.physics.BoxTest(sw.HalfWidth, sw.HalfHeight)
			}
			b := sw.Tick(motion.Body{Pos: t.Point(), Angle: t.Rotation}, forces[i], dt)
			t.SetPoint(b.Pos)
			t.Rotation = b.Angle
		}
	}
}

// obstacles returns the centers of the walls of the avoided groups and,
// with solids, of every static solid. Each position is listed once.
func (ss *SwarmSystem) obstacles(w *ecs.World, avoid []string, solids bool) []r2.Point {
	seen := make(map[r2.Point]struct{})
	var out []r2.Point
	add := func(p r2.Point) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range wallPositions(w, avoid) {
		add(p)
	}
	if solids && ss.physics != nil {
		for _, r := range ss.physics.SolidRects() {
			add(r.Center())
		}
	}
	return out
}
