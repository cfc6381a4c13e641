package system

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/motion"
)

// SmoothFollowSystem moves SmoothFollowers towards their group's target
// entity or their own position target.
type SmoothFollowSystem struct {
	physics *PhysicsSystem
	targets *motion.TargetRegistry[ecs.Entity]
}

func NewSmoothFollowSystem(physics *PhysicsSystem) *SmoothFollowSystem {
	return &SmoothFollowSystem{
		physics: physics,
		targets: motion.NewTargetRegistry[ecs.Entity](),
	}
}

// SetTarget points every follower of group at e until a FollowTarget of the
// same group registers over it.
func (ss *SmoothFollowSystem) SetTarget(group string, e ecs.Entity) {
	ss.targets.Set(group, e)
}

func (ss *SmoothFollowSystem) ClearTarget(group string) {
	ss.targets.Clear(group)
}

// Targets returns the registry shared with other group-targeted systems.
func (ss *SmoothFollowSystem) Targets() *motion.TargetRegistry[ecs.Entity] {
	return ss.targets
}

func (ss *SmoothFollowSystem) Update(w *ecs.World) {
	if ss == nil || w == nil {
		return
	}

	registerFollowTargets(w, ss.targets)

	dt := w.Delta()
	ecs.ForEach2(w, component.SmoothFollowerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sf *component.SmoothFollower, t *component.Transform) {
		target, ok := resolveTarget(w, ss.targets, sf.TargetGroup)
		if sf.StopOnSolids && ss.physics != nil {
			sf.Solid = ss.physics.BoxTest(sf.HalfWidth, sf.HalfHeight)
		}
		b := sf.Tick(motion.Body{Pos: t.Point(), Angle: t.Rotation}, target, ok, dt)
		t.SetPoint(b.Pos)
		t.Rotation = b.Angle
	})
}

func registerFollowTargets(w *ecs.World, targets *motion.TargetRegistry[ecs.Entity]) {
	ecs.ForEach(w, component.FollowTargetComponent.Kind(), func(e ecs.Entity, ft *component.FollowTarget) {
		if ft.Group != "" {
			targets.Set(ft.Group, e)
		}
	})
}

// resolveTarget returns the position of the entity registered for group.
// A registered entity without a transform is dropped from the registry.
func resolveTarget(w *ecs.World, targets *motion.TargetRegistry[ecs.Entity], group string) (r2.Point, bool) {
	if group == "" {
		return r2.Point{}, false
	}
	e, ok := targets.Get(group)
	if !ok {
		return r2.Point{}, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		targets.Clear(group)
		return r2.Point{}, false
	}
	return t.Point(), true
}
