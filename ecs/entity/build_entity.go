package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/grid"
	"github.com/milk9111/pathkit/motion"
	"github.com/milk9111/pathkit/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":       addTransform,
	"persistent":      addPersistent,
	"obstacle":        addObstacle,
	"solid":           addSolid,
	"pathfinder":      addPathfinder,
	"path_follower":   addPathFollower,
	"tile_mover":      addTileMover,
	"cell_walker":     addCellWalker,
	"smooth_follower": addSmoothFollower,
	"swarmer":         addSwarmer,
	"chain":           addChain,
	"follow_target":   addFollowTarget,
	"script":          addScript,
	"debug":           addDebug,
}

// Transform goes first: auto-started movers snap to their path start.
var componentBuildOrder = []string{
	"transform",
	"persistent",
	"obstacle",
	"solid",
	"pathfinder",
	"path_follower",
	"tile_mover",
	"cell_walker",
	"smooth_follower",
	"swarmer",
	"chain",
	"follow_target",
	"debug",
	"script",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, spec, prefabPath)
}

// BuildEntityFromSpec creates an entity from an already decoded spec.
// Components are added in a fixed order; unknown component names fail the
// build and leave no entity behind.
func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, prefabPath string) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Rotation: spec.Rotation,
	})
}

func addPersistent(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PersistentComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode persistent spec: %w", err)
	}
	return ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{ID: spec.ID})
}

func addObstacle(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ObstacleComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode obstacle spec: %w", err)
	}
	if spec.Group == "" {
		return fmt.Errorf("obstacle requires a group")
	}
	return ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{Group: spec.Group})
}

func addSolid(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SolidComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode solid spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("solid requires a positive size, got %vx%v", spec.Width, spec.Height)
	}
	return ecs.Add(w, e, component.SolidComponent.Kind(), &component.Solid{Width: spec.Width, Height: spec.Height})
}

type pathfinderSpec = prefabs.PathfinderComponentSpec

func addPathfinder(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pathfinderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pathfinder spec: %w", err)
	}
	if _, err := grid.NewIndex(spec.CellWidth, spec.CellHeight); err != nil {
		return err
	}
	return ecs.Add(w, e, component.PathfinderComponent.Kind(), &component.Pathfinder{
		CellWidth:     spec.CellWidth,
		CellHeight:    spec.CellHeight,
		MaxIterations: spec.MaxIterations,
		WallGroups:    spec.WallGroups,
		UseSolids:     spec.UseSolids,
		Follow:        spec.Follow,
	})
}

type pathFollowerSpec = prefabs.PathFollowerComponentSpec

func addPathFollower(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pathFollowerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode path_follower spec: %w", err)
	}

	pf := &component.PathFollower{SetAngle: spec.SetAngle}
	pf.Speed = spec.Speed
	pf.Accel = spec.Accel
	pf.Decel = spec.Decel
	pf.Rounding = spec.Rounding
	pf.Tension = spec.Tension
	pf.Quality = spec.Quality

	switch strings.ToLower(spec.Shape) {
	case "", "rounded":
		pf.Shape = motion.ShapeRounded
	case "spline":
		pf.Shape = motion.ShapeSpline
	default:
		return fmt.Errorf("unknown path shape %q", spec.Shape)
	}
	switch strings.ToLower(spec.Stop) {
	case "", "hard":
		pf.StopPolicy = motion.StopHard
	case "decelerate":
		pf.StopPolicy = motion.StopDecelerate
	default:
		return fmt.Errorf("unknown stop policy %q", spec.Stop)
	}

	for _, p := range spec.Waypoints {
		pf.AddNode(r2.Point{X: p.X, Y: p.Y})
	}
	if spec.AutoStart {
		start, ok := pf.StartPath()
		if !ok {
			return fmt.Errorf("auto_start with %d waypoints cannot start a %s path", len(spec.Waypoints), spec.Shape)
		}
		if t, has := ecs.Get(w, e, component.TransformComponent.Kind()); has {
			t.SetPoint(start)
		}
	}
	return ecs.Add(w, e, component.PathFollowerComponent.Kind(), pf)
}

func addTileMover(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TileMoverComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode tile_mover spec: %w", err)
	}
	idx, err := grid.NewIndex(spec.CellWidth, spec.CellHeight)
	if err != nil {
		return err
	}
	tm := &component.TileMover{}
	tm.Index = idx
	tm.Speed = spec.Speed
	tm.Diagonals = spec.Diagonals
	for _, t := range spec.Tiles {
		tm.AddTile(t.Col, t.Row)
	}
	if spec.AutoStart && tm.StackCount() > 0 {
		tm.Start()
	}
	return ecs.Add(w, e, component.TileMoverComponent.Kind(), tm)
}

func addCellWalker(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CellWalkerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode cell_walker spec: %w", err)
	}
	idx, err := grid.NewIndex(spec.CellWidth, spec.CellHeight)
	if err != nil {
		return err
	}
	cw := &component.CellWalker{
		WallGroups: spec.WallGroups,
		UseSolids:  spec.UseSolids,
		SetAngle:   spec.SetAngle,
	}
	cw.Index = idx
	cw.Speed = spec.Speed
	return ecs.Add(w, e, component.CellWalkerComponent.Kind(), cw)
}

func addSmoothFollower(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SmoothFollowerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode smooth_follower spec: %w", err)
	}
	sf := &component.SmoothFollower{
		TargetGroup: spec.TargetGroup,
		HalfWidth:   spec.Width / 2,
		HalfHeight:  spec.Height / 2,
	}
	sf.Enabled = spec.Enabled == nil || *spec.Enabled
	switch strings.ToLower(spec.Mode) {
	case "", "steering":
		sf.Mode = motion.Steering
	case "direct":
		sf.Mode = motion.Direct
	default:
		return fmt.Errorf("unknown steering mode %q", spec.Mode)
	}
	sf.MaxSpeed = spec.MaxSpeed
	sf.MinSpeed = spec.MinSpeed
	sf.Decel = spec.Decel
	sf.RotationSpeed = spec.RotationSpeed
	sf.EffectiveRadius = spec.EffectiveRadius
	sf.StopOnSolids = spec.StopOnSolids
	return ecs.Add(w, e, component.SmoothFollowerComponent.Kind(), sf)
}

func addSwarmer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SwarmerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode swarmer spec: %w", err)
	}
	if spec.RepulsionRadius < 0 || spec.RepulsionForce < 0 {
		return fmt.Errorf("swarmer repulsion must not be negative")
	}
	sw := &component.Swarmer{
		TargetGroup: spec.TargetGroup,
		AvoidGroups: spec.AvoidGroups,
		UseSolids:   spec.UseSolids,
		HalfWidth:   spec.Width / 2,
		HalfHeight:  spec.Height / 2,
	}
	sw.Active = spec.Active == nil || *spec.Active
	sw.MaxSpeed = spec.MaxSpeed
	sw.RotationSpeed = spec.RotationSpeed
	sw.Flip = spec.Flip
	sw.RepulsionRadius = spec.RepulsionRadius
	sw.RepulsionForce = spec.RepulsionForce
	return ecs.Add(w, e, component.SwarmerComponent.Kind(), sw)
}

func addChain(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ChainComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode chain spec: %w", err)
	}
	if spec.Segments < 0 || spec.Spacing < 0 {
		return fmt.Errorf("chain segments and spacing must not be negative")
	}
	if spec.Smoothness <= 0 || spec.Smoothness > 1 {
		return fmt.Errorf("chain smoothness %v outside (0, 1]", spec.Smoothness)
	}
	ch := &component.Chain{BodyPrefab: spec.BodyPrefab, BuildRequested: spec.AutoBuild}
	switch strings.ToLower(spec.Mode) {
	case "", "distance":
		ch.Mode = motion.ChainDistance
	case "history":
		ch.Mode = motion.ChainHistory
	default:
		return fmt.Errorf("unknown chain mode %q", spec.Mode)
	}
	ch.Length = spec.Segments
	ch.Spacing = spec.Spacing
	ch.Smoothness = spec.Smoothness
	return ecs.Add(w, e, component.ChainComponent.Kind(), ch)
}

func addFollowTarget(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FollowTargetComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode follow_target spec: %w", err)
	}
	return ecs.Add(w, e, component.FollowTargetComponent.Kind(), &component.FollowTarget{Group: spec.Group})
}

func addScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ScriptComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode script spec: %w", err)
	}
	if strings.TrimSpace(spec.Path) == "" {
		return fmt.Errorf("script requires a path")
	}
	return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: spec.Path})
}

func addDebug(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DebugComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode debug spec: %w", err)
	}
	d := &component.Debug{Size: spec.Size}
	if spec.Color != nil {
		d.Color = spec.Color.Color
	}
	return ecs.Add(w, e, component.DebugComponent.Kind(), d)
}
