package entity

import (
	"fmt"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/grid"
	"github.com/milk9111/pathkit/levels"
	"github.com/milk9111/pathkit/prefabs"
)

// LoadLevelToWorld creates the bounds entity, one wall entity per legend
// cell and one entity per spawn. It returns the spawned entities keyed by
// their level id.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) (map[string]ecs.Entity, error) {
	if w == nil || lvl == nil {
		return nil, fmt.Errorf("load level: nil world or level")
	}
	idx, err := grid.NewIndex(lvl.CellWidth, lvl.CellHeight)
	if err != nil {
		return nil, fmt.Errorf("load level %q: %w", lvl.Name, err)
	}

	width, height := lvl.PixelSize()
	boundsEntity := ecs.CreateEntity(w)
	if err := ecs.Add(w, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  width,
		Height: height,
	}); err != nil {
		return nil, err
	}

	for _, tile := range lvl.Tiles() {
		if err := addWall(w, idx, tile); err != nil {
			return nil, fmt.Errorf("load level %q: wall %d,%d: %w", lvl.Name, tile.Col, tile.Row, err)
		}
	}

	spawned := make(map[string]ecs.Entity, len(lvl.Entities))
	for i, spawn := range lvl.Entities {
		e, err := spawnEntity(w, idx, spawn)
		if err != nil {
			return nil, fmt.Errorf("load level %q: entity %d: %w", lvl.Name, i, err)
		}
		if spawn.ID != "" {
			spawned[spawn.ID] = e
		}
	}
	return spawned, nil
}

func addWall(w *ecs.World, idx grid.Index, tile levels.PlacedTile) error {
	center := idx.ToWorldCenter(grid.Cell{Col: tile.Col, Row: tile.Row})
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: center.X, Y: center.Y}); err != nil {
		return err
	}
	if tile.Group != "" {
		if err := ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{Group: tile.Group}); err != nil {
			return err
		}
	}
	if tile.Solid {
		return ecs.Add(w, e, component.SolidComponent.Kind(), &component.Solid{Width: idx.CellWidth, Height: idx.CellHeight})
	}
	return nil
}

// spawnEntity builds the prefab at the spawn cell. The transform is placed
// before any other component so auto-started paths begin from the spawn.
func spawnEntity(w *ecs.World, idx grid.Index, spawn levels.Entity) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(spawn.Prefab)
	if err != nil {
		return 0, err
	}
	pos := idx.ToWorldCenter(grid.Cell{Col: spawn.Col, Row: spawn.Row})
	components := make(map[string]any, len(spec.Components)+2)
	for k, v := range spec.Components {
		components[k] = v
	}
	components["transform"] = map[string]any{"x": pos.X, "y": pos.Y}
	if spawn.ID != "" {
		if _, ok := components["persistent"]; ok {
			components["persistent"] = map[string]any{"id": spawn.ID}
		}
	}
	spec.Components = components

	e, err := BuildEntityFromSpec(w, spec, spawn.Prefab)
	if err != nil {
		return 0, err
	}
	if spawn.Target != nil {
		if err := SetTarget(w, e, idx.ToWorldCenter(grid.Cell{Col: spawn.Target.Col, Row: spawn.Target.Row})); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}
	return e, nil
}
