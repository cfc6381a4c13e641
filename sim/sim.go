package sim

import (
	"context"
	"fmt"
	"log"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/entity"
	"github.com/milk9111/pathkit/ecs/system"
	"github.com/milk9111/pathkit/levels"
	"github.com/milk9111/pathkit/persist"
	"github.com/milk9111/pathkit/prefabs"
)

// Simulation is a loaded level plus the systems that move it.
type Simulation struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Spawned   map[string]ecs.Entity

	Physics     *system.PhysicsSystem
	Scripts     *system.ScriptSystem
	Smooth      *system.SmoothFollowSystem
	Swarm       *system.SwarmSystem
	Chains      *system.ChainSystem
	Persistence *system.PersistenceSystem

	level *levels.Level
	store *persist.Store
	ctx   context.Context
}

// New loads the named level from the embedded levels and schedules the
// systems in frame order: physics first so searches see this frame's
// solids, chains after every mover so segments trail this frame's heads,
// scripts after movement so they see its events, persistence last.
// store may be nil, in which case save and load requests are ignored.
func New(ctx context.Context, levelName string, store *persist.Store) (*Simulation, error) {
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	return NewFromLevel(ctx, lvl, store)
}

func NewFromLevel(ctx context.Context, lvl *levels.Level, store *persist.Store) (*Simulation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Simulation{
		World: ecs.NewWorld(),
		store: store,
		ctx:   ctx,
	}
	if lvl == nil {
		return nil, fmt.Errorf("sim: nil level")
	}
	s.level = lvl

	s.Physics = system.NewPhysicsSystem()
	s.Smooth = system.NewSmoothFollowSystem(s.Physics)
	s.Swarm = system.NewSwarmSystem(s.Physics, s.Smooth.Targets())
	s.Chains = system.NewChainSystem(entity.BuildEntity)
	s.Scripts = system.NewScriptSystem(prefabs.LoadScript)
	s.Persistence = system.NewPersistenceSystem(ctx, store)
	s.Scheduler = ecs.NewScheduler(
		s.Physics,
		system.NewPathfindingSystem(s.Physics),
		system.NewCellWalkSystem(s.Physics),
		system.NewPathFollowSystem(),
		system.NewTileStepSystem(),
		s.Smooth,
		s.Swarm,
		s.Chains,
		s.Scripts,
		s.Persistence,
	)

	spawned, err := entity.LoadLevelToWorld(s.World, lvl)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.Spawned = spawned
	log.Printf("sim: level=%q entities=%d spawned=%d", lvl.Name, len(ecs.Entities(s.World)), len(spawned))
	return s, nil
}

// Step advances the simulation by dt seconds.
func (s *Simulation) Step(dt float64) {
	s.Scheduler.Step(s.World, dt)
}

// Save writes every persistent entity into slot immediately.
func (s *Simulation) Save(slot string) error {
	if s.store == nil {
		return fmt.Errorf("sim: no save store")
	}
	return s.Persistence.Save(s.World, slot)
}

func (s *Simulation) Load(slot string) (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("sim: no save store")
	}
	return s.Persistence.Load(s.World, slot)
}

// Size returns the level's world-space width and height.
func (s *Simulation) Size() (float64, float64) {
	return s.level.PixelSize()
}

// Reload rebuilds the level from scratch, keeping the store. Prefabs are
// read again, so edits on disk take effect.
func (s *Simulation) Reload() (*Simulation, error) {
	return NewFromLevel(s.ctx, s.level, s.store)
}

// HandleChanged reacts to files reported by a prefabs.Watcher. Changed
// scripts are recompiled in place; a changed prefab spec needs a reload,
// which is reported through the bool.
func (s *Simulation) HandleChanged(files []string) (reload bool) {
	for _, f := range files {
		switch {
		case prefabs.IsScriptFile(f):
			log.Printf("sim: script changed %s", f)
			s.Scripts.Invalidate(f)
		case prefabs.IsSpecFile(f):
			log.Printf("sim: prefab changed %s", f)
			reload = true
		}
	}
	return reload
}
