package system

import (
	"context"
	"log"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/motion"
	"github.com/milk9111/pathkit/persist"
)

// EntitySnapshot is the saved movement state of one Persistent entity.
// Behaviors the entity does not carry are omitted.
type EntitySnapshot struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rot"`

	Follower *motion.FollowerSnapshot `json:"follower,omitempty"`
	Tiles    *motion.TileSnapshot     `json:"tiles,omitempty"`
	Walker   *motion.WalkerSnapshot   `json:"walker,omitempty"`
	Smooth   *motion.SmoothSnapshot   `json:"smooth,omitempty"`
	Swarm    *motion.SwarmSnapshot    `json:"swarm,omitempty"`
}

// PersistenceSystem writes and restores Persistent entities when a
// SaveRequest or LoadRequest entity appears. Request entities are destroyed
// after handling.
type PersistenceSystem struct {
	store *persist.Store
	ctx   context.Context
}

func NewPersistenceSystem(ctx context.Context, store *persist.Store) *PersistenceSystem {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PersistenceSystem{store: store, ctx: ctx}
}

func (p *PersistenceSystem) Update(w *ecs.World) {
	if p == nil || w == nil || p.store == nil {
		return
	}

	ecs.ForEach(w, component.SaveRequestComponent.Kind(), func(e ecs.Entity, req *component.SaveRequest) {
		if err := p.Save(w, req.Slot); err != nil {
			log.Printf("persistence: save slot=%q: %v", req.Slot, err)
		}
		ecs.DestroyEntity(w, e)
	})

	ecs.ForEach(w, component.LoadRequestComponent.Kind(), func(e ecs.Entity, req *component.LoadRequest) {
		if n, err := p.Load(w, req.Slot); err != nil {
			log.Printf("persistence: load slot=%q: %v", req.Slot, err)
		} else {
			log.Printf("persistence: restored %d entities from slot=%q", n, req.Slot)
		}
		ecs.DestroyEntity(w, e)
	})
}

// Save replaces slot with the snapshots of every Persistent entity.
func (p *PersistenceSystem) Save(w *ecs.World, slot string) error {
	values := make(map[string]any)
	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent) {
		if persistent.ID == "" {
			return
		}
		if _, dup := values[persistent.ID]; dup {
			log.Printf("persistence: duplicate id %q on entity=%v skipped", persistent.ID, e)
			return
		}
		values[persistent.ID] = SnapshotEntity(w, e)
	})
	return p.store.SaveAll(p.ctx, slot, values, true)
}

// Load restores every Persistent entity found in slot and returns how many
// were restored. Entities missing from the slot are left alone.
func (p *PersistenceSystem) Load(w *ecs.World, slot string) (int, error) {
	restored := 0
	var firstErr error
	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent) {
		if persistent.ID == "" || firstErr != nil {
			return
		}
		var snap EntitySnapshot
		ok, err := p.store.Load(p.ctx, slot, persistent.ID, &snap)
		if err != nil {
			firstErr = err
			return
		}
		if ok {
			RestoreEntity(w, e, snap)
			restored++
		}
	})
	return restored, firstErr
}

func SnapshotEntity(w *ecs.World, e ecs.Entity) EntitySnapshot {
	var snap EntitySnapshot
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		snap.X, snap.Y, snap.Rotation = t.X, t.Y, t.Rotation
	}
	if pf, ok := ecs.Get(w, e, component.PathFollowerComponent.Kind()); ok {
		s := pf.Snapshot()
		snap.Follower = &s
	}
	if tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind()); ok {
		s := tm.Snapshot()
		snap.Tiles = &s
	}
	if cw, ok := ecs.Get(w, e, component.CellWalkerComponent.Kind()); ok {
		s := cw.Snapshot()
		snap.Walker = &s
	}
	if sf, ok := ecs.Get(w, e, component.SmoothFollowerComponent.Kind()); ok {
		s := sf.Snapshot()
		snap.Smooth = &s
	}
	if sw, ok := ecs.Get(w, e, component.SwarmerComponent.Kind()); ok {
		s := sw.Snapshot()
		snap.Swarm = &s
	}
	return snap
}

func RestoreEntity(w *ecs.World, e ecs.Entity, snap EntitySnapshot) {
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.X, t.Y, t.Rotation = snap.X, snap.Y, snap.Rotation
	}
	if pf, ok := ecs.Get(w, e, component.PathFollowerComponent.Kind()); ok && snap.Follower != nil {
		pf.Restore(*snap.Follower)
	}
	if tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind()); ok && snap.Tiles != nil {
		tm.Restore(*snap.Tiles)
	}
	if cw, ok := ecs.Get(w, e, component.CellWalkerComponent.Kind()); ok && snap.Walker != nil {
		cw.Restore(*snap.Walker)
	}
	if sf, ok := ecs.Get(w, e, component.SmoothFollowerComponent.Kind()); ok && snap.Smooth != nil {
		sf.Restore(*snap.Smooth)
	}
	if sw, ok := ecs.Get(w, e, component.SwarmerComponent.Kind()); ok && snap.Swarm != nil {
		sw.Restore(*snap.Swarm)
	}
}
