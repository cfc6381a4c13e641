package system

import (
	"log"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/motion"
)

// SegmentSpawner builds a body segment entity from a prefab.
type SegmentSpawner func(w *ecs.World, prefab string) (ecs.Entity, error)

// ChainSystem builds, trims and moves the segments of every Chain. Segments
// of a head that lost its Chain, or died, are destroyed with it.
type ChainSystem struct {
	spawn  SegmentSpawner
	chains map[ecs.Entity][]ecs.Entity
}

// NewChainSystem builds the system. With a nil spawner, or a chain without
// a BodyPrefab, segments are bare entities with a transform.
func NewChainSystem(spawn SegmentSpawner) *ChainSystem {
	return &ChainSystem{spawn: spawn, chains: make(map[ecs.Entity][]ecs.Entity)}
}

// Segments returns the live segments of head, nearest first.
func (cs *ChainSystem) Segments(head ecs.Entity) []ecs.Entity {
	return cs.chains[head]
}

func (cs *ChainSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	for head := range cs.chains {
		if !ecs.Has(w, head, component.ChainComponent.Kind()) {
			cs.destroy(w, head)
		}
	}

	ecs.ForEach2(w, component.ChainComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ch *component.Chain, t *component.Transform) {
		if ch.DestroyRequested {
			cs.destroy(w, e)
			ch.DestroyRequested = false
		}
		if ch.BuildRequested {
			cs.destroy(w, e)
			for i := 0; i < ch.Length; i++ {
				if !cs.grow(w, e, ch) {
					break
				}
			}
			ch.BuildRequested = false
		}
		for ; ch.AddRequested > 0; ch.AddRequested-- {
			if cs.grow(w, e, ch) {
				ch.Length++
			}
		}

		segs := cs.prune(w, e)
		bodies := make([]motion.Body, len(segs))
		for i, s := range segs {
			st, _ := ecs.Get(w, s, component.TransformComponent.Kind())
			bodies[i] = motion.Body{Pos: st.Point(), Angle: st.Rotation}
		}
		ch.Tick(motion.Body{Pos: t.Point(), Angle: t.Rotation}, bodies)
		for i, s := range segs {
			st, _ := ecs.Get(w, s, component.TransformComponent.Kind())
			st.SetPoint(bodies[i].Pos)
			st.Rotation = bodies[i].Angle
		}
		ch.Live = len(segs)
	})
}

// grow appends one segment on top of the last one, or on the head.
func (cs *ChainSystem) grow(w *ecs.World, head ecs.Entity, ch *component.Chain) bool {
	prev := head
	if segs := cs.chains[head]; len(segs) > 0 {
		prev = segs[len(segs)-1]
	}
	pt, ok := ecs.Get(w, prev, component.TransformComponent.Kind())
	if !ok {
		return false
	}

	var seg ecs.Entity
	if cs.spawn != nil && ch.BodyPrefab != "" {
		var err error
		seg, err = cs.spawn(w, ch.BodyPrefab)
		if err != nil {
			log.Printf("chain: entity=%v body %q: %v", head, ch.BodyPrefab, err)
			return false
		}
	} else {
		seg = ecs.CreateEntity(w)
	}

	pos := &component.Transform{X: pt.X, Y: pt.Y, Rotation: pt.Rotation}
	if st, ok := ecs.Get(w, seg, component.TransformComponent.Kind()); ok {
		*st = *pos
	} else if err := ecs.Add(w, seg, component.TransformComponent.Kind(), pos); err != nil {
		ecs.DestroyEntity(w, seg)
		return false
	}
	index := len(cs.chains[head])
	if err := ecs.Add(w, seg, component.ChainSegmentComponent.Kind(), &component.ChainSegment{Index: index}); err != nil {
		ecs.DestroyEntity(w, seg)
		return false
	}
	cs.chains[head] = append(cs.chains[head], seg)
	return true
}

// prune drops segments destroyed elsewhere and closes the gaps.
func (cs *ChainSystem) prune(w *ecs.World, head ecs.Entity) []ecs.Entity {
	segs := cs.chains[head]
	live := segs[:0]
	for _, s := range segs {
		if ecs.Has(w, s, component.TransformComponent.Kind()) {
			live = append(live, s)
		}
	}
	for i, s := range live {
		if seg, ok := ecs.Get(w, s, component.ChainSegmentComponent.Kind()); ok {
			seg.Index = i
		}
	}
	if len(live) == 0 {
		delete(cs.chains, head)
		return nil
	}
	cs.chains[head] = live
	return live
}

func (cs *ChainSystem) destroy(w *ecs.World, head ecs.Entity) {
	for _, s := range cs.chains[head] {
		ecs.DestroyEntity(w, s)
	}
	delete(cs.chains, head)
}
