package sim

import (
	"context"
	"testing"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/persist"
)

func newArena(t *testing.T) *Simulation {
	t.Helper()
	store, err := persist.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	s, err := New(context.Background(), "arena.json", store)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

func TestArenaRuns(t *testing.T) {
	s := newArena(t)
	for i := 0; i < 300; i++ {
		s.Step(1.0 / 60.0)
	}

	pf, ok := ecs.Get(s.World, s.Spawned["seeker"], component.PathfinderComponent.Kind())
	if !ok || !pf.Found || len(pf.Path) == 0 {
		t.Fatalf("seeker should have found a path, got %+v", pf)
	}
	for _, id := range []string{"seeker", "swarm-a", "tile-bot", "chaser", "mob-a", "snake"} {
		tr, ok := ecs.Get(s.World, s.Spawned[id], component.TransformComponent.Kind())
		if !ok {
			t.Fatalf("%s lost its transform", id)
		}
		if tr.X < 0 || tr.Y < 0 || tr.X > 640 || tr.Y > 384 {
			t.Fatalf("%s left the arena: %v", id, tr.Point())
		}
	}
	if s.Scripts.Running() == 0 {
		t.Fatalf("prefab scripts should be running")
	}
	if n := len(s.Chains.Segments(s.Spawned["snake"])); n < 4 {
		t.Fatalf("snake has %d segments, want at least 4", n)
	}
}

func TestSaveLoadAndReload(t *testing.T) {
	s := newArena(t)
	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60.0)
	}
	seeker := s.Spawned["seeker"]
	tr, _ := ecs.Get(s.World, seeker, component.TransformComponent.Kind())
	saved := tr.Point()

	if err := s.Save("quick"); err != nil {
		t.Fatalf("save: %v", err)
	}
	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60.0)
	}
	n, err := s.Load("quick")
	if err != nil || n != len(s.Spawned) {
		t.Fatalf("load restored %d of %d: %v", n, len(s.Spawned), err)
	}
	if tr.Point() != saved {
		t.Fatalf("seeker at %v, want %v", tr.Point(), saved)
	}

	next, err := s.Reload()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if next.World == s.World || len(next.Spawned) != len(s.Spawned) {
		t.Fatalf("reload should build a fresh world")
	}
	if n, err := next.Load("quick"); err != nil || n != len(next.Spawned) {
		t.Fatalf("reloaded world should share the store, got %d, %v", n, err)
	}
}

func TestHandleChanged(t *testing.T) {
	s := newArena(t)
	if s.HandleChanged([]string{"prefabs/scripts/seeker.tengo", "notes.txt"}) {
		t.Fatalf("a script change should not need a reload")
	}
	if !s.HandleChanged([]string{"prefabs/chaser.yaml"}) {
		t.Fatalf("a prefab change should need a reload")
	}
}

func TestWithoutStore(t *testing.T) {
	s, err := New(context.Background(), "arena.json", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Save("x"); err == nil {
		t.Fatalf("save without a store should fail")
	}
	s.Step(1.0 / 60.0)

	if _, err := New(context.Background(), "missing.json", nil); err == nil {
		t.Fatalf("missing level should fail")
	}
}
