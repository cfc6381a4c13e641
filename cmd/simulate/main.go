// Command simulate steps a level headlessly and prints the path events it
// raises. It can save the final state into a slot or start from one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/milk9111/pathkit/common"
	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/persist"
	"github.com/milk9111/pathkit/sim"
)

type eventPrinter struct {
	frame int
	names map[ecs.Entity]string
}

func (p *eventPrinter) Update(w *ecs.World) {
	p.frame++
	for _, ev := range w.Events().PathEvents() {
		name, ok := p.names[ev.Entity]
		if !ok {
			name = ev.Entity.String()
		}
		fmt.Printf("%6d  %-12s %s\n", p.frame, name, ev.Kind)
	}
}

func main() {
	levelName := flag.String("level", "arena.json", "level name in levels/")
	frames := flag.Int("frames", 600, "number of frames to step")
	dt := flag.Float64("dt", 1.0/60.0, "seconds per frame")
	savePath := flag.String("save", "", "sqlite file for save slots (empty disables saving)")
	loadSlot := flag.String("load", "", "restore this slot before stepping")
	saveSlot := flag.String("slot", "", "save the final state into this slot")
	flag.Parse()

	ctx := context.Background()
	var store *persist.Store
	if *savePath != "" {
		s, err := persist.Open(ctx, *savePath)
		if err != nil {
			log.Fatalf("open save store: %v", err)
		}
		defer s.Close()
		store = s
	}

	s, err := sim.New(ctx, *levelName, store)
	if err != nil {
		log.Fatal(err)
	}

	names := make(map[ecs.Entity]string, len(s.Spawned))
	for id, e := range s.Spawned {
		names[e] = id
	}
	s.Scheduler.Add(&eventPrinter{names: names})

	if *loadSlot != "" {
		n, err := s.Load(*loadSlot)
		if err != nil {
			log.Fatalf("load slot %q: %v", *loadSlot, err)
		}
		log.Printf("restored %d entities from slot %q", n, *loadSlot)
	}

	for i := 0; i < *frames; i++ {
		s.Step(*dt)
	}

	ids := make([]string, 0, len(s.Spawned))
	for id := range s.Spawned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t, ok := ecs.Get(s.World, s.Spawned[id], component.TransformComponent.Kind())
		if !ok {
			continue
		}
		fmt.Printf("%-12s x=%.1f y=%.1f heading=%.0fdeg", id, t.X, t.Y, common.ToDegrees(t.Rotation))
		if ch, ok := ecs.Get(s.World, s.Spawned[id], component.ChainComponent.Kind()); ok {
			fmt.Printf(" segments=%d", ch.Live)
		}
		fmt.Println()
	}

	if *saveSlot != "" {
		if err := s.Save(*saveSlot); err != nil {
			log.Printf("save slot %q: %v", *saveSlot, err)
			os.Exit(1)
		}
		log.Printf("saved slot %q", *saveSlot)
	}
}
