package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/pathkit/persist"
)

func main() {
	levelName := flag.String("level", "arena.json", "level name in levels/")
	savePath := flag.String("save", "pathkit.db", "sqlite file for save slots")
	slot := flag.String("slot", "quick", "save slot used by [s] and [l]")
	watch := flag.Bool("watch", true, "reload prefabs and scripts from prefabs/ when they change")
	flag.Parse()

	ctx := context.Background()
	store, err := persist.Open(ctx, *savePath)
	if err != nil {
		log.Fatalf("open save store: %v", err)
	}
	defer store.Close()

	game, err := NewGame(ctx, *levelName, store, *slot, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("pathkit")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
