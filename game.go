package main

import (
	"context"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/pathkit/ecs/entity"
	"github.com/milk9111/pathkit/ecs/system"
	"github.com/milk9111/pathkit/persist"
	"github.com/milk9111/pathkit/prefabs"
	"github.com/milk9111/pathkit/sim"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var background = color.RGBA{0x18, 0x1a, 0x20, 0xff}

const (
	panSpeed = 8.0
	zoomStep = 1.1
	minZoom  = 0.25
	maxZoom  = 4.0
)

// camera keeps a point of the level at the screen center.
type camera struct {
	x, y float64
	zoom float64
}

func (c *camera) center(w, h float64) {
	c.x, c.y = w/2, h/2
	c.zoom = math.Min(baseWidth/w, baseHeight/h) * 0.9
}

func (c *camera) update() {
	step := panSpeed / c.zoom
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		c.x -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		c.x += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		c.y -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		c.y += step
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		c.zoom = math.Min(c.zoom*zoomStep, maxZoom)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		c.zoom = math.Max(c.zoom/zoomStep, minZoom)
	}
}

func (c camera) view() system.DebugView {
	return system.DebugView{
		CamX: c.x - baseWidth/2/c.zoom,
		CamY: c.y - baseHeight/2/c.zoom,
		Zoom: c.zoom,
	}
}

type Game struct {
	sim     *sim.Simulation
	watcher *prefabs.Watcher
	cam     camera
	slot    string
	paused  bool
}

func NewGame(ctx context.Context, levelName string, store *persist.Store, slot string, watch bool) (*Game, error) {
	s, err := sim.New(ctx, levelName, store)
	if err != nil {
		return nil, err
	}
	g := &Game{sim: s, slot: slot}
	g.cam.center(s.Size())
	if watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("prefab watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	reload := inpututil.IsKeyJustPressed(ebiten.KeyR)
	if g.watcher != nil && g.sim.HandleChanged(g.watcher.Poll()) {
		reload = true
	}
	if reload {
		next, err := g.sim.Reload()
		if err != nil {
			log.Printf("reload failed: %v", err)
		} else {
			g.sim = next
		}
	}

	g.cam.update()
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := entity.RequestSave(g.sim.World, g.slot); err != nil {
			log.Printf("save request: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		if err := entity.RequestLoad(g.sim.World, g.slot); err != nil {
			log.Printf("load request: %v", err)
		}
	}

	dt := 1.0 / float64(ebiten.TPS())
	if g.paused {
		// Requests still need a frame to be handled.
		dt = 0
	}
	g.sim.Step(dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	system.DrawDebug(g.sim.Physics.Space(), g.sim.World, screen, g.cam.view())
	system.DrawStats(g.sim.World, screen, g.paused)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
