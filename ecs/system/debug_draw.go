package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/grid"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DebugView maps world coordinates to the screen.
type DebugView struct {
	CamX float64
	CamY float64
	Zoom float64
}

func (v DebugView) toScreen(p r2.Point) (float64, float64) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return (p.X - v.CamX) * zoom, (p.Y - v.CamY) * zoom
}

// DrawDebug draws the solids space, obstacle cells, and every path the
// movement components are travelling.
func DrawDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image, view DebugView) {
	if w == nil || screen == nil {
		return
	}
	if space != nil {
		cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, view: view})
	}
	o := &pathOverlay{screen: screen, view: view}
	o.drawObstacles(w)
	o.drawPaths(w)
}

type pathOverlay struct {
	screen *ebiten.Image
	view   DebugView
}

func (o *pathOverlay) line(a, b r2.Point, c color.Color) {
	x1, y1 := o.view.toScreen(a)
	x2, y2 := o.view.toScreen(b)
	vector.StrokeLine(o.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, c, false)
}

func (o *pathOverlay) polyline(pts []r2.Point, c color.Color) {
	for i := 1; i < len(pts); i++ {
		o.line(pts[i-1], pts[i], c)
	}
}

func (o *pathOverlay) cross(p r2.Point, size float64, c color.Color) {
	half := size / 2
	o.line(r2.Point{X: p.X - half, Y: p.Y}, r2.Point{X: p.X + half, Y: p.Y}, c)
	o.line(r2.Point{X: p.X, Y: p.Y - half}, r2.Point{X: p.X, Y: p.Y + half}, c)
}

func (o *pathOverlay) box(center r2.Point, w, h float64, c color.Color) {
	x, y := o.view.toScreen(r2.Point{X: center.X - w/2, Y: center.Y - h/2})
	zoom := o.view.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	vector.FillRect(o.screen, float32(x), float32(y), float32(w*zoom), float32(h*zoom), c, false)
}

func entityStyle(w *ecs.World, e ecs.Entity, fallback color.Color) (color.Color, float64) {
	if d, ok := ecs.Get(w, e, component.DebugComponent.Kind()); ok {
		c := fallback
		if d.Color != nil {
			c = d.Color
		}
		size := float64(debugDotSize)
		if d.Size > 0 {
			size = d.Size
		}
		return c, size
	}
	return fallback, debugDotSize
}

func (o *pathOverlay) drawObstacles(w *ecs.World) {
	ecs.ForEach2(w, component.ObstacleComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Obstacle, t *component.Transform) {
		if ecs.Has(w, e, component.SolidComponent.Kind()) {
			return
		}
		c, size := entityStyle(w, e, colornames.Slategray)
		o.cross(t.Point(), size*2, c)
	})
}

func (o *pathOverlay) drawPaths(w *ecs.World) {
	ecs.ForEach2(w, component.PathfinderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pf *component.Pathfinder, t *component.Transform) {
		if !pf.Found || len(pf.Path) == 0 {
			return
		}
		c, size := entityStyle(w, e, colornames.Gold)
		for _, p := range pf.Path {
			o.cross(p, size, c)
		}
	})

	ecs.ForEach2(w, component.PathFollowerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pf *component.PathFollower, t *component.Transform) {
		c, size := entityStyle(w, e, colornames.Orange)
		if baked := pf.Baked(); baked != nil && pf.IsMoving() {
			pts := make([]r2.Point, 0, len(baked.Points))
			for _, bp := range baked.Points {
				pts = append(pts, bp.Point())
			}
			o.polyline(pts, c)
		}
		for i := 0; i < pf.NodeCount(); i++ {
			p, _ := pf.NodeAt(i)
			o.cross(p, size, colornames.Lightskyblue)
		}
		o.heading(t, size*3, c)
	})

	ecs.ForEach2(w, component.CellWalkerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cw *component.CellWalker, t *component.Transform) {
		if !cw.IsMoving() {
			return
		}
		c, size := entityStyle(w, e, colornames.Mediumseagreen)
		o.polyline(append([]r2.Point{t.Point()}, cw.Path()...), c)
		o.cross(cw.Index.ToWorldCenter(cw.Target()), size*2, c)
	})

	ecs.ForEach2(w, component.TileMoverComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tm *component.TileMover, t *component.Transform) {
		c, _ := entityStyle(w, e, colornames.Violet)
		if target := tm.Target(); target != (grid.Cell{Col: -1, Row: -1}) {
			o.box(tm.Index.ToWorldCenter(target), tm.Index.CellWidth, tm.Index.CellHeight, withAlpha(c, 0x60))
		}
		for i := 0; i < tm.PathLen(); i++ {
			o.cross(tm.Index.ToWorldCenter(tm.PathAt(i)), debugDotSize, c)
		}
	})

	ecs.ForEach2(w, component.SmoothFollowerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sf *component.SmoothFollower, t *component.Transform) {
		c, _ := entityStyle(w, e, colornames.Tomato)
		if sf.HalfWidth > 0 && sf.HalfHeight > 0 {
			o.box(t.Point(), sf.HalfWidth*2, sf.HalfHeight*2, withAlpha(c, 0x40))
		}
		o.heading(t, 12, c)
	})

	ecs.ForEach2(w, component.SwarmerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sw *component.Swarmer, t *component.Transform) {
		c, size := entityStyle(w, e, colornames.Orchid)
		if sw.RepulsionRadius > 0 {
			o.circle(t.Point(), sw.RepulsionRadius, withAlpha(c, 0x50))
		}
		if !sw.Active {
			o.cross(t.Point(), size, colornames.Gray)
			return
		}
		o.heading(t, size*2, c)
	})

	ecs.ForEach2(w, component.ChainSegmentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.ChainSegment, t *component.Transform) {
		c, size := entityStyle(w, e, colornames.Olivedrab)
		o.box(t.Point(), size, size, c)
	})
}

func (o *pathOverlay) circle(center r2.Point, radius float64, c color.Color) {
	prev := r2.Point{X: center.X + radius, Y: center.Y}
	for i := 1; i <= debugCircleSegments; i++ {
		a := 2 * math.Pi * float64(i) / debugCircleSegments
		next := r2.Point{X: center.X + math.Cos(a)*radius, Y: center.Y + math.Sin(a)*radius}
		o.line(prev, next, c)
		prev = next
	}
}

func (o *pathOverlay) heading(t *component.Transform, length float64, c color.Color) {
	end := r2.Point{X: t.X + math.Cos(t.Rotation)*length, Y: t.Y + math.Sin(t.Rotation)*length}
	o.line(t.Point(), end, c)
}

// DrawStats prints a one-line summary of entity counts.
func DrawStats(w *ecs.World, screen *ebiten.Image, paused bool) {
	if w == nil || screen == nil {
		return
	}
	moving := 0
	ecs.ForEach(w, component.PathFollowerComponent.Kind(), func(_ ecs.Entity, pf *component.PathFollower) {
		if pf.IsMoving() {
			moving++
		}
	})
	state := "running"
	if paused {
		state = "paused"
	}
	text := fmt.Sprintf("entities: %d  following: %d  %s\n[space] pause  [s] save  [l] load  [r] reload  [arrows] pan  [-/=] zoom", len(ecs.Entities(w)), moving, state)
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func withAlpha(c color.Color, a uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   DebugView
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return toFColor(colornames.Darkgray)
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return toFColor(colornames.Dimgray)
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return toFColor(colornames.Orange)
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return toFColor(colornames.Red)
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.toScreen(r2.Point{X: a.X, Y: a.Y})
	x2, y2 := d.view.toScreen(r2.Point{X: b.X, Y: b.Y})
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
