package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/ecs"
	"github.com/milk9111/pathkit/ecs/component"
	"github.com/milk9111/pathkit/grid"
	"github.com/milk9111/pathkit/prefabs"
)

// Scripts define on_start(engine, state) and on_event(engine, state, kind).
// state is a map kept per entity across calls.
const scriptDispatch = `
if __phase == "start" {
	on_start(__engine, __state)
} else if __phase == "event" {
	on_event(__engine, __state, __event)
}
`

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

// ScriptLoader returns the source of a script by name.
type ScriptLoader func(name string) ([]byte, error)

// ScriptSystem runs per-entity tengo scripts: once on attach and once per
// PathEvent raised for the entity earlier in the frame. Schedule it after
// the systems whose events it should see.
type ScriptSystem struct {
	load    ScriptLoader
	runtime map[ecs.Entity]*scriptRuntime
}

// NewScriptSystem builds the system. A nil loader reads prefabs.LoadScript.
func NewScriptSystem(load ScriptLoader) *ScriptSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &ScriptSystem{load: load, runtime: make(map[ecs.Entity]*scriptRuntime)}
}

// Invalidate drops compiled scripts loaded from name so the next frame
// recompiles them. Per-entity state is kept.
func (ss *ScriptSystem) Invalidate(name string) {
	clean := prefabs.ScriptName(name)
	for _, rt := range ss.runtime {
		if prefabs.ScriptName(rt.path) == clean {
			rt.compiled = nil
		}
	}
}

// Running returns the number of entities with a compiled script.
func (ss *ScriptSystem) Running() int {
	n := 0
	for _, rt := range ss.runtime {
		if rt.compiled != nil {
			n++
		}
	}
	return n
}

func (ss *ScriptSystem) Update(w *ecs.World) {
	if ss == nil || w == nil {
		return
	}

	for e := range ss.runtime {
		if !ecs.Has(w, e, component.ScriptComponent.Kind()) {
			delete(ss.runtime, e)
		}
	}

	ecs.ForEach(w, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		rt, ok := ss.runtime[e]
		if ok && rt.path == sc.Path && rt.compiled != nil {
			return
		}
		fresh := !ok || rt.path != sc.Path
		compiled, err := ss.compile(sc.Path)
		if err != nil {
			log.Printf("script: entity=%v load %s: %v", e, sc.Path, err)
			delete(ss.runtime, e)
			return
		}
		if fresh {
			rt = &scriptRuntime{path: sc.Path, state: &tengo.Map{Value: map[string]tengo.Object{}}}
			ss.runtime[e] = rt
		}
		rt.compiled = compiled
		if fresh {
			if err := rt.run("start", "", buildScriptEngine(w, e)); err != nil {
				log.Printf("script: entity=%v on_start: %v", e, err)
			}
		}
	})

	for _, ev := range w.Events().PathEvents() {
		rt, ok := ss.runtime[ev.Entity]
		if !ok || rt.compiled == nil || !ecs.IsAlive(w, ev.Entity) {
			continue
		}
		if err := rt.run("event", string(ev.Kind), buildScriptEngine(w, ev.Entity)); err != nil {
			log.Printf("script: entity=%v on_event %s: %v", ev.Entity, ev.Kind, err)
		}
	}
}

func (ss *ScriptSystem) compile(path string) (*tengo.Compiled, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}
	src, err := ss.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__event", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	return script.Compile()
}

func (rt *scriptRuntime) run(phase, event string, engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	if err := rt.compiled.Set("__event", event); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func pointObject(p r2.Point) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}}
}

// pointArgs reads (x, y) from the first two arguments.
func pointArgs(args []tengo.Object) (r2.Point, bool) {
	if len(args) < 2 {
		return r2.Point{}, false
	}
	x, okX := tengo.ToFloat64(args[0])
	y, okY := tengo.ToFloat64(args[1])
	return r2.Point{X: x, Y: y}, okX && okY
}

func intArg(args []tengo.Object, i int) (int, bool) {
	if len(args) <= i {
		return 0, false
	}
	return tengo.ToInt(args[i])
}

// entityIndex returns the grid the entity moves on, taken from whichever
// grid-based component it carries.
func entityIndex(w *ecs.World, e ecs.Entity) (grid.Index, bool) {
	if pf, ok := ecs.Get(w, e, component.PathfinderComponent.Kind()); ok {
		if idx, err := grid.NewIndex(pf.CellWidth, pf.CellHeight); err == nil {
			return idx, true
		}
	}
	if cw, ok := ecs.Get(w, e, component.CellWalkerComponent.Kind()); ok && cw.Index.Valid() {
		return cw.Index, true
	}
	if tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind()); ok && tm.Index.Valid() {
		return tm.Index, true
	}
	return grid.Index{}, false
}

func buildScriptEngine(w *ecs.World, e ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("script: entity=%v %s", e, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	})

	fn("position", func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return pointObject(r2.Point{}), nil
		}
		return pointObject(t.Point()), nil
	})

	fn("cell_center", func(args ...tengo.Object) (tengo.Object, error) {
		col, okC := intArg(args, 0)
		row, okR := intArg(args, 1)
		idx, ok := entityIndex(w, e)
		if !okC || !okR || !ok {
			return tengo.UndefinedValue, nil
		}
		return pointObject(idx.ToWorldCenter(grid.Cell{Col: col, Row: row})), nil
	})

	fn("find_path", func(args ...tengo.Object) (tengo.Object, error) {
		p, ok := pointArgs(args)
		if !ok || !ecs.Has(w, e, component.PathfinderComponent.Kind()) {
			return tengo.FalseValue, nil
		}
		return boolObject(ecs.Add(w, e, component.PathRequestComponent.Kind(), &component.PathRequest{Target: p}) == nil), nil
	})

	fn("found_path", func(args ...tengo.Object) (tengo.Object, error) {
		pf, ok := ecs.Get(w, e, component.PathfinderComponent.Kind())
		if !ok {
			return &tengo.Array{}, nil
		}
		out := make([]tengo.Object, 0, len(pf.Path))
		for _, p := range pf.Path {
			out = append(out, pointObject(p))
		}
		return &tengo.Array{Value: out}, nil
	})

	fn("walk_to", func(args ...tengo.Object) (tengo.Object, error) {
		p, ok := pointArgs(args)
		if !ok || !ecs.Has(w, e, component.CellWalkerComponent.Kind()) {
			return tengo.FalseValue, nil
		}
		return boolObject(ecs.Add(w, e, component.WalkRequestComponent.Kind(), &component.WalkRequest{Target: p}) == nil), nil
	})

	follower := func() *component.PathFollower {
		pf, _ := ecs.Get(w, e, component.PathFollowerComponent.Kind())
		return pf
	}

	fn("add_node", func(args ...tengo.Object) (tengo.Object, error) {
		pf := follower()
		p, ok := pointArgs(args)
		if pf == nil || !ok {
			return tengo.FalseValue, nil
		}
		pf.AddNode(p)
		return tengo.TrueValue, nil
	})

	fn("clear_path", func(args ...tengo.Object) (tengo.Object, error) {
		if pf := follower(); pf != nil {
			pf.ClearPath()
		}
		return tengo.UndefinedValue, nil
	})

	fn("start_path", func(args ...tengo.Object) (tengo.Object, error) {
		pf := follower()
		if pf == nil {
			return tengo.FalseValue, nil
		}
		start, ok := pf.StartPath()
		if ok {
			if t, has := ecs.Get(w, e, component.TransformComponent.Kind()); has {
				t.SetPoint(start)
			}
		}
		return boolObject(ok), nil
	})

	fn("stop", func(args ...tengo.Object) (tengo.Object, error) {
		if pf := follower(); pf != nil {
			pf.Stop()
		}
		if cw, ok := ecs.Get(w, e, component.CellWalkerComponent.Kind()); ok {
			cw.Stop()
		}
		if tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind()); ok {
			tm.Stop()
		}
		return tengo.UndefinedValue, nil
	})

	fn("set_speed", func(args ...tengo.Object) (tengo.Object, error) {
		pf := follower()
		if pf == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		s, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		pf.SetSpeed(s)
		return tengo.TrueValue, nil
	})

	fn("is_moving", func(args ...tengo.Object) (tengo.Object, error) {
		if pf := follower(); pf != nil && pf.IsMoving() {
			return tengo.TrueValue, nil
		}
		if cw, ok := ecs.Get(w, e, component.CellWalkerComponent.Kind()); ok && cw.IsMoving() {
			return tengo.TrueValue, nil
		}
		if tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind()); ok && tm.IsMoving() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	})

	fn("node_count", func(args ...tengo.Object) (tengo.Object, error) {
		if pf := follower(); pf != nil {
			return &tengo.Int{Value: int64(pf.NodeCount())}, nil
		}
		return &tengo.Int{}, nil
	})

	fn("node_at", func(args ...tengo.Object) (tengo.Object, error) {
		pf := follower()
		i, ok := intArg(args, 0)
		if pf == nil || !ok {
			return tengo.UndefinedValue, nil
		}
		p, ok := pf.NodeAt(i)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return pointObject(p), nil
	})

	fn("current_node", func(args ...tengo.Object) (tengo.Object, error) {
		if pf := follower(); pf != nil {
			return &tengo.Int{Value: int64(pf.CurrentNode())}, nil
		}
		return &tengo.Int{Value: -1}, nil
	})

	fn("add_tile", func(args ...tengo.Object) (tengo.Object, error) {
		tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind())
		col, okC := intArg(args, 0)
		row, okR := intArg(args, 1)
		if !ok || !okC || !okR {
			return tengo.FalseValue, nil
		}
		tm.AddTile(col, row)
		return tengo.TrueValue, nil
	})

	fn("start_tiles", func(args ...tengo.Object) (tengo.Object, error) {
		tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind())
		if !ok || tm.StackCount() == 0 {
			return tengo.FalseValue, nil
		}
		tm.Start()
		return tengo.TrueValue, nil
	})

	fn("tile_target", func(args ...tengo.Object) (tengo.Object, error) {
		tm, ok := ecs.Get(w, e, component.TileMoverComponent.Kind())
		if !ok {
			return tengo.UndefinedValue, nil
		}
		c := tm.Target()
		return &tengo.Array{Value: []tengo.Object{&tengo.Int{Value: int64(c.Col)}, &tengo.Int{Value: int64(c.Row)}}}, nil
	})

	fn("set_target", func(args ...tengo.Object) (tengo.Object, error) {
		sf, ok := ecs.Get(w, e, component.SmoothFollowerComponent.Kind())
		p, okP := pointArgs(args)
		if !ok || !okP {
			return tengo.FalseValue, nil
		}
		sf.SetTargetPosition(p)
		return tengo.TrueValue, nil
	})

	fn("set_active", func(args ...tengo.Object) (tengo.Object, error) {
		sw, ok := ecs.Get(w, e, component.SwarmerComponent.Kind())
		if !ok || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		sw.Active = !args[0].IsFalsy()
		return tengo.TrueValue, nil
	})

	chain := func() *component.Chain {
		ch, _ := ecs.Get(w, e, component.ChainComponent.Kind())
		return ch
	}

	fn("build_chain", func(args ...tengo.Object) (tengo.Object, error) {
		ch := chain()
		if ch == nil {
			return tengo.FalseValue, nil
		}
		ch.BuildRequested = true
		return tengo.TrueValue, nil
	})

	fn("add_segment", func(args ...tengo.Object) (tengo.Object, error) {
		ch := chain()
		if ch == nil {
			return tengo.FalseValue, nil
		}
		ch.AddRequested++
		return tengo.TrueValue, nil
	})

	fn("destroy_chain", func(args ...tengo.Object) (tengo.Object, error) {
		if ch := chain(); ch != nil {
			ch.DestroyRequested = true
		}
		return tengo.UndefinedValue, nil
	})

	// Includes segments requested this frame.
	fn("segment_count", func(args ...tengo.Object) (tengo.Object, error) {
		ch := chain()
		if ch == nil {
			return &tengo.Int{}, nil
		}
		return &tengo.Int{Value: int64(ch.Live + ch.AddRequested)}, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
