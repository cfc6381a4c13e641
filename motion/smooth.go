package motion

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/common"
)

// snapDistance is close enough to a target to stop instead of orbiting it.
const snapDistance = 0.5

type SteeringMode int

const (
	// Steering turns the body towards its target at RotationSpeed.
	Steering SteeringMode = iota
	// Direct moves without touching the body's angle.
	Direct
)

// Body is the part of a mover a SmoothFollower reads and writes.
type Body struct {
	Pos   r2.Point
	Angle float64
}

// SmoothFollower chases a moving or fixed target, easing its speed between
// MinSpeed and MaxSpeed inside EffectiveRadius. While disabled it keeps
// coasting and loses speed at Decel.
type SmoothFollower struct {
	Enabled         bool
	Mode            SteeringMode
	MaxSpeed        float64
	MinSpeed        float64
	Decel           float64
	RotationSpeed   float64
	EffectiveRadius float64
	StopOnSolids    bool

	Velocity r2.Point

	// Position target, used when no entity target is registered.
	Target    r2.Point
	HasTarget bool

	// Solid reports whether a body at the given position would overlap a
	// solid. Only consulted with StopOnSolids.
	Solid func(r2.Point) bool
}

// SetTargetPosition points the follower at a fixed position.
func (f *SmoothFollower) SetTargetPosition(p r2.Point) {
	f.Target = p
	f.HasTarget = true
}

func (f *SmoothFollower) CurrentSpeed() float64 {
	return f.Velocity.Norm()
}

func (f *SmoothFollower) IsMoving() bool {
	return f.Velocity.X != 0 || f.Velocity.Y != 0
}

// Tick moves b. target overrides the position target when ok is true.
func (f *SmoothFollower) Tick(b Body, target r2.Point, ok bool, dt float64) Body {
	if dt <= 0 {
		return b
	}
	if ok {
		f.Target = target
	}
	hasTarget := ok || f.HasTarget

	switch {
	case !f.Enabled:
		if speed := f.Velocity.Norm(); speed > 0 {
			next := math.Max(0, speed-f.Decel*dt)
			f.Velocity = f.Velocity.Mul(next / speed)
		}
	case hasTarget:
		dist := f.Target.Sub(b.Pos).Norm()
		if dist < snapDistance {
			f.Velocity = r2.Point{}
			b.Pos = f.Target
			break
		}
		angle := common.AngleTo(b.Pos.X, b.Pos.Y, f.Target.X, f.Target.Y)
		if f.Mode == Steering {
			b.Angle = common.AngleLerp(b.Angle, angle, f.RotationSpeed*dt)
		}

		ratio := 1.0
		if f.EffectiveRadius > 0 {
			ratio = math.Min(dist/f.EffectiveRadius, 1)
		}
		speed := common.Lerp(f.MinSpeed, f.MaxSpeed, ratio)
		speed = math.Min(speed, dist/dt)
		f.Velocity = r2.Point{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	}

	if speed := f.Velocity.Norm(); speed > f.MaxSpeed && speed > 0 {
		f.Velocity = f.Velocity.Mul(math.Max(0, f.MaxSpeed) / speed)
	}

	if f.Velocity.X == 0 && f.Velocity.Y == 0 {
		return b
	}

	if !f.StopOnSolids || f.Solid == nil {
		b.Pos = b.Pos.Add(f.Velocity.Mul(dt))
		return b
	}

	moved := r2.Point{X: b.Pos.X + f.Velocity.X*dt, Y: b.Pos.Y}
	if f.Solid(moved) {
		f.Velocity.X = 0
	} else {
		b.Pos = moved
	}
	moved = r2.Point{X: b.Pos.X, Y: b.Pos.Y + f.Velocity.Y*dt}
	if f.Solid(moved) {
		f.Velocity.Y = 0
	} else {
		b.Pos = moved
	}
	return b
}

// TargetRegistry holds the entity each group of followers is chasing. All
// followers sharing a group share one target.
type TargetRegistry[E comparable] struct {
	targets map[string]E
}

func NewTargetRegistry[E comparable]() *TargetRegistry[E] {
	return &TargetRegistry[E]{targets: make(map[string]E)}
}

func (r *TargetRegistry[E]) Set(group string, e E) {
	if r.targets == nil {
		r.targets = make(map[string]E)
	}
	r.targets[group] = e
}

func (r *TargetRegistry[E]) Clear(group string) {
	delete(r.targets, group)
}

func (r *TargetRegistry[E]) Get(group string) (E, bool) {
	e, ok := r.targets[group]
	return e, ok
}
