package motion

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/common"
)

// flipThreshold keeps near-vertical movement from flickering the flip.
const flipThreshold = 0.01

// Swarmer is one member of a swarm. An active swarmer heads for the swarm's
// target at MaxSpeed and is pushed away from other swarmers and obstacles
// closer than RepulsionRadius.
type Swarmer struct {
	Active          bool
	MaxSpeed        float64
	RotationSpeed   float64
	RepulsionRadius float64
	// RepulsionForce scales the push, 0 to 1.
	RepulsionForce float64
	// Flip mirrors the body horizontally instead of turning it. Only used
	// while RotationSpeed is 0.
	Flip bool

	// Flipped is true while the body faces left.
	Flipped bool

	// Solid reports whether a body at the given position would overlap a
	// solid. A move into a solid is undone per axis.
	Solid func(r2.Point) bool
}

// SwarmMember is a swarmer and its position for one frame.
type SwarmMember struct {
	Pos   r2.Point
	Mover *Swarmer
}

// Swarm is one frame of a group of swarmers chasing a shared target.
// Obstacles are shared by every member.
type Swarm struct {
	Members   []SwarmMember
	Obstacles []r2.Point
}

// Forces returns each member's steering force, in member order, computed
// from the positions before anyone moves. Inactive members get a zero force
// and do not push the others.
func (s *Swarm) Forces(target r2.Point) []r2.Point {
	forces := make([]r2.Point, len(s.Members))
	for i, a := range s.Members {
		if a.Mover == nil || !a.Mover.Active {
			continue
		}
		angle := common.AngleTo(a.Pos.X, a.Pos.Y, target.X, target.Y)
		f := r2.Point{X: math.Cos(angle), Y: math.Sin(angle)}
		for j, b := range s.Members {
			if i == j || b.Mover == nil || !b.Mover.Active {
				continue
			}
			f = f.Sub(a.Mover.push(a.Pos, b.Pos))
		}
		for _, o := range s.Obstacles {
			f = f.Sub(a.Mover.push(a.Pos, o))
		}
		forces[i] = f
	}
	return forces
}

// push points from pos towards other, scaled by how deep other sits inside
// the repulsion radius.
func (s *Swarmer) push(pos, other r2.Point) r2.Point {
	d := other.Sub(pos)
	distSq := d.Dot(d)
	if distSq <= 0 || distSq >= s.RepulsionRadius*s.RepulsionRadius {
		return r2.Point{}
	}
	dist := math.Sqrt(distSq)
	strength := (s.RepulsionRadius - dist) / s.RepulsionRadius
	return d.Mul(strength * s.RepulsionForce / dist)
}

// Tick moves b at MaxSpeed in the direction of force. The size of the force
// does not matter.
func (s *Swarmer) Tick(b Body, force r2.Point, dt float64) Body {
	if !s.Active || dt <= 0 {
		return b
	}
	mag := force.Norm()
	if mag == 0 {
		return b
	}
	dir := force.Mul(1 / mag)
	step := dir.Mul(s.MaxSpeed * dt)

	moved := r2.Point{X: b.Pos.X + step.X, Y: b.Pos.Y}
	if s.Solid == nil || !s.Solid(moved) {
		b.Pos = moved
	}
	moved = r2.Point{X: b.Pos.X, Y: b.Pos.Y + step.Y}
	if s.Solid == nil || !s.Solid(moved) {
		b.Pos = moved
	}

	switch {
	case s.RotationSpeed > 0:
		b.Angle = common.AngleLerp(b.Angle, math.Atan2(dir.Y, dir.X), s.RotationSpeed*dt)
	case s.Flip:
		if dir.X < -flipThreshold {
			s.Flipped = true
		} else if dir.X > flipThreshold {
			s.Flipped = false
		}
	}
	return b
}
