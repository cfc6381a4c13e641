package motion

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/common"
	"github.com/milk9111/pathkit/path"
)

// finishEpsilon absorbs floating point creep at the end of a track.
const finishEpsilon = 1e-9

type StopPolicy int

const (
	// StopHard zeroes speed and deactivates immediately.
	StopHard StopPolicy = iota
	// StopDecelerate sets the target speed to zero and lets Decel bring the
	// mover to rest. Without Decel it behaves like StopHard.
	StopDecelerate
)

// State is the mutable part of a Controller.
type State struct {
	Distance float64 `json:"dt"`
	Speed    float64 `json:"cs"`
	Target   float64 `json:"ts"`
	Length   float64 `json:"pl"`
	Active   bool    `json:"act"`
	Node     int     `json:"cn"`
}

// Step reports what one tick did.
type Step struct {
	Pos      r2.Point
	Index    float64
	Moved    bool
	Finished bool
}

// Controller drives a mover along a Track with speed, acceleration and
// braking. While inactive it holds its speed; it never decays.
type Controller struct {
	Speed      float64
	Accel      float64
	Decel      float64
	StopPolicy StopPolicy

	State State

	track path.Track
}

func (c *Controller) Track() path.Track {
	return c.track
}

// Start begins travelling t from its first point and returns that point so
// the caller can snap the mover to it. Nil or empty tracks are ignored.
func (c *Controller) Start(t path.Track) (r2.Point, bool) {
	if t == nil || t.Empty() {
		return r2.Point{}, false
	}
	c.track = t
	c.State = State{
		Length: t.Total(),
		Active: true,
		Target: c.Speed,
	}
	if c.Accel == 0 {
		c.State.Speed = c.State.Target
	}
	return t.Start(), true
}

// Resume reattaches a track without touching State. Used after restoring a
// snapshot.
func (c *Controller) Resume(t path.Track) {
	c.track = t
	if t != nil {
		c.State.Length = t.Total()
	}
}

func (c *Controller) Tick(dt float64) Step {
	st := &c.State
	if dt <= 0 || !st.Active || c.track == nil {
		return Step{}
	}
	if st.Distance >= st.Length-finishEpsilon {
		// Nothing left to travel, e.g. a zero-length track.
		return c.finish()
	}

	switch {
	case st.Speed < st.Target:
		if c.Accel == 0 {
			st.Speed = st.Target
		} else {
			st.Speed = math.Min(st.Speed+c.Accel*dt, st.Target)
		}
	case st.Speed > st.Target:
		if c.Decel == 0 {
			st.Speed = st.Target
		} else {
			st.Speed = math.Max(st.Speed-c.Decel*dt, st.Target)
		}
	}

	if c.Decel > 0 {
		remaining := math.Max(0, st.Length-st.Distance)
		if required := math.Sqrt(2 * c.Decel * remaining); st.Speed > required {
			st.Speed = required
		}
	}

	if st.Speed <= 0 {
		if st.Target <= 0 {
			// Decelerated stop finished; not the end of the track.
			st.Speed = 0
			st.Active = false
		}
		return Step{}
	}

	st.Distance += st.Speed * dt
	if st.Distance >= st.Length-finishEpsilon {
		return c.finish()
	}

	s := c.track.Sample(st.Distance)
	st.Node = int(math.Floor(s.Index))
	return Step{Pos: s.Pos, Index: s.Index, Moved: true}
}

// finish snaps to the end of the track and deactivates.
func (c *Controller) finish() Step {
	st := &c.State
	st.Distance = st.Length
	st.Active = false
	st.Speed = 0
	st.Target = 0
	end := c.track.Sample(st.Length)
	st.Node = int(math.Floor(end.Index))
	return Step{Pos: c.track.End(), Index: end.Index, Moved: true, Finished: true}
}

func (c *Controller) Stop() {
	if c.StopPolicy == StopDecelerate && c.Decel > 0 {
		c.State.Target = 0
		return
	}
	c.State.Active = false
	c.State.Speed = 0
	c.State.Target = 0
}

// SetSpeed changes the cruise speed. The running target only follows while
// the controller is active.
func (c *Controller) SetSpeed(s float64) {
	c.Speed = math.Max(0, s)
	if c.State.Active {
		c.State.Target = c.Speed
	}
}

func (c *Controller) IsMoving() bool {
	return c.State.Active
}

// Progress returns the travelled fraction of the track in [0, 1].
func (c *Controller) Progress() float64 {
	if c.State.Length <= 0 {
		return 0
	}
	return common.Clamp(c.State.Distance/c.State.Length, 0, 1)
}

// Heading returns the direction of travel from pos, looking one pixel ahead.
// ok is false when idle or when there is nothing ahead.
func (c *Controller) Heading(pos r2.Point) (float64, bool) {
	if !c.State.Active || c.track == nil {
		return 0, false
	}
	return path.Heading(c.track, pos, c.State.Distance, 1)
}
