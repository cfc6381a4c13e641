package motion

import (
	"github.com/golang/geo/r2"

	"github.com/milk9111/pathkit/common"
)

// historyStep is how far the head moves before its pose is recorded again.
const historyStep = 1.0

// historySlack pads the history cap so the last segment never runs out.
const historySlack = 10

type ChainMode int

const (
	// ChainDistance pulls every segment to Spacing behind the one before it.
	ChainDistance ChainMode = iota
	// ChainHistory places segments on the trail the head left, Spacing
	// apart along its length. Segments wait until the trail is long enough.
	ChainHistory
)

// Chain drags a line of body segments behind a head.
type Chain struct {
	Mode    ChainMode
	Spacing float64
	// Smoothness is the fraction of the way a segment moves towards its
	// target each tick; 1 is rigid.
	Smoothness float64
	// Length is the number of segments the chain should have. It also caps
	// the recorded history.
	Length int

	history []Body // oldest first
	last    r2.Point
	started bool
}

// HistoryLen returns the number of recorded head poses.
func (c *Chain) HistoryLen() int {
	return len(c.history)
}

// ClearHistory forgets the head's trail.
func (c *Chain) ClearHistory() {
	c.history = c.history[:0]
	c.started = false
}

func (c *Chain) historyCap() int {
	n := int(float64(c.Length) * (c.Spacing + historySlack))
	if n < 0 {
		return 0
	}
	return n
}

// record adds the head pose once it has moved more than historyStep since
// the last recorded pose.
func (c *Chain) record(head Body) {
	if !c.started {
		c.last = head.Pos
		c.started = true
		return
	}
	if head.Pos.Sub(c.last).Norm() <= historyStep {
		return
	}
	c.history = append(c.history, head)
	if limit := c.historyCap(); len(c.history) > limit {
		drop := len(c.history) - limit
		copy(c.history, c.history[drop:])
		c.history = c.history[:limit]
	}
	c.last = head.Pos
}

// recent returns the k-th most recent pose.
func (c *Chain) recent(k int) Body {
	return c.history[len(c.history)-1-k]
}

// Tick records the head and moves segments in place. segments[0] follows
// the head, every later segment follows the one before it.
func (c *Chain) Tick(head Body, segments []Body) {
	c.record(head)

	prev := head
	at, travelled := 0, 0.0
	for i := range segments {
		cur := &segments[i]
		switch c.Mode {
		case ChainHistory:
			if len(c.history) == 0 {
				break
			}
			want := float64(i+1) * c.Spacing
			for at < len(c.history)-1 && travelled < want {
				travelled += c.recent(at).Pos.Sub(c.recent(at + 1).Pos).Norm()
				at++
			}
			if travelled >= want {
				target := c.recent(at)
				cur.Pos = lerpBody(cur.Pos, target.Pos, c.Smoothness)
				cur.Angle = common.AngleLerp(cur.Angle, target.Angle, c.Smoothness)
			}
		default:
			d := prev.Pos.Sub(cur.Pos)
			target := cur.Pos
			if dist := d.Norm(); dist > c.Spacing {
				target = cur.Pos.Add(d.Mul(1 - c.Spacing/dist))
			}
			cur.Pos = lerpBody(cur.Pos, target, c.Smoothness)
			cur.Angle = common.AngleTo(cur.Pos.X, cur.Pos.Y, prev.Pos.X, prev.Pos.Y)
		}
		prev = *cur
	}
}

func lerpBody(a, b r2.Point, t float64) r2.Point {
	return r2.Point{X: common.Lerp(a.X, b.X, t), Y: common.Lerp(a.Y, b.Y, t)}
}
