package motion

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

func TestChainDistanceMode(t *testing.T) {
	cases := []struct {
		name       string
		smoothness float64
		head       r2.Point
		segments   []Body
		want       []r2.Point
	}{
		{
			name:       "rigid",
			smoothness: 1,
			head:       r2.Point{X: 100},
			segments:   []Body{{Pos: r2.Point{}}, {Pos: r2.Point{X: -5}}},
			want:       []r2.Point{{X: 90}, {X: 80}},
		},
		{
			name:       "eased",
			smoothness: 0.5,
			head:       r2.Point{X: 100},
			segments:   []Body{{Pos: r2.Point{}}},
			want:       []r2.Point{{X: 45}},
		},
		{
			name:       "close_enough",
			smoothness: 1,
			head:       r2.Point{X: 5},
			segments:   []Body{{Pos: r2.Point{}}},
			want:       []r2.Point{{}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ch := &Chain{Mode: ChainDistance, Spacing: 10, Smoothness: c.smoothness, Length: len(c.segments)}
			ch.Tick(Body{Pos: c.head}, c.segments)
			for i, s := range c.segments {
				if !near(s.Pos, c.want[i]) {
					t.Fatalf("segment %d at %v, want %v", i, s.Pos, c.want[i])
				}
				if s.Angle != 0 {
					t.Fatalf("segment %d angle %v, want 0", i, s.Angle)
				}
			}
		})
	}
}

func TestChainHistoryMode(t *testing.T) {
	ch := &Chain{Mode: ChainHistory, Spacing: 10, Smoothness: 1, Length: 2}
	segs := make([]Body, 2)

	for k := 0; k <= 20; k++ {
		ch.Tick(Body{Pos: r2.Point{X: float64(2 * k)}}, segs)
		switch {
		case k < 6:
			if segs[0].Pos != (r2.Point{}) {
				t.Fatalf("tick %d: segment should wait for the trail, at %v", k, segs[0].Pos)
			}
		case k == 6:
			if !near(segs[0].Pos, r2.Point{X: 2}) {
				t.Fatalf("tick 6: segment at %v, want (2, 0)", segs[0].Pos)
			}
		}
		if k < 11 && segs[1].Pos != (r2.Point{}) {
			t.Fatalf("tick %d: second segment should wait, at %v", k, segs[1].Pos)
		}
	}

	if !near(segs[0].Pos, r2.Point{X: 30}) || !near(segs[1].Pos, r2.Point{X: 20}) {
		t.Fatalf("segments at %v %v, want (30, 0) (20, 0)", segs[0].Pos, segs[1].Pos)
	}
}

func TestChainHistoryFollowsTurns(t *testing.T) {
	ch := &Chain{Mode: ChainHistory, Spacing: 4, Smoothness: 1, Length: 1}
	segs := make([]Body, 1)
	path := []Body{
		{Pos: r2.Point{}},
		{Pos: r2.Point{X: 2}},
		{Pos: r2.Point{X: 4}},
		{Pos: r2.Point{X: 4, Y: 2}, Angle: math.Pi / 2},
		{Pos: r2.Point{X: 4, Y: 4}, Angle: math.Pi / 2},
		{Pos: r2.Point{X: 4, Y: 6}, Angle: math.Pi / 2},
	}
	for _, b := range path {
		ch.Tick(b, segs)
	}
	if !near(segs[0].Pos, r2.Point{X: 4, Y: 2}) {
		t.Fatalf("segment at %v, want (4, 2) on the trail", segs[0].Pos)
	}
	if math.Abs(segs[0].Angle-math.Pi/2) > 1e-9 {
		t.Fatalf("segment angle %v, want pi/2", segs[0].Angle)
	}
}

func TestChainHistoryRecording(t *testing.T) {
	t.Run("ignores_small_moves", func(t *testing.T) {
		ch := &Chain{Mode: ChainHistory, Spacing: 10, Smoothness: 1, Length: 1}
		for _, x := range []float64{0, 0.5, 1} {
			ch.Tick(Body{Pos: r2.Point{X: x}}, nil)
		}
		if ch.HistoryLen() != 0 {
			t.Fatalf("moves of 1px or less should not be recorded, got %d", ch.HistoryLen())
		}
		ch.Tick(Body{Pos: r2.Point{X: 1.5}}, nil)
		if ch.HistoryLen() != 1 {
			t.Fatalf("history len = %d, want 1", ch.HistoryLen())
		}
	})

	t.Run("capped", func(t *testing.T) {
		ch := &Chain{Mode: ChainHistory, Spacing: 0, Smoothness: 1, Length: 1}
		for k := 0; k < 30; k++ {
			ch.Tick(Body{Pos: r2.Point{X: float64(3 * k)}}, nil)
		}
		if ch.HistoryLen() != 10 {
			t.Fatalf("history len = %d, want 10", ch.HistoryLen())
		}
		if got := ch.recent(0).Pos; got != (r2.Point{X: 87}) {
			t.Fatalf("newest pose %v, want (87, 0)", got)
		}
		ch.ClearHistory()
		if ch.HistoryLen() != 0 {
			t.Fatalf("history should be empty after clear")
		}
	})
}
