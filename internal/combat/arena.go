package combat

import (
	"math"

	"bossai/internal/config"
)

type Span struct{ From, To float64 }

// Arena is a flat floor with decorative pits the boss prefers to jump over.
// It implements Body for the simulator.
type Arena struct {
	MinX, MaxX float64
	Floor      float64
	Ceiling    float64
	Gaps       []Span
	Lookahead  float64
}

// NewArena sizes an arena around the boss's teleport points with a single pit
// in the middle.
func NewArena(cfg *config.BossConfig) *Arena {
	minX, maxX := 0.0, 30.0
	if cfg != nil && len(cfg.Teleport.Points) > 0 {
		minX, maxX = math.Inf(1), math.Inf(-1)
		for _, p := range cfg.Teleport.Points {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
		}
	}
	minX -= 4
	maxX += 4
	mid := (minX + maxX) / 2
	return &Arena{
		MinX:      minX,
		MaxX:      maxX,
		Ceiling:   20,
		Gaps:      []Span{{From: mid - 1, To: mid + 1}},
		Lookahead: 1.5,
	}
}

func (a *Arena) Move(from, vel Vec2, dt float64) Vec2 {
	p := from.Add(vel.Scale(dt))
	p.X = math.Min(math.Max(p.X, a.MinX), a.MaxX)
	if p.Y < a.Floor {
		p.Y = a.Floor
	}
	return p
}

func (a *Arena) Grounded(at Vec2) bool {
	return at.Y <= a.Floor+1e-9
}

func (a *Arena) GapAhead(at Vec2, dir float64) bool {
	if dir == 0 {
		return false
	}
	lo, hi := at.X, at.X+dir*a.Lookahead
	if lo > hi {
		lo, hi = hi, lo
	}
	for _, g := range a.Gaps {
		if g.From <= hi && g.To >= lo {
			return true
		}
	}
	return false
}

// Contains reports whether p is still inside the playable volume, with a
// small margin so projectiles leave the screen before they are culled.
func (a *Arena) Contains(p Vec2) bool {
	const margin = 2
	return p.X >= a.MinX-margin && p.X <= a.MaxX+margin &&
		p.Y >= a.Floor-margin && p.Y <= a.Ceiling+margin
}
