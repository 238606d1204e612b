package object

import (
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
)

// Invader is one member of the fleet, positioned on the cell grid.
type Invader struct {
	X, Y int
}

// Fleet is the invader formation. It moves as one block: a lateral step each
// move interval, or a drop and reversal when the leading edge is at a side.
type Fleet struct {
	invaders  []Invader
	direction int           // +1 right, -1 left
	elapsed   time.Duration // Time accumulated towards the next step
	interval  time.Duration // Time between steps; shrinks on every drop
	bounds    Bounds
}

// NewFleet creates the standard formation: invaders on every even cell inside
// the formation rectangle.
func NewFleet(b Bounds) *Fleet {
	var invaders []Invader
	for y := config.FormationTop; y < config.FormationBottom && y < b.Bottom(); y++ {
		if y%2 != 0 {
			continue
		}
		for x := config.FormationLeft; x < b.Width-config.FormationLeft; x++ {
			if x%2 == 0 {
				invaders = append(invaders, Invader{X: x, Y: y})
			}
		}
	}
	return NewFleetAt(b, invaders)
}

// NewFleetAt creates a fleet from explicit invader positions, moving right.
func NewFleetAt(b Bounds, invaders []Invader) *Fleet {
	army := make([]Invader, len(invaders))
	copy(army, invaders)
	return &Fleet{
		invaders:  army,
		direction: 1,
		interval:  config.FleetMoveInterval,
		bounds:    b,
	}
}

// Invaders returns the live invaders. The slice must not be modified.
func (f *Fleet) Invaders() []Invader {
	return f.invaders
}

// Count returns the number of live invaders.
func (f *Fleet) Count() int {
	return len(f.invaders)
}

// Direction returns the current horizontal direction (+1 or -1).
func (f *Fleet) Direction() int {
	return f.direction
}

// Interval returns the current time between steps.
func (f *Fleet) Interval() time.Duration {
	return f.interval
}

// Kill removes the invader at index i.
func (f *Fleet) Kill(i int) {
	if i < 0 || i >= len(f.invaders) {
		return
	}
	f.invaders = append(f.invaders[:i], f.invaders[i+1:]...)
}

// KillAt removes the invader at (x, y). Returns false if there is none.
func (f *Fleet) KillAt(x, y int) bool {
	for i, inv := range f.invaders {
		if inv.X == x && inv.Y == y {
			f.Kill(i)
			return true
		}
	}
	return false
}

// Update accumulates delta and steps the formation once the move interval has
// elapsed. Returns true if a lateral step or a drop happened.
func (f *Fleet) Update(delta time.Duration) bool {
	f.elapsed += delta
	if f.elapsed < f.interval {
		return false
	}
	f.elapsed = 0
	if len(f.invaders) == 0 {
		return false
	}

	if f.atEdge() {
		f.direction = -f.direction
		f.interval = max(f.interval-config.FleetIntervalStep, config.FleetMinMoveInterval)
		for i := range f.invaders {
			f.invaders[i].Y++
		}
		return true
	}

	for i := range f.invaders {
		f.invaders[i].X += f.direction
	}
	return true
}

// atEdge reports whether the leading column already touches the side the fleet moves towards.
func (f *Fleet) atEdge() bool {
	if f.direction < 0 {
		minX := f.invaders[0].X
		for _, inv := range f.invaders[1:] {
			minX = min(minX, inv.X)
		}
		return minX <= 0
	}
	maxX := f.invaders[0].X
	for _, inv := range f.invaders[1:] {
		maxX = max(maxX, inv.X)
	}
	return maxX >= f.bounds.Width-1
}

// AllKilled reports whether no invaders remain.
func (f *Fleet) AllKilled() bool {
	return len(f.invaders) == 0
}

// ReachedBottom reports whether any invader is at or past the bottom row.
func (f *Fleet) ReachedBottom() bool {
	for _, inv := range f.invaders {
		if inv.Y >= f.bounds.Bottom() {
			return true
		}
	}
	return false
}

// Glyph returns the invader glyph for the current point in the move interval.
// Invaders alternate shape halfway between steps.
func (f *Fleet) Glyph() rune {
	if f.elapsed*2 < f.interval {
		return config.FleetGlyphA
	}
	return config.FleetGlyphB
}

// Draw renders every live invader.
func (f *Fleet) Draw(fr *draw.Frame) {
	glyph := f.Glyph()
	for _, inv := range f.invaders {
		fr.Set(inv.X, inv.Y, glyph)
	}
}
