package object

import (
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

// Player is the ship on the bottom row. It holds at most one shot in flight.
type Player struct {
	X, Y       int
	shot       *Shot
	explosions []Explosion
	bounds     Bounds
}

// NewPlayer creates a ship centred on the bottom row.
func NewPlayer(b Bounds) *Player {
	return &Player{
		X:      b.Width / 2,
		Y:      b.Bottom(),
		bounds: b,
	}
}

// MoveLeft shifts the ship left, saturating at column 0.
func (p *Player) MoveLeft() {
	p.X = physics.Clamp(p.X-config.PlayerStep, 0, p.bounds.Width-1)
}

// MoveRight shifts the ship right, saturating at the last column.
func (p *Player) MoveRight() {
	p.X = physics.Clamp(p.X+config.PlayerStep, 0, p.bounds.Width-1)
}

// Shoot fires a shot from just above the ship.
// Returns false without changing state if a shot is already in flight.
func (p *Player) Shoot() bool {
	if p.shot != nil {
		return false
	}
	p.shot = NewShot(p.X, p.Y-1)
	return true
}

// Shot returns the shot in flight, or nil.
func (p *Player) Shot() *Shot {
	return p.shot
}

// Explosions returns the explosions currently shown.
func (p *Player) Explosions() []Explosion {
	return p.explosions
}

// Update advances the shot and ages explosions.
func (p *Player) Update(delta time.Duration) {
	if p.shot != nil && p.shot.Update(delta) {
		p.shot = nil
	}

	kept := p.explosions[:0]
	for _, e := range p.explosions {
		if !e.Update(delta) {
			kept = append(kept, e)
		}
	}
	p.explosions = kept
}

// DetectHits checks the shot against every live invader. On a hit the shot and
// the invader are both removed and an explosion is left at the invader's cell.
func (p *Player) DetectHits(fleet *Fleet) bool {
	if p.shot == nil {
		return false
	}
	for i, inv := range fleet.Invaders() {
		if p.shot.Hits(inv.X, inv.Y) {
			fleet.Kill(i)
			p.shot = nil
			p.explosions = append(p.explosions, Explosion{
				X:        inv.X,
				Y:        inv.Y,
				Lifetime: config.ExplosionTime,
			})
			return true
		}
	}
	return false
}

// Draw renders the ship, its shot and any explosions.
func (p *Player) Draw(f *draw.Frame) {
	f.Set(p.X, p.Y, config.PlayerGlyph)
	if p.shot != nil {
		p.shot.Draw(f)
	}
	for i := range p.explosions {
		p.explosions[i].Draw(f)
	}
}
