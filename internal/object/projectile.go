package object

import (
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

// Shot is a projectile fired straight up by the player.
type Shot struct {
	X     int     // Column, fixed for the shot's lifetime
	Y     float64 // Continuous row position; decreases as the shot rises
	PrevY float64 // Position before the last Update (for swept hit tests)
	Speed float64 // Rows per second
}

// NewShot creates a shot at column x, row y.
func NewShot(x, y int) *Shot {
	return &Shot{
		X:     x,
		Y:     float64(y),
		PrevY: float64(y),
		Speed: config.ShotSpeed,
	}
}

// Update moves the shot upward. Returns true once it has passed the top boundary.
func (s *Shot) Update(delta time.Duration) bool {
	s.PrevY = s.Y
	s.Y -= s.Speed * delta.Seconds()
	return s.Y < 0
}

// Row returns the board row the shot currently occupies.
func (s *Shot) Row() int {
	return physics.Row(s.Y)
}

// Hits reports whether the shot occupied the cell (x, y) since its previous update.
func (s *Shot) Hits(x, y int) bool {
	return physics.SweptCellHit(s.X, s.PrevY, s.Y, x, y)
}

// Draw renders the shot.
func (s *Shot) Draw(f *draw.Frame) {
	f.Set(s.X, s.Row(), config.ShotGlyph)
}

// Explosion marks the cell of a hit for a short time.
type Explosion struct {
	X, Y     int
	Lifetime time.Duration // Time remaining before removal
}

// Update ages the explosion. Returns true when it should be removed.
func (e *Explosion) Update(delta time.Duration) bool {
	e.Lifetime -= delta
	return e.Lifetime <= 0
}

// Draw renders the explosion.
func (e *Explosion) Draw(f *draw.Frame) {
	f.Set(e.X, e.Y, config.ExplosionGlyph)
}
