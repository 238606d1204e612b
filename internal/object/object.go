// Package object holds the game entities: the player ship with its shot and the
// invader fleet.
package object

import (
	"time"

	"github.com/tomz197/invaders/internal/draw"
)

// Bounds is the size of the board in cells.
type Bounds struct {
	Width  int
	Height int
}

// Bottom returns the row an invader must not reach; also the ship's row.
func (b Bounds) Bottom() int {
	return b.Height - 1
}

// Updatable is an entity that advances with elapsed time.
type Updatable interface {
	Update(delta time.Duration)
}

// Ensure the entities satisfy the draw contract.
var (
	_ draw.Drawable = (*Player)(nil)
	_ draw.Drawable = (*Fleet)(nil)
	_ Updatable     = (*Player)(nil)
)
