package config

import "time"

// Board dimensions in terminal cells. Fixed for the process lifetime.
const (
	BoardWidth  = 40
	BoardHeight = 20
)

// Player
const (
	PlayerStep     = 1    // Columns per move
	ShotSpeed      = 20.0 // Rows per second
	ExplosionTime  = 250 * time.Millisecond
	PlayerGlyph    = 'A'
	ShotGlyph      = '|'
	ExplosionGlyph = '*'
)

// Fleet
const (
	FleetMoveInterval    = 2000 * time.Millisecond // Initial time between steps
	FleetIntervalStep    = 250 * time.Millisecond  // Interval reduction per drop
	FleetMinMoveInterval = 250 * time.Millisecond
	FleetGlyphA          = 'x'
	FleetGlyphB          = '+'
)

// Formation: invaders occupy even cells with FormationLeft <= x < width-FormationLeft
// and FormationTop <= y < FormationBottom.
const (
	FormationLeft   = 2
	FormationTop    = 1
	FormationBottom = 9
)

// Loop
const (
	TickYield       = time.Millisecond // Sleep at the end of every tick
	FrameQueueDepth = 64               // Frames buffered between loop and renderer
)
