// Package physics provides the cell-grid collision and clamping helpers used by
// the game entities.
package physics

import "math"

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Row returns the grid row containing a continuous vertical position.
func Row(y float64) int {
	return int(math.Floor(y))
}

// SweptCellHit reports whether a point moving vertically in column col from
// fromY to toY passed through (or ended in) the cell (cellX, cellY).
// Both endpoints are inclusive, so a point that did not move still matches its own cell.
func SweptCellHit(col int, fromY, toY float64, cellX, cellY int) bool {
	if col != cellX {
		return false
	}
	top, bottom := Row(toY), Row(fromY)
	if top > bottom {
		top, bottom = bottom, top
	}
	return cellY >= top && cellY <= bottom
}
