// Package grid provides the geometry primitives for the tactical engine:
// positions, map bounds, Euclidean distance and bearings, a grid
// line-of-sight raycast, and bounded random position search.
package grid

import "math"

// Position is a point on the battle map. Cell membership is determined by
// rounding each coordinate to the nearest integer.
type Position struct {
	X float64
	Y float64
}

// Cell returns the grid cell containing p.
func (p Position) Cell() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// SameCell reports whether p and q round to the same grid cell.
func (p Position) SameCell(q Position) bool {
	px, py := p.Cell()
	qx, qy := q.Cell()
	return px == qx && py == qy
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Position) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Bearing returns the angle in radians from `from` toward `to`.
//
// Postcondition: result is in (-pi, pi]; 0 when the points coincide.
func Bearing(from, to Position) float64 {
	if from == to {
		return 0
	}
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// Offset returns the position dist away from p along angle (radians).
func Offset(p Position, angle, dist float64) Position {
	return Position{
		X: p.X + math.Cos(angle)*dist,
		Y: p.Y + math.Sin(angle)*dist,
	}
}

// Bounds describes the rectangular extent of the battle map in cells.
// Valid cells are (x, y) with 0 <= x < Width and 0 <= y < Height.
type Bounds struct {
	Width  int
	Height int
}

// Contains reports whether p lies within the map after rounding to a cell.
func (b Bounds) Contains(p Position) bool {
	x, y := p.Cell()
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Clamp returns p constrained to the map extent.
//
// Postcondition: b.Contains(result) when Width and Height are positive.
func (b Bounds) Clamp(p Position) Position {
	return Position{
		X: clampFloat(p.X, 0, float64(b.Width-1)),
		Y: clampFloat(p.Y, 0, float64(b.Height-1)),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
