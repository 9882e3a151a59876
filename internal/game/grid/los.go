package grid

// LineOfSight reports whether a straight grid path from `from` to `to` is
// unobstructed. It walks the Bresenham line between the two endpoint cells
// and tests every cell strictly between them with the blocked predicate.
// The endpoint cells themselves are never tested, so two adjacent
// combatants always see each other.
//
// Precondition: blocked must not be nil.
// Postcondition: returns true when the endpoints share a cell.
func LineOfSight(from, to Position, blocked func(x, y int) bool) bool {
	x0, y0 := from.Cell()
	x1, y1 := to.Cell()

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)
	err := dx - dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
		if x == x1 && y == y1 {
			return true
		}
		if blocked(x, y) {
			return false
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
