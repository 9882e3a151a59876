package grid

// maxSearchAttempts bounds every random position search. On exhaustion the
// search reports failure and the caller falls back to a defined default;
// no search in this package can loop unbounded.
const maxSearchAttempts = 24

// RandomWithin samples positions uniformly within radius of center, clamped
// to b, until one satisfies ok or the attempt budget is spent.
//
// Precondition: src and ok must not be nil; radius must be > 0.
// Postcondition: on success the returned position is inside b and satisfies ok.
func RandomWithin(src Source, center Position, radius float64, b Bounds, ok func(Position) bool) (Position, bool) {
	if radius <= 0 {
		return center, false
	}
	// 0.5-cell radius granularity
	steps := int(radius * 2)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < maxSearchAttempts; i++ {
		angle := angleFrom(src)
		dist := float64(src.Intn(steps)+1) / 2
		candidate := b.Clamp(Offset(center, angle, dist))
		if ok(candidate) {
			return candidate, true
		}
	}
	return center, false
}

// ExpandingSearch probes positions at growing radii (1..maxRadius cells)
// around center, clamped to b, returning the first candidate accepted by ok.
// Each ring gets a slice of the shared attempt budget.
//
// Precondition: src and ok must not be nil; maxRadius must be >= 1.
// Postcondition: on success the returned position is inside b and satisfies ok.
func ExpandingSearch(src Source, center Position, maxRadius int, b Bounds, ok func(Position) bool) (Position, bool) {
	if maxRadius < 1 {
		return center, false
	}
	attemptsPerRing := maxSearchAttempts / maxRadius
	if attemptsPerRing < 2 {
		attemptsPerRing = 2
	}
	for radius := 1; radius <= maxRadius; radius++ {
		for i := 0; i < attemptsPerRing; i++ {
			angle := angleFrom(src)
			candidate := b.Clamp(Offset(center, angle, float64(radius)))
			if ok(candidate) {
				return candidate, true
			}
		}
	}
	return center, false
}
