package state

import "github.com/gridspike/skirmish/internal/game/grid"

// Cell is one map square.
type Cell struct {
	// Blocking terrain occludes line of sight and provides adjacent cover.
	Blocking bool
}

// GameState is the read-only battle-map snapshot: terrain cells plus every
// character currently on the map.
//
// Invariant: len(Cells) == Bounds.Height and len(Cells[y]) == Bounds.Width
// for all y. NewGameState enforces this.
type GameState struct {
	Bounds     grid.Bounds
	Cells      [][]Cell
	Characters []*Character
}

// NewGameState allocates an open map of the given extent.
//
// Precondition: width and height must be >= 1.
func NewGameState(width, height int) *GameState {
	if width < 1 || height < 1 {
		panic("state.NewGameState: width and height must be >= 1")
	}
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}
	return &GameState{
		Bounds: grid.Bounds{Width: width, Height: height},
		Cells:  cells,
	}
}

// SetBlocking marks the cell at (x, y) as blocking terrain. Out-of-bounds
// coordinates are ignored.
func (g *GameState) SetBlocking(x, y int) {
	if x < 0 || y < 0 || x >= g.Bounds.Width || y >= g.Bounds.Height {
		return
	}
	g.Cells[y][x].Blocking = true
}

// BlockedAt reports whether the cell at (x, y) is blocking terrain.
// Cells outside the map count as blocked.
func (g *GameState) BlockedAt(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Bounds.Width || y >= g.Bounds.Height {
		return true
	}
	return g.Cells[y][x].Blocking
}

// CharacterByID returns the character with the given id, or nil.
func (g *GameState) CharacterByID(id string) *Character {
	for _, c := range g.Characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// LivingAt reports whether a living character other than the excluded ids
// occupies the cell at (x, y).
func (g *GameState) LivingAt(x, y int, exclude ...string) bool {
	for _, c := range g.Characters {
		if !c.Alive() {
			continue
		}
		cx, cy := c.Pos.Cell()
		if cx != x || cy != y {
			continue
		}
		excluded := false
		for _, id := range exclude {
			if c.ID == id {
				excluded = true
				break
			}
		}
		if !excluded {
			return true
		}
	}
	return false
}

// Walkable reports whether p is inside the map, on non-blocking terrain,
// and not occupied by a living character outside the excluded ids.
func (g *GameState) Walkable(p grid.Position, exclude ...string) bool {
	if !g.Bounds.Contains(p) {
		return false
	}
	x, y := p.Cell()
	if g.BlockedAt(x, y) {
		return false
	}
	return !g.LivingAt(x, y, exclude...)
}

// InCover reports whether the cell containing p is shielded by adjacent
// blocking terrain: at least one of its four orthogonal neighbours blocks.
// Map-edge neighbours do not count as cover.
func (g *GameState) InCover(p grid.Position) bool {
	x, y := p.Cell()
	neighbours := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	for _, n := range neighbours {
		nx, ny := n[0], n[1]
		if nx < 0 || ny < 0 || nx >= g.Bounds.Width || ny >= g.Bounds.Height {
			continue
		}
		if g.Cells[ny][nx].Blocking {
			return true
		}
	}
	return false
}

// Occluder returns a predicate suitable for grid.LineOfSight: a cell blocks
// sight when it holds blocking terrain or a living character other than the
// two endpoints of the ray.
func (g *GameState) Occluder(endpointIDs ...string) func(x, y int) bool {
	return func(x, y int) bool {
		if g.BlockedAt(x, y) {
			return true
		}
		return g.LivingAt(x, y, endpointIDs...)
	}
}
