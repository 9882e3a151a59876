package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gridspike/skirmish/internal/game/grid"
)

func TestRandomWithin_SatisfiesPredicateAndBounds(t *testing.T) {
	src := grid.NewSource(7)
	b := grid.Bounds{Width: 30, Height: 30}
	center := grid.Position{X: 15, Y: 15}

	p, ok := grid.RandomWithin(src, center, 5, b, func(p grid.Position) bool {
		return p.X >= 10
	})
	require.True(t, ok)
	assert.True(t, b.Contains(p))
	assert.True(t, p.X >= 10)
}

func TestRandomWithin_ExhaustionReportsFalse(t *testing.T) {
	src := grid.NewSource(7)
	b := grid.Bounds{Width: 30, Height: 30}
	center := grid.Position{X: 15, Y: 15}

	p, ok := grid.RandomWithin(src, center, 5, b, func(grid.Position) bool { return false })
	assert.False(t, ok)
	assert.Equal(t, center, p)
}

func TestRandomWithin_ZeroRadius(t *testing.T) {
	src := grid.NewSource(7)
	_, ok := grid.RandomWithin(src, grid.Position{}, 0, grid.Bounds{Width: 5, Height: 5},
		func(grid.Position) bool { return true })
	assert.False(t, ok)
}

func TestExpandingSearch_FindsAcceptedCell(t *testing.T) {
	src := grid.NewSource(9)
	b := grid.Bounds{Width: 20, Height: 20}

	center := grid.Position{X: 10, Y: 10}
	// Ring 1 candidates all sit 1 cell out and are rejected; ring 2 is
	// accepted on its first probe regardless of the sampled angle.
	p, ok := grid.ExpandingSearch(src, center, 5, b, func(p grid.Position) bool {
		return grid.Distance(center, p) >= 1.5
	})
	require.True(t, ok)
	assert.True(t, b.Contains(p))
	assert.InDelta(t, 2.0, grid.Distance(center, p), 1e-9)
}

func TestExpandingSearch_Exhaustion(t *testing.T) {
	src := grid.NewSource(9)
	center := grid.Position{X: 2, Y: 2}
	p, ok := grid.ExpandingSearch(src, center, 5, grid.Bounds{Width: 5, Height: 5},
		func(grid.Position) bool { return false })
	assert.False(t, ok)
	assert.Equal(t, center, p)
}

func TestSource_DeterministicUnderSeed(t *testing.T) {
	a := grid.NewSource(42)
	b := grid.NewSource(42)
	for i := 0; i < 64; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestProperty_SearchResultsStayInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		src := grid.NewSource(seed)
		b := grid.Bounds{
			Width:  rapid.IntRange(1, 50).Draw(rt, "width"),
			Height: rapid.IntRange(1, 50).Draw(rt, "height"),
		}
		center := grid.Position{
			X: rapid.Float64Range(0, float64(b.Width-1)).Draw(rt, "x"),
			Y: rapid.Float64Range(0, float64(b.Height-1)).Draw(rt, "y"),
		}
		radius := rapid.Float64Range(0.5, 20).Draw(rt, "radius")
		p, _ := grid.RandomWithin(src, center, radius, b,
			func(grid.Position) bool { return true })
		if !b.Contains(p) {
			rt.Fatalf("RandomWithin returned %v outside %v", p, b)
		}
	})
}
