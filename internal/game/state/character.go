// Package state defines the read-only snapshot types the tactical engine
// consumes: character snapshots with equipment and action-point budgets, and
// the battle-map game state. The engine never mutates any of them; mutation
// is owned by the external command-execution layer.
package state

import "github.com/gridspike/skirmish/internal/game/grid"

// WeaponKind categorizes what an equipment slot holds.
type WeaponKind string

const (
	WeaponNone   WeaponKind = "none"
	WeaponMelee  WeaponKind = "melee"
	WeaponRanged WeaponKind = "ranged"
)

// ActionBudget is the per-turn action-point pool, subdivided by action
// category. Costs describe how many points each category consumes;
// Remaining is what the character still has this turn.
type ActionBudget struct {
	MoveCost      int
	ShootCost     int
	OverwatchCost int
	Remaining     int
}

// Character is a read-only combatant snapshot owned by the caller.
//
// Invariant: the engine never writes to a Character.
type Character struct {
	ID        string
	Name      string
	Pos       grid.Position
	Health    int
	MaxHealth int
	Team      string
	Weapons   []WeaponKind // equipment slots, in slot order
	Budget    ActionBudget
}

// Alive reports whether the character can still act.
func (c *Character) Alive() bool {
	return c != nil && c.Health > 0
}

// HealthFraction returns Health/MaxHealth in [0, 1]; 0 when MaxHealth <= 0.
func (c *Character) HealthFraction() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	f := float64(c.Health) / float64(c.MaxHealth)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// HasWeapon reports whether any equipment slot holds a weapon of kind k.
func (c *Character) HasWeapon(k WeaponKind) bool {
	for _, w := range c.Weapons {
		if w == k {
			return true
		}
	}
	return false
}

// Hostile reports whether other is on a different team. Characters with an
// empty team are hostile to everyone but themselves.
func (c *Character) Hostile(other *Character) bool {
	if other == nil || other.ID == c.ID {
		return false
	}
	return c.Team == "" || other.Team == "" || c.Team != other.Team
}
