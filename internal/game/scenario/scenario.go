// Package scenario loads battle setups from YAML: map extent, blocking
// terrain, characters, and the opening directive. Scenarios feed the
// simulation harness and serve as test fixtures.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridspike/skirmish/internal/game/grid"
	"github.com/gridspike/skirmish/internal/game/state"
	"github.com/gridspike/skirmish/internal/game/tactics"
)

// MapSpec describes the battle map.
//
// Precondition: Width and Height must be >= 1; Blocked cells must be inside
// the map.
type MapSpec struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Blocked [][2]int `yaml:"blocked"` // [x, y] pairs of blocking cells
}

// BudgetSpec is a character's per-turn action-point table.
type BudgetSpec struct {
	MoveCost      int `yaml:"move_cost"`
	ShootCost     int `yaml:"shoot_cost"`
	OverwatchCost int `yaml:"overwatch_cost"`
	Remaining     int `yaml:"remaining"`
}

// CharacterSpec describes one combatant.
//
// Precondition: ID must be non-empty and unique; position must be inside
// the map; MaxHealth must be >= 1.
type CharacterSpec struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Team      string     `yaml:"team"`
	X         float64    `yaml:"x"`
	Y         float64    `yaml:"y"`
	Health    int        `yaml:"health"`
	MaxHealth int        `yaml:"max_health"`
	Weapons   []string   `yaml:"weapons"` // "melee" / "ranged" per slot
	Budget    BudgetSpec `yaml:"budget"`
	AI        bool       `yaml:"ai"` // evaluated by the engine each turn
}

// DirectiveSpec is the opening order for the AI side.
type DirectiveSpec struct {
	Objective        string   `yaml:"objective"`
	Stance           string   `yaml:"stance"`
	Engagement       string   `yaml:"engagement"`
	RetreatThreshold float64  `yaml:"retreat_threshold"`
	Coordination     string   `yaml:"coordination"`
	PriorityTargets  []string `yaml:"priority_targets"`
	Anchor           *[2]int  `yaml:"anchor"`
}

// Scenario is the full YAML document.
type Scenario struct {
	Name       string          `yaml:"name"`
	Map        MapSpec         `yaml:"map"`
	Characters []CharacterSpec `yaml:"characters"`
	Directive  *DirectiveSpec  `yaml:"directive"` // nil = engine default
}

// yamlScenarioFile wraps the YAML top-level key.
type yamlScenarioFile struct {
	Scenario *Scenario `yaml:"scenario"`
}

// Load reads and validates the scenario at path.
//
// Postcondition: returns a validated Scenario or a non-nil error.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario.Load: reading %q: %w", path, err)
	}
	var f yamlScenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scenario.Load: parsing %q: %w", path, err)
	}
	if f.Scenario == nil {
		return nil, fmt.Errorf("scenario.Load: %q missing top-level 'scenario' key", path)
	}
	if err := f.Scenario.Validate(); err != nil {
		return nil, err
	}
	return f.Scenario, nil
}

var validWeapons = map[string]bool{"melee": true, "ranged": true, "none": true}

var validStances = map[string]bool{
	"aggressive": true, "defensive": true, "flanking": true,
	"suppressive": true, "retreating": true,
}

var validObjectives = map[string]bool{
	"attack": true, "defend": true, "patrol": true,
	"pursue": true, "retreat": true, "support": true,
}

// Validate checks all field and cross-field constraints.
//
// Postcondition: nil return guarantees positive map extent, in-bounds
// blocked cells and characters, unique non-empty character ids, valid
// weapon kinds, and a well-formed directive when one is present.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario: name must not be empty")
	}
	if s.Map.Width < 1 || s.Map.Height < 1 {
		return fmt.Errorf("scenario %q: map extent must be >= 1x1, got %dx%d", s.Name, s.Map.Width, s.Map.Height)
	}
	for _, b := range s.Map.Blocked {
		if b[0] < 0 || b[0] >= s.Map.Width || b[1] < 0 || b[1] >= s.Map.Height {
			return fmt.Errorf("scenario %q: blocked cell (%d, %d) outside map", s.Name, b[0], b[1])
		}
	}
	if len(s.Characters) == 0 {
		return fmt.Errorf("scenario %q: must have at least one character", s.Name)
	}

	ids := make(map[string]struct{}, len(s.Characters))
	for _, c := range s.Characters {
		if c.ID == "" {
			return fmt.Errorf("scenario %q: character has empty ID", s.Name)
		}
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("scenario %q: duplicate character ID %q", s.Name, c.ID)
		}
		ids[c.ID] = struct{}{}
		if c.X < 0 || c.X >= float64(s.Map.Width) || c.Y < 0 || c.Y >= float64(s.Map.Height) {
			return fmt.Errorf("scenario %q character %q: position (%g, %g) outside map", s.Name, c.ID, c.X, c.Y)
		}
		if c.MaxHealth < 1 {
			return fmt.Errorf("scenario %q character %q: max_health must be >= 1", s.Name, c.ID)
		}
		if c.Health < 0 || c.Health > c.MaxHealth {
			return fmt.Errorf("scenario %q character %q: health must be in [0, max_health]", s.Name, c.ID)
		}
		for _, w := range c.Weapons {
			if !validWeapons[w] {
				return fmt.Errorf("scenario %q character %q: unknown weapon kind %q", s.Name, c.ID, w)
			}
		}
	}

	if d := s.Directive; d != nil {
		if !validObjectives[d.Objective] {
			return fmt.Errorf("scenario %q: unknown objective %q", s.Name, d.Objective)
		}
		if !validStances[d.Stance] {
			return fmt.Errorf("scenario %q: unknown stance %q", s.Name, d.Stance)
		}
		if d.RetreatThreshold <= 0 || d.RetreatThreshold >= 1 {
			return fmt.Errorf("scenario %q: retreat_threshold must be in (0, 1), got %g", s.Name, d.RetreatThreshold)
		}
		for _, t := range d.PriorityTargets {
			if _, ok := ids[t]; !ok {
				return fmt.Errorf("scenario %q: priority target %q references unknown character", s.Name, t)
			}
		}
		if d.Anchor != nil {
			if d.Anchor[0] < 0 || d.Anchor[0] >= s.Map.Width || d.Anchor[1] < 0 || d.Anchor[1] >= s.Map.Height {
				return fmt.Errorf("scenario %q: anchor (%d, %d) outside map", s.Name, d.Anchor[0], d.Anchor[1])
			}
		}
	}
	return nil
}

// BuildGameState materializes the scenario into engine snapshot types.
//
// Precondition: s must have passed Validate.
func (s *Scenario) BuildGameState() *state.GameState {
	gs := state.NewGameState(s.Map.Width, s.Map.Height)
	for _, b := range s.Map.Blocked {
		gs.SetBlocking(b[0], b[1])
	}
	for _, c := range s.Characters {
		weapons := make([]state.WeaponKind, 0, len(c.Weapons))
		for _, w := range c.Weapons {
			weapons = append(weapons, state.WeaponKind(w))
		}
		gs.Characters = append(gs.Characters, &state.Character{
			ID:        c.ID,
			Name:      c.Name,
			Pos:       grid.Position{X: c.X, Y: c.Y},
			Health:    c.Health,
			MaxHealth: c.MaxHealth,
			Team:      c.Team,
			Weapons:   weapons,
			Budget: state.ActionBudget{
				MoveCost:      c.Budget.MoveCost,
				ShootCost:     c.Budget.ShootCost,
				OverwatchCost: c.Budget.OverwatchCost,
				Remaining:     c.Budget.Remaining,
			},
		})
	}
	return gs
}

// BuildDirective materializes the scenario's directive, or the engine
// default when none is declared.
//
// Precondition: s must have passed Validate.
func (s *Scenario) BuildDirective() tactics.Directive {
	if s.Directive == nil {
		return tactics.DefaultDirective()
	}
	d := tactics.Directive{
		Objective:       tactics.Objective(s.Directive.Objective),
		PriorityTargets: s.Directive.PriorityTargets,
		Tactics: tactics.Tactics{
			Stance:           tactics.Stance(s.Directive.Stance),
			Engagement:       tactics.EngagementRange(s.Directive.Engagement),
			RetreatThreshold: s.Directive.RetreatThreshold,
			Coordination:     tactics.Coordination(s.Directive.Coordination),
		},
	}
	if s.Directive.Anchor != nil {
		anchor := grid.Position{X: float64(s.Directive.Anchor[0]), Y: float64(s.Directive.Anchor[1])}
		d.Anchor = &anchor
	}
	return d
}

// AICharacterIDs returns the ids of characters flagged for engine control,
// in declaration order.
func (s *Scenario) AICharacterIDs() []string {
	var out []string
	for _, c := range s.Characters {
		if c.AI {
			out = append(out, c.ID)
		}
	}
	return out
}
