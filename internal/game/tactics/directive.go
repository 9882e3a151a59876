// Package tactics implements the tactical decision engine: threat
// assessment, position evaluation, stance-conditioned candidate generation,
// and the scoring pass that picks exactly one action per character per turn.
//
// The engine is deterministic per injected randomness source, fully
// synchronous, and never fails an evaluation: every internal search is
// attempt-bounded and every "not found" condition degrades to a defined
// fallback action.
package tactics

import "github.com/gridspike/skirmish/internal/game/grid"

// Objective is the directive's high-level goal.
type Objective string

const (
	ObjectiveAttack  Objective = "attack"
	ObjectiveDefend  Objective = "defend"
	ObjectivePatrol  Objective = "patrol"
	ObjectivePursue  Objective = "pursue"
	ObjectiveRetreat Objective = "retreat"
	ObjectiveSupport Objective = "support"
)

// Stance selects which candidate-generation branch runs. It is a closed set;
// generation switches exhaustively over these values and treats anything
// else as defensive.
type Stance string

const (
	StanceAggressive  Stance = "aggressive"
	StanceDefensive   Stance = "defensive"
	StanceFlanking    Stance = "flanking"
	StanceSuppressive Stance = "suppressive"
	StanceRetreating  Stance = "retreating"
)

// EngagementRange is the directive's preferred fighting distance.
type EngagementRange string

const (
	RangeClose  EngagementRange = "close"
	RangeMedium EngagementRange = "medium"
	RangeLong   EngagementRange = "long"
)

// Coordination is the directive's optional squad-coordination mode.
type Coordination string

const (
	CoordinationIndividual Coordination = "individual"
	CoordinationSquad      Coordination = "squad"
)

// Tactics is the tuning block inside a Directive.
type Tactics struct {
	Stance           Stance
	Engagement       EngagementRange
	RetreatThreshold float64 // health fraction in (0, 1) that triggers the retreat override
	Coordination     Coordination
}

// Directive is the standing high-level order set by the strategic layer.
// It persists as engine-owned state until replaced.
type Directive struct {
	Objective       Objective
	PriorityTargets []string
	Tactics         Tactics
	Anchor          *grid.Position // optional rally/defend position
}

// DefaultDirective is used whenever no directive has been set.
//
// Postcondition: objective defend, stance defensive, medium range,
// retreat threshold 0.3, individual coordination.
func DefaultDirective() Directive {
	return Directive{
		Objective: ObjectiveDefend,
		Tactics: Tactics{
			Stance:           StanceDefensive,
			Engagement:       RangeMedium,
			RetreatThreshold: 0.3,
			Coordination:     CoordinationIndividual,
		},
	}
}

// IsPriorityTarget reports whether id appears in the directive's
// priority-target list.
func (d Directive) IsPriorityTarget(id string) bool {
	for _, t := range d.PriorityTargets {
		if t == id {
			return true
		}
	}
	return false
}
