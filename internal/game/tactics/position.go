package tactics

import (
	"github.com/gridspike/skirmish/internal/game/grid"
	"github.com/gridspike/skirmish/internal/game/state"
)

// Evaluation scores one candidate position for cover, exposure, and
// tactical value. Ephemeral, recomputed per call.
type Evaluation struct {
	Pos                 grid.Position
	CoverScore          int // 0..100
	TacticalValue       int // 0..100
	DistanceToObjective float64
	ExposureRisk        int // 0..100
}

const (
	coverScoreInCover    = 70
	coverScoreExposed    = 30
	exposurePerThreat    = 25
	neutralTacticalValue = 50
)

// EvaluatePosition scores pos for the evaluating character against the
// current threats. objective is optional; without one, tactical value is a
// neutral 50 and objective distance is 0.
//
// Exposure counts threats holding line of sight to pos, 25 points each,
// capped at 100.
func EvaluatePosition(pos grid.Position, ch *state.Character, threats []Assessment, gs *state.GameState, objective *grid.Position) Evaluation {
	eval := Evaluation{Pos: pos, CoverScore: coverScoreExposed, TacticalValue: neutralTacticalValue}

	if gs.InCover(pos) {
		eval.CoverScore = coverScoreInCover
	}

	exposed := 0
	for i := range threats {
		t := threats[i].Target
		if grid.LineOfSight(t.Pos, pos, gs.Occluder(t.ID, ch.ID)) {
			exposed++
		}
	}
	eval.ExposureRisk = clampScore(exposed * exposurePerThreat)

	if objective != nil {
		eval.DistanceToObjective = grid.Distance(pos, *objective)
		eval.TacticalValue = clampScore(100 - int(2*eval.DistanceToObjective))
	}
	return eval
}
