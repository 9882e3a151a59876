package tactics

import (
	"fmt"
	"math"

	"github.com/gridspike/skirmish/internal/game/grid"
	"github.com/gridspike/skirmish/internal/game/state"
)

// Candidate priorities per stance. These are pre-scoring urgencies; the
// executor's scoring pass adjusts them for affordability, repetition, and
// directive synergy.
const (
	priMeleeAttack        = 90
	priRangedAttackBase   = 80
	priRangedWeaponBonus  = 20
	priLongRangeMalus     = 10
	priGainLOS            = 85
	priCloseDistanceFar   = 75
	priCloseDistanceNear  = 60
	priAdvanceToAnchor    = 50
	priPatrol             = 40
	priMoveToCover        = 85
	priDefensiveShotNear  = 80
	priDefensiveShotFar   = 70
	priDefensiveGainLOS   = 75
	priDefensiveClose     = 60
	priDefensiveOverwatch = 50
	priMoveToFlank        = 80
	priFlankAttack        = 85
	priMoveToVantage      = 70
	priSuppressOverwatch  = 80
	priRetreatMove        = 95
	priFightingRetreat    = 60
	priSpeech             = 30
)

// Search and movement tuning.
const (
	coverSearchRadius  = 5   // cells, cap for the expanding cover search
	flankOffset        = 5.0 // cells from the threat, perpendicular to the bearing
	flankArrivedWithin = 1.0
	retreatDistance    = 8.0
	patrolRadius       = 6.0
	speechAllyRadius   = 3.0
	speechCalmDistance = 10.0
	overwatchMinPoints = 40
	gainLOSMaxDistance = 15.0
)

// genContext bundles the read-only inputs shared by every stance generator.
type genContext struct {
	ch        *state.Character
	threats   []Assessment
	eval      Evaluation
	directive Directive
	gs        *state.GameState
	history   *History
	src       grid.Source
}

// GenerateActions produces the stance-conditioned candidate set for ch.
// The switch over Stance is exhaustive for the closed set; anything else
// falls back to defensive generation when threats exist.
//
// Postcondition: every bounded search inside has a defined fallback; the
// returned slice may be empty only when no stance branch emits (the
// executor then synthesizes a patrol movement).
func GenerateActions(ch *state.Character, threats []Assessment, eval Evaluation, d Directive, gs *state.GameState, history *History, src grid.Source) []Candidate {
	ctx := &genContext{ch: ch, threats: threats, eval: eval, directive: d, gs: gs, history: history, src: src}

	var out []Candidate
	switch d.Tactics.Stance {
	case StanceAggressive:
		out = ctx.aggressive()
	case StanceDefensive:
		out = ctx.defensive()
	case StanceFlanking:
		out = ctx.flanking()
	case StanceSuppressive:
		out = ctx.suppressive()
	case StanceRetreating:
		out = ctx.retreating()
	default:
		if len(threats) > 0 {
			out = ctx.defensive()
		}
	}

	// Health override: badly hurt characters get retreat candidates
	// appended regardless of stance.
	if d.Tactics.Stance != StanceRetreating &&
		ch.HealthFraction() <= d.Tactics.RetreatThreshold && len(threats) > 0 {
		out = append(out, ctx.retreating()...)
	}

	if s, ok := ctx.speech(); ok {
		out = append(out, s)
	}
	return out
}

func (g *genContext) aggressive() []Candidate {
	nt := nearest(g.threats)
	if nt == nil {
		if g.directive.Anchor != nil {
			target := g.gs.Bounds.Clamp(*g.directive.Anchor)
			return []Candidate{g.move(target, priAdvanceToAnchor, "no contacts, advancing on anchor position")}
		}
		return []Candidate{g.patrol()}
	}

	var out []Candidate
	if nt.Distance <= 1.5 {
		out = append(out, Candidate{
			Type:     ActionAttack,
			Priority: priMeleeAttack,
			Command:  Command{Kind: CommandMeleeAttack, ActorID: g.ch.ID, TargetID: nt.Target.ID},
			Reasoning: fmt.Sprintf("striking %s in melee reach (%.1f cells)",
				nt.Target.ID, nt.Distance),
		})
	}
	if nt.HasLineOfSight {
		priority := priRangedAttackBase
		if g.ch.HasWeapon(state.WeaponRanged) {
			priority += priRangedWeaponBonus
		}
		if nt.Distance > 10 {
			priority -= priLongRangeMalus
		}
		out = append(out, Candidate{
			Type:     ActionAttack,
			Priority: clampScore(priority),
			Command:  Command{Kind: CommandRangedAttack, ActorID: g.ch.ID, TargetID: nt.Target.ID},
			Reasoning: fmt.Sprintf("attacking %s at %.1f cells with clear line of sight",
				nt.Target.ID, nt.Distance),
		})
	} else if nt.Distance <= gainLOSMaxDistance {
		out = append(out, g.moveToGainLOS(nt, priGainLOS))
	}

	// Always keep a generic closing move on the table.
	closePriority := priCloseDistanceNear
	if nt.Distance > 5 {
		closePriority = priCloseDistanceFar
	}
	out = append(out, g.moveToward(nt.Target.Pos, closePriority,
		fmt.Sprintf("closing distance to %s", nt.Target.ID)))
	return out
}

func (g *genContext) defensive() []Candidate {
	if len(g.threats) == 0 {
		return []Candidate{g.patrol()}
	}

	var out []Candidate

	if g.eval.ExposureRisk > 60 {
		if cover, ok := g.coverPosition(); ok {
			out = append(out, g.move(cover, priMoveToCover, "exposed, falling back to cover"))
		}
	}

	if nt := nearest(g.threats); nt != nil {
		if nt.HasLineOfSight {
			priority := priDefensiveShotFar
			if nt.Distance <= 5 {
				priority = priDefensiveShotNear
			}
			out = append(out, Candidate{
				Type:     ActionAttack,
				Priority: priority,
				Command:  Command{Kind: CommandRangedAttack, ActorID: g.ch.ID, TargetID: nt.Target.ID},
				Reasoning: fmt.Sprintf("holding position, engaging %s at %.1f cells",
					nt.Target.ID, nt.Distance),
			})
		} else {
			out = append(out, g.moveToGainLOS(nt, priDefensiveGainLOS))
			if nt.Distance > 10 {
				out = append(out, g.moveToward(nt.Target.Pos, priDefensiveClose,
					fmt.Sprintf("closing engagement range on %s", nt.Target.ID)))
			}
		}
	}

	if !g.history.HasTaken(g.ch.ID, ActionAttack) && g.ch.Budget.Remaining >= overwatchMinPoints {
		out = append(out, g.overwatch(priDefensiveOverwatch, "covering approach lanes"))
	}
	return out
}

func (g *genContext) flanking() []Candidate {
	nt := nearest(g.threats)
	if nt == nil {
		return []Candidate{g.patrol()}
	}

	flank := g.flankPosition(nt)
	// Arrived when standing on the flank point or anywhere on the flank
	// ring around the threat; the point itself re-orbits as we move, so
	// ring distance is the reachable arrival condition.
	onFlank := grid.Distance(g.ch.Pos, flank) <= flankArrivedWithin ||
		math.Abs(nt.Distance-flankOffset) <= flankArrivedWithin
	if !onFlank {
		return []Candidate{g.move(flank, priMoveToFlank,
			fmt.Sprintf("moving to flank %s", nt.Target.ID))}
	}
	if nt.HasLineOfSight {
		return []Candidate{{
			Type:      ActionAttack,
			Priority:  priFlankAttack,
			Command:   Command{Kind: CommandRangedAttack, ActorID: g.ch.ID, TargetID: nt.Target.ID},
			Reasoning: fmt.Sprintf("attacking %s from the flank", nt.Target.ID),
		}}
	}
	// On the flank point but sight is blocked; re-approach from the far side.
	return []Candidate{g.moveToGainLOS(nt, priMoveToFlank)}
}

func (g *genContext) suppressive() []Candidate {
	var out []Candidate
	// Only look for a firing position when the current one does not already
	// qualify; the expanding search starts at radius 1 and never probes the
	// cell we stand on.
	if !g.vantageAt(g.ch.Pos) {
		if vantage, ok := g.coverPosition(); ok {
			out = append(out, g.move(vantage, priMoveToVantage, "taking up a firing position"))
		}
	}
	out = append(out, g.overwatch(priSuppressOverwatch, "laying suppressive overwatch"))
	return out
}

func (g *genContext) retreating() []Candidate {
	if len(g.threats) == 0 {
		return []Candidate{g.patrol()}
	}

	var out []Candidate
	out = append(out, g.retreatMove())
	if nt := nearest(g.threats); nt != nil && nt.Distance <= 5 {
		out = append(out, Candidate{
			Type:      ActionAttack,
			Priority:  priFightingRetreat,
			Command:   Command{Kind: CommandRangedAttack, ActorID: g.ch.ID, TargetID: nt.Target.ID},
			Reasoning: fmt.Sprintf("fighting retreat, snap shot at %s", nt.Target.ID),
		})
	}
	return out
}

// retreatMove computes the fallback vector away from the threat centroid
// and always emits a movement candidate at top retreat urgency.
func (g *genContext) retreatMove() Candidate {
	target := g.retreatPosition()
	return Candidate{
		Type:      ActionMovement,
		Priority:  priRetreatMove,
		Command:   Command{Kind: CommandMove, ActorID: g.ch.ID, Target: &target},
		Reasoning: "retreating away from hostile contacts",
	}
}

// retreatPosition walks retreatDistance cells along the bearing from the
// threat centroid through the character, clamped to map bounds.
//
// Precondition: g.threats is non-empty (retreating() patrols otherwise).
func (g *genContext) retreatPosition() grid.Position {
	var cx, cy float64
	for i := range g.threats {
		cx += g.threats[i].Target.Pos.X
		cy += g.threats[i].Target.Pos.Y
	}
	centroid := grid.Position{X: cx / float64(len(g.threats)), Y: cy / float64(len(g.threats))}
	angle := grid.Bearing(centroid, g.ch.Pos)
	if centroid == g.ch.Pos {
		// Standing on the centroid gives no direction; pick one at random.
		angle = float64(g.src.Intn(360)) * math.Pi / 180
	}
	return g.gs.Bounds.Clamp(grid.Offset(g.ch.Pos, angle, retreatDistance))
}

// flankPosition returns a point offset perpendicular to the bearing
// attacker->threat, flankOffset cells from the threat. The side nearer the
// attacker is preferred; if it is not walkable the opposite side is tried,
// and on double failure the near side is kept (the path planner owns final
// footing).
func (g *genContext) flankPosition(nt *Assessment) grid.Position {
	bearing := grid.Bearing(g.ch.Pos, nt.Target.Pos)
	left := g.gs.Bounds.Clamp(grid.Offset(nt.Target.Pos, bearing+math.Pi/2, flankOffset))
	right := g.gs.Bounds.Clamp(grid.Offset(nt.Target.Pos, bearing-math.Pi/2, flankOffset))

	near, far := left, right
	if grid.Distance(g.ch.Pos, right) < grid.Distance(g.ch.Pos, left) {
		near, far = right, left
	}
	if g.gs.Walkable(near, g.ch.ID) {
		return near
	}
	if g.gs.Walkable(far, g.ch.ID) {
		return far
	}
	return near
}

// vantageAt reports whether p clears the firing-position thresholds against
// the current threats: cover above 60 and exposure below 40.
func (g *genContext) vantageAt(p grid.Position) bool {
	eval := EvaluatePosition(p, g.ch, g.threats, g.gs, nil)
	return eval.CoverScore > 60 && eval.ExposureRisk < 40
}

// coverPosition runs the expanding bounded cover search: a walkable cell
// within coverSearchRadius whose evaluation clears cover > 60 and
// exposure < 40. Reports false on attempt exhaustion.
func (g *genContext) coverPosition() (grid.Position, bool) {
	return grid.ExpandingSearch(g.src, g.ch.Pos, coverSearchRadius, g.gs.Bounds, func(p grid.Position) bool {
		return g.gs.Walkable(p, g.ch.ID) && g.vantageAt(p)
	})
}

// moveToGainLOS emits a movement candidate toward a point from which the
// threat should be visible. The bounded search looks for a walkable cell
// with clear sight to the threat; on exhaustion it degrades to moving
// straight toward the threat.
func (g *genContext) moveToGainLOS(nt *Assessment, priority int) Candidate {
	target, ok := grid.RandomWithin(g.src, g.ch.Pos, 4, g.gs.Bounds, func(p grid.Position) bool {
		return g.gs.Walkable(p, g.ch.ID) &&
			grid.LineOfSight(p, nt.Target.Pos, g.gs.Occluder(g.ch.ID, nt.Target.ID))
	})
	if !ok {
		target = g.stepToward(nt.Target.Pos)
	}
	return g.move(target, priority,
		fmt.Sprintf("seeking line of sight to %s", nt.Target.ID))
}

// moveToward emits a movement candidate one bounded step toward dst.
func (g *genContext) moveToward(dst grid.Position, priority int, reasoning string) Candidate {
	return g.move(g.stepToward(dst), priority, reasoning)
}

// stepToward returns a point partway from the character to dst, clamped to
// bounds. The external path planner handles obstacles along the way.
func (g *genContext) stepToward(dst grid.Position) grid.Position {
	dist := grid.Distance(g.ch.Pos, dst)
	if dist <= 1 {
		return g.gs.Bounds.Clamp(dst)
	}
	step := math.Min(dist-1, 4)
	return g.gs.Bounds.Clamp(grid.Offset(g.ch.Pos, grid.Bearing(g.ch.Pos, dst), step))
}

// patrol emits the bounded random patrol movement used whenever a stance
// has nothing better to do. The search never fails; on exhaustion it stays
// in place, which is still a valid movement command.
func (g *genContext) patrol() Candidate {
	target, ok := grid.RandomWithin(g.src, g.ch.Pos, patrolRadius, g.gs.Bounds, func(p grid.Position) bool {
		return g.gs.Walkable(p, g.ch.ID)
	})
	if !ok {
		target = g.gs.Bounds.Clamp(g.ch.Pos)
	}
	return g.move(target, priPatrol, "no contacts, patrolling the area")
}

func (g *genContext) move(target grid.Position, priority int, reasoning string) Candidate {
	t := target
	return Candidate{
		Type:      ActionMovement,
		Priority:  priority,
		Command:   Command{Kind: CommandMove, ActorID: g.ch.ID, Target: &t},
		Reasoning: reasoning,
	}
}

// overwatch emits an overwatch candidate against the nearest threat, or a
// generic area watch centered on the character when no threats exist.
func (g *genContext) overwatch(priority int, reasoning string) Candidate {
	cmd := Command{Kind: CommandOverwatch, ActorID: g.ch.ID}
	if nt := nearest(g.threats); nt != nil {
		cmd.TargetID = nt.Target.ID
	} else {
		here := g.ch.Pos
		cmd.Target = &here
	}
	return Candidate{Type: ActionOverwatch, Priority: priority, Command: cmd, Reasoning: reasoning}
}

// speech emits the fixed-priority coordination line when the situation is
// calm (no threats, or nearest farther than 10 cells) and a living ally is
// within speechAllyRadius.
func (g *genContext) speech() (Candidate, bool) {
	nt := nearest(g.threats)
	if nt != nil && nt.Distance <= speechCalmDistance {
		return Candidate{}, false
	}
	var ally *state.Character
	for _, c := range g.gs.Characters {
		if !c.Alive() || c.ID == g.ch.ID || c.Hostile(g.ch) {
			continue
		}
		if grid.Distance(g.ch.Pos, c.Pos) <= speechAllyRadius {
			ally = c
			break
		}
	}
	if ally == nil {
		return Candidate{}, false
	}
	return Candidate{
		Type:     ActionSpeech,
		Priority: priSpeech,
		Command: Command{
			Kind:     CommandSpeak,
			ActorID:  g.ch.ID,
			TargetID: ally.ID,
			Line:     "coordinate",
		},
		Reasoning: fmt.Sprintf("coordinating with %s nearby", ally.ID),
	}, true
}
