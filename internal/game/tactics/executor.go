package tactics

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gridspike/skirmish/internal/game/grid"
	"github.com/gridspike/skirmish/internal/game/state"
)

// HookCaller is the optional doctrine-hook surface consulted after the
// built-in scoring pass. Implementations return a score delta for the
// candidate; failures must degrade to 0 rather than error.
type HookCaller interface {
	AdjustScore(characterID, actionType string, priority int) int
}

// Executor owns the standing directive and the per-character turn history,
// orchestrates threat assessment, position evaluation, and candidate
// generation, and returns exactly one action per evaluation.
//
// Executor is an explicit per-session context object; it carries no global
// state. Its turn history makes it safe only under sequential use.
type Executor struct {
	directive    Directive
	hasDirective bool
	history      *History
	src          grid.Source
	logger       *zap.Logger
	hooks        HookCaller
}

// Option configures an Executor.
type Option func(*Executor)

// WithHistory makes the executor record into a caller-owned History,
// allowing the turn orchestrator to shard histories for parallel
// per-character evaluation.
func WithHistory(h *History) Option {
	return func(e *Executor) {
		if h != nil {
			e.history = h
		}
	}
}

// WithHooks attaches a doctrine-hook caller consulted during scoring.
func WithHooks(hc HookCaller) Option {
	return func(e *Executor) { e.hooks = hc }
}

// NewExecutor constructs the per-session engine context.
//
// Precondition: src and logger must not be nil; pass zap.NewNop() when
// logging is unwanted.
func NewExecutor(src grid.Source, logger *zap.Logger, opts ...Option) *Executor {
	if src == nil {
		panic("tactics.NewExecutor: src must not be nil")
	}
	if logger == nil {
		panic("tactics.NewExecutor: logger must not be nil")
	}
	e := &Executor{
		history: NewHistory(),
		src:     src,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDirective replaces the standing directive. It persists until replaced.
func (e *Executor) SetDirective(d Directive) {
	e.directive = d
	e.hasDirective = true
}

// Directive returns the active directive, falling back to the fixed default
// when none has been set.
func (e *Executor) Directive() Directive {
	if !e.hasDirective {
		return DefaultDirective()
	}
	return e.directive
}

// ClearTurnActions resets the per-character turn history. The turn
// orchestrator must call this exactly once per turn boundary.
func (e *Executor) ClearTurnActions() {
	e.history.Reset()
}

// History exposes the turn-history store, mainly for callers that want to
// inspect turn-local bookkeeping.
func (e *Executor) History() *History {
	return e.history
}

// EvaluateSituation decides the single best action for ch this turn. It
// never fails: with no threats, no candidates, or no directive it degrades
// to defined defaults and always returns one action with priority in
// [0, 100].
//
// Precondition: ch and gs must not be nil.
// Postcondition: the chosen action type is recorded in the turn history.
func (e *Executor) EvaluateSituation(ch *state.Character, gs *state.GameState, visible []*state.Character) Action {
	d := e.Directive()

	living := make([]*state.Character, 0, len(visible))
	for _, c := range visible {
		if c.Alive() {
			living = append(living, c)
		}
	}

	threats := AssessThreats(ch, living, gs, d)

	var objective *grid.Position
	if d.Anchor != nil {
		objective = d.Anchor
	}
	eval := EvaluatePosition(ch.Pos, ch, threats, gs, objective)

	candidates := GenerateActions(ch, threats, eval, d, gs, e.history, e.src)
	if len(candidates) == 0 {
		candidates = []Candidate{e.defaultPatrol(ch, gs)}
	}

	scored := make([]Candidate, len(candidates))
	copy(scored, candidates)
	for i := range scored {
		scored[i].Priority = e.scoreAction(ch, scored[i], threats, d)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Priority > scored[j].Priority
	})

	chosen := scored[0]
	e.history.Record(ch.ID, chosen.Type)

	action := Action{
		ID:        uuid.NewString(),
		Type:      chosen.Type,
		Priority:  chosen.Priority,
		Command:   chosen.Command,
		Reasoning: chosen.Reasoning,
	}
	e.logger.Debug("tactical decision",
		zap.String("character", ch.ID),
		zap.String("stance", string(d.Tactics.Stance)),
		zap.Int("threats", len(threats)),
		zap.Int("candidates", len(candidates)),
		zap.String("action", string(action.Type)),
		zap.Int("priority", action.Priority),
		zap.String("reasoning", action.Reasoning),
	)
	return action
}

// Scoring adjustments.
const (
	unaffordablePenalty = 50
	spendDownBonus      = 10
	spendDownThreshold  = 40
	repetitionPenalty   = 10
	attackSynergyBonus  = 15
	defendSynergyBonus  = 15
	retreatSynergyBonus = 20
	closeThreatBonus    = 10
	distantThreatBonus  = 5
	defaultReloadCost   = 20
	defaultHealCost     = 30
)

// scoreAction applies the multi-factor adjustment to a candidate's base
// priority: affordability, budget spend-down, anti-repetition, directive
// synergy, threat proximity synergy, and finally any doctrine hook delta.
//
// Postcondition: result is in [0, 100].
func (e *Executor) scoreAction(ch *state.Character, c Candidate, threats []Assessment, d Directive) int {
	score := c.Priority

	cost := estimatedCost(c.Type, ch.Budget)
	if cost > ch.Budget.Remaining {
		score -= unaffordablePenalty
	} else if ch.Budget.Remaining < spendDownThreshold {
		score += spendDownBonus
	}

	if last, ok := e.history.Last(ch.ID); ok && last == c.Type {
		score -= repetitionPenalty
	}

	switch {
	case d.Objective == ObjectiveAttack && c.Type == ActionAttack:
		score += attackSynergyBonus
	case d.Objective == ObjectiveDefend && c.Type == ActionOverwatch:
		score += defendSynergyBonus
	case d.Objective == ObjectiveRetreat && c.Type == ActionMovement:
		score += retreatSynergyBonus
	}

	if nt := nearest(threats); nt != nil {
		if nt.Distance <= 3 && c.Type == ActionAttack {
			score += closeThreatBonus
		} else if nt.Distance > 10 && c.Type == ActionMovement {
			score += distantThreatBonus
		}
	}

	if e.hooks != nil {
		score += e.hooks.AdjustScore(ch.ID, string(c.Type), clampScore(score))
	}
	return clampScore(score)
}

// estimatedCost maps an action type to its point cost from the character's
// budget table, with fixed defaults for categories the budget omits.
func estimatedCost(t ActionType, b state.ActionBudget) int {
	switch t {
	case ActionMovement:
		return b.MoveCost
	case ActionAttack:
		return b.ShootCost
	case ActionOverwatch:
		return b.OverwatchCost
	case ActionSpeech:
		return 0
	case ActionReload:
		return defaultReloadCost
	case ActionHeal:
		return defaultHealCost
	default:
		return 0
	}
}

// defaultPatrol synthesizes the bounded-random patrol fallback used when a
// stance branch emits nothing at all.
func (e *Executor) defaultPatrol(ch *state.Character, gs *state.GameState) Candidate {
	g := &genContext{ch: ch, gs: gs, src: e.src}
	return g.patrol()
}
