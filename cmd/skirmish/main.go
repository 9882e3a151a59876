// Package main provides the skirmish simulation harness: it loads a
// scenario, constructs the tactical engine, and plays the role of the
// external command-execution layer for a bounded number of turns, logging
// every decision the engine makes.
package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/gridspike/skirmish/internal/config"
	"github.com/gridspike/skirmish/internal/game/grid"
	"github.com/gridspike/skirmish/internal/game/scenario"
	"github.com/gridspike/skirmish/internal/game/state"
	"github.com/gridspike/skirmish/internal/game/tactics"
	"github.com/gridspike/skirmish/internal/observability"
	"github.com/gridspike/skirmish/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "", "scenario YAML path; overrides configuration")
	turns := flag.Int("turns", 0, "turns to simulate; overrides configuration")
	seed := flag.Int64("seed", 0, "randomness seed; overrides configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *scenarioPath != "" {
		cfg.Simulation.ScenarioPath = *scenarioPath
	}
	if *turns > 0 {
		cfg.Simulation.Turns = *turns
	}
	if *seed != 0 {
		cfg.Engine.Seed = *seed
	}

	scn, err := scenario.Load(cfg.Simulation.ScenarioPath)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}
	logger.Info("scenario loaded",
		zap.String("name", scn.Name),
		zap.Int("characters", len(scn.Characters)),
		zap.Int("ai_characters", len(scn.AICharacterIDs())),
	)

	opts := []tactics.Option{}
	if cfg.Engine.DoctrineScript != "" {
		doctrine, err := scripting.LoadDoctrine(cfg.Engine.DoctrineScript, cfg.Engine.ScriptInstructionLimit, logger)
		if err != nil {
			logger.Fatal("loading doctrine script", zap.Error(err))
		}
		defer doctrine.Close()
		opts = append(opts, tactics.WithHooks(doctrine))
		logger.Info("doctrine hooks enabled", zap.String("script", cfg.Engine.DoctrineScript))
	}

	gs := scn.BuildGameState()
	executor := tactics.NewExecutor(grid.NewSource(cfg.Engine.Seed), logger, opts...)
	executor.SetDirective(scn.BuildDirective())

	runSimulation(executor, gs, scn.AICharacterIDs(), cfg.Simulation.Turns, logger)

	logger.Info("simulation complete",
		zap.Int("turns", cfg.Simulation.Turns),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// runSimulation drives the contractual call pattern: one turn-history reset
// per turn boundary, then one sequential evaluation per living AI character.
// It also acts as a minimal command executor so decisions have visible
// consequences across turns.
func runSimulation(executor *tactics.Executor, gs *state.GameState, aiIDs []string, turns int, logger *zap.Logger) {
	for turn := 1; turn <= turns; turn++ {
		executor.ClearTurnActions()
		for _, id := range aiIDs {
			ch := gs.CharacterByID(id)
			if !ch.Alive() {
				continue
			}
			action := executor.EvaluateSituation(ch, gs, visibleTo(ch, gs))
			logger.Info("decision",
				zap.Int("turn", turn),
				zap.String("character", id),
				zap.String("action", string(action.Type)),
				zap.Int("priority", action.Priority),
				zap.String("reasoning", action.Reasoning),
			)
			apply(gs, action)
		}
	}
}

// visibleTo returns every other living character. The harness grants full
// visibility; occlusion is the engine's concern, not the simulation's.
func visibleTo(ch *state.Character, gs *state.GameState) []*state.Character {
	var out []*state.Character
	for _, c := range gs.Characters {
		if c.ID != ch.ID && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// attackDamage is the flat damage the toy resolver applies per hit.
const attackDamage = 15

// apply is the harness's stand-in for the external command-execution layer:
// movement teleports to the target cell, attacks deal flat damage. The
// engine itself never mutates state.
func apply(gs *state.GameState, action tactics.Action) {
	cmd := action.Command
	actor := gs.CharacterByID(cmd.ActorID)
	if actor == nil {
		return
	}
	switch cmd.Kind {
	case tactics.CommandMove:
		if cmd.Target != nil {
			actor.Pos = gs.Bounds.Clamp(*cmd.Target)
		}
	case tactics.CommandMeleeAttack, tactics.CommandRangedAttack:
		if target := gs.CharacterByID(cmd.TargetID); target != nil && target.Alive() {
			target.Health -= attackDamage
			if target.Health < 0 {
				target.Health = 0
			}
		}
	default:
		// overwatch and speech have no world effect in the toy resolver
	}
}
