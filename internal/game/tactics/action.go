package tactics

import "github.com/gridspike/skirmish/internal/game/grid"

// ActionType classifies a tactical action.
type ActionType string

const (
	ActionMovement  ActionType = "movement"
	ActionAttack    ActionType = "attack"
	ActionOverwatch ActionType = "overwatch"
	ActionSpeech    ActionType = "speech"
	ActionReload    ActionType = "reload"
	ActionHeal      ActionType = "heal"
)

// CommandKind names the concrete command inside an action payload.
type CommandKind string

const (
	CommandMove         CommandKind = "move"
	CommandMeleeAttack  CommandKind = "attack_melee"
	CommandRangedAttack CommandKind = "attack_ranged"
	CommandOverwatch    CommandKind = "overwatch"
	CommandSpeak        CommandKind = "speak"
)

// Command is the opaque payload handed to the external command-execution
// layer (path planner, attack resolver, dialogue trigger). The engine never
// interprets or executes it.
type Command struct {
	Kind     CommandKind
	ActorID  string
	TargetID string         // set for attacks, overwatch-on-target, speech recipient
	Target   *grid.Position // set for movement and area overwatch
	Line     string         // set for speech
}

// Action is the engine's single decision for one character this turn.
type Action struct {
	// ID is a fresh uuid stamped by the executor so the external layer can
	// correlate its logs with this decision.
	ID        string
	Type      ActionType
	Priority  int // adjusted score in [0, 100] after the scoring pass
	Command   Command
	Reasoning string
}

// Candidate is a pre-scoring action produced by a stance generator. The
// executor's scoring pass adjusts Priority and promotes exactly one
// Candidate to the returned Action.
type Candidate struct {
	Type      ActionType
	Priority  int
	Command   Command
	Reasoning string
}
