package effects

import (
	"context"

	"github.com/KirkDiggler/move-engine/internal/game"
)

// State represents the lifecycle phase a move effect is currently in.
// Transitions only move forward through the present phases
// (casting -> active -> cooldown); a state is never revisited.
type State string

const (
	StateInstant  State = "instant"  // No cast time, duration or cooldown
	StateCasting  State = "casting"  // In cast time phase
	StateActive   State = "active"   // Active duration
	StateCooldown State = "cooldown" // In cooldown phase
)

// phaseOrder is the forward order phases are visited in
var phaseOrder = []State{StateCasting, StateActive, StateCooldown}

// RollTiming controls when attack/damage rolls are processed
type RollTiming string

const (
	RollInstant          RollTiming = "instant"  // Roll immediately on use
	RollActivePhaseStart RollTiming = "active"   // Roll when the active phase starts
	RollEveryTurn        RollTiming = "per_turn" // Roll each owner turn while active
)

// Phase tracks timing for a single move phase
type Phase struct {
	Duration       int `json:"duration"`
	TurnsCompleted int `json:"turns_completed"`
}

// Remaining returns the turns left in this phase
func (p *Phase) Remaining() int {
	remaining := p.Duration - p.TurnsCompleted
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Complete reports whether the phase has run its full duration
func (p *Phase) Complete() bool {
	return p.TurnsCompleted >= p.Duration
}

// Costs are the up-front resource costs of a move. Positive values consume,
// negative values restore (a negative HP cost is a heal).
type Costs struct {
	MP    int `json:"mp,omitempty"`
	HP    int `json:"hp,omitempty"`
	Stars int `json:"stars,omitempty"`
}

// IsZero reports whether the move is free
func (c Costs) IsZero() bool {
	return c.MP == 0 && c.HP == 0 && c.Stars == 0
}

// ActivationGuard consolidates the one-shot flags of a move effect: whether
// resource costs have been charged, and the last (round, turn) pair that was
// processed. Only Activate and AdvanceTurn update it.
type ActivationGuard struct {
	ResourcesApplied bool   `json:"resources_applied"`
	LastRound        int    `json:"last_round,omitempty"`
	LastTurn         string `json:"last_turn,omitempty"`
}

// AlreadyProcessed reports whether this (round, turn) pair was already
// handled. Duplicate end-of-turn invocations are expected from host retry
// paths and must be silent no-ops, not errors.
func (g *ActivationGuard) AlreadyProcessed(round int, turnOwner string) bool {
	return turnOwner != "" && g.LastRound == round && g.LastTurn == turnOwner
}

// MarkProcessed records the (round, turn) pair as handled
func (g *ActivationGuard) MarkProcessed(round int, turnOwner string) {
	g.LastRound = round
	g.LastTurn = turnOwner
}

// ActivationResult is returned from MoveEffect.Activate
type ActivationResult struct {
	Message      string
	StartedState State
}

// TurnOutcome is returned from MoveEffect.AdvanceTurn
type TurnOutcome struct {
	Messages []string

	// BecameTerminal signals that the caller must expire and remove the
	// effect after this call returns
	BecameTerminal bool
}

// ResolveInput carries everything an attack resolver needs for one
// resolution pass
type ResolveInput struct {
	Attacker   *game.Combatant
	Targets    []*game.Combatant
	AttackRoll string
	Damage     string
	CritRange  int
	Reason     string
}

// TargetResult is the per-target outcome of an attack resolution
type TargetResult struct {
	TargetID    string
	TargetName  string
	Hit         bool
	Crit        bool
	AttackTotal int
	DamageDealt int
}

// ResolveResult is the structured outcome of an attack resolution
type ResolveResult struct {
	Message   string
	Hit       bool
	PerTarget []TargetResult
}

//go:generate mockgen -destination=mock/mock_resolver.go -package=mockeffects -source=types.go

// Resolver is the attack-resolution capability. The phase engine invokes it
// synchronously at the configured roll timing and only forwards the
// returned message; hit/crit math lives entirely behind this interface.
type Resolver interface {
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveResult, error)
}

// TargetProvider resolves target IDs to live combatants. IDs it no longer
// knows are treated as stale and dropped from the effect's target list.
type TargetProvider interface {
	Combatant(id string) (*game.Combatant, bool)
}

// OnHitFunc is the pluggable post-resolution hook (heat stacks and similar
// bonus-on-hit bookkeeping live outside the phase engine)
type OnHitFunc func(attacker, target *game.Combatant, hit bool)

// Runtime bundles the external capabilities a move effect may call into
// while activating or advancing. Any field may be nil; combat resolution is
// simply skipped without a resolver.
type Runtime struct {
	Resolver Resolver
	Targets  TargetProvider
	OnHit    OnHitFunc
}
