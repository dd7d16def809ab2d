package effects

import (
	"log"

	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
)

// PhaseSnapshot is the serialized form of one phase
type PhaseSnapshot struct {
	Duration       int `json:"duration"`
	TurnsCompleted int `json:"turns_completed"`
}

// Snapshot is the serialized form of a move effect. Round-trip fidelity is
// part of the contract: FromSnapshot(ToSnapshot(e)) reproduces state,
// phases, costs, guard and uses exactly.
type Snapshot struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	State  string                   `json:"state"`
	Phases map[string]PhaseSnapshot `json:"phases,omitempty"`

	Costs Costs `json:"costs"`

	ResourcesApplied bool   `json:"resources_applied"`
	LastRound        int    `json:"last_round,omitempty"`
	LastTurn         string `json:"last_turn,omitempty"`

	AttackRoll string   `json:"attack_roll,omitempty"`
	Damage     string   `json:"damage,omitempty"`
	CritRange  int      `json:"crit_range,omitempty"`
	RollTiming string   `json:"roll_timing,omitempty"`
	TargetIDs  []string `json:"target_ids,omitempty"`

	Uses          int `json:"uses,omitempty"`
	UsesRemaining int `json:"uses_remaining,omitempty"`

	Stackable bool `json:"stackable,omitempty"`
	Stacks    int  `json:"stacks,omitempty"`
	Permanent bool `json:"permanent,omitempty"`
}

// ToSnapshot serializes the effect for persistence
func (e *MoveEffect) ToSnapshot() *Snapshot {
	snap := &Snapshot{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		State:            string(e.State),
		Costs:            e.Costs,
		ResourcesApplied: e.Guard.ResourcesApplied,
		LastRound:        e.Guard.LastRound,
		LastTurn:         e.Guard.LastTurn,
		AttackRoll:       e.AttackRoll,
		Damage:           e.Damage,
		CritRange:        e.CritRange,
		RollTiming:       string(e.RollTiming),
		TargetIDs:        append([]string(nil), e.TargetIDs...),
		Uses:             e.Uses,
		UsesRemaining:    e.UsesRemaining,
		Stackable:        e.Stackable,
		Stacks:           e.Stacks,
		Permanent:        e.Permanent,
	}

	if len(e.Phases) > 0 {
		snap.Phases = make(map[string]PhaseSnapshot, len(e.Phases))
		for state, phase := range e.Phases {
			snap.Phases[string(state)] = PhaseSnapshot{
				Duration:       phase.Duration,
				TurnsCompleted: phase.TurnsCompleted,
			}
		}
	}

	return snap
}

// FromSnapshot reconstructs a move effect. Inconsistent phase data
// (turns_completed out of range, non-positive durations) is clamped and
// logged rather than rejected: a malformed effect must never block turn
// processing for the whole combatant.
func FromSnapshot(snap *Snapshot) (*MoveEffect, error) {
	if snap == nil {
		return nil, dnderr.InvalidArgument("snapshot cannot be nil")
	}
	if snap.Name == "" {
		return nil, dnderr.MalformedSnapshot("snapshot has no effect name")
	}

	cfg := &MoveConfig{
		ID:          snap.ID,
		Name:        snap.Name,
		Description: snap.Description,
		MPCost:      snap.Costs.MP,
		HPCost:      snap.Costs.HP,
		StarCost:    snap.Costs.Stars,
		AttackRoll:  snap.AttackRoll,
		Damage:      snap.Damage,
		CritRange:   snap.CritRange,
		RollTiming:  RollTiming(snap.RollTiming),
		TargetIDs:   snap.TargetIDs,
		Uses:        snap.Uses,
		Stackable:   snap.Stackable,
		Permanent:   snap.Permanent,
	}

	for state, phase := range snap.Phases {
		duration := phase.Duration
		if duration < 1 {
			log.Printf("effect %q: clamping non-positive %s duration %d to 1", snap.Name, state, duration)
			duration = 1
		}
		switch State(state) {
		case StateCasting:
			cfg.CastTime = duration
		case StateActive:
			cfg.Duration = duration
		case StateCooldown:
			cfg.Cooldown = duration
		default:
			log.Printf("effect %q: dropping unknown phase kind %q", snap.Name, state)
		}
	}

	effect := NewMoveEffect(cfg)

	// Restore current state; an unknown state falls back to the computed
	// initial state
	switch State(snap.State) {
	case StateInstant, StateCasting, StateActive, StateCooldown:
		if State(snap.State) == StateInstant || effect.Phases[State(snap.State)] != nil {
			effect.State = State(snap.State)
		} else {
			log.Printf("effect %q: state %q has no phase, keeping %q", snap.Name, snap.State, effect.State)
		}
	default:
		log.Printf("effect %q: unknown state %q, keeping %q", snap.Name, snap.State, effect.State)
	}

	// Restore phase progress, clamped into [0, duration]
	for state, phase := range snap.Phases {
		restored := effect.Phases[State(state)]
		if restored == nil {
			continue
		}
		completed := phase.TurnsCompleted
		if completed < 0 {
			log.Printf("effect %q: clamping negative %s progress %d to 0", snap.Name, state, completed)
			completed = 0
		}
		if completed > restored.Duration {
			log.Printf("effect %q: clamping %s progress %d to duration %d", snap.Name, state, completed, restored.Duration)
			completed = restored.Duration
		}
		restored.TurnsCompleted = completed
	}

	effect.Guard = ActivationGuard{
		ResourcesApplied: snap.ResourcesApplied,
		LastRound:        snap.LastRound,
		LastTurn:         snap.LastTurn,
	}

	effect.UsesRemaining = snap.UsesRemaining
	if effect.UsesRemaining < 0 {
		effect.UsesRemaining = 0
	}
	if effect.Uses > 0 && effect.UsesRemaining > effect.Uses {
		effect.UsesRemaining = effect.Uses
	}

	if snap.Stacks > 0 {
		effect.Stacks = snap.Stacks
	}

	return effect, nil
}
