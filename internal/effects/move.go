package effects

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/move-engine/internal/game"
)

// MoveEffect is a move or status effect with phase-based duration tracking.
// Each present phase (cast -> active -> cooldown) has its own turn-counted
// duration; turns only count on the owner's turn.
type MoveEffect struct {
	ID          string
	Name        string
	Description string

	// State is the current phase; Phases holds only the phases this move
	// actually has
	State  State
	Phases map[State]*Phase

	Costs Costs

	// Guard makes resource charging and turn processing idempotent. It is
	// updated only by Activate and AdvanceTurn.
	Guard ActivationGuard

	// Combat parameters, all optional
	AttackRoll string
	Damage     string
	CritRange  int
	RollTiming RollTiming
	TargetIDs  []string

	// Uses > 0 marks a limited-use move; UsesRemaining is decremented once
	// per activation, independent of phases
	Uses          int
	UsesRemaining int

	Stackable bool
	Stacks    int
	Permanent bool

	// PerTurnCosts is a disabled-by-default extension point: the current
	// rule set charges all costs up front at activation
	PerTurnCosts bool
}

// MoveConfig holds the construction parameters for a move effect. Phase
// durations of zero mean the phase does not exist.
type MoveConfig struct {
	ID          string
	Name        string
	Description string

	CastTime int
	Duration int
	Cooldown int

	MPCost   int
	HPCost   int
	StarCost int

	AttackRoll string
	Damage     string
	CritRange  int        // defaults to 20
	RollTiming RollTiming // defaults to RollActivePhaseStart
	TargetIDs  []string

	Uses int // 0 = unlimited

	Stackable bool
	Permanent bool
}

// NewMoveEffect creates a move effect and determines its initial state from
// the phases present: casting if a cast phase exists, else active, else
// cooldown, else instant.
func NewMoveEffect(cfg *MoveConfig) *MoveEffect {
	phases := make(map[State]*Phase)
	if cfg.CastTime > 0 {
		phases[StateCasting] = &Phase{Duration: cfg.CastTime}
	}
	if cfg.Duration > 0 {
		phases[StateActive] = &Phase{Duration: cfg.Duration}
	}
	if cfg.Cooldown > 0 {
		phases[StateCooldown] = &Phase{Duration: cfg.Cooldown}
	}

	state := StateInstant
	switch {
	case phases[StateCasting] != nil:
		state = StateCasting
	case phases[StateActive] != nil:
		state = StateActive
	case phases[StateCooldown] != nil:
		state = StateCooldown
	}

	critRange := cfg.CritRange
	if critRange == 0 {
		critRange = 20
	}

	rollTiming := cfg.RollTiming
	if rollTiming == "" {
		rollTiming = RollActivePhaseStart
	}

	return &MoveEffect{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Description: cfg.Description,
		State:       state,
		Phases:      phases,
		Costs: Costs{
			MP:    cfg.MPCost,
			HP:    cfg.HPCost,
			Stars: cfg.StarCost,
		},
		AttackRoll:    cfg.AttackRoll,
		Damage:        cfg.Damage,
		CritRange:     critRange,
		RollTiming:    rollTiming,
		TargetIDs:     append([]string(nil), cfg.TargetIDs...),
		Uses:          cfg.Uses,
		UsesRemaining: cfg.Uses,
		Stackable:     cfg.Stackable,
		Stacks:        1,
		Permanent:     cfg.Permanent,
	}
}

// currentPhase returns the phase for the current state, nil for instant
func (e *MoveEffect) currentPhase() *Phase {
	return e.Phases[e.State]
}

// nextState returns the next present phase after the current one
func (e *MoveEffect) nextState() (State, bool) {
	passed := false
	for _, s := range phaseOrder {
		if s == e.State {
			passed = true
			continue
		}
		if passed && e.Phases[s] != nil {
			return s, true
		}
	}
	return "", false
}

// Activate applies the move: charges resource costs exactly once, consumes
// a use for limited-use moves, and resolves an instant attack when the roll
// timing calls for one. Resource sufficiency is the caller's precondition;
// pools are charged and clamped unconditionally so activation stays total.
func (e *MoveEffect) Activate(ctx context.Context, owner *game.Combatant, round int, rt *Runtime) *ActivationResult {
	var parts []string
	var details []string

	if owner != nil && e.State == StateCasting {
		parts = append(parts, fmt.Sprintf("%s begins casting %s", owner.Name, e.Name))
	} else if owner != nil {
		parts = append(parts, fmt.Sprintf("%s uses %s", owner.Name, e.Name))
	} else {
		parts = append(parts, e.Name)
	}

	if costs := e.applyCosts(owner); costs != "" {
		parts = append(parts, costs)
	}

	if timing := e.timingInfo(); timing != "" {
		parts = append(parts, timing)
	}

	if e.Uses > 0 && e.UsesRemaining > 0 {
		e.UsesRemaining--
	}

	if e.RollTiming == RollInstant || e.State == StateInstant {
		details = append(details, e.resolveAttack(ctx, owner, rt)...)
	}

	message := strings.Join(parts, " | ")
	if len(details) > 0 {
		message = message + "\n" + strings.Join(details, "\n")
	}

	return &ActivationResult{
		Message:      message,
		StartedState: e.State,
	}
}

// applyCosts charges the up-front costs exactly once, guarded by
// Guard.ResourcesApplied, and returns a cost summary
func (e *MoveEffect) applyCosts(owner *game.Combatant) string {
	if e.Guard.ResourcesApplied {
		return ""
	}
	e.Guard.ResourcesApplied = true

	if owner == nil || owner.Resources == nil || e.Costs.IsZero() {
		return ""
	}

	var parts []string
	if e.Costs.MP != 0 {
		owner.Resources.MP.Apply(e.Costs.MP)
		if e.Costs.MP > 0 {
			parts = append(parts, fmt.Sprintf("uses %d MP", e.Costs.MP))
		} else {
			parts = append(parts, fmt.Sprintf("gains %d MP", -e.Costs.MP))
		}
	}
	if e.Costs.HP != 0 {
		owner.Resources.HP.Apply(e.Costs.HP)
		if e.Costs.HP > 0 {
			parts = append(parts, fmt.Sprintf("uses %d HP", e.Costs.HP))
		} else {
			parts = append(parts, fmt.Sprintf("heals %d HP", -e.Costs.HP))
		}
	}
	if e.Costs.Stars != 0 {
		owner.Resources.Stars.Apply(e.Costs.Stars)
		parts = append(parts, fmt.Sprintf("uses %d stars", e.Costs.Stars))
	}

	return strings.Join(parts, ", ")
}

// timingInfo summarizes the phase durations for the activation message
func (e *MoveEffect) timingInfo() string {
	var parts []string
	if p := e.Phases[StateCasting]; p != nil {
		parts = append(parts, fmt.Sprintf("%dT cast", p.Duration))
	}
	if p := e.Phases[StateActive]; p != nil {
		parts = append(parts, fmt.Sprintf("%dT duration", p.Duration))
	}
	if p := e.Phases[StateCooldown]; p != nil {
		parts = append(parts, fmt.Sprintf("%dT cooldown", p.Duration))
	}
	return strings.Join(parts, ", ")
}

// AdvanceTurn progresses the effect by one owner turn. It is a no-op for
// non-owner turns and for a (round, turnOwner) pair that was already
// processed. When the current phase completes it transitions forward or
// reports terminal; otherwise it emits a progress message.
func (e *MoveEffect) AdvanceTurn(ctx context.Context, owner *game.Combatant, round int, turnOwner string, rt *Runtime) *TurnOutcome {
	out := &TurnOutcome{}

	if owner == nil || owner.Name != turnOwner {
		return out
	}
	if e.State == StateInstant {
		// Instants never persist long enough to be advanced
		return out
	}
	if e.Guard.AlreadyProcessed(round, turnOwner) {
		return out
	}
	e.Guard.MarkProcessed(round, turnOwner)

	phase := e.currentPhase()
	if phase == nil {
		out.BecameTerminal = true
		return out
	}

	// A phase already at its full duration (a snapshot restored at or past
	// its end) has nothing left to count; finish the pending transition
	// without overcounting or re-announcing completion
	if phase.Complete() {
		next, hasNext := e.nextState()
		if !hasNext {
			out.BecameTerminal = true
			return out
		}
		e.State = next
		e.Phases[next].TurnsCompleted = 0
		if next == StateCooldown {
			e.TargetIDs = nil
		}
		out.Messages = append(out.Messages, e.transitionMessage(next))
		return out
	}

	phase.TurnsCompleted++

	if e.State == StateActive && e.RollTiming == RollEveryTurn {
		out.Messages = append(out.Messages, e.resolveAttack(ctx, owner, rt)...)
	}

	if !phase.Complete() {
		out.Messages = append(out.Messages, e.progressMessage(phase))
		return out
	}

	next, hasNext := e.nextState()

	// The attack fires as the move leaves casting and becomes active
	if e.State == StateCasting && hasNext && next == StateActive && e.RollTiming == RollActivePhaseStart {
		out.Messages = append(out.Messages, e.resolveAttack(ctx, owner, rt)...)
	}

	if !hasNext {
		out.BecameTerminal = true
		out.Messages = append(out.Messages, e.completionMessage())
		return out
	}

	e.State = next
	e.Phases[next].TurnsCompleted = 0
	if next == StateCooldown {
		// Targets are irrelevant once the move is only a reactivation gate
		e.TargetIDs = nil
	}
	out.Messages = append(out.Messages, e.transitionMessage(next))

	return out
}

// progressMessage reports remaining turns for an incomplete phase
func (e *MoveEffect) progressMessage(phase *Phase) string {
	remaining := phase.Remaining()
	plural := "s"
	if remaining == 1 {
		plural = ""
	}

	switch e.State {
	case StateCasting:
		return fmt.Sprintf("Casting %s (%d turn%s remaining)", e.Name, remaining, plural)
	case StateActive:
		return fmt.Sprintf("%s continues (%d turn%s remaining)", e.Name, remaining, plural)
	default:
		return fmt.Sprintf("%s cooldown (%d turn%s remaining)", e.Name, remaining, plural)
	}
}

// completionMessage is emitted when the final present phase finishes
func (e *MoveEffect) completionMessage() string {
	switch e.State {
	case StateCasting:
		return fmt.Sprintf("%s completes", e.Name)
	case StateActive:
		return fmt.Sprintf("%s wears off", e.Name)
	default:
		return fmt.Sprintf("%s cooldown ended", e.Name)
	}
}

// transitionMessage is emitted when moving into the given phase
func (e *MoveEffect) transitionMessage(next State) string {
	if next == StateActive {
		return fmt.Sprintf("%s activates!", e.Name)
	}
	return fmt.Sprintf("%s enters cooldown", e.Name)
}

// resolveAttack invokes the attack resolver if this move has an attack roll
// and a resolver is available. Stale targets are dropped with a note; a
// resolver failure surfaces as a message, never as an error, so a single
// bad effect cannot block turn processing.
func (e *MoveEffect) resolveAttack(ctx context.Context, owner *game.Combatant, rt *Runtime) []string {
	if e.AttackRoll == "" || rt == nil || rt.Resolver == nil {
		return nil
	}

	var messages []string
	var targets []*game.Combatant

	if len(e.TargetIDs) > 0 && rt.Targets != nil {
		live := e.TargetIDs[:0]
		for _, id := range e.TargetIDs {
			target, ok := rt.Targets.Combatant(id)
			if !ok {
				messages = append(messages, fmt.Sprintf("%s: target %s is no longer in the encounter", e.Name, id))
				continue
			}
			live = append(live, id)
			targets = append(targets, target)
		}
		e.TargetIDs = live
	}

	result, err := rt.Resolver.Resolve(ctx, &ResolveInput{
		Attacker:   owner,
		Targets:    targets,
		AttackRoll: e.AttackRoll,
		Damage:     e.Damage,
		CritRange:  e.CritRange,
		Reason:     e.Name,
	})
	if err != nil {
		messages = append(messages, fmt.Sprintf("%s: attack could not be resolved (%v)", e.Name, err))
		return messages
	}

	if result.Message != "" {
		messages = append(messages, result.Message)
	}

	if rt.OnHit != nil {
		for _, tr := range result.PerTarget {
			for _, target := range targets {
				if target.ID == tr.TargetID {
					rt.OnHit(owner, target, tr.Hit)
					break
				}
			}
		}
	}

	return messages
}

// IsTerminal reports whether no further phase transition is possible. A
// terminal effect must be expired and removed by the caller.
func (e *MoveEffect) IsTerminal() bool {
	if e.State == StateInstant {
		return true
	}

	phase := e.currentPhase()
	if phase == nil {
		return true
	}

	if _, hasNext := e.nextState(); hasNext {
		return false
	}
	return phase.Complete()
}

// OnExpire finalizes the effect and returns the expiry message. Instants
// return an empty string since they never persist long enough to expire.
// Dispelling an effect early goes through the same path as natural
// termination.
func (e *MoveEffect) OnExpire(owner *game.Combatant) string {
	if e.State == StateInstant {
		return ""
	}

	e.TargetIDs = nil
	return fmt.Sprintf("%s has ended", e.Name)
}

// CanUse reports whether the move can be activated again. The engine does
// not enforce this itself; hosts use it as the reactivation gate while the
// previous instance is still cooling down.
func (e *MoveEffect) CanUse() (bool, string) {
	if e.State == StateCooldown {
		if phase := e.currentPhase(); phase != nil && !phase.Complete() {
			return false, fmt.Sprintf("On cooldown (%d turns remaining)", phase.Remaining())
		}
	}

	if e.Uses > 0 && e.UsesRemaining <= 0 {
		return false, "No uses remaining"
	}

	return true, ""
}

// TurnStartText is the status line for turn announcements. Cooldowns and
// instants are not announced. This must never mutate phase counters; only
// AdvanceTurn advances state.
func (e *MoveEffect) TurnStartText() string {
	phase := e.currentPhase()

	switch e.State {
	case StateCasting:
		if phase == nil {
			return ""
		}
		return fmt.Sprintf("Casting %s (%d turns remaining)", e.Name, phase.Remaining())
	case StateActive:
		if phase == nil {
			return ""
		}
		if e.Description != "" {
			return fmt.Sprintf("%s active: %s (%d turns remaining)", e.Name, e.Description, phase.Remaining())
		}
		return fmt.Sprintf("%s active (%d turns remaining)", e.Name, phase.Remaining())
	default:
		return ""
	}
}

// AddStack merges another application of a stackable move into this one
// and returns the feedback message
func (e *MoveEffect) AddStack() string {
	e.Stacks++
	return fmt.Sprintf("%s stacks (%d)", e.Name, e.Stacks)
}
