package effects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	owner := newTestOwner()

	effect := NewMoveEffect(&MoveConfig{
		ID:          "fx-1",
		Name:        "Meteor",
		Description: "Fire from above",
		CastTime:    2,
		Duration:    3,
		Cooldown:    2,
		MPCost:      5,
		HPCost:      1,
		AttackRoll:  "d20+5",
		Damage:      "2d6+2",
		CritRange:   19,
		RollTiming:  RollEveryTurn,
		TargetIDs:   []string{"grok", "mook"},
		Uses:        3,
		Stackable:   true,
	})

	// Advance mid-lifecycle so guard and phase progress are non-trivial
	effect.Activate(ctx, owner, 1, nil)
	effect.AdvanceTurn(ctx, owner, 1, owner.Name, nil)
	effect.AdvanceTurn(ctx, owner, 2, owner.Name, nil) // casting -> active
	effect.AdvanceTurn(ctx, owner, 3, owner.Name, nil)

	restored, err := FromSnapshot(effect.ToSnapshot())
	require.NoError(t, err)

	assert.Equal(t, StateActive, restored.State)
	assert.Equal(t, 2, restored.Phases[StateCasting].Duration)
	assert.Equal(t, 2, restored.Phases[StateCasting].TurnsCompleted)
	assert.Equal(t, 1, restored.Phases[StateActive].TurnsCompleted)
	assert.True(t, restored.Guard.ResourcesApplied)
	assert.Equal(t, 3, restored.Guard.LastRound)
	assert.Equal(t, "Aria", restored.Guard.LastTurn)
	assert.Equal(t, 2, restored.UsesRemaining)
	assert.Equal(t, 19, restored.CritRange)
	assert.Equal(t, RollEveryTurn, restored.RollTiming)
	assert.Equal(t, []string{"grok", "mook"}, restored.TargetIDs)

	// Byte-level idempotence: serializing the restored effect reproduces
	// the original snapshot
	assert.Equal(t, effect.ToSnapshot(), restored.ToSnapshot())
}

func TestSnapshot_RoundTripInstant(t *testing.T) {
	effect := NewMoveEffect(&MoveConfig{Name: "Zap"})

	restored, err := FromSnapshot(effect.ToSnapshot())
	require.NoError(t, err)

	assert.Equal(t, StateInstant, restored.State)
	assert.True(t, restored.IsTerminal())
}

func TestFromSnapshot_NilSnapshot(t *testing.T) {
	_, err := FromSnapshot(nil)
	require.Error(t, err)
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestFromSnapshot_MissingName(t *testing.T) {
	_, err := FromSnapshot(&Snapshot{State: "active"})
	require.Error(t, err)
	assert.True(t, dnderr.IsMalformedSnapshot(err))
}

func TestFromSnapshot_ClampsBadPhaseData(t *testing.T) {
	restored, err := FromSnapshot(&Snapshot{
		Name:  "Haste",
		State: "active",
		Phases: map[string]PhaseSnapshot{
			"active":   {Duration: -2, TurnsCompleted: 9},
			"cooldown": {Duration: 2, TurnsCompleted: -1},
		},
	})
	require.NoError(t, err)

	// Non-positive duration clamps to 1, progress clamps into [0, duration]
	assert.Equal(t, 1, restored.Phases[StateActive].Duration)
	assert.Equal(t, 1, restored.Phases[StateActive].TurnsCompleted)
	assert.Equal(t, 0, restored.Phases[StateCooldown].TurnsCompleted)
}

func TestFromSnapshot_DropsUnknownPhaseKind(t *testing.T) {
	restored, err := FromSnapshot(&Snapshot{
		Name:  "Haste",
		State: "active",
		Phases: map[string]PhaseSnapshot{
			"active":     {Duration: 3},
			"recharging": {Duration: 2},
		},
	})
	require.NoError(t, err)

	assert.Len(t, restored.Phases, 1)
	assert.NotNil(t, restored.Phases[StateActive])
}

func TestFromSnapshot_UnknownStateFallsBack(t *testing.T) {
	restored, err := FromSnapshot(&Snapshot{
		Name:  "Haste",
		State: "banished",
		Phases: map[string]PhaseSnapshot{
			"active": {Duration: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StateActive, restored.State)
}

func TestFromSnapshot_StateWithoutPhaseFallsBack(t *testing.T) {
	restored, err := FromSnapshot(&Snapshot{
		Name:  "Haste",
		State: "cooldown",
		Phases: map[string]PhaseSnapshot{
			"active": {Duration: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StateActive, restored.State)
}

func TestFromSnapshot_ClampsUsesRemaining(t *testing.T) {
	restored, err := FromSnapshot(&Snapshot{
		Name:          "Smite",
		State:         "active",
		Phases:        map[string]PhaseSnapshot{"active": {Duration: 2}},
		Uses:          3,
		UsesRemaining: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, restored.UsesRemaining)

	restored, err = FromSnapshot(&Snapshot{
		Name:          "Smite",
		State:         "active",
		Phases:        map[string]PhaseSnapshot{"active": {Duration: 2}},
		Uses:          3,
		UsesRemaining: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, restored.UsesRemaining)
}

func TestFromSnapshot_RestoredPastEndGoesTerminal(t *testing.T) {
	ctx := context.Background()
	owner := newTestOwner()

	restored, err := FromSnapshot(&Snapshot{
		Name:  "Slam",
		State: "cooldown",
		Phases: map[string]PhaseSnapshot{
			"cooldown": {Duration: 2, TurnsCompleted: 2},
		},
		Stacks: 1,
	})
	require.NoError(t, err)
	require.True(t, restored.IsTerminal())

	// Advancing a fully-elapsed phase must not overcount it or re-announce
	// its completion; the effect just reports terminal for removal
	out := restored.AdvanceTurn(ctx, owner, 5, owner.Name, nil)
	assert.True(t, out.BecameTerminal)
	assert.Empty(t, out.Messages)
	assert.Equal(t, 2, restored.Phases[StateCooldown].TurnsCompleted)
}

func TestFromSnapshot_RestoredCompletedCastingTransitions(t *testing.T) {
	ctx := context.Background()
	owner := newTestOwner()

	restored, err := FromSnapshot(&Snapshot{
		Name:  "Meteor",
		State: "casting",
		Phases: map[string]PhaseSnapshot{
			"casting": {Duration: 2, TurnsCompleted: 2},
			"active":  {Duration: 3},
		},
		Stacks: 1,
	})
	require.NoError(t, err)

	out := restored.AdvanceTurn(ctx, owner, 5, owner.Name, nil)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "Meteor activates!", out.Messages[0])
	assert.Equal(t, StateActive, restored.State)
	assert.Equal(t, 2, restored.Phases[StateCasting].TurnsCompleted)
	assert.Equal(t, 0, restored.Phases[StateActive].TurnsCompleted)
}

func TestSnapshot_GuardSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	owner := newTestOwner()

	effect := NewMoveEffect(&MoveConfig{Name: "Focus", CastTime: 3})
	effect.Activate(ctx, owner, 1, nil)
	effect.AdvanceTurn(ctx, owner, 4, owner.Name, nil)

	restored, err := FromSnapshot(effect.ToSnapshot())
	require.NoError(t, err)

	// Reloading mid-round must not let the same turn be processed twice
	out := restored.AdvanceTurn(ctx, owner, 4, owner.Name, nil)
	assert.Empty(t, out.Messages)
	assert.Equal(t, 1, restored.Phases[StateCasting].TurnsCompleted)
}
