//go:build integration
// +build integration

package moveeffects_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/move-engine/internal/effects"
	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
	"github.com/KirkDiggler/move-engine/internal/game"
	"github.com/KirkDiggler/move-engine/internal/repositories/moveeffects"
	"github.com/KirkDiggler/move-engine/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	repo := moveeffects.NewRedisRepository(&moveeffects.RedisRepoConfig{Client: client})
	ctx := context.Background()

	t.Run("save and get round trip", func(t *testing.T) {
		snap := &effects.Snapshot{
			ID:    "fx-1",
			Name:  "Haste",
			State: "active",
			Phases: map[string]effects.PhaseSnapshot{
				"active": {Duration: 3, TurnsCompleted: 1},
			},
			ResourcesApplied: true,
			LastRound:        2,
			LastTurn:         "Aria",
			Stacks:           1,
		}

		require.NoError(t, repo.Save(ctx, "aria", snap))

		got, err := repo.Get(ctx, "aria", "fx-1")
		require.NoError(t, err)
		assert.Equal(t, snap, got)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "aria", "missing")
		require.Error(t, err)
		assert.True(t, dnderr.IsNotFound(err))
	})

	t.Run("save all and list", func(t *testing.T) {
		snaps := []*effects.Snapshot{
			{ID: "fx-a", Name: "One", State: "active", Stacks: 1},
			{ID: "fx-b", Name: "Two", State: "cooldown", Stacks: 1},
		}
		require.NoError(t, repo.SaveAll(ctx, "grok", snaps))

		got, err := repo.GetByOwner(ctx, "grok")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("delete", func(t *testing.T) {
		snap := &effects.Snapshot{ID: "fx-del", Name: "Gone", State: "active", Stacks: 1}
		require.NoError(t, repo.Save(ctx, "aria", snap))
		require.NoError(t, repo.Delete(ctx, "aria", "fx-del"))

		_, err := repo.Get(ctx, "aria", "fx-del")
		assert.True(t, dnderr.IsNotFound(err))
	})

	t.Run("delete by owner", func(t *testing.T) {
		require.NoError(t, repo.DeleteByOwner(ctx, "grok"))

		got, err := repo.GetByOwner(ctx, "grok")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

// TestCollectionPersistence_Integration runs a combatant mid-lifecycle,
// persists the collection, reloads it and verifies the restored effect
// picks up exactly where it left off.
func TestCollectionPersistence_Integration(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	repo := moveeffects.NewRedisRepository(&moveeffects.RedisRepoConfig{Client: client})
	ctx := context.Background()

	owner := game.NewCombatant("aria", "Aria", 14, 30, 20, 5)
	col := effects.NewCollection(&effects.CollectionConfig{Owner: owner})

	col.Add(ctx, effects.NewMoveEffect(&effects.MoveConfig{
		Name:     "Meteor",
		CastTime: 2,
		Duration: 3,
		MPCost:   5,
	}), 1, nil)

	effect := col.Get("Meteor")
	effect.AdvanceTurn(ctx, owner, 1, owner.Name, nil)

	require.NoError(t, repo.SaveAll(ctx, owner.ID, col.Snapshots()))

	snaps, err := repo.GetByOwner(ctx, owner.ID)
	require.NoError(t, err)

	restoredOwner := game.NewCombatant("aria", "Aria", 14, 30, 20, 5)
	restored := effects.NewCollection(&effects.CollectionConfig{Owner: restoredOwner})
	n, err := restored.Restore(snaps)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got := restored.Get("Meteor")
	require.NotNil(t, got)
	assert.Equal(t, effects.StateCasting, got.State)
	assert.Equal(t, 1, got.Phases[effects.StateCasting].TurnsCompleted)
	assert.True(t, got.Guard.ResourcesApplied, "reloaded effect must not re-charge costs")

	// Replaying the persisted round is still a no-op after reload
	out := got.AdvanceTurn(ctx, restoredOwner, 1, restoredOwner.Name, nil)
	assert.Empty(t, out.Messages)
}
