package moveeffects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/move-engine/internal/effects"
	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
)

func TestInMemoryRepo_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	snap := testSnapshot("fx-1")

	require.NoError(t, repo.Save(ctx, "aria", snap))

	got, err := repo.Get(ctx, "aria", "fx-1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.NotSame(t, snap, got, "stored value is a copy")
}

func TestInMemoryRepo_SaveValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	assert.Error(t, repo.Save(ctx, "", testSnapshot("fx-1")))
	assert.Error(t, repo.Save(ctx, "aria", nil))
	assert.Error(t, repo.Save(ctx, "aria", testSnapshot("")))
}

func TestInMemoryRepo_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	_, err := repo.Get(ctx, "aria", "missing")
	require.Error(t, err)
	assert.True(t, dnderr.IsNotFound(err))
}

func TestInMemoryRepo_SaveAllAndGetByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	require.NoError(t, repo.SaveAll(ctx, "aria", []*effects.Snapshot{
		testSnapshot("fx-1"),
		testSnapshot("fx-2"),
	}))

	snaps, err := repo.GetByOwner(ctx, "aria")
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	// Other owners stay empty
	snaps, err = repo.GetByOwner(ctx, "grok")
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestInMemoryRepo_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	first := testSnapshot("fx-1")
	require.NoError(t, repo.Save(ctx, "aria", first))

	updated := testSnapshot("fx-1")
	updated.State = "cooldown"
	require.NoError(t, repo.Save(ctx, "aria", updated))

	got, err := repo.Get(ctx, "aria", "fx-1")
	require.NoError(t, err)
	assert.Equal(t, "cooldown", got.State)

	snaps, err := repo.GetByOwner(ctx, "aria")
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestInMemoryRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	require.NoError(t, repo.Save(ctx, "aria", testSnapshot("fx-1")))
	require.NoError(t, repo.Delete(ctx, "aria", "fx-1"))

	_, err := repo.Get(ctx, "aria", "fx-1")
	assert.True(t, dnderr.IsNotFound(err))

	// Deleting something absent is not an error
	assert.NoError(t, repo.Delete(ctx, "aria", "fx-1"))
}

func TestInMemoryRepo_DeleteByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	require.NoError(t, repo.Save(ctx, "aria", testSnapshot("fx-1")))
	require.NoError(t, repo.Save(ctx, "grok", testSnapshot("fx-2")))

	require.NoError(t, repo.DeleteByOwner(ctx, "aria"))

	snaps, err := repo.GetByOwner(ctx, "aria")
	require.NoError(t, err)
	assert.Empty(t, snaps)

	snaps, err = repo.GetByOwner(ctx, "grok")
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestInMemoryRepo_MutatingReturnedSnapshotIsSafe(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	require.NoError(t, repo.Save(ctx, "aria", testSnapshot("fx-1")))

	got, err := repo.Get(ctx, "aria", "fx-1")
	require.NoError(t, err)
	got.State = "mutated"

	again, err := repo.Get(ctx, "aria", "fx-1")
	require.NoError(t, err)
	assert.Equal(t, "active", again.State)
}
