package moveeffects

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/move-engine/internal/effects"
	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
)

// redisRepo implements Repository using a Redis hash per owner
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a Redis-backed snapshot repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}
	return &redisRepo{client: cfg.Client}
}

func ownerKey(ownerID string) string {
	return fmt.Sprintf("move_effects:%s", ownerID)
}

// Save implements Repository.Save
func (r *redisRepo) Save(ctx context.Context, ownerID string, snap *effects.Snapshot) error {
	if ownerID == "" {
		return dnderr.InvalidArgument("owner ID cannot be empty")
	}
	if snap == nil {
		return dnderr.InvalidArgument("snapshot cannot be nil")
	}
	if snap.ID == "" {
		return dnderr.InvalidArgument("snapshot must have an ID")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return dnderr.Wrapf(err, "failed to marshal snapshot %s", snap.ID)
	}

	if err := r.client.HSet(ctx, ownerKey(ownerID), snap.ID, data).Err(); err != nil {
		return dnderr.Wrapf(err, "failed to save snapshot %s", snap.ID)
	}
	return nil
}

// SaveAll implements Repository.SaveAll. Snapshots are written
// concurrently; the first failure wins.
func (r *redisRepo) SaveAll(ctx context.Context, ownerID string, snaps []*effects.Snapshot) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, snap := range snaps {
		g.Go(func() error {
			return r.Save(gctx, ownerID, snap)
		})
	}
	return g.Wait()
}

// Get implements Repository.Get
func (r *redisRepo) Get(ctx context.Context, ownerID, effectID string) (*effects.Snapshot, error) {
	data, err := r.client.HGet(ctx, ownerKey(ownerID), effectID).Result()
	if err == redis.Nil {
		return nil, dnderr.NotFoundf("effect %s not found for owner %s", effectID, ownerID)
	}
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get snapshot %s", effectID)
	}

	var snap effects.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, dnderr.MalformedSnapshotf("failed to unmarshal snapshot %s: %v", effectID, err)
	}
	return &snap, nil
}

// GetByOwner implements Repository.GetByOwner
func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*effects.Snapshot, error) {
	entries, err := r.client.HGetAll(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to list snapshots for owner %s", ownerID)
	}

	snaps := make([]*effects.Snapshot, 0, len(entries))
	for id, data := range entries {
		var snap effects.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, dnderr.MalformedSnapshotf("failed to unmarshal snapshot %s: %v", id, err)
		}
		snaps = append(snaps, &snap)
	}
	return snaps, nil
}

// Delete implements Repository.Delete
func (r *redisRepo) Delete(ctx context.Context, ownerID, effectID string) error {
	if err := r.client.HDel(ctx, ownerKey(ownerID), effectID).Err(); err != nil {
		return dnderr.Wrapf(err, "failed to delete snapshot %s", effectID)
	}
	return nil
}

// DeleteByOwner implements Repository.DeleteByOwner
func (r *redisRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, ownerKey(ownerID)).Err(); err != nil {
		return dnderr.Wrapf(err, "failed to delete snapshots for owner %s", ownerID)
	}
	return nil
}
