package moveeffects

import (
	"context"
	"sync"

	"github.com/KirkDiggler/move-engine/internal/effects"
	dnderr "github.com/KirkDiggler/move-engine/internal/errors"
)

// inMemoryRepo implements Repository with an in-process map, for tests and
// hosts running without Redis
type inMemoryRepo struct {
	mu    sync.RWMutex
	store map[string]map[string]*effects.Snapshot // ownerID -> effectID -> snapshot
}

// NewInMemoryRepository creates an in-memory snapshot repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepo{
		store: make(map[string]map[string]*effects.Snapshot),
	}
}

// Save implements Repository.Save
func (r *inMemoryRepo) Save(ctx context.Context, ownerID string, snap *effects.Snapshot) error {
	if ownerID == "" {
		return dnderr.InvalidArgument("owner ID cannot be empty")
	}
	if snap == nil {
		return dnderr.InvalidArgument("snapshot cannot be nil")
	}
	if snap.ID == "" {
		return dnderr.InvalidArgument("snapshot must have an ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store[ownerID] == nil {
		r.store[ownerID] = make(map[string]*effects.Snapshot)
	}

	copied := *snap
	r.store[ownerID][snap.ID] = &copied
	return nil
}

// SaveAll implements Repository.SaveAll
func (r *inMemoryRepo) SaveAll(ctx context.Context, ownerID string, snaps []*effects.Snapshot) error {
	for _, snap := range snaps {
		if err := r.Save(ctx, ownerID, snap); err != nil {
			return err
		}
	}
	return nil
}

// Get implements Repository.Get
func (r *inMemoryRepo) Get(ctx context.Context, ownerID, effectID string) (*effects.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.store[ownerID][effectID]
	if !ok {
		return nil, dnderr.NotFoundf("effect %s not found for owner %s", effectID, ownerID)
	}

	copied := *snap
	return &copied, nil
}

// GetByOwner implements Repository.GetByOwner
func (r *inMemoryRepo) GetByOwner(ctx context.Context, ownerID string) ([]*effects.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := make([]*effects.Snapshot, 0, len(r.store[ownerID]))
	for _, snap := range r.store[ownerID] {
		copied := *snap
		snaps = append(snaps, &copied)
	}
	return snaps, nil
}

// Delete implements Repository.Delete
func (r *inMemoryRepo) Delete(ctx context.Context, ownerID, effectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store[ownerID], effectID)
	return nil
}

// DeleteByOwner implements Repository.DeleteByOwner
func (r *inMemoryRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, ownerID)
	return nil
}
