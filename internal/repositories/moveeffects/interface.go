package moveeffects

//go:generate mockgen -destination=mock/mock_repository.go -package=mockmoveeffects -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/move-engine/internal/effects"
)

// Repository persists move effect snapshots keyed by owning combatant.
// The engine only guarantees snapshot round-trip fidelity; where and how
// snapshots are stored is the host's concern.
type Repository interface {
	// Save stores one effect snapshot for an owner
	Save(ctx context.Context, ownerID string, snap *effects.Snapshot) error

	// SaveAll stores every snapshot for an owner, replacing nothing else
	SaveAll(ctx context.Context, ownerID string, snaps []*effects.Snapshot) error

	// Get retrieves a snapshot by owner and effect ID
	Get(ctx context.Context, ownerID, effectID string) (*effects.Snapshot, error)

	// GetByOwner retrieves all snapshots stored for an owner
	GetByOwner(ctx context.Context, ownerID string) ([]*effects.Snapshot, error)

	// Delete removes a snapshot; deleting a missing snapshot is not an error
	Delete(ctx context.Context, ownerID, effectID string) error

	// DeleteByOwner removes every snapshot stored for an owner
	DeleteByOwner(ctx context.Context, ownerID string) error
}
