package battles

import (
	"context"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
)

// Repository holds the latest saved state of battles in progress. Stored
// battles are snapshots: callers never share a battle with the repository.
type Repository interface {
	// Create stores a new battle
	Create(ctx context.Context, battle *combat.Battle) error

	// Get retrieves a battle by ID
	Get(ctx context.Context, id string) (*combat.Battle, error)

	// Update replaces the stored state of an existing battle
	Update(ctx context.Context, battle *combat.Battle) error

	// Delete removes a battle
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored battles
	List(ctx context.Context) ([]string, error)
}
