package battles

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// inMemoryRepository copies battles on the way in and on the way out, so
// a stored snapshot is never mutated after it is saved.
type inMemoryRepository struct {
	mu      sync.RWMutex
	battles map[string]*combat.Battle
}

// NewInMemoryRepository creates a new in-memory battle repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		battles: make(map[string]*combat.Battle),
	}
}

func (r *inMemoryRepository) Create(ctx context.Context, battle *combat.Battle) error {
	if err := checkBattle(battle); err != nil {
		return err
	}
	snapshot := battle.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.battles[battle.ID]; exists {
		return battleerr.AlreadyExistsf("battle with ID %s already exists", battle.ID)
	}
	r.battles[battle.ID] = snapshot

	return nil
}

func (r *inMemoryRepository) Get(ctx context.Context, id string) (*combat.Battle, error) {
	r.mu.RLock()
	stored, exists := r.battles[id]
	r.mu.RUnlock()

	if !exists {
		return nil, battleerr.NotFoundf("battle not found: %s", id)
	}
	return stored.Snapshot(), nil
}

func (r *inMemoryRepository) Update(ctx context.Context, battle *combat.Battle) error {
	if err := checkBattle(battle); err != nil {
		return err
	}
	snapshot := battle.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.battles[battle.ID]; !exists {
		return battleerr.NotFoundf("battle not found: %s", battle.ID)
	}
	r.battles[battle.ID] = snapshot

	return nil
}

func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.battles[id]; !exists {
		return battleerr.NotFoundf("battle not found: %s", id)
	}
	delete(r.battles, id)

	return nil
}

func (r *inMemoryRepository) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.battles))
	for id := range r.battles {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}

func checkBattle(battle *combat.Battle) error {
	if battle == nil || battle.ID == "" {
		return battleerr.InvalidArgument("battle must have an ID")
	}
	return nil
}
