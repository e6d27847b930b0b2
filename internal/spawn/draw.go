package spawn

import (
	"github.com/KirkDiggler/battle-core/internal/dice"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// DrawEnemies picks count enemy template keys uniformly from pool, with
// replacement
func DrawEnemies(roller dice.Roller, pool []string, count int) ([]string, error) {
	if count < 1 {
		return nil, battleerr.Validation("at least one enemy is required")
	}
	if len(pool) == 0 {
		return nil, battleerr.Validation("enemy pool is empty")
	}

	keys := make([]string, 0, count)
	for i := 0; i < count; i++ {
		idx, err := dice.IntRange(roller, 0, len(pool))
		if err != nil {
			return nil, battleerr.Wrap(err, "failed to draw enemy")
		}
		keys = append(keys, pool[idx])
	}
	return keys, nil
}
