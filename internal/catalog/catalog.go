package catalog

import (
	"sort"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// Catalog is a read-only lookup of magic descriptors
type Catalog interface {
	Get(id int) (*combat.Magic, error)
	List() []*combat.Magic
}

type staticCatalog struct {
	magic map[int]*combat.Magic
}

// New builds a catalog from descriptors. Duplicate IDs and spells that
// cost a negative amount are configuration errors.
func New(magic []*combat.Magic) (Catalog, error) {
	c := &staticCatalog{magic: make(map[int]*combat.Magic, len(magic))}

	for _, m := range magic {
		if m == nil {
			continue
		}
		if _, exists := c.magic[m.ID]; exists {
			return nil, battleerr.Validationf("duplicate magic id %d (%s)", m.ID, m.Name)
		}
		if m.Cost < 0 {
			return nil, battleerr.Validationf("magic %d (%s) has negative cost %d", m.ID, m.Name, m.Cost)
		}
		if m.Strength < 0 {
			return nil, battleerr.Validationf("magic %d (%s) has negative strength %d", m.ID, m.Name, m.Strength)
		}
		copied := *m
		c.magic[m.ID] = &copied
	}

	return c, nil
}

// Get returns a copy of the descriptor for id
func (c *staticCatalog) Get(id int) (*combat.Magic, error) {
	m, ok := c.magic[id]
	if !ok {
		return nil, battleerr.NotFoundf("magic %d not found", id)
	}
	copied := *m
	return &copied, nil
}

// List returns every descriptor ordered by ID
func (c *staticCatalog) List() []*combat.Magic {
	out := make([]*combat.Magic, 0, len(c.magic))
	for _, m := range c.magic {
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
