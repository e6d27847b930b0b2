package catalog_test

import (
	"testing"

	"github.com/KirkDiggler/battle-core/internal/catalog"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Get(t *testing.T) {
	cat, err := catalog.New([]*combat.Magic{
		{ID: 2, Name: "Cure", Cost: 4, Strength: 30, AffectsPlayers: true, Restores: true},
		{ID: 1, Name: "Fire", Cost: 5, Strength: 20},
		nil,
	})
	require.NoError(t, err)

	fire, err := cat.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Fire", fire.Name)

	fire.Strength = 999
	again, err := cat.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 20, again.Strength, "descriptors are read-only")

	_, err = cat.Get(42)
	assert.True(t, battleerr.IsNotFound(err))

	list := cat.List()
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 2, list[1].ID)
}

func TestCatalog_RejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name  string
		magic []*combat.Magic
	}{
		{name: "duplicate id", magic: []*combat.Magic{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}},
		{name: "negative cost", magic: []*combat.Magic{{ID: 1, Cost: -1}}},
		{name: "negative strength", magic: []*combat.Magic{{ID: 1, Strength: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.New(tt.magic)
			assert.True(t, battleerr.IsValidation(err))
		})
	}
}
