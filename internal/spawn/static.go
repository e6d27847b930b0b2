package spawn

import (
	"context"

	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

type staticProvider struct {
	players map[string]*PlayerTemplate
	enemies map[string]*EnemyTemplate
}

// NewStaticProvider serves templates from memory, usually loaded from game data
func NewStaticProvider(players []*PlayerTemplate, enemies []*EnemyTemplate) (Provider, error) {
	p := &staticProvider{
		players: make(map[string]*PlayerTemplate, len(players)),
		enemies: make(map[string]*EnemyTemplate, len(enemies)),
	}

	for _, t := range players {
		if t.Key == "" {
			return nil, battleerr.Validation("player template key is required")
		}
		if _, exists := p.players[t.Key]; exists {
			return nil, battleerr.Validationf("duplicate player template %s", t.Key)
		}
		p.players[t.Key] = t
	}

	for _, t := range enemies {
		if t.Key == "" {
			return nil, battleerr.Validation("enemy template key is required")
		}
		if _, exists := p.enemies[t.Key]; exists {
			return nil, battleerr.Validationf("duplicate enemy template %s", t.Key)
		}
		p.enemies[t.Key] = t
	}

	return p, nil
}

func (p *staticProvider) PlayerTemplate(_ context.Context, key string) (*PlayerTemplate, error) {
	t, ok := p.players[key]
	if !ok {
		return nil, battleerr.NotFoundf("player template %s not found", key)
	}
	copied := *t
	copied.Magic = append([]int(nil), t.Magic...)
	return &copied, nil
}

func (p *staticProvider) EnemyTemplate(_ context.Context, key string) (*EnemyTemplate, error) {
	t, ok := p.enemies[key]
	if !ok {
		return nil, battleerr.NotFoundf("enemy template %s not found", key)
	}
	copied := *t
	return &copied, nil
}

type chainProvider struct {
	providers []Provider
}

// Chain asks each provider in turn, moving on only when a template is not found
func Chain(providers ...Provider) Provider {
	return &chainProvider{providers: providers}
}

func (c *chainProvider) PlayerTemplate(ctx context.Context, key string) (*PlayerTemplate, error) {
	for _, p := range c.providers {
		t, err := p.PlayerTemplate(ctx, key)
		if battleerr.IsNotFound(err) {
			continue
		}
		return t, err
	}
	return nil, battleerr.NotFoundf("player template %s not found", key)
}

func (c *chainProvider) EnemyTemplate(ctx context.Context, key string) (*EnemyTemplate, error) {
	for _, p := range c.providers {
		t, err := p.EnemyTemplate(ctx, key)
		if battleerr.IsNotFound(err) {
			continue
		}
		return t, err
	}
	return nil, battleerr.NotFoundf("enemy template %s not found", key)
}
