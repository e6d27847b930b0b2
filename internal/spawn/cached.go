package spawn

import (
	"context"
	"sync"

	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"golang.org/x/sync/singleflight"
)

// CachedProvider memoizes templates from a slower provider. Concurrent
// lookups of the same key share a single upstream fetch.
type CachedProvider struct {
	upstream Provider
	group    singleflight.Group

	mu      sync.RWMutex
	players map[string]*PlayerTemplate
	enemies map[string]*EnemyTemplate
}

// NewCachedProvider wraps upstream with a cache
func NewCachedProvider(upstream Provider) *CachedProvider {
	if upstream == nil {
		panic("upstream provider is required")
	}

	return &CachedProvider{
		upstream: upstream,
		players:  make(map[string]*PlayerTemplate),
		enemies:  make(map[string]*EnemyTemplate),
	}
}

func (c *CachedProvider) PlayerTemplate(ctx context.Context, key string) (*PlayerTemplate, error) {
	c.mu.RLock()
	cached, ok := c.players[key]
	c.mu.RUnlock()
	if ok {
		copied := *cached
		return &copied, nil
	}

	val, err := c.do(ctx, "player:"+key, func(fetchCtx context.Context) (any, error) {
		t, err := c.upstream.PlayerTemplate(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.players[key] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	t, ok := val.(*PlayerTemplate)
	if !ok {
		return nil, battleerr.Internal("unexpected result type from template fetch")
	}
	copied := *t
	return &copied, nil
}

func (c *CachedProvider) EnemyTemplate(ctx context.Context, key string) (*EnemyTemplate, error) {
	c.mu.RLock()
	cached, ok := c.enemies[key]
	c.mu.RUnlock()
	if ok {
		copied := *cached
		return &copied, nil
	}

	val, err := c.do(ctx, "enemy:"+key, func(fetchCtx context.Context) (any, error) {
		t, err := c.upstream.EnemyTemplate(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.enemies[key] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	t, ok := val.(*EnemyTemplate)
	if !ok {
		return nil, battleerr.Internal("unexpected result type from template fetch")
	}
	copied := *t
	return &copied, nil
}

// Forget drops every cached template
func (c *CachedProvider) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.players = make(map[string]*PlayerTemplate)
	c.enemies = make(map[string]*EnemyTemplate)
}

// do runs fn once per key across concurrent callers, returning early if
// the caller's context ends first. The shared fetch outlives any single
// caller's cancellation, so one caller giving up does not fail the others.
func (c *CachedProvider) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return fn(fetchCtx)
	})

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, battleerr.Wrapf(ctx.Err(), "gave up waiting for %s", key)
	}
}
