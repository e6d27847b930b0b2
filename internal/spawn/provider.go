package spawn

import (
	"context"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

//go:generate mockgen -destination=mock/mock_provider.go -package=mockspawn -source=provider.go

// Provider supplies the attribute bundles combatants are spawned from
type Provider interface {
	PlayerTemplate(ctx context.Context, key string) (*PlayerTemplate, error)
	EnemyTemplate(ctx context.Context, key string) (*EnemyTemplate, error)
}

// PlayerTemplate describes a player character that can join a battle
type PlayerTemplate struct {
	Key       string       `json:"key" yaml:"key"`
	Name      string       `json:"name" yaml:"name"`
	Sprite    string       `json:"sprite" yaml:"sprite"`
	Stats     combat.Stats `json:"stats" yaml:"stats"`
	Magic     []int        `json:"magic" yaml:"magic"`
	Available bool         `json:"available" yaml:"available"`
}

// EnemyTemplate describes a kind of enemy
type EnemyTemplate struct {
	Key       string       `json:"key" yaml:"key"`
	Name      string       `json:"name" yaml:"name"`
	Sprite    string       `json:"sprite" yaml:"sprite"`
	Stats     combat.Stats `json:"stats" yaml:"stats"`
	CanHeal   bool         `json:"can_heal" yaml:"can_heal"`
	HealPower int          `json:"heal_power" yaml:"heal_power"`
}

// Validate checks the template can produce a legal combatant
func (t *PlayerTemplate) Validate() error {
	if t.Key == "" {
		return battleerr.Validation("player template key is required")
	}
	if !t.Available {
		return battleerr.Validationf("player %s is not available", t.Key)
	}
	return validateStats(t.Key, t.Stats)
}

// Validate checks the template can produce a legal combatant
func (t *EnemyTemplate) Validate() error {
	if t.Key == "" {
		return battleerr.Validation("enemy template key is required")
	}
	if t.HealPower < 0 {
		return battleerr.Validationf("enemy %s has negative heal power", t.Key)
	}
	return validateStats(t.Key, t.Stats)
}

// Spawn creates a fresh player combatant from the template
func (t *PlayerTemplate) Spawn() *combat.Combatant {
	c := combat.NewPlayer(displayName(t.Name, t.Key), t.Key, t.Stats, t.Magic)
	c.Sprite = t.Sprite
	return c
}

// Spawn creates a fresh enemy combatant from the template
func (t *EnemyTemplate) Spawn() *combat.Combatant {
	c := combat.NewEnemy(displayName(t.Name, t.Key), t.Key, t.Stats, t.CanHeal, t.HealPower)
	c.Sprite = t.Sprite
	return c
}

func validateStats(key string, s combat.Stats) error {
	if s.MaxHP <= 0 {
		return battleerr.Validationf("template %s needs positive max hp", key)
	}
	if s.MaxMP < 0 || s.Attack < 0 || s.Defence < 0 || s.MagicAttack < 0 || s.MagicDefence < 0 || s.Speed < 0 {
		return battleerr.Validationf("template %s has negative stats", key)
	}
	return nil
}

func displayName(name, key string) string {
	if name != "" {
		return name
	}
	return key
}
