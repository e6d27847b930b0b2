package dnd5e

import (
	"context"
	"strings"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/KirkDiggler/battle-core/internal/spawn"
)

// EnemyProvider serves SRD monsters as enemy templates. It has no players.
type EnemyProvider struct {
	client Client
}

// NewEnemyProvider creates a spawn provider backed by the SRD bestiary
func NewEnemyProvider(client Client) *EnemyProvider {
	if client == nil {
		panic("dnd5e client is required")
	}
	return &EnemyProvider{client: client}
}

// PlayerTemplate always reports not found
func (p *EnemyProvider) PlayerTemplate(_ context.Context, key string) (*spawn.PlayerTemplate, error) {
	return nil, battleerr.NotFoundf("player template %s not found", key)
}

// EnemyTemplate fetches a monster and converts it
func (p *EnemyProvider) EnemyTemplate(ctx context.Context, key string) (*spawn.EnemyTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	monster, err := p.client.GetMonster(key)
	if err != nil {
		return nil, battleerr.Wrapf(err, "failed to get monster %s", key)
	}
	if monster == nil {
		return nil, battleerr.NotFoundf("monster %s not found", key)
	}

	return MonsterToEnemy(monster), nil
}

// MonsterToEnemy maps SRD numbers onto battle stats. Armor class halves into
// defence so that a starting party can hurt low CR monsters, and the best
// action's bonus plus average damage rides on a base of 10 for attack.
func MonsterToEnemy(m *MonsterTemplate) *spawn.EnemyTemplate {
	bestBonus, bestDamage := 0, 0
	canHeal := false

	for _, action := range m.Actions {
		if action == nil {
			continue
		}

		damage := 0
		for _, d := range action.Damage {
			damage += d.Average()
		}
		if action.AttackBonus+damage > bestBonus+bestDamage {
			bestBonus, bestDamage = action.AttackBonus, damage
		}

		text := strings.ToLower(action.Name + " " + action.Description)
		if strings.Contains(text, "heal") || strings.Contains(text, "regain") {
			canHeal = true
		}
	}

	defence := m.ArmorClass / 2
	magicAttack := bestBonus + int(m.ChallengeRating*4)

	stats := combat.Stats{
		MaxHP:        m.HitPoints,
		Attack:       10 + bestBonus + bestDamage,
		Defence:      defence,
		MagicAttack:  magicAttack,
		MagicDefence: defence/2 + int(m.ChallengeRating),
		Speed:        10 + bestBonus,
	}

	template := &spawn.EnemyTemplate{
		Key:     m.Key,
		Name:    m.Name,
		Sprite:  m.Key,
		Stats:   stats,
		CanHeal: canHeal,
	}
	if canHeal {
		template.HealPower = magicAttack
	}

	return template
}

// PoolByCR lists the keys of monsters in a challenge rating range, for use
// as a random enemy pool
func (p *EnemyProvider) PoolByCR(minCR, maxCR float32) ([]string, error) {
	monsters, err := p.client.ListMonstersByCR(minCR, maxCR)
	if err != nil {
		return nil, battleerr.Wrap(err, "failed to list monsters")
	}

	keys := make([]string, 0, len(monsters))
	for _, m := range monsters {
		if m != nil && m.HitPoints > 0 {
			keys = append(keys, m.Key)
		}
	}
	if len(keys) == 0 {
		return nil, battleerr.NotFoundf("no monsters between CR %v and %v", minCR, maxCR)
	}
	return keys, nil
}
