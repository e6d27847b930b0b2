// Package autopilot picks actions for players when nobody is at the
// controls, for simulations and soak runs.
package autopilot

import (
	"sort"

	"github.com/KirkDiggler/battle-core/internal/catalog"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
)

// DefaultLowHealth is the HP ratio at which an ally is worth healing
const DefaultLowHealth = 0.35

// Policy is a fixed priority list: revive the fallen, heal the hurt, sweep
// a crowd with area magic, burn the weakest enemy, then hit it.
type Policy struct {
	catalog   catalog.Catalog
	lowHealth float64
}

// New creates a policy that draws magic from cat
func New(cat catalog.Catalog) *Policy {
	if cat == nil {
		panic("catalog is required")
	}
	return &Policy{catalog: cat, lowHealth: DefaultLowHealth}
}

// WithLowHealth changes the healing threshold
func (p *Policy) WithLowHealth(ratio float64) *Policy {
	p.lowHealth = ratio
	return p
}

// Choose returns the request the actor should submit. It falls back to
// guarding when no enemy is left to hit.
func (p *Policy) Choose(roster *combat.Roster, actor *combat.Combatant) combat.ActionRequest {
	spells := p.affordable(actor)

	if fallen := firstFallen(roster); fallen != nil {
		for _, m := range spells {
			if m.Revives() && !m.AffectsAll {
				return combat.CastAction(m.ID, fallen.ID)
			}
		}
	}

	if hurt := p.mostHurt(roster); hurt != nil {
		for _, m := range spells {
			if m.Restores && !m.Revives() && m.AffectsPlayers {
				if m.AffectsAll {
					return combat.CastAllAction(m.ID)
				}
				return combat.CastAction(m.ID, hurt.ID)
			}
		}
	}

	target := weakest(roster.Living(combat.SideEnemy))
	if target == nil {
		return combat.GuardAction()
	}

	if len(roster.Living(combat.SideEnemy)) > 1 {
		for _, m := range spells {
			if offensive(m) && m.AffectsAll {
				return combat.CastAllAction(m.ID)
			}
		}
	}

	for _, m := range spells {
		if offensive(m) && !m.AffectsAll {
			return combat.CastAction(m.ID, target.ID)
		}
	}

	return combat.AttackAction(target.ID)
}

// affordable lists the magic the actor knows and has MP for, strongest first
func (p *Policy) affordable(actor *combat.Combatant) []*combat.Magic {
	if !actor.CanUseMagic() {
		return nil
	}

	var out []*combat.Magic
	for _, m := range p.catalog.List() {
		if actor.KnowsMagic(m.ID) && actor.CurrentMP >= m.Cost {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Strength > out[j].Strength })
	return out
}

func (p *Policy) mostHurt(roster *combat.Roster) *combat.Combatant {
	var hurt *combat.Combatant
	for _, c := range roster.Living(combat.SidePlayer) {
		if c.HPRatio() > p.lowHealth {
			continue
		}
		if hurt == nil || c.HPRatio() < hurt.HPRatio() {
			hurt = c
		}
	}
	return hurt
}

func firstFallen(roster *combat.Roster) *combat.Combatant {
	for _, c := range roster.Players() {
		if !c.Player.Conscious {
			return c
		}
	}
	return nil
}

func weakest(enemies []*combat.Combatant) *combat.Combatant {
	var target *combat.Combatant
	for _, e := range enemies {
		if target == nil || e.CurrentHP < target.CurrentHP {
			target = e
		}
	}
	return target
}

func offensive(m *combat.Magic) bool {
	return !m.Restores && !m.AffectsPlayers
}
