// Package resolver applies attacks, healing, revival and guarding to combatants.
//
// The resolver trusts its caller for action legality such as magic point
// cost. It only refuses operations whose target is in the wrong life state,
// and it never keeps a reference to a combatant past a call.
package resolver

import (
	"fmt"
	"math"

	"github.com/KirkDiggler/battle-core/internal/dice"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/KirkDiggler/battle-core/internal/events"
)

// Resolver resolves actions for one battle
type Resolver struct {
	battleID  string
	roller    dice.Roller
	sink      events.Sink
	factorMin float64
	factorMax float64
}

// Config holds the dependencies of a Resolver
type Config struct {
	BattleID string
	Roller   dice.Roller
	Sink     events.Sink
	Rules    combat.Rules
}

// New creates a resolver
func New(cfg *Config) *Resolver {
	if cfg.Roller == nil {
		panic("roller is required")
	}

	sink := cfg.Sink
	if sink == nil {
		sink = events.Discard
	}

	return &Resolver{
		battleID:  cfg.BattleID,
		roller:    cfg.Roller,
		sink:      sink,
		factorMin: cfg.Rules.DamageFactorMin,
		factorMax: cfg.Rules.DamageFactorMax,
	}
}

// Attack deals round((power - defence) * f) damage to defender, where f is
// drawn from the damage band. Guarding halves physical damage. A player
// hitting an enemy becomes that enemy's marked attacker.
func (r *Resolver) Attack(attacker, defender *combat.Combatant, power int, usesMagic bool) (int, error) {
	if !defender.IsAlive() {
		return 0, battleerr.InvalidArgumentf("%s cannot be attacked", defender.DisplayName())
	}

	defence := defender.Defence
	if usesMagic {
		defence = defender.MagicDefence
	}

	factor, err := dice.FloatRange(r.roller, r.factorMin, r.factorMax)
	if err != nil {
		return 0, battleerr.Wrap(err, "failed to roll damage factor")
	}

	damage := int(math.Round(float64(power-defence) * factor))
	if defender.Guarding && !usesMagic {
		damage /= 2
	}
	if damage < 0 {
		damage = 0
	}

	hp := defender.SetHP(defender.CurrentHP - damage)

	if attacker.IsPlayer() && defender.IsEnemy() {
		defender.Enemy.Memory.MarkAttacker(attacker.ID)
	}

	if err := r.emit(events.NewHealthChanged(r.battleID, defender.ID, hp, defender.MaxHP)); err != nil {
		return damage, err
	}
	if err := r.message("%s has attacked %s! Dealt %d damage!", attacker.DisplayName(), defender.DisplayName(), damage); err != nil {
		return damage, err
	}

	if hp == 0 {
		if err := r.KillCharacter(defender); err != nil {
			return damage, err
		}
	}

	return damage, nil
}

// AttackAll attacks every living combatant in targets. Each target rolls
// its own damage factor.
func (r *Resolver) AttackAll(attacker *combat.Combatant, targets []*combat.Combatant, power int, usesMagic bool) (map[int]int, error) {
	dealt := make(map[int]int, len(targets))
	for _, target := range targets {
		if !target.IsAlive() {
			continue
		}
		damage, err := r.Attack(attacker, target, power, usesMagic)
		if err != nil {
			return dealt, err
		}
		dealt[target.ID] = damage
	}
	return dealt, nil
}

// Heal restores power HP to a living target, capped at max HP. It never
// brings back an unconscious target.
func (r *Resolver) Heal(caster, target *combat.Combatant, power int) (int, error) {
	if !target.IsAlive() {
		return 0, nil
	}
	if power < 0 {
		power = 0
	}

	before := target.CurrentHP
	hp := target.SetHP(before + power)
	healed := hp - before

	if err := r.emit(events.NewHealthChanged(r.battleID, target.ID, hp, target.MaxHP)); err != nil {
		return healed, err
	}
	if err := r.message("%s healed %s for %d HP!", caster.DisplayName(), target.DisplayName(), healed); err != nil {
		return healed, err
	}

	return healed, nil
}

// HealAll heals every living combatant in targets
func (r *Resolver) HealAll(caster *combat.Combatant, targets []*combat.Combatant, power int) (map[int]int, error) {
	healed := make(map[int]int, len(targets))
	for _, target := range targets {
		if !target.IsAlive() {
			continue
		}
		amount, err := r.Heal(caster, target, power)
		if err != nil {
			return healed, err
		}
		healed[target.ID] = amount
	}
	return healed, nil
}

// Revive brings an unconscious player back with power HP, never less than 1.
// The player sits out until the next round starts.
func (r *Resolver) Revive(target *combat.Combatant, power int) (int, error) {
	if !target.IsPlayer() {
		return 0, battleerr.InvalidArgumentf("%s cannot be revived", target.DisplayName())
	}
	if target.Player.Conscious {
		return 0, battleerr.InvalidArgumentf("%s is not unconscious", target.DisplayName())
	}

	if power < 1 {
		power = 1
	}

	hp := target.SetHP(target.CurrentHP + power)
	target.Player.Conscious = hp > 0
	target.Player.InCombat = false

	if err := r.emit(events.NewHealthChanged(r.battleID, target.ID, hp, target.MaxHP)); err != nil {
		return hp, err
	}
	if err := r.message("%s has been revived!", target.DisplayName()); err != nil {
		return hp, err
	}

	return hp, nil
}

// Guard raises the target's guard until the start of its next turn
func (r *Resolver) Guard(target *combat.Combatant) error {
	target.Guarding = true
	return r.message("%s is guarding!", target.DisplayName())
}

// FinishGuard lowers the target's guard. Calling it on an unguarded
// combatant does nothing.
func (r *Resolver) FinishGuard(target *combat.Combatant) {
	target.Guarding = false
}

// SpendMagic deducts a spell's cost from the caster
func (r *Resolver) SpendMagic(caster *combat.Combatant, cost int) error {
	mp := caster.SetMP(caster.CurrentMP - cost)
	return r.emit(events.NewMagicChanged(r.battleID, caster.ID, mp, caster.MaxMP))
}

// KillCharacter handles a combatant reaching 0 HP. Enemies die for good and
// become eligible for removal; players fall unconscious.
func (r *Resolver) KillCharacter(c *combat.Combatant) error {
	c.Guarding = false

	switch {
	case c.IsEnemy():
		c.Enemy.Alive = false
		return r.message("%s has been destroyed!", c.DisplayName())
	case c.IsPlayer():
		c.Player.Conscious = false
		c.Player.InCombat = false
		return r.message("%s has been knocked out!", c.DisplayName())
	default:
		return battleerr.Internalf("combatant %d has no side state", c.ID)
	}
}

func (r *Resolver) message(format string, args ...any) error {
	return r.emit(events.NewMessage(r.battleID, fmt.Sprintf(format, args...)))
}

func (r *Resolver) emit(event events.Event) error {
	if err := r.sink.Emit(event); err != nil {
		return battleerr.Wrapf(err, "failed to emit %s", event.GetType())
	}
	return nil
}
