// Package ai decides what an enemy does on its turn.
//
// Each enemy runs a small state machine over its AIMemory. Observe moves the
// machine based on the state of the field, then SelectTarget picks the
// combatant the enemy acts on for the state it settled in.
package ai

import (
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// Decision is what an enemy will do this turn
type Decision struct {
	State  combat.AIState
	Target *combat.Combatant
	Heal   bool // true when the target is an ally to heal
}

// Engine evaluates enemy state machines. It keeps no battle state of its
// own; everything it remembers lives in each enemy's AIMemory.
type Engine struct {
	defensiveThreshold float64
	finishingThreshold float64
}

// NewEngine creates an engine using the thresholds from rules
func NewEngine(rules combat.Rules) *Engine {
	return &Engine{
		defensiveThreshold: rules.DefensiveThreshold,
		finishingThreshold: rules.FinishingThreshold,
	}
}

// Decide observes the field and selects this turn's target
func (e *Engine) Decide(enemy *combat.Combatant, roster *combat.Roster) (*Decision, error) {
	if enemy == nil || !enemy.IsEnemy() {
		return nil, battleerr.InvalidArgument("decision engine requires an enemy")
	}

	e.Observe(enemy, roster)
	state := enemy.Enemy.Memory.State

	target, err := e.SelectTarget(enemy, roster)
	if err != nil {
		return nil, err
	}

	return &Decision{
		State:  state,
		Target: target,
		Heal:   state == combat.AIStateDefensive,
	}, nil
}

// Observe re-evaluates the enemy's state. Checks run in priority order:
// healing a badly hurt ally, dropping stale aggro, finishing off a nearly
// dead player, then falling back to neutral.
func (e *Engine) Observe(enemy *combat.Combatant, roster *combat.Roster) {
	memory := &enemy.Enemy.Memory

	if enemy.Enemy.CanHeal {
		if ally := e.lowestAlly(roster); ally != nil {
			memory.Mark(combat.AIStateDefensive, ally.ID)
			return
		}
	}

	if memory.State == combat.AIStateAggressive {
		if marked, ok := roster.Get(memory.Marker); !ok || !marked.IsPlayer() || !marked.IsAlive() {
			memory.State = combat.AIStateNeutral
		}
	}

	// Aggro overrides everything below
	if memory.State == combat.AIStateAggressive {
		return
	}

	if victim := e.easiestKill(roster); victim != nil {
		memory.Mark(combat.AIStateFinishing, victim.ID)
		return
	}

	memory.State = combat.AIStateNeutral
}

// SelectTarget returns the combatant the enemy acts on in its current state
func (e *Engine) SelectTarget(enemy *combat.Combatant, roster *combat.Roster) (*combat.Combatant, error) {
	memory := &enemy.Enemy.Memory
	state := memory.State
	marker := memory.Marker

	var target *combat.Combatant

	switch state {
	case combat.AIStateNeutral:
		target = strongestPlayer(roster)
	case combat.AIStateAggressive:
		target = consciousPlayer(roster, marker)
		// Aggro is single use, hit or miss
		memory.Reset()
	case combat.AIStateFinishing:
		target = consciousPlayer(roster, marker)
	case combat.AIStateDefensive:
		if ally, ok := roster.Get(marker); ok && ally.IsEnemy() && ally.IsAlive() {
			target = ally
		}
	}

	if target == nil {
		return nil, &battleerr.NoTargetFoundError{
			EnemyID: enemy.ID,
			State:   string(state),
			Marker:  marker,
		}
	}

	return target, nil
}

// lowestAlly finds the living enemy at or under the defensive threshold
// with the lowest absolute HP. Later enemies win ties.
func (e *Engine) lowestAlly(roster *combat.Roster) *combat.Combatant {
	var lowest *combat.Combatant
	for _, ally := range roster.Living(combat.SideEnemy) {
		if float64(ally.CurrentHP) > float64(ally.MaxHP)*e.defensiveThreshold {
			continue
		}
		if lowest == nil || ally.CurrentHP <= lowest.CurrentHP {
			lowest = ally
		}
	}
	return lowest
}

// easiestKill finds the conscious player at or under the finishing threshold
// with the lowest HP plus defence. Earlier players win ties.
func (e *Engine) easiestKill(roster *combat.Roster) *combat.Combatant {
	var victim *combat.Combatant
	for _, p := range roster.Living(combat.SidePlayer) {
		if float64(p.CurrentHP) > float64(p.MaxHP)*e.finishingThreshold {
			continue
		}
		if victim == nil || p.CurrentHP+p.Defence < victim.CurrentHP+victim.Defence {
			victim = p
		}
	}
	return victim
}

// strongestPlayer finds the conscious player with the highest HP plus
// attack. Earlier players win ties.
func strongestPlayer(roster *combat.Roster) *combat.Combatant {
	var best *combat.Combatant
	for _, p := range roster.Living(combat.SidePlayer) {
		if best == nil || p.CurrentHP+p.Attack > best.CurrentHP+best.Attack {
			best = p
		}
	}
	return best
}

func consciousPlayer(roster *combat.Roster, id int) *combat.Combatant {
	p, ok := roster.Get(id)
	if !ok || !p.IsPlayer() || !p.IsAlive() {
		return nil
	}
	return p
}
