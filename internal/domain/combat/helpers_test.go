package combat_test

import (
	"github.com/KirkDiggler/battle-core/internal/dice"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
)

// zeroJitter is the die face that maps to a jitter of 0 in [-10, 10)
const zeroJitter = 11

func newPlayer(name string, hp, speed int) *combat.Combatant {
	return combat.NewPlayer(name, "player-"+name, combat.Stats{
		MaxHP:   hp,
		MaxMP:   10,
		Attack:  10,
		Defence: 5,
		Speed:   speed,
	}, nil)
}

func newEnemy(name string, hp, speed int) *combat.Combatant {
	return combat.NewEnemy(name, "enemy-"+name, combat.Stats{
		MaxHP:   hp,
		Attack:  8,
		Defence: 4,
		Speed:   speed,
	}, false, 0)
}

func flatRolls(n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = zeroJitter
	}
	return rolls
}

func newScheduler(rolls []int) (*combat.Scheduler, *dice.MockRoller) {
	roller := dice.NewMockRoller()
	roller.SetRolls(rolls)
	return combat.NewScheduler(roller, combat.DefaultRules()), roller
}

func ids(order []combat.TurnEntry) []int {
	out := make([]int, len(order))
	for i, e := range order {
		out[i] = e.CombatantID
	}
	return out
}
