package combat_test

import (
	"fmt"
	"testing"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBattle(t *testing.T, combatants ...*combat.Combatant) *combat.Battle {
	t.Helper()

	roster := combat.NewRoster()
	for _, c := range combatants {
		roster.Add(c)
	}

	scheduler, _ := newScheduler(flatRolls(len(combatants) * 4))
	_, err := scheduler.BuildRound(roster.Active())
	require.NoError(t, err)

	return combat.NewBattle("battle-1", roster, scheduler, combat.DefaultRules())
}

func TestBattle_CheckBattleEnd(t *testing.T) {
	t.Run("ongoing", func(t *testing.T) {
		b := newBattle(t, newPlayer("hero", 100, 10), newEnemy("slime", 30, 5))

		ended, outcome := b.CheckBattleEnd()
		assert.False(t, ended)
		assert.Equal(t, combat.OutcomeNone, outcome)
	})

	t.Run("victory when no enemy remains", func(t *testing.T) {
		slime := newEnemy("slime", 30, 5)
		b := newBattle(t, newPlayer("hero", 100, 10), slime)
		b.Roster.Remove(slime.ID)

		ended, outcome := b.CheckBattleEnd()
		assert.True(t, ended)
		assert.Equal(t, combat.OutcomeVictory, outcome)
	})

	t.Run("defeat is checked before victory", func(t *testing.T) {
		hero := newPlayer("hero", 100, 10)
		slime := newEnemy("slime", 30, 5)
		b := newBattle(t, hero, slime)

		hero.SetHP(0)
		hero.Player.Conscious = false
		slime.Enemy.Alive = false

		ended, outcome := b.CheckBattleEnd()
		assert.True(t, ended)
		assert.Equal(t, combat.OutcomeDefeat, outcome)
	})
}

func TestBattle_End(t *testing.T) {
	b := newBattle(t, newPlayer("hero", 100, 10), newEnemy("slime", 30, 5))
	pending := combat.GuardAction()
	b.Pending = &pending

	b.End(combat.OutcomeEscaped)
	assert.Equal(t, combat.PhaseVictory, b.Phase)
	assert.True(t, b.IsOver())
	assert.NotNil(t, b.EndedAt)
	assert.Nil(t, b.Pending)

	b.End(combat.OutcomeDefeat)
	assert.Equal(t, combat.PhaseDefeat, b.Phase)
}

func TestBattle_CurrentActor(t *testing.T) {
	hero := newPlayer("hero", 100, 20)
	b := newBattle(t, hero, newEnemy("slime", 30, 5))

	actor, err := b.CurrentActor()
	require.NoError(t, err)
	assert.Same(t, hero, actor)
}

func TestBattle_AddCombatLogEntry(t *testing.T) {
	b := newBattle(t, newPlayer("hero", 100, 10), newEnemy("slime", 30, 5))

	for i := 0; i < 25; i++ {
		b.AddCombatLogEntry(fmt.Sprintf("entry %d", i))
	}

	require.Len(t, b.CombatLog, 20)
	assert.Equal(t, "Round 1: entry 5", b.CombatLog[0])
	assert.Equal(t, "Round 1: entry 24", b.CombatLog[19])
}

func TestBattle_TurnOrderSprites(t *testing.T) {
	hero := newPlayer("hero", 100, 20)
	hero.Sprite = "hero.png"
	slime := newEnemy("slime", 30, 5)
	slime.Sprite = "slime.png"

	b := newBattle(t, slime, hero)
	assert.Equal(t, []string{"hero.png", "slime.png"}, b.TurnOrderSprites())
}

func TestBattle_Snapshot(t *testing.T) {
	mage := combat.NewPlayer("mage", "player-mage", combat.Stats{MaxHP: 60, MaxMP: 20, Speed: 10}, []int{1})
	slime := newEnemy("slime", 30, 5)
	b := newBattle(t, mage, slime)
	b.AddCombatLogEntry("opening")
	pending := combat.AttackAction(slime.ID)
	b.Pending = &pending

	snap := b.Snapshot()

	mage.SetHP(12)
	mage.Player.Magic[0] = 7
	slime.Enemy.Memory.MarkAttacker(mage.ID)
	b.Roster.Remove(slime.ID)
	b.Pending.TargetID = 99
	b.AddCombatLogEntry("later")
	b.End(combat.OutcomeVictory)

	assert.Equal(t, combat.PhaseStart, snap.Phase)
	assert.Nil(t, snap.EndedAt)
	assert.Equal(t, []string{"Round 1: opening"}, snap.CombatLog)
	assert.Equal(t, slime.ID, snap.Pending.TargetID)
	assert.Equal(t, 1, snap.Round())

	snapMage, ok := snap.Roster.Get(mage.ID)
	require.True(t, ok)
	assert.NotSame(t, mage, snapMage)
	assert.Equal(t, 60, snapMage.CurrentHP)
	assert.Equal(t, []int{1}, snapMage.Player.Magic)

	snapSlime, ok := snap.Roster.Get(slime.ID)
	require.True(t, ok, "removal after the snapshot is not visible")
	assert.Equal(t, combat.AIStateNeutral, snapSlime.Enemy.Memory.State)

	actor, err := snap.CurrentActor()
	require.NoError(t, err)
	assert.Equal(t, mage.ID, actor.ID)
}

func TestScheduler_SnapshotCannotRoll(t *testing.T) {
	b := newBattle(t, newPlayer("hero", 100, 10), newEnemy("slime", 30, 5))

	snap := b.Snapshot()
	assert.Equal(t, b.Schedule.Order(), snap.Schedule.Order())

	_, err := snap.Schedule.BuildRound(snap.Roster.Active())
	assert.True(t, battleerr.IsFailedPrecondition(err))
}

func TestPhase_IsTerminal(t *testing.T) {
	assert.False(t, combat.PhaseStart.IsTerminal())
	assert.False(t, combat.PhaseEnemyTurn.IsTerminal())
	assert.True(t, combat.PhaseVictory.IsTerminal())
	assert.True(t, combat.PhaseDefeat.IsTerminal())
}

func TestRules_Validate(t *testing.T) {
	require.NoError(t, combat.DefaultRules().Validate())

	tests := []struct {
		name   string
		modify func(r *combat.Rules)
	}{
		{name: "inverted jitter", modify: func(r *combat.Rules) { r.JitterMin = 5; r.JitterMax = 0 }},
		{name: "inverted damage band", modify: func(r *combat.Rules) { r.DamageFactorMin = 1.2 }},
		{name: "threshold above one", modify: func(r *combat.Rules) { r.DefensiveThreshold = 1.5 }},
		{name: "negative finishing threshold", modify: func(r *combat.Rules) { r.FinishingThreshold = -0.1 }},
		{name: "escape base above one", modify: func(r *combat.Rules) { r.EscapeBase = 2 }},
		{name: "negative cooldown", modify: func(r *combat.Rules) { r.TurnCooldown = -1 }},
		{name: "no player slots", modify: func(r *combat.Rules) { r.MaxPlayers = 0 }},
		{name: "no log", modify: func(r *combat.Rules) { r.LogSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := combat.DefaultRules()
			tt.modify(&rules)
			assert.Error(t, rules.Validate())
		})
	}
}
