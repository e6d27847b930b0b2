package combat_test

import (
	"testing"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer(t *testing.T) {
	magic := []int{1, 2}
	p := combat.NewPlayer("Hero", "hero", combat.Stats{MaxHP: 100, MaxMP: 20, Attack: 12, Speed: 9}, magic)
	magic[0] = 99

	assert.True(t, p.IsPlayer())
	assert.False(t, p.IsEnemy())
	assert.Equal(t, combat.NoTarget, p.ID)
	assert.Equal(t, 100, p.CurrentHP)
	assert.Equal(t, 20, p.CurrentMP)
	assert.True(t, p.Player.Conscious)
	assert.True(t, p.Player.InCombat)
	assert.Equal(t, []int{1, 2}, p.Player.Magic, "magic list is copied")
	assert.True(t, p.CanUseMagic())
	assert.True(t, p.KnowsMagic(2))
	assert.False(t, p.KnowsMagic(3))
	require.NoError(t, p.Validate())
}

func TestNewEnemy(t *testing.T) {
	e := combat.NewEnemy("Slime", "slime", combat.Stats{MaxHP: 50, MaxMP: 30, MagicAttack: 7}, true, 0)

	assert.True(t, e.IsEnemy())
	assert.Equal(t, 0, e.MaxMP, "enemies have no magic points")
	assert.Equal(t, 7, e.Enemy.HealPower, "heal power falls back to magic attack")
	assert.Equal(t, combat.AIStateNeutral, e.Enemy.Memory.State)
	assert.Equal(t, combat.NoTarget, e.Enemy.Memory.Marker)
	assert.False(t, e.CanUseMagic())
	assert.False(t, e.KnowsMagic(1))
	require.NoError(t, e.Validate())
}

func TestCombatant_SetHPClamps(t *testing.T) {
	tests := []struct {
		name string
		hp   int
		want int
	}{
		{name: "within range", hp: 40, want: 40},
		{name: "below zero", hp: -15, want: 0},
		{name: "above max", hp: 500, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer("hero", 100, 10)
			assert.Equal(t, tt.want, p.SetHP(tt.hp))
			assert.Equal(t, tt.want, p.CurrentHP)
		})
	}
}

func TestCombatant_SetMPClamps(t *testing.T) {
	p := newPlayer("hero", 100, 10)

	assert.Equal(t, 0, p.SetMP(-3))
	assert.Equal(t, 10, p.SetMP(11))
	assert.Equal(t, 4, p.SetMP(4))
}

func TestCombatant_CanAct(t *testing.T) {
	p := newPlayer("hero", 100, 10)
	assert.True(t, p.CanAct())

	p.Player.InCombat = false
	assert.False(t, p.CanAct(), "revived players sit out the rest of the round")

	e := newEnemy("slime", 10, 5)
	assert.True(t, e.CanAct())
	e.Removed = true
	assert.False(t, e.CanAct())
	assert.False(t, e.IsAlive())
}

func TestCombatant_Validate(t *testing.T) {
	p := newPlayer("hero", 100, 10)
	p.CurrentHP = 0
	assert.Error(t, p.Validate(), "conscious player at 0 hp")

	p.Player.Conscious = false
	assert.NoError(t, p.Validate())

	p.CurrentMP = 99
	assert.Error(t, p.Validate())

	e := newEnemy("slime", 10, 5)
	e.CurrentHP = 0
	assert.Error(t, e.Validate(), "living enemy at 0 hp")

	broken := &combat.Combatant{Side: combat.SidePlayer}
	assert.Error(t, broken.Validate())
}

func TestAIMemory(t *testing.T) {
	m := combat.NewAIMemory()

	m.MarkAttacker(3)
	assert.Equal(t, combat.AIStateAggressive, m.State)
	assert.Equal(t, 3, m.Marker)

	m.MarkAttacker(5)
	assert.Equal(t, 5, m.Marker, "a new attacker overrides the old mark")

	m.Mark(combat.AIStateFinishing, 2)
	assert.Equal(t, combat.AIStateFinishing, m.State)

	m.Reset()
	assert.Equal(t, combat.NewAIMemory(), m)
}

func TestMagic(t *testing.T) {
	revive := combat.Magic{Restores: true, AffectsDead: true, AffectsPlayers: true}
	assert.True(t, revive.Revives())
	assert.Equal(t, combat.SidePlayer, revive.TargetSide())

	fire := combat.Magic{}
	assert.False(t, fire.Revives())
	assert.Equal(t, combat.SideEnemy, fire.TargetSide())
}

func TestActionRequest_String(t *testing.T) {
	assert.Equal(t, "attack(2)", combat.AttackAction(2).String())
	assert.Equal(t, "cast(1, 3)", combat.CastAction(1, 3).String())
	assert.Equal(t, "cast(4, all)", combat.CastAllAction(4).String())
	assert.Equal(t, "guard", combat.GuardAction().String())
	assert.Equal(t, "flee", combat.FleeAction().String())
}
