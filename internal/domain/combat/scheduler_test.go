package combat_test

import (
	"testing"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_BuildRound(t *testing.T) {
	tests := []struct {
		name      string
		speeds    []int
		rolls     []int
		wantOrder []int
		wantSpeed []int
	}{
		{
			name:      "descending by speed",
			speeds:    []int{10, 30, 20},
			rolls:     flatRolls(3),
			wantOrder: []int{1, 2, 0},
			wantSpeed: []int{30, 20, 10},
		},
		{
			name:      "ties keep insertion order",
			speeds:    []int{10, 20, 20, 5},
			rolls:     flatRolls(4),
			wantOrder: []int{1, 2, 0, 3},
			wantSpeed: []int{20, 20, 10, 5},
		},
		{
			name:      "jitter can reorder",
			speeds:    []int{10, 15},
			rolls:     []int{20, 1}, // +9 and -10
			wantOrder: []int{0, 1},
			wantSpeed: []int{19, 5},
		},
		{
			name:      "jitter lands on a tie",
			speeds:    []int{12, 10},
			rolls:     []int{9, zeroJitter}, // -2 and 0
			wantOrder: []int{0, 1},
			wantSpeed: []int{10, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := combat.NewRoster()
			for i, speed := range tt.speeds {
				roster.Add(newEnemy(string(rune('a'+i)), 10, speed))
			}

			scheduler, roller := newScheduler(tt.rolls)
			order, err := scheduler.BuildRound(roster.Active())
			require.NoError(t, err)

			assert.Equal(t, tt.wantOrder, ids(order))
			speeds := make([]int, len(order))
			for i, e := range order {
				speeds[i] = e.Speed
			}
			assert.Equal(t, tt.wantSpeed, speeds)
			assert.Equal(t, 1, scheduler.Round())

			rolls, _ := roller.Remaining()
			assert.Zero(t, rolls)
		})
	}
}

func TestScheduler_BuildRoundContainsEveryLiveCombatant(t *testing.T) {
	roster := combat.NewRoster()
	roster.Add(newPlayer("hero", 100, 12))
	roster.Add(newPlayer("mage", 60, 8))
	roster.Add(newEnemy("slime", 30, 9))
	dead := roster.Add(newEnemy("bat", 10, 30))
	roster.Remove(dead)

	scheduler, _ := newScheduler(flatRolls(3))
	order, err := scheduler.BuildRound(append(roster.Active(), nil))
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 1, 2}, ids(order))
	for i := 1; i < len(order); i++ {
		assert.GreaterOrEqual(t, order[i-1].Speed, order[i].Speed)
	}
	assert.True(t, order[0].IsPlayer)
}

func TestScheduler_BuildRoundRejectsEmptyRoster(t *testing.T) {
	scheduler, _ := newScheduler(nil)

	_, err := scheduler.BuildRound(nil)
	require.Error(t, err)
	assert.True(t, battleerr.IsValidation(err))

	_, err = scheduler.Current()
	var empty *battleerr.EmptyScheduleError
	assert.ErrorAs(t, err, &empty)
	assert.True(t, battleerr.IsInternal(battleerr.Wrap(err, "current")))
}

func TestScheduler_AdvanceStartsNewRound(t *testing.T) {
	roster := combat.NewRoster()
	hero := newPlayer("hero", 100, 20)
	roster.Add(hero)
	roster.Add(newEnemy("slime", 30, 10))

	scheduler, roller := newScheduler(flatRolls(2))
	_, err := scheduler.BuildRound(roster.Active())
	require.NoError(t, err)

	current, err := scheduler.Current()
	require.NoError(t, err)
	assert.Equal(t, hero.ID, current.CombatantID)

	idx, err := scheduler.Advance(roster)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, scheduler.Round())

	// Revived mid-round: conscious but sitting out until the next round
	hero.Player.InCombat = false

	// Second round rolls the slime ahead of the hero
	roller.SetRolls([]int{1, 20})
	idx, err = scheduler.Advance(roster)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, scheduler.Round())
	assert.Equal(t, []int{1, 0}, ids(scheduler.Order()))
	assert.True(t, hero.Player.InCombat)
}

func TestScheduler_AdvanceKeepsUnconsciousPlayersOutOfCombat(t *testing.T) {
	roster := combat.NewRoster()
	hero := newPlayer("hero", 100, 20)
	roster.Add(hero)
	roster.Add(newEnemy("slime", 30, 10))

	hero.SetHP(0)
	hero.Player.Conscious = false
	hero.Player.InCombat = false

	scheduler, _ := newScheduler(flatRolls(4))
	_, err := scheduler.BuildRound(roster.Active())
	require.NoError(t, err)

	_, err = scheduler.Advance(roster)
	require.NoError(t, err)
	_, err = scheduler.Advance(roster)
	require.NoError(t, err)

	assert.False(t, hero.Player.InCombat)
	assert.Len(t, scheduler.Order(), 2, "unconscious players stay in the order and are skipped")
}

func TestScheduler_RemoveCombatant(t *testing.T) {
	tests := []struct {
		name        string
		advance     int
		remove      int
		wantOrder   []int
		wantCurrent int // combatant ID after the next Advance
	}{
		{
			name:        "remove ahead of cursor",
			advance:     0,
			remove:      2,
			wantOrder:   []int{0, 1, 3},
			wantCurrent: 1,
		},
		{
			name:        "remove behind cursor",
			advance:     2,
			remove:      0,
			wantOrder:   []int{1, 2, 3},
			wantCurrent: 3,
		},
		{
			name:        "remove current entry",
			advance:     1,
			remove:      1,
			wantOrder:   []int{0, 2, 3},
			wantCurrent: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := combat.NewRoster()
			for i, speed := range []int{40, 30, 20, 10} {
				roster.Add(newEnemy(string(rune('a'+i)), 10, speed))
			}

			scheduler, _ := newScheduler(flatRolls(4))
			_, err := scheduler.BuildRound(roster.Active())
			require.NoError(t, err)

			for i := 0; i < tt.advance; i++ {
				_, err = scheduler.Advance(roster)
				require.NoError(t, err)
			}

			roster.Remove(tt.remove)
			scheduler.RemoveCombatant(tt.remove)
			assert.Equal(t, tt.wantOrder, ids(scheduler.Order()))

			_, err = scheduler.Advance(roster)
			require.NoError(t, err)
			current, err := scheduler.Current()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, current.CombatantID)
		})
	}
}

func TestScheduler_CurrentAfterRemovingFirstEntry(t *testing.T) {
	roster := combat.NewRoster()
	roster.Add(newEnemy("a", 10, 20))
	roster.Add(newEnemy("b", 10, 10))

	scheduler, _ := newScheduler(flatRolls(2))
	_, err := scheduler.BuildRound(roster.Active())
	require.NoError(t, err)

	scheduler.RemoveCombatant(0)
	_, err = scheduler.Current()
	assert.True(t, battleerr.IsFailedPrecondition(err))

	_, err = scheduler.Advance(roster)
	require.NoError(t, err)
	current, err := scheduler.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, current.CombatantID)
}
