package battle_test

import (
	"testing"

	"github.com/KirkDiggler/battle-core/internal/catalog"
	"github.com/KirkDiggler/battle-core/internal/dice"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	"github.com/KirkDiggler/battle-core/internal/events"
	"github.com/KirkDiggler/battle-core/internal/services/battle"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// zeroJitter is the die face that maps to a speed jitter of 0
const zeroJitter = 11

const (
	magicFire = iota
	magicBlizzard
	magicCure
	magicCura
	magicRaise
)

func testCatalog(t *testing.T) catalog.Catalog {
	cat, err := catalog.New([]*combat.Magic{
		{ID: magicFire, Name: "Fire", Cost: 4, Strength: 14},
		{ID: magicBlizzard, Name: "Blizzard", Cost: 9, Strength: 10, AffectsAll: true},
		{ID: magicCure, Name: "Cure", Cost: 5, Strength: 30, AffectsPlayers: true, Restores: true},
		{ID: magicCura, Name: "Cura", Cost: 12, Strength: 20, AffectsAll: true, AffectsPlayers: true, Restores: true},
		{ID: magicRaise, Name: "Raise", Cost: 15, Strength: 25, AffectsPlayers: true, Restores: true, AffectsDead: true},
	})
	require.NoError(t, err)
	return cat
}

func hero(speed int) *combat.Combatant {
	c := combat.NewPlayer("hero", "knight", combat.Stats{
		MaxHP: 100, Attack: 12, Defence: 10, MagicDefence: 4, Speed: speed,
	}, nil)
	c.Sprite = "knight"
	return c
}

func mage(speed int) *combat.Combatant {
	c := combat.NewPlayer("mage", "mage", combat.Stats{
		MaxHP: 70, MaxMP: 40, Attack: 6, Defence: 5, MagicAttack: 10, MagicDefence: 9, Speed: speed,
	}, []int{magicFire, magicBlizzard, magicCure, magicCura, magicRaise})
	c.Sprite = "mage"
	return c
}

// fallen returns an unconscious player
func fallen(speed int) *combat.Combatant {
	c := combat.NewPlayer("squire", "squire", combat.Stats{
		MaxHP: 60, Attack: 8, Defence: 6, Speed: speed,
	}, nil)
	c.Sprite = "squire"
	c.SetHP(0)
	c.Player.Conscious = false
	c.Player.InCombat = false
	return c
}

func slime(name string, hp, speed int) *combat.Combatant {
	c := combat.NewEnemy(name, "slime", combat.Stats{
		MaxHP: hp, Attack: 16, Defence: 10, MagicDefence: 2, Speed: speed,
	}, false, 0)
	c.Sprite = "slime"
	return c
}

type fixture struct {
	controller *battle.Controller
	battle     *combat.Battle
	roller     *dice.MockRoller
	recorder   *events.Recorder
}

// newFixture builds a started battle. Every combatant gets zero speed
// jitter in the first round, so turn order follows base speed.
func newFixture(t *testing.T, combatants ...*combat.Combatant) *fixture {
	t.Helper()

	roster := combat.NewRoster()
	for _, c := range combatants {
		roster.Add(c)
	}

	roller := dice.NewMockRoller()
	rules := combat.DefaultRules()
	b := combat.NewBattle("battle-1", roster, combat.NewScheduler(roller, rules), rules)
	recorder := events.NewRecorder()
	logger, _ := logtest.NewNullLogger()

	controller := battle.NewController(&battle.ControllerConfig{
		Battle:  b,
		Roller:  roller,
		Catalog: testCatalog(t),
		Sink:    recorder,
		Rules:   rules,
		Log:     logger,
	})

	jitter(roller, len(combatants))
	require.NoError(t, controller.Start())

	return &fixture{controller: controller, battle: b, roller: roller, recorder: recorder}
}

// jitter queues zero-jitter rolls for n combatants
func jitter(roller *dice.MockRoller, n int) {
	for i := 0; i < n; i++ {
		roller.SetNextRoll(zeroJitter)
	}
}

func (f *fixture) step(t *testing.T) *battle.StepResult {
	t.Helper()
	result, err := f.controller.Step()
	require.NoError(t, err)
	return result
}

func (f *fixture) submit(t *testing.T, req combat.ActionRequest) *battle.StepResult {
	t.Helper()
	result, err := f.controller.SubmitAction(req)
	require.NoError(t, err)
	return result
}

func (f *fixture) get(t *testing.T, id int) *combat.Combatant {
	t.Helper()
	c, ok := f.battle.Roster.Lookup(id)
	require.True(t, ok)
	return c
}
