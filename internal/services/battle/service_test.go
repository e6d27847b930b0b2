package battle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/battle-core/internal/dice"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/KirkDiggler/battle-core/internal/events"
	"github.com/KirkDiggler/battle-core/internal/repositories/battles"
	"github.com/KirkDiggler/battle-core/internal/repositories/reports"
	mockreports "github.com/KirkDiggler/battle-core/internal/repositories/reports/mock"
	"github.com/KirkDiggler/battle-core/internal/services/battle"
	"github.com/KirkDiggler/battle-core/internal/spawn"
	"github.com/KirkDiggler/battle-core/internal/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
)

type serviceHarness struct {
	svc    battle.Service
	roller *dice.MockRoller
	hook   *logtest.Hook
}

func testProvider(t *testing.T) spawn.Provider {
	provider, err := spawn.NewStaticProvider(
		[]*spawn.PlayerTemplate{
			{
				Key: "knight", Name: "knight", Sprite: "knight", Available: true,
				Stats: combat.Stats{MaxHP: 100, Attack: 100, Defence: 10, MagicDefence: 4, Speed: 20},
			},
			{
				Key: "cleric", Name: "cleric", Sprite: "cleric", Available: true,
				Stats: combat.Stats{MaxHP: 80, MaxMP: 30, Attack: 8, Defence: 8, MagicAttack: 6, Speed: 12},
				Magic: []int{magicCure},
			},
			{
				Key: "thief", Name: "thief", Sprite: "thief",
				Stats: combat.Stats{MaxHP: 70, Attack: 10, Defence: 6, Speed: 25},
			},
			{
				Key: "hexer", Name: "hexer", Sprite: "hexer", Available: true,
				Stats: combat.Stats{MaxHP: 60, MaxMP: 20, Attack: 5, Defence: 5, Speed: 10},
				Magic: []int{99},
			},
		},
		[]*spawn.EnemyTemplate{
			{Key: "slime", Name: "slime", Sprite: "slime", Stats: combat.Stats{MaxHP: 50, Attack: 16, Defence: 10, MagicDefence: 2, Speed: 5}},
			{Key: "bat", Name: "bat", Sprite: "bat", Stats: combat.Stats{MaxHP: 20, Attack: 10, Defence: 4, Speed: 30}},
		},
	)
	require.NoError(t, err)
	return provider
}

func newService(t *testing.T, store reports.Repository) *serviceHarness {
	t.Helper()

	roller := dice.NewMockRoller()
	logger, hook := logtest.NewNullLogger()

	svc := battle.NewService(&battle.ServiceConfig{
		Battles:       battles.NewInMemoryRepository(),
		Reports:       store,
		Provider:      testProvider(t),
		Catalog:       testCatalog(t),
		RollerFactory: func(string) dice.Roller { return roller },
		UUIDGenerator: uuid.NewSequenceGenerator("battle"),
		Log:           logger,
	})

	return &serviceHarness{svc: svc, roller: roller, hook: hook}
}

// battle fetches the latest stored snapshot
func (h *serviceHarness) battle(t *testing.T, battleID string) *combat.Battle {
	t.Helper()
	b, err := h.svc.GetBattle(context.Background(), battleID)
	require.NoError(t, err)
	return b
}

// knightVsSlime starts a one on one battle the knight wins with one blow
func (h *serviceHarness) knightVsSlime(t *testing.T) *combat.Battle {
	t.Helper()
	jitter(h.roller, 2)
	b, err := h.svc.StartBattle(context.Background(), &battle.StartBattleInput{
		Party:   []string{"knight"},
		Enemies: []string{"slime"},
	})
	require.NoError(t, err)
	return b
}

// win plays the knight's killing blow
func (h *serviceHarness) win(t *testing.T, battleID string) {
	t.Helper()
	ctx := context.Background()

	_, err := h.svc.Step(ctx, battleID)
	require.NoError(t, err)

	h.roller.SetNextFloat(0)
	result, err := h.svc.SubmitAction(ctx, battleID, combat.AttackAction(1))
	require.NoError(t, err)
	require.Equal(t, combat.PhaseVictory, result.Phase)
}

func TestService_StartBattle(t *testing.T) {
	h := newService(t, nil)
	recorder := events.NewRecorder()

	jitter(h.roller, 3)
	b, err := h.svc.StartBattle(context.Background(), &battle.StartBattleInput{
		Party:   []string{"knight", "cleric"},
		Enemies: []string{"slime"},
		Sink:    recorder,
	})
	require.NoError(t, err)

	assert.Equal(t, "battle-1", b.ID)
	assert.Equal(t, combat.PhaseStart, b.Phase)
	assert.Equal(t, 1, b.Round())
	require.Equal(t, 3, b.Roster.Len())
	assert.Equal(t, "knight", b.Roster.All()[0].TemplateKey)
	assert.Equal(t, []int{magicCure}, b.Roster.All()[1].Player.Magic)
	assert.Len(t, recorder.OfType(events.EventTypeTurnOrderChanged), 1)

	stored := h.battle(t, b.ID)
	assert.NotSame(t, b, stored)
	assert.Equal(t, b.ID, stored.ID)
	assert.Equal(t, b.Schedule.Order(), stored.Schedule.Order())

	b.Roster.All()[0].SetHP(1)
	assert.Equal(t, 100, h.battle(t, b.ID).Roster.All()[0].CurrentHP, "returned battles are copies")
}

func TestService_StartBattle_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input *battle.StartBattleInput
		check func(error) bool
	}{
		{
			name:  "nil input",
			check: battleerr.IsInvalidArgument,
		},
		{
			name:  "empty party",
			input: &battle.StartBattleInput{Enemies: []string{"slime"}},
			check: battleerr.IsValidation,
		},
		{
			name: "too many players",
			input: &battle.StartBattleInput{
				Party:   []string{"knight", "knight", "cleric", "cleric", "knight"},
				Enemies: []string{"slime"},
			},
			check: battleerr.IsValidation,
		},
		{
			name: "too many enemies",
			input: &battle.StartBattleInput{
				Party:   []string{"knight"},
				Enemies: []string{"slime", "slime", "bat", "bat", "slime"},
			},
			check: battleerr.IsValidation,
		},
		{
			name:  "no enemies and no pool",
			input: &battle.StartBattleInput{Party: []string{"knight"}, EnemyCount: 2},
			check: battleerr.IsValidation,
		},
		{
			name:  "unavailable player",
			input: &battle.StartBattleInput{Party: []string{"thief"}, Enemies: []string{"slime"}},
			check: battleerr.IsValidation,
		},
		{
			name:  "unknown player",
			input: &battle.StartBattleInput{Party: []string{"bard"}, Enemies: []string{"slime"}},
			check: battleerr.IsNotFound,
		},
		{
			name:  "unknown enemy",
			input: &battle.StartBattleInput{Party: []string{"knight"}, Enemies: []string{"dragon"}},
			check: battleerr.IsNotFound,
		},
		{
			name:  "player knows missing magic",
			input: &battle.StartBattleInput{Party: []string{"hexer"}, Enemies: []string{"slime"}},
			check: battleerr.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newService(t, nil)

			b, err := h.svc.StartBattle(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestService_StartBattle_DrawsEnemiesFromPool(t *testing.T) {
	h := newService(t, nil)

	// Pool draws: face 2 is "bat", face 1 is "slime"
	h.roller.SetRolls([]int{2, 1})
	jitter(h.roller, 3)

	b, err := h.svc.StartBattle(context.Background(), &battle.StartBattleInput{
		Party:      []string{"knight"},
		EnemyPool:  []string{"slime", "bat"},
		EnemyCount: 2,
	})
	require.NoError(t, err)

	enemies := b.Roster.Enemies()
	require.Len(t, enemies, 2)
	assert.Equal(t, "bat", enemies[0].TemplateKey)
	assert.Equal(t, "slime", enemies[1].TemplateKey)

	rolls, _ := h.roller.Remaining()
	assert.Zero(t, rolls)
}

func TestService_UnknownBattle(t *testing.T) {
	h := newService(t, nil)
	ctx := context.Background()

	_, err := h.svc.Step(ctx, "nope")
	assert.True(t, battleerr.IsNotFound(err))

	err = h.svc.SelectAction(ctx, "nope", combat.GuardAction())
	assert.True(t, battleerr.IsNotFound(err))

	_, err = h.svc.EscapeChance(ctx, "nope")
	assert.True(t, battleerr.IsNotFound(err))

	assert.True(t, battleerr.IsNotFound(h.svc.EndBattle(ctx, "nope")))

	_, err = h.svc.GetBattle(ctx, "nope")
	assert.True(t, battleerr.IsNotFound(err))

	_, err = h.svc.GetBattle(ctx, " ")
	assert.True(t, battleerr.IsInvalidArgument(err))
}

func TestService_CancelledContext(t *testing.T) {
	h := newService(t, nil)
	b := h.knightVsSlime(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.svc.Step(ctx, b.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, combat.PhaseStart, h.battle(t, b.ID).Phase)
}

func TestService_PlayerActions(t *testing.T) {
	h := newService(t, nil)
	b := h.knightVsSlime(t)
	ctx := context.Background()

	result, err := h.svc.Step(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, combat.PhasePlayerSelectMove, result.Phase)

	chance, err := h.svc.EscapeChance(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, chance, 1e-9)

	require.NoError(t, h.svc.SelectAction(ctx, b.ID, combat.GuardAction()))
	require.NoError(t, h.svc.WithdrawAction(ctx, b.ID))
	assert.True(t, battleerr.IsFailedPrecondition(h.svc.WithdrawAction(ctx, b.ID)))

	require.NoError(t, h.svc.SelectAction(ctx, b.ID, combat.GuardAction()))
	result, err = h.svc.ConfirmAction(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, combat.PhasePlayerAttack, result.Phase)
	assert.True(t, h.battle(t, b.ID).Roster.All()[0].Guarding)

	// The slime hits the guarding knight: (16 - 10) * 0.85 rounds to 5, halved to 2
	h.roller.SetNextFloat(0)
	jitter(h.roller, 2)
	result, err = h.svc.Step(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ActorID)
	assert.Equal(t, 98, h.battle(t, b.ID).Roster.All()[0].CurrentHP)

	_, err = h.svc.Step(ctx, b.ID)
	require.NoError(t, err)

	h.roller.SetNextFloat(0.9)
	result, err = h.svc.AttemptEscape(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, combat.OutcomeEscaped, h.battle(t, b.ID).Outcome)
	assert.Equal(t, combat.PhaseVictory, result.Phase)
}

func TestService_ArchivesFinishedBattleOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockreports.NewMockRepository(ctrl)
	h := newService(t, store)
	b := h.knightVsSlime(t)

	store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, report *reports.Report) error {
			assert.Equal(t, "battle-2", report.ID)
			assert.Equal(t, b.ID, report.BattleID)
			assert.Equal(t, combat.OutcomeVictory, report.Outcome)
			assert.Equal(t, 1, report.Rounds)
			assert.Equal(t, []string{"Knight", "Slime"}, report.Participants)
			assert.Contains(t, report.Log, "Round 1: Knight has attacked Slime! Dealt 77 damage!")
			assert.Equal(t, b.CreatedAt, report.StartedAt)
			assert.False(t, report.EndedAt.IsZero())
			return nil
		}).
		Times(1)

	h.win(t, b.ID)

	_, err := h.svc.Step(context.Background(), b.ID)
	assert.True(t, battleerr.IsFailedPrecondition(err))
}

func TestService_ReportFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockreports.NewMockRepository(ctrl)
	h := newService(t, store)
	b := h.knightVsSlime(t)

	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	h.win(t, b.ID)

	var logged bool
	for _, entry := range h.hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "failed to save battle report" {
			logged = true
			assert.Equal(t, b.ID, entry.Data["battle_id"])
		}
	}
	assert.True(t, logged)
}

func TestService_RecentReports(t *testing.T) {
	t.Run("without a store", func(t *testing.T) {
		h := newService(t, nil)
		_, err := h.svc.RecentReports(context.Background(), 10)
		assert.True(t, battleerr.IsFailedPrecondition(err))
	})

	t.Run("lists finished battles", func(t *testing.T) {
		h := newService(t, reports.NewInMemoryRepository(&reports.RealTimeProvider{}))
		b := h.knightVsSlime(t)
		h.win(t, b.ID)

		recent, err := h.svc.RecentReports(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, b.ID, recent[0].BattleID)
		assert.Equal(t, combat.OutcomeVictory, recent[0].Outcome)
	})
}

func TestService_GetBattleWhileTurnsResolve(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	svc := battle.NewService(&battle.ServiceConfig{
		Battles:       battles.NewInMemoryRepository(),
		Provider:      testProvider(t),
		Catalog:       testCatalog(t),
		RollerFactory: func(string) dice.Roller { return dice.NewSeededRoller(7) },
		UUIDGenerator: uuid.NewSequenceGenerator("battle"),
		Log:           logger,
	})
	ctx := context.Background()

	b, err := svc.StartBattle(ctx, &battle.StartBattleInput{
		Party:   []string{"cleric"},
		Enemies: []string{"slime", "bat"},
	})
	require.NoError(t, err)

	done := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		for i := 0; i < 200; i++ {
			result, err := svc.Step(ctx, b.ID)
			if battleerr.IsFailedPrecondition(err) {
				return nil
			}
			if err != nil {
				return err
			}
			if result.Phase != combat.PhasePlayerSelectMove {
				continue
			}
			if _, err := svc.SubmitAction(ctx, b.ID, combat.GuardAction()); err != nil {
				return err
			}
		}
		return nil
	})

	reads := 0
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}

		snapshot, err := svc.GetBattle(ctx, b.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, snapshot.Phase)
		for _, c := range snapshot.Roster.All() {
			assert.GreaterOrEqual(t, c.CurrentHP, 0)
			assert.LessOrEqual(t, c.CurrentHP, c.MaxHP)
		}
		reads++
	}
	require.NoError(t, g.Wait())
	assert.Positive(t, reads)

	final, err := svc.GetBattle(ctx, b.ID)
	require.NoError(t, err)
	assert.Greater(t, final.Round(), 1)

	hp := final.Roster.All()[0].CurrentHP
	final.Roster.All()[0].SetHP(hp + 1)
	again, err := svc.GetBattle(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, hp, again.Roster.All()[0].CurrentHP)
}

func TestService_EndBattle(t *testing.T) {
	h := newService(t, nil)
	b := h.knightVsSlime(t)
	ctx := context.Background()

	require.NoError(t, h.svc.EndBattle(ctx, b.ID))

	_, err := h.svc.GetBattle(ctx, b.ID)
	assert.True(t, battleerr.IsNotFound(err))

	_, err = h.svc.Step(ctx, b.ID)
	assert.True(t, battleerr.IsNotFound(err))
}
