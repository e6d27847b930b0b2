package battle

import (
	"context"
	"strings"
	"sync"

	"github.com/KirkDiggler/battle-core/internal/catalog"
	"github.com/KirkDiggler/battle-core/internal/dice"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/KirkDiggler/battle-core/internal/events"
	"github.com/KirkDiggler/battle-core/internal/repositories/battles"
	"github.com/KirkDiggler/battle-core/internal/repositories/reports"
	"github.com/KirkDiggler/battle-core/internal/spawn"
	"github.com/KirkDiggler/battle-core/internal/uuid"
	"github.com/sirupsen/logrus"
)

// Service defines the battle service interface
type Service interface {
	// StartBattle spawns the rosters and builds the first round. The
	// returned battle is a snapshot; use GetBattle to see later turns.
	StartBattle(ctx context.Context, input *StartBattleInput) (*combat.Battle, error)

	// GetBattle returns a snapshot of the battle as of its last completed call
	GetBattle(ctx context.Context, battleID string) (*combat.Battle, error)

	// Step runs the battle until a player must act or an enemy has acted
	Step(ctx context.Context, battleID string) (*StepResult, error)

	// SelectAction stages the current player's request
	SelectAction(ctx context.Context, battleID string, req combat.ActionRequest) error

	// WithdrawAction drops the staged request
	WithdrawAction(ctx context.Context, battleID string) error

	// ConfirmAction resolves the staged request
	ConfirmAction(ctx context.Context, battleID string) (*StepResult, error)

	// SubmitAction stages and resolves a request in one call
	SubmitAction(ctx context.Context, battleID string, req combat.ActionRequest) (*StepResult, error)

	// AttemptEscape spends the current player's turn trying to flee
	AttemptEscape(ctx context.Context, battleID string) (*StepResult, error)

	// EscapeChance returns the current escape failure probability
	EscapeChance(ctx context.Context, battleID string) (float64, error)

	// EndBattle forgets a battle; finished battles keep their report
	EndBattle(ctx context.Context, battleID string) error

	// RecentReports lists the reports of finished battles, newest first
	RecentReports(ctx context.Context, limit int) ([]*reports.Report, error)
}

// StartBattleInput describes the rosters of a new battle
type StartBattleInput struct {
	Party []string // player template keys, in slot order

	// Enemies lists enemy template keys explicitly. When empty, EnemyCount
	// keys are drawn from EnemyPool.
	Enemies    []string
	EnemyPool  []string
	EnemyCount int

	// Sink receives this battle's presentation events; optional
	Sink events.Sink
}

// RollerFactory creates the random source for a new battle
type RollerFactory func(battleID string) dice.Roller

type service struct {
	battles       battles.Repository
	reports       reports.Repository
	provider      spawn.Provider
	catalog       catalog.Catalog
	rules         combat.Rules
	newRoller     RollerFactory
	uuidGenerator uuid.Generator
	log           logrus.FieldLogger

	mu      sync.Mutex
	entries map[string]*entry
}

// entry serializes access to one battle
type entry struct {
	mu         sync.Mutex
	controller *Controller
	reported   bool
	closed     bool
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Battles       battles.Repository
	Reports       reports.Repository // optional; finished battles are not archived without it
	Provider      spawn.Provider
	Catalog       catalog.Catalog
	Rules         *combat.Rules // defaults when nil
	RollerFactory RollerFactory
	UUIDGenerator uuid.Generator
	Log           logrus.FieldLogger
}

// NewService creates a new battle service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Battles == nil {
		panic("battles repository is required")
	}
	if cfg.Provider == nil {
		panic("spawn provider is required")
	}
	if cfg.Catalog == nil {
		panic("magic catalog is required")
	}

	svc := &service{
		battles:  cfg.Battles,
		reports:  cfg.Reports,
		provider: cfg.Provider,
		catalog:  cfg.Catalog,
		rules:    combat.DefaultRules(),
		entries:  make(map[string]*entry),
	}

	if cfg.Rules != nil {
		svc.rules = *cfg.Rules
	}

	if cfg.RollerFactory != nil {
		svc.newRoller = cfg.RollerFactory
	} else {
		svc.newRoller = func(string) dice.Roller { return dice.NewRandomRoller() }
	}

	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	if cfg.Log != nil {
		svc.log = cfg.Log
	} else {
		svc.log = logrus.StandardLogger()
	}

	return svc
}

// StartBattle spawns the rosters and builds the first round
func (s *service) StartBattle(ctx context.Context, input *StartBattleInput) (*combat.Battle, error) {
	if input == nil {
		return nil, battleerr.InvalidArgument("input cannot be nil")
	}
	if err := s.rules.Validate(); err != nil {
		return nil, err
	}
	if len(input.Party) == 0 {
		return nil, battleerr.Validation("party cannot be empty")
	}
	if len(input.Party) > s.rules.MaxPlayers {
		return nil, battleerr.Validationf("party of %d exceeds %d player slots", len(input.Party), s.rules.MaxPlayers)
	}

	battleID := s.uuidGenerator.New()
	roller := s.newRoller(battleID)

	enemyKeys := input.Enemies
	if len(enemyKeys) == 0 {
		drawn, err := spawn.DrawEnemies(roller, input.EnemyPool, input.EnemyCount)
		if err != nil {
			return nil, err
		}
		enemyKeys = drawn
	}
	if len(enemyKeys) > s.rules.MaxEnemies {
		return nil, battleerr.Validationf("%d enemies exceed %d enemy slots", len(enemyKeys), s.rules.MaxEnemies)
	}

	roster, err := s.spawnRoster(ctx, input.Party, enemyKeys)
	if err != nil {
		return nil, err
	}

	battle := combat.NewBattle(battleID, roster, combat.NewScheduler(roller, s.rules), s.rules)
	controller := NewController(&ControllerConfig{
		Battle:  battle,
		Roller:  roller,
		Catalog: s.catalog,
		Sink:    input.Sink,
		Rules:   s.rules,
		Log:     s.log,
	})
	if err := controller.Start(); err != nil {
		return nil, err
	}

	if err := s.battles.Create(ctx, battle); err != nil {
		return nil, battleerr.Wrap(err, "failed to store battle")
	}

	s.mu.Lock()
	s.entries[battleID] = &entry{controller: controller}
	s.mu.Unlock()

	return battle.Snapshot(), nil
}

func (s *service) spawnRoster(ctx context.Context, party, enemyKeys []string) (*combat.Roster, error) {
	roster := combat.NewRoster()

	for _, key := range party {
		tmpl, err := s.provider.PlayerTemplate(ctx, key)
		if err != nil {
			return nil, battleerr.Wrapf(err, "failed to load player %s", key)
		}
		if !tmpl.Available {
			return nil, battleerr.Validationf("player %s is not available", key)
		}
		if err := tmpl.Validate(); err != nil {
			return nil, err
		}
		for _, magicID := range tmpl.Magic {
			if _, err := s.catalog.Get(magicID); err != nil {
				return nil, battleerr.WrapWithCode(err, battleerr.CodeValidation, "player "+key+" knows missing magic")
			}
		}
		roster.Add(tmpl.Spawn())
	}

	for _, key := range enemyKeys {
		tmpl, err := s.provider.EnemyTemplate(ctx, key)
		if err != nil {
			return nil, battleerr.Wrapf(err, "failed to load enemy %s", key)
		}
		if err := tmpl.Validate(); err != nil {
			return nil, err
		}
		roster.Add(tmpl.Spawn())
	}

	return roster, nil
}

// GetBattle reads the stored snapshot, so it never waits on a turn in progress
func (s *service) GetBattle(ctx context.Context, battleID string) (*combat.Battle, error) {
	if strings.TrimSpace(battleID) == "" {
		return nil, battleerr.InvalidArgument("battle ID is required")
	}

	battle, err := s.battles.Get(ctx, battleID)
	if err != nil {
		return nil, battleerr.Wrapf(err, "failed to get battle '%s'", battleID)
	}
	return battle, nil
}

func (s *service) Step(ctx context.Context, battleID string) (*StepResult, error) {
	return s.withResult(ctx, battleID, (*Controller).Step)
}

func (s *service) SelectAction(ctx context.Context, battleID string, req combat.ActionRequest) error {
	return s.with(ctx, battleID, func(c *Controller) error {
		return c.SelectAction(req)
	})
}

func (s *service) WithdrawAction(ctx context.Context, battleID string) error {
	return s.with(ctx, battleID, (*Controller).WithdrawAction)
}

func (s *service) ConfirmAction(ctx context.Context, battleID string) (*StepResult, error) {
	return s.withResult(ctx, battleID, (*Controller).ConfirmAction)
}

func (s *service) SubmitAction(ctx context.Context, battleID string, req combat.ActionRequest) (*StepResult, error) {
	return s.withResult(ctx, battleID, func(c *Controller) (*StepResult, error) {
		return c.SubmitAction(req)
	})
}

func (s *service) AttemptEscape(ctx context.Context, battleID string) (*StepResult, error) {
	return s.withResult(ctx, battleID, (*Controller).AttemptEscape)
}

func (s *service) EscapeChance(ctx context.Context, battleID string) (float64, error) {
	var chance float64
	err := s.with(ctx, battleID, func(c *Controller) error {
		chance = c.EscapeChance()
		return nil
	})
	return chance, err
}

func (s *service) EndBattle(ctx context.Context, battleID string) error {
	s.mu.Lock()
	e, exists := s.entries[battleID]
	delete(s.entries, battleID)
	s.mu.Unlock()

	if !exists {
		return battleerr.NotFoundf("battle not found: %s", battleID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.controller.Close()

	return s.battles.Delete(ctx, battleID)
}

func (s *service) RecentReports(ctx context.Context, limit int) ([]*reports.Report, error) {
	if s.reports == nil {
		return nil, battleerr.FailedPrecondition("no report store configured")
	}
	return s.reports.ListRecent(ctx, limit)
}

func (s *service) withResult(ctx context.Context, battleID string, fn func(*Controller) (*StepResult, error)) (*StepResult, error) {
	var result *StepResult
	err := s.with(ctx, battleID, func(c *Controller) error {
		var err error
		result, err = fn(c)
		return err
	})
	return result, err
}

// with runs fn while holding the battle's lock, saves the new state and
// archives the battle if fn finished it
func (s *service) with(ctx context.Context, battleID string, fn func(*Controller) error) error {
	if err := ctx.Err(); err != nil {
		return battleerr.Wrap(err, "request cancelled")
	}

	s.mu.Lock()
	e, exists := s.entries[battleID]
	s.mu.Unlock()
	if !exists {
		return battleerr.NotFoundf("battle not found: %s", battleID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return battleerr.NotFoundf("battle not found: %s", battleID)
	}

	err := fn(e.controller)
	battle := e.controller.Battle()

	if saveErr := s.battles.Update(ctx, battle); saveErr != nil {
		s.log.WithError(saveErr).WithField("battle_id", battleID).Error("failed to save battle")
		if err == nil {
			err = battleerr.Wrap(saveErr, "failed to save battle")
		}
	}

	if battle.IsOver() && !e.reported {
		e.reported = true
		s.archive(ctx, battle)
	}

	return err
}

// archive writes the report of a finished battle. Failures are logged; the
// battle itself is already decided.
func (s *service) archive(ctx context.Context, battle *combat.Battle) {
	if s.reports == nil {
		return
	}

	participants := make([]string, 0, battle.Roster.Len())
	for _, c := range battle.Roster.All() {
		participants = append(participants, c.DisplayName())
	}

	report := &reports.Report{
		ID:           s.uuidGenerator.New(),
		BattleID:     battle.ID,
		Outcome:      battle.Outcome,
		Rounds:       battle.Round(),
		Participants: participants,
		Log:          append([]string(nil), battle.CombatLog...),
		StartedAt:    battle.CreatedAt,
	}
	if battle.EndedAt != nil {
		report.EndedAt = *battle.EndedAt
	}

	if err := s.reports.Save(ctx, report); err != nil {
		s.log.WithError(err).WithField("battle_id", battle.ID).Error("failed to save battle report")
		return
	}

	s.log.WithFields(logrus.Fields{
		"battle_id": battle.ID,
		"report_id": report.ID,
		"outcome":   battle.Outcome,
	}).Info("battle report saved")
}
