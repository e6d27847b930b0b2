package main

import (
	"context"
	"time"

	"github.com/KirkDiggler/battle-core/internal/autopilot"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/KirkDiggler/battle-core/internal/services/battle"
)

// simulator plays whole battles through the service with the autopilot at
// the controls of every player
type simulator struct {
	svc      battle.Service
	policy   *autopilot.Policy
	maxSteps int
	wait     bool
}

func (s *simulator) run(ctx context.Context, input *battle.StartBattleInput) (*combat.Battle, error) {
	b, err := s.svc.StartBattle(ctx, input)
	if err != nil {
		return nil, err
	}
	battleID := b.ID
	defer func() {
		_ = s.svc.EndBattle(context.Background(), battleID)
	}()

	for i := 0; i < s.maxSteps && !b.IsOver(); i++ {
		result, err := s.svc.Step(ctx, battleID)
		if err != nil {
			return b, err
		}

		if result.Phase == combat.PhasePlayerSelectMove {
			result, err = s.playerTurn(ctx, battleID)
			if err != nil {
				return b, err
			}
		}

		if b, err = s.svc.GetBattle(ctx, battleID); err != nil {
			return nil, err
		}

		if s.wait && result.Cooldown > 0 {
			select {
			case <-ctx.Done():
				return b, ctx.Err()
			case <-time.After(result.Cooldown):
			}
		}
	}

	return b, nil
}

// playerTurn submits the autopilot's choice, guarding if it was refused
func (s *simulator) playerTurn(ctx context.Context, battleID string) (*battle.StepResult, error) {
	b, err := s.svc.GetBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}
	actor, err := b.CurrentActor()
	if err != nil {
		return nil, err
	}

	result, err := s.svc.SubmitAction(ctx, battleID, s.policy.Choose(b.Roster, actor))
	if battleerr.IsInvalidArgument(err) || battleerr.IsNotFound(err) {
		return s.svc.SubmitAction(ctx, battleID, combat.GuardAction())
	}
	return result, err
}
