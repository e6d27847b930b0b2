package battle

import (
	"fmt"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/sirupsen/logrus"
)

// SelectAction validates and stages the current player's request. A staged
// request can be replaced or withdrawn until it is confirmed.
func (c *Controller) SelectAction(req combat.ActionRequest) error {
	actor, err := c.awaitingPlayer()
	if err != nil {
		return err
	}

	if err := c.validateAction(actor, req); err != nil {
		return err
	}

	staged := req
	c.battle.Pending = &staged

	c.log.WithFields(logrus.Fields{
		"actor":  actor.ID,
		"action": req.String(),
	}).Debug("action staged")

	return nil
}

// WithdrawAction drops the staged request
func (c *Controller) WithdrawAction() error {
	if _, err := c.awaitingPlayer(); err != nil {
		return err
	}
	if c.battle.Pending == nil {
		return battleerr.FailedPrecondition("no action is staged")
	}

	c.battle.Pending = nil
	return nil
}

// ConfirmAction resolves the staged request and ends the player's turn.
// Once resolution starts it runs to completion.
func (c *Controller) ConfirmAction() (*StepResult, error) {
	actor, err := c.awaitingPlayer()
	if err != nil {
		return nil, err
	}
	if c.battle.Pending == nil {
		return nil, battleerr.FailedPrecondition("no action is staged")
	}

	req := *c.battle.Pending
	if err := c.validateAction(actor, req); err != nil {
		c.battle.Pending = nil
		return nil, err
	}
	c.battle.Pending = nil

	if err := c.setPhase(combat.PhasePlayerAttack); err != nil {
		return nil, err
	}

	if req.Kind == combat.ActionFlee {
		return c.escape(actor)
	}

	if err := c.resolveAction(actor, req); err != nil {
		return nil, battleerr.Wrapf(err, "failed to resolve %s", req)
	}

	return c.finishTurn(actor)
}

// SubmitAction selects and confirms in one call
func (c *Controller) SubmitAction(req combat.ActionRequest) (*StepResult, error) {
	if err := c.SelectAction(req); err != nil {
		return nil, err
	}
	return c.ConfirmAction()
}

// awaitingPlayer returns the player whose request the battle is waiting on
func (c *Controller) awaitingPlayer() (*combat.Combatant, error) {
	if err := c.checkRunning(); err != nil {
		return nil, err
	}
	if c.battle.Phase != combat.PhasePlayerSelectMove {
		return nil, battleerr.FailedPreconditionf("not waiting on a player (phase %s)", c.battle.Phase)
	}

	actor, err := c.battle.CurrentActor()
	if err != nil {
		return nil, c.internal(err, "failed to find current actor")
	}
	if !actor.IsPlayer() {
		return nil, c.internal(battleerr.Internalf("combatant %d is not a player", actor.ID), "phase out of sync with turn order")
	}
	return actor, nil
}

// validateAction rejects requests that cannot be carried out. It never
// mutates the battle.
func (c *Controller) validateAction(actor *combat.Combatant, req combat.ActionRequest) error {
	switch req.Kind {
	case combat.ActionGuard, combat.ActionFlee:
		return nil

	case combat.ActionAttack:
		target, err := c.target(req.TargetID)
		if err != nil {
			return err
		}
		if !target.IsEnemy() || !target.IsAlive() {
			return battleerr.InvalidArgumentf("%s cannot be attacked", target.DisplayName())
		}
		return nil

	case combat.ActionCast:
		_, err := c.castPlan(actor, req)
		return err

	default:
		return battleerr.InvalidArgumentf("unknown action %q", req.Kind)
	}
}

// castPlan validates a cast and returns the targets it will affect
func (c *Controller) castPlan(actor *combat.Combatant, req combat.ActionRequest) ([]*combat.Combatant, error) {
	if !actor.CanUseMagic() {
		return nil, battleerr.InvalidArgumentf("%s cannot use magic", actor.DisplayName())
	}
	if !actor.KnowsMagic(req.MagicID) {
		return nil, battleerr.InvalidArgumentf("%s does not know magic %d", actor.DisplayName(), req.MagicID)
	}

	magic, err := c.catalog.Get(req.MagicID)
	if err != nil {
		return nil, err
	}
	if actor.CurrentMP < magic.Cost {
		return nil, battleerr.InvalidArgumentf("%s needs %d MP to cast %s, has %d",
			actor.DisplayName(), magic.Cost, magic.Name, actor.CurrentMP)
	}

	if magic.AffectsAll != req.TargetsAll {
		if magic.AffectsAll {
			return nil, battleerr.InvalidArgumentf("%s affects every target", magic.Name)
		}
		return nil, battleerr.InvalidArgumentf("%s needs a single target", magic.Name)
	}

	if magic.AffectsAll {
		targets := []*combat.Combatant{}
		for _, candidate := range c.battle.Roster.Side(magic.TargetSide()) {
			if castable(magic, candidate) {
				targets = append(targets, candidate)
			}
		}
		if len(targets) == 0 {
			return nil, battleerr.InvalidArgumentf("%s has nothing to affect", magic.Name)
		}
		return targets, nil
	}

	target, err := c.target(req.TargetID)
	if err != nil {
		return nil, err
	}
	if target.Side != magic.TargetSide() || !castable(magic, target) {
		return nil, battleerr.InvalidArgumentf("%s cannot target %s", magic.Name, target.DisplayName())
	}
	return []*combat.Combatant{target}, nil
}

// castable reports whether magic can land on c: revival needs a fallen
// player, everything else needs a living target
func castable(magic *combat.Magic, c *combat.Combatant) bool {
	if magic.Revives() {
		return c.IsPlayer() && !c.Player.Conscious
	}
	return c.IsAlive()
}

func (c *Controller) target(id int) (*combat.Combatant, error) {
	target, ok := c.battle.Roster.Get(id)
	if !ok {
		return nil, battleerr.NotFoundf("no combatant with ID %d", id)
	}
	return target, nil
}

func (c *Controller) resolveAction(actor *combat.Combatant, req combat.ActionRequest) error {
	switch req.Kind {
	case combat.ActionAttack:
		target, err := c.target(req.TargetID)
		if err != nil {
			return err
		}
		_, err = c.resolver.Attack(actor, target, actor.Attack, false)
		return err

	case combat.ActionGuard:
		return c.resolver.Guard(actor)

	case combat.ActionCast:
		return c.cast(actor, req)

	default:
		return battleerr.InvalidArgumentf("unknown action %q", req.Kind)
	}
}

func (c *Controller) cast(actor *combat.Combatant, req combat.ActionRequest) error {
	targets, err := c.castPlan(actor, req)
	if err != nil {
		return err
	}
	magic, err := c.catalog.Get(req.MagicID)
	if err != nil {
		return err
	}

	if err := c.message(fmt.Sprintf("%s cast %s!", actor.DisplayName(), magic.Name)); err != nil {
		return err
	}
	if err := c.resolver.SpendMagic(actor, magic.Cost); err != nil {
		return err
	}

	switch {
	case magic.Revives():
		for _, target := range targets {
			if _, err := c.resolver.Revive(target, magic.Strength); err != nil {
				return err
			}
		}
		return nil
	case magic.Restores:
		_, err = c.resolver.HealAll(actor, targets, magic.Strength)
		return err
	default:
		_, err = c.resolver.AttackAll(actor, targets, magic.Strength+actor.MagicAttack, true)
		return err
	}
}
