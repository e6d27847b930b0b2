package battle

import (
	"fmt"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/sirupsen/logrus"
)

// AttemptEscape spends the current player's turn trying to flee
func (c *Controller) AttemptEscape() (*StepResult, error) {
	return c.SubmitAction(combat.FleeAction())
}

// EscapeChance is the probability that an escape attempt fails: the share
// of enemy health still standing, scaled down by each enemy already killed.
// An attempt succeeds when the draw lands above it.
func (c *Controller) EscapeChance() float64 {
	hp, maxHP := 0, 0
	for _, enemy := range c.battle.Roster.AllEnemies() {
		hp += enemy.CurrentHP
		maxHP += enemy.MaxHP
	}
	if maxHP == 0 {
		return 0
	}

	dead := c.battle.Roster.DeadEnemies()
	return float64(hp) / float64(maxHP) * (c.rules.EscapeBase / float64(dead+1))
}

func (c *Controller) escape(actor *combat.Combatant) (*StepResult, error) {
	p := c.EscapeChance()
	draw, err := c.roller.Float64()
	if err != nil {
		return nil, battleerr.Wrap(err, "failed to roll escape")
	}

	escaped := p <= 0 || draw > p
	c.log.WithFields(logrus.Fields{
		"actor":   actor.ID,
		"chance":  p,
		"draw":    draw,
		"escaped": escaped,
	}).Debug("escape attempt")

	if escaped {
		if err := c.end(combat.OutcomeEscaped); err != nil {
			return nil, err
		}
		return &StepResult{Phase: c.battle.Phase, ActorID: actor.ID}, nil
	}

	if err := c.message(fmt.Sprintf("%s couldn't escape!", actor.DisplayName())); err != nil {
		return nil, err
	}
	return c.finishTurn(actor)
}
