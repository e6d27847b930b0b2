package battle

import (
	"time"

	"github.com/KirkDiggler/battle-core/internal/catalog"
	"github.com/KirkDiggler/battle-core/internal/dice"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	"github.com/KirkDiggler/battle-core/internal/domain/combat/ai"
	"github.com/KirkDiggler/battle-core/internal/domain/combat/resolver"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/KirkDiggler/battle-core/internal/events"
	"github.com/KirkDiggler/battle-core/internal/logging"
	"github.com/sirupsen/logrus"
)

// StepResult describes what happened on one call into the controller
type StepResult struct {
	Phase   combat.Phase `json:"phase"`
	ActorID int          `json:"actor_id"` // who acted, or who is being waited on

	// Cooldown is how long the presentation layer should wait before the
	// next Step. Skipped turns and terminal results carry no cooldown.
	Cooldown time.Duration `json:"cooldown"`
}

const presentationListener = "presentation"

// Controller drives a single battle through its phases. It is not safe for
// concurrent use; Service serializes calls per battle.
type Controller struct {
	battle   *combat.Battle
	roller   dice.Roller
	catalog  catalog.Catalog
	resolver *resolver.Resolver
	engine   *ai.Engine
	bus      *events.Bus
	rules    combat.Rules
	log      logrus.FieldLogger
}

// ControllerConfig holds the dependencies of a Controller
type ControllerConfig struct {
	Battle  *combat.Battle
	Roller  dice.Roller
	Catalog catalog.Catalog
	Sink    events.Sink // presentation layer; optional
	Rules   combat.Rules
	Log     logrus.FieldLogger
}

// NewController creates a controller for a battle that has not started
func NewController(cfg *ControllerConfig) *Controller {
	if cfg.Battle == nil {
		panic("battle is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = logging.ForBattle(log, cfg.Battle.ID)

	c := &Controller{
		battle:  cfg.Battle,
		roller:  cfg.Roller,
		catalog: cfg.Catalog,
		engine:  ai.NewEngine(cfg.Rules),
		bus:     events.NewBus(log),
		rules:   cfg.Rules,
		log:     log,
	}

	c.bus.Subscribe(events.EventTypeMessage, &events.ListenerFunc{
		Name:  "combat_log",
		Order: events.PriorityState,
		Fn:    c.recordMessage,
	})
	if cfg.Sink != nil {
		c.bus.Subscribe(events.EventTypeAll, &events.ListenerFunc{
			Name:  presentationListener,
			Order: events.PriorityPresentation,
			Fn:    cfg.Sink.Emit,
		})
	}

	c.resolver = resolver.New(&resolver.Config{
		BattleID: cfg.Battle.ID,
		Roller:   cfg.Roller,
		Sink:     c.bus,
		Rules:    cfg.Rules,
	})

	return c
}

// Close detaches every listener. A closed controller still answers
// queries but no longer reports events.
func (c *Controller) Close() {
	c.bus.Clear()
}

// Battle returns the battle being driven
func (c *Controller) Battle() *combat.Battle {
	return c.battle
}

// Start validates the rosters and builds the first round
func (c *Controller) Start() error {
	if c.battle.Round() > 0 {
		return battleerr.FailedPrecondition("battle already started")
	}

	roster := c.battle.Roster
	if len(roster.Players()) == 0 {
		return battleerr.Validation("battle needs at least one player")
	}
	if len(roster.Enemies()) == 0 {
		return battleerr.Validation("battle needs at least one enemy")
	}
	for _, combatant := range roster.All() {
		if err := combatant.Validate(); err != nil {
			return battleerr.WrapWithCode(err, battleerr.CodeValidation, "invalid combatant")
		}
	}

	if _, err := c.battle.Schedule.BuildRound(roster.Active()); err != nil {
		return battleerr.WrapWithCode(err, battleerr.CodeValidation, "failed to build first round")
	}
	c.battle.Phase = combat.PhaseStart

	c.log.WithFields(logrus.Fields{
		"players": len(roster.Players()),
		"enemies": len(roster.Enemies()),
	}).Info("battle started")

	return c.emit(events.NewTurnOrderChanged(c.battle.ID, c.battle.Round(), c.battle.TurnOrderSprites()))
}

// Step processes turns until a player must choose an action or an enemy
// has acted. Actors that cannot act are skipped without side effects.
func (c *Controller) Step() (*StepResult, error) {
	if err := c.checkRunning(); err != nil {
		return nil, err
	}
	if c.battle.Phase == combat.PhasePlayerSelectMove {
		return nil, battleerr.FailedPrecondition("waiting for the current player's action")
	}

	// Every combatant can be skipped at most once per round, so two full
	// rounds without an actor means the roster is broken.
	limit := 2*c.battle.Roster.Len() + 2
	for i := 0; i < limit; i++ {
		actor, err := c.battle.CurrentActor()
		if err != nil {
			return nil, c.internal(err, "failed to find current actor")
		}

		if actor.CanAct() {
			return c.beginTurn(actor)
		}

		c.log.WithField("actor", actor.ID).Debug("skipping combatant that cannot act")
		if err := c.advance(); err != nil {
			return nil, err
		}
	}

	return nil, c.internal(battleerr.Internal("no combatant can act"), "turn order stalled")
}

func (c *Controller) beginTurn(actor *combat.Combatant) (*StepResult, error) {
	c.resolver.FinishGuard(actor)

	if actor.IsPlayer() {
		c.battle.Pending = nil
		if err := c.setPhase(combat.PhasePlayerSelectMove); err != nil {
			return nil, err
		}
		return &StepResult{Phase: c.battle.Phase, ActorID: actor.ID}, nil
	}

	if err := c.setPhase(combat.PhaseEnemyTurn); err != nil {
		return nil, err
	}
	if err := c.enemyTurn(actor); err != nil {
		return nil, err
	}
	return c.finishTurn(actor)
}

func (c *Controller) enemyTurn(enemy *combat.Combatant) error {
	decision, err := c.engine.Decide(enemy, c.battle.Roster)
	if err != nil {
		return c.internal(err, "enemy could not decide")
	}

	c.log.WithFields(logrus.Fields{
		"actor":  enemy.ID,
		"state":  decision.State,
		"target": decision.Target.ID,
	}).Debug("enemy decided")

	if decision.Heal {
		_, err = c.resolver.Heal(enemy, decision.Target, enemy.Enemy.HealPower)
	} else {
		_, err = c.resolver.Attack(enemy, decision.Target, enemy.Attack, false)
	}
	if err != nil {
		return battleerr.Wrapf(err, "enemy %d failed to act", enemy.ID)
	}
	return nil
}

// finishTurn purges the dead, checks for the end of the battle and moves
// the schedule on to the next turn
func (c *Controller) finishTurn(actor *combat.Combatant) (*StepResult, error) {
	if err := c.purgeDead(); err != nil {
		return nil, err
	}

	if ended, outcome := c.battle.CheckBattleEnd(); ended {
		if err := c.end(outcome); err != nil {
			return nil, err
		}
		return &StepResult{Phase: c.battle.Phase, ActorID: actor.ID}, nil
	}

	if err := c.advance(); err != nil {
		return nil, err
	}

	return &StepResult{
		Phase:    c.battle.Phase,
		ActorID:  actor.ID,
		Cooldown: c.rules.TurnCooldown,
	}, nil
}

func (c *Controller) purgeDead() error {
	for _, enemy := range c.battle.Roster.Enemies() {
		if enemy.Enemy.Alive {
			continue
		}

		c.battle.Roster.Remove(enemy.ID)
		c.battle.Schedule.RemoveCombatant(enemy.ID)
		c.log.WithField("combatant", enemy.ID).Debug("removed dead enemy")

		if err := c.emit(events.NewCombatantRemoved(c.battle.ID, enemy.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) advance() error {
	round := c.battle.Round()
	if _, err := c.battle.Schedule.Advance(c.battle.Roster); err != nil {
		return c.internal(err, "failed to advance turn order")
	}

	if c.battle.Round() == round {
		return nil
	}

	c.log.WithField("round", c.battle.Round()).Debug("new round")
	return c.emit(events.NewTurnOrderChanged(c.battle.ID, c.battle.Round(), c.battle.TurnOrderSprites()))
}

func (c *Controller) end(outcome combat.Outcome) error {
	var banner string
	switch outcome {
	case combat.OutcomeDefeat:
		banner = "The party has fallen..."
	case combat.OutcomeEscaped:
		banner = "The party escaped!"
	default:
		banner = "All enemies have been defeated!"
	}
	if err := c.message(banner); err != nil {
		return err
	}

	from := c.battle.Phase
	c.battle.End(outcome)

	c.log.WithFields(logrus.Fields{
		"outcome": outcome,
		"round":   c.battle.Round(),
	}).Info("battle ended")

	if err := c.emit(events.NewPhaseChanged(c.battle.ID, string(from), string(c.battle.Phase))); err != nil {
		return err
	}

	// Nothing reaches the presentation layer after the final phase change
	c.bus.Unsubscribe(events.EventTypeAll, presentationListener)
	return nil
}

func (c *Controller) setPhase(phase combat.Phase) error {
	from := c.battle.Phase
	if from == phase {
		return nil
	}
	c.battle.Phase = phase
	return c.emit(events.NewPhaseChanged(c.battle.ID, string(from), string(phase)))
}

func (c *Controller) checkRunning() error {
	if c.battle.IsOver() {
		return battleerr.FailedPreconditionf("battle %s is over (%s)", c.battle.ID, c.battle.Outcome)
	}
	if c.battle.Round() == 0 {
		return battleerr.FailedPrecondition("battle has not started")
	}
	return nil
}

// internal wraps err and logs it when it signals a broken invariant
func (c *Controller) internal(err error, message string) error {
	wrapped := battleerr.Wrap(err, message)
	if battleerr.IsInternal(wrapped) {
		c.log.WithError(err).Error(message)
	}
	return wrapped
}

func (c *Controller) recordMessage(event events.Event) error {
	if msg, ok := event.(*events.MessageEvent); ok {
		c.battle.AddCombatLogEntry(msg.Text)
	}
	return nil
}

func (c *Controller) message(text string) error {
	return c.emit(events.NewMessage(c.battle.ID, text))
}

func (c *Controller) emit(event events.Event) error {
	if err := c.bus.Emit(event); err != nil {
		return battleerr.Wrapf(err, "failed to emit %s", event.GetType())
	}
	return nil
}
