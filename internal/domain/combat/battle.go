package combat

import (
	"fmt"
	"time"

	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// Battle is the full state of one fight: who is in it, whose turn it is,
// what phase it is in and what has happened so far.
type Battle struct {
	ID        string         `json:"id"`
	Phase     Phase          `json:"phase"`
	Outcome   Outcome        `json:"outcome"`
	Roster    *Roster        `json:"-"`
	Schedule  *Scheduler     `json:"-"`
	Pending   *ActionRequest `json:"pending,omitempty"` // staged player request
	CombatLog []string       `json:"combat_log"`
	CreatedAt time.Time      `json:"created_at"`
	EndedAt   *time.Time     `json:"ended_at"`

	logSize int
}

// NewBattle creates a battle in the start phase
func NewBattle(id string, roster *Roster, schedule *Scheduler, rules Rules) *Battle {
	logSize := rules.LogSize
	if logSize < 1 {
		logSize = DefaultRules().LogSize
	}

	return &Battle{
		ID:        id,
		Phase:     PhaseStart,
		Roster:    roster,
		Schedule:  schedule,
		CombatLog: []string{},
		CreatedAt: time.Now(),
		logSize:   logSize,
	}
}

// Round returns the current round number
func (b *Battle) Round() int {
	return b.Schedule.Round()
}

// IsOver reports whether the battle reached a terminal phase
func (b *Battle) IsOver() bool {
	return b.Phase.IsTerminal()
}

// CurrentActor returns the combatant whose turn it is
func (b *Battle) CurrentActor() (*Combatant, error) {
	entry, err := b.Schedule.Current()
	if err != nil {
		return nil, err
	}

	actor, ok := b.Roster.Lookup(entry.CombatantID)
	if !ok {
		return nil, battleerr.Internalf("turn order references unknown combatant %d", entry.CombatantID)
	}
	return actor, nil
}

// CheckBattleEnd checks whether either side has lost. Defeat is checked
// first, so a turn that wipes out both sides is a defeat.
func (b *Battle) CheckBattleEnd() (ended bool, outcome Outcome) {
	if len(b.Roster.Living(SidePlayer)) == 0 {
		return true, OutcomeDefeat
	}
	if len(b.Roster.Living(SideEnemy)) == 0 {
		return true, OutcomeVictory
	}
	return false, OutcomeNone
}

// End moves the battle to its terminal phase
func (b *Battle) End(outcome Outcome) {
	now := time.Now()
	b.Outcome = outcome
	b.EndedAt = &now
	b.Pending = nil

	if outcome == OutcomeDefeat {
		b.Phase = PhaseDefeat
		return
	}
	b.Phase = PhaseVictory
}

// AddCombatLogEntry adds an entry to the combat log
func (b *Battle) AddCombatLogEntry(entry string) {
	if b.CombatLog == nil {
		b.CombatLog = []string{}
	}
	logEntry := fmt.Sprintf("Round %d: %s", b.Round(), entry)
	b.CombatLog = append(b.CombatLog, logEntry)

	// Keep only the most recent entries to prevent unbounded growth
	if len(b.CombatLog) > b.logSize {
		b.CombatLog = b.CombatLog[len(b.CombatLog)-b.logSize:]
	}
}

// TurnOrderSprites returns the sprite handles of the current round's order
func (b *Battle) TurnOrderSprites() []string {
	order := b.Schedule.Order()
	sprites := make([]string, 0, len(order))
	for _, entry := range order {
		if c, ok := b.Roster.Lookup(entry.CombatantID); ok {
			sprites = append(sprites, c.Sprite)
		}
	}
	return sprites
}
