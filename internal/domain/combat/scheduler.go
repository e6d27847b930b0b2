package combat

import (
	"github.com/KirkDiggler/battle-core/internal/dice"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// TurnEntry is one combatant's slot in a round's turn order
type TurnEntry struct {
	CombatantID int  `json:"combatant_id"`
	Speed       int  `json:"speed"` // base speed plus this round's jitter
	IsPlayer    bool `json:"is_player"`
}

// Scheduler builds and walks the per-round initiative order
type Scheduler struct {
	roller    dice.Roller
	jitterMin int
	jitterMax int

	order  []TurnEntry
	cursor int
	round  int
}

// NewScheduler creates a scheduler that jitters speeds with roller
func NewScheduler(roller dice.Roller, rules Rules) *Scheduler {
	if roller == nil {
		panic("roller is required")
	}

	return &Scheduler{
		roller:    roller,
		jitterMin: rules.JitterMin,
		jitterMax: rules.JitterMax,
		order:     []TurnEntry{},
	}
}

// BuildRound replaces the order with a fresh round over combatants.
// Entries are sorted by jittered speed, highest first; equal speeds keep
// the order they were added in.
func (s *Scheduler) BuildRound(combatants []*Combatant) ([]TurnEntry, error) {
	if s.roller == nil {
		return nil, battleerr.FailedPrecondition("scheduler snapshot cannot build rounds")
	}

	order := make([]TurnEntry, 0, len(combatants))

	for _, c := range combatants {
		if c == nil || c.Removed {
			continue
		}

		jitter, err := dice.IntRange(s.roller, s.jitterMin, s.jitterMax)
		if err != nil {
			return nil, battleerr.Wrap(err, "failed to roll speed jitter")
		}

		entry := TurnEntry{
			CombatantID: c.ID,
			Speed:       c.Speed + jitter,
			IsPlayer:    c.IsPlayer(),
		}

		pos := len(order)
		for i, existing := range order {
			if existing.Speed < entry.Speed {
				pos = i
				break
			}
		}
		order = append(order, TurnEntry{})
		copy(order[pos+1:], order[pos:])
		order[pos] = entry
	}

	if len(order) == 0 {
		return nil, battleerr.Validation("cannot schedule a round with no combatants")
	}

	s.order = order
	s.cursor = 0
	s.round++

	return s.Order(), nil
}

// Advance moves to the next turn and returns its index. Walking past the
// end starts a new round rebuilt from the roster's active combatants.
// Players revived during the round rejoin combat when the new round starts.
func (s *Scheduler) Advance(roster *Roster) (int, error) {
	s.cursor++
	if s.cursor < len(s.order) {
		return s.cursor, nil
	}

	for _, p := range roster.Players() {
		if p.Player.Conscious && !p.Player.InCombat {
			p.Player.InCombat = true
		}
	}

	if _, err := s.BuildRound(roster.Active()); err != nil {
		return 0, err
	}

	return s.cursor, nil
}

// RemoveCombatant drops a combatant's entries from the order. Removing an
// entry at or before the cursor pulls the cursor back so the next Advance
// lands on the combatant that followed it.
func (s *Scheduler) RemoveCombatant(id int) {
	cursor := s.cursor
	kept := s.order[:0]
	for i, entry := range s.order {
		if entry.CombatantID == id {
			if i <= cursor {
				s.cursor--
			}
			continue
		}
		kept = append(kept, entry)
	}
	s.order = kept
}

// Current returns the entry whose turn it is
func (s *Scheduler) Current() (TurnEntry, error) {
	if len(s.order) == 0 {
		return TurnEntry{}, &battleerr.EmptyScheduleError{Round: s.round}
	}
	if s.cursor < 0 || s.cursor >= len(s.order) {
		return TurnEntry{}, battleerr.FailedPreconditionf("no turn at position %d of %d, advance first", s.cursor, len(s.order))
	}
	return s.order[s.cursor], nil
}

// Order returns a copy of the current round's order
func (s *Scheduler) Order() []TurnEntry {
	out := make([]TurnEntry, len(s.order))
	copy(out, s.order)
	return out
}

// Cursor returns the index of the current turn
func (s *Scheduler) Cursor() int {
	return s.cursor
}

// Round returns the 1-based number of the current round, 0 before the first build
func (s *Scheduler) Round() int {
	return s.round
}
