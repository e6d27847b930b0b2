package combat

// Snapshot returns a deep copy of the battle that shares nothing with the
// original. Its scheduler carries no roller, so it can be read but cannot
// build new rounds.
func (b *Battle) Snapshot() *Battle {
	if b == nil {
		return nil
	}

	out := *b
	out.Roster = b.Roster.Snapshot()
	out.Schedule = b.Schedule.Snapshot()
	out.CombatLog = append([]string{}, b.CombatLog...)

	if b.Pending != nil {
		pending := *b.Pending
		out.Pending = &pending
	}
	if b.EndedAt != nil {
		endedAt := *b.EndedAt
		out.EndedAt = &endedAt
	}

	return &out
}

// Snapshot copies every combatant, keeping IDs
func (r *Roster) Snapshot() *Roster {
	if r == nil {
		return nil
	}

	out := &Roster{combatants: make([]*Combatant, len(r.combatants))}
	for i, c := range r.combatants {
		out.combatants[i] = c.Clone()
	}
	return out
}

// Clone returns a copy of the combatant with its own player or enemy state
func (c *Combatant) Clone() *Combatant {
	if c == nil {
		return nil
	}

	out := *c
	if c.Player != nil {
		player := *c.Player
		player.Magic = append([]int{}, c.Player.Magic...)
		out.Player = &player
	}
	if c.Enemy != nil {
		enemy := *c.Enemy
		out.Enemy = &enemy
	}
	return &out
}

// Snapshot copies the turn order, cursor and round without the roller
func (s *Scheduler) Snapshot() *Scheduler {
	if s == nil {
		return nil
	}

	out := *s
	out.roller = nil
	out.order = append([]TurnEntry{}, s.order...)
	return &out
}
