package combat

// Roster is the arena of combatants in a battle. A combatant's ID is its
// index in the arena, so IDs stay stable when enemies are removed.
type Roster struct {
	combatants []*Combatant
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{combatants: []*Combatant{}}
}

// Add assigns the next sequential ID to the combatant and stores it
func (r *Roster) Add(c *Combatant) int {
	c.ID = len(r.combatants)
	r.combatants = append(r.combatants, c)
	return c.ID
}

// Lookup returns a combatant by ID, including removed ones
func (r *Roster) Lookup(id int) (*Combatant, bool) {
	if id < 0 || id >= len(r.combatants) {
		return nil, false
	}
	return r.combatants[id], true
}

// Get returns a combatant by ID if it has not been removed
func (r *Roster) Get(id int) (*Combatant, bool) {
	c, ok := r.Lookup(id)
	if !ok || c.Removed {
		return nil, false
	}
	return c, true
}

// Remove takes a combatant out of the active roster. Players are never removed.
func (r *Roster) Remove(id int) bool {
	c, ok := r.Get(id)
	if !ok || c.IsPlayer() {
		return false
	}
	c.Removed = true
	return true
}

// All returns every combatant ever added, in ID order
func (r *Roster) All() []*Combatant {
	out := make([]*Combatant, len(r.combatants))
	copy(out, r.combatants)
	return out
}

// Active returns the combatants that have not been removed, in ID order
func (r *Roster) Active() []*Combatant {
	out := make([]*Combatant, 0, len(r.combatants))
	for _, c := range r.combatants {
		if !c.Removed {
			out = append(out, c)
		}
	}
	return out
}

// Players returns every player, conscious or not
func (r *Roster) Players() []*Combatant {
	return r.side(SidePlayer, false)
}

// Enemies returns the enemies still on the field
func (r *Roster) Enemies() []*Combatant {
	return r.side(SideEnemy, false)
}

// AllEnemies returns every enemy spawned, including removed ones
func (r *Roster) AllEnemies() []*Combatant {
	return r.side(SideEnemy, true)
}

// Side returns the active members of one side
func (r *Roster) Side(side Side) []*Combatant {
	return r.side(side, false)
}

// Living returns the living members of one side
func (r *Roster) Living(side Side) []*Combatant {
	out := []*Combatant{}
	for _, c := range r.side(side, false) {
		if c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

// DeadEnemies returns how many enemies have been killed and removed
func (r *Roster) DeadEnemies() int {
	count := 0
	for _, c := range r.AllEnemies() {
		if c.Removed || !c.Enemy.Alive {
			count++
		}
	}
	return count
}

// Len returns the number of combatants ever added
func (r *Roster) Len() int {
	return len(r.combatants)
}

func (r *Roster) side(side Side, includeRemoved bool) []*Combatant {
	out := []*Combatant{}
	for _, c := range r.combatants {
		if c.Side != side {
			continue
		}
		if c.Removed && !includeRemoved {
			continue
		}
		out = append(out, c)
	}
	return out
}
