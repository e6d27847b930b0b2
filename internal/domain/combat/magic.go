package combat

// Magic describes a spell a player can cast. Descriptors are read-only
// configuration; the battle never mutates them.
type Magic struct {
	ID             int    `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	Cost           int    `json:"cost" yaml:"cost"`
	Strength       int    `json:"strength" yaml:"strength"`
	AffectsAll     bool   `json:"affects_all" yaml:"affects_all"`
	AffectsPlayers bool   `json:"affects_players" yaml:"affects_players"`
	Restores       bool   `json:"restores" yaml:"restores"`
	AffectsDead    bool   `json:"affects_dead" yaml:"affects_dead"`
}

// Revives reports whether the spell brings unconscious players back
func (m *Magic) Revives() bool {
	return m.Restores && m.AffectsDead
}

// TargetSide returns the side the spell is aimed at
func (m *Magic) TargetSide() Side {
	if m.AffectsPlayers {
		return SidePlayer
	}
	return SideEnemy
}
