package combat

import (
	"fmt"
)

// NoTarget is the marker value for "no combatant"
const NoTarget = -1

// Side identifies which team a combatant fights for
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// Stats is the attribute bundle a combatant is spawned with
type Stats struct {
	MaxHP        int `json:"max_hp" yaml:"max_hp"`
	MaxMP        int `json:"max_mp" yaml:"max_mp"`
	Attack       int `json:"attack" yaml:"attack"`
	Defence      int `json:"defence" yaml:"defence"`
	MagicAttack  int `json:"magic_attack" yaml:"magic_attack"`
	MagicDefence int `json:"magic_defence" yaml:"magic_defence"`
	Speed        int `json:"speed" yaml:"speed"`
}

// AIState is the state of an enemy's decision machine
type AIState string

const (
	AIStateNeutral    AIState = "neutral"
	AIStateAggressive AIState = "aggressive"
	AIStateFinishing  AIState = "finishing"
	AIStateDefensive  AIState = "defensive"
)

// AIMemory is what an enemy remembers between its turns
type AIMemory struct {
	State  AIState `json:"state"`
	Marker int     `json:"marker"`
}

// NewAIMemory returns a fresh neutral memory with no marked target
func NewAIMemory() AIMemory {
	return AIMemory{State: AIStateNeutral, Marker: NoTarget}
}

// MarkAttacker records the player that just hit this enemy
func (m *AIMemory) MarkAttacker(playerID int) {
	m.State = AIStateAggressive
	m.Marker = playerID
}

// Mark sets a state and its target together
func (m *AIMemory) Mark(state AIState, targetID int) {
	m.State = state
	m.Marker = targetID
}

// Reset returns the memory to neutral with no marker
func (m *AIMemory) Reset() {
	m.State = AIStateNeutral
	m.Marker = NoTarget
}

// PlayerState holds the fields only players carry
type PlayerState struct {
	Conscious bool  `json:"conscious"`
	InCombat  bool  `json:"in_combat"` // false for a player revived this round
	Magic     []int `json:"magic"`     // known magic IDs
}

// EnemyState holds the fields only enemies carry
type EnemyState struct {
	Alive     bool     `json:"alive"`
	CanHeal   bool     `json:"can_heal"`
	HealPower int      `json:"heal_power"`
	Memory    AIMemory `json:"memory"`
}

// Combatant is a single participant in a battle. Exactly one of Player or
// Enemy is set, matching Side.
type Combatant struct {
	Stats

	ID          int    `json:"id"`
	Name        string `json:"name"`
	Side        Side   `json:"side"`
	TemplateKey string `json:"template_key"`
	Sprite      string `json:"sprite,omitempty"`
	CurrentHP   int    `json:"current_hp"`
	CurrentMP   int    `json:"current_mp"`
	Guarding    bool   `json:"guarding"`
	Removed     bool   `json:"removed"`

	Player *PlayerState `json:"player,omitempty"`
	Enemy  *EnemyState  `json:"enemy,omitempty"`
}

// NewPlayer creates a conscious, in-combat player at full HP and MP
func NewPlayer(name, templateKey string, stats Stats, magic []int) *Combatant {
	known := make([]int, len(magic))
	copy(known, magic)

	return &Combatant{
		Stats:       stats,
		ID:          NoTarget,
		Name:        name,
		Side:        SidePlayer,
		TemplateKey: templateKey,
		CurrentHP:   stats.MaxHP,
		CurrentMP:   stats.MaxMP,
		Player: &PlayerState{
			Conscious: stats.MaxHP > 0,
			InCombat:  stats.MaxHP > 0,
			Magic:     known,
		},
	}
}

// NewEnemy creates a living enemy at full HP. Enemies have no MP.
func NewEnemy(name, templateKey string, stats Stats, canHeal bool, healPower int) *Combatant {
	stats.MaxMP = 0
	if canHeal && healPower <= 0 {
		healPower = stats.MagicAttack
	}

	return &Combatant{
		Stats:       stats,
		ID:          NoTarget,
		Name:        name,
		Side:        SideEnemy,
		TemplateKey: templateKey,
		CurrentHP:   stats.MaxHP,
		Enemy: &EnemyState{
			Alive:     stats.MaxHP > 0,
			CanHeal:   canHeal,
			HealPower: healPower,
			Memory:    NewAIMemory(),
		},
	}
}

// IsPlayer returns true for the player variant
func (c *Combatant) IsPlayer() bool {
	return c.Side == SidePlayer && c.Player != nil
}

// IsEnemy returns true for the enemy variant
func (c *Combatant) IsEnemy() bool {
	return c.Side == SideEnemy && c.Enemy != nil
}

// IsAlive reports consciousness for players and life for enemies
func (c *Combatant) IsAlive() bool {
	switch {
	case c.IsPlayer():
		return c.Player.Conscious
	case c.IsEnemy():
		return c.Enemy.Alive && !c.Removed
	default:
		return false
	}
}

// CanAct reports whether the combatant takes its turn this round
func (c *Combatant) CanAct() bool {
	if c.Removed {
		return false
	}
	if c.IsPlayer() {
		return c.Player.Conscious && c.Player.InCombat
	}
	return c.IsAlive()
}

// HPRatio returns current HP as a fraction of max HP
func (c *Combatant) HPRatio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(c.MaxHP)
}

// SetHP sets current HP clamped to [0, MaxHP] and returns the stored value
func (c *Combatant) SetHP(hp int) int {
	c.CurrentHP = clamp(hp, 0, c.MaxHP)
	return c.CurrentHP
}

// SetMP sets current MP clamped to [0, MaxMP] and returns the stored value
func (c *Combatant) SetMP(mp int) int {
	c.CurrentMP = clamp(mp, 0, c.MaxMP)
	return c.CurrentMP
}

// KnowsMagic reports whether a player has learned the given magic
func (c *Combatant) KnowsMagic(magicID int) bool {
	if !c.IsPlayer() {
		return false
	}
	for _, id := range c.Player.Magic {
		if id == magicID {
			return true
		}
	}
	return false
}

// CanUseMagic gates the cast menu: only players with at least one spell
func (c *Combatant) CanUseMagic() bool {
	return c.IsPlayer() && len(c.Player.Magic) > 0
}

// Validate checks the combatant's invariants
func (c *Combatant) Validate() error {
	if c.IsPlayer() == c.IsEnemy() {
		return fmt.Errorf("combatant %d (%s) must be exactly one of player or enemy", c.ID, c.Name)
	}
	if c.CurrentHP < 0 || c.CurrentHP > c.MaxHP {
		return fmt.Errorf("combatant %d (%s) hp %d outside [0, %d]", c.ID, c.Name, c.CurrentHP, c.MaxHP)
	}
	if c.CurrentMP < 0 || c.CurrentMP > c.MaxMP {
		return fmt.Errorf("combatant %d (%s) mp %d outside [0, %d]", c.ID, c.Name, c.CurrentMP, c.MaxMP)
	}
	if c.IsPlayer() && c.Player.Conscious != (c.CurrentHP > 0) {
		return fmt.Errorf("player %d (%s) conscious=%t with hp %d", c.ID, c.Name, c.Player.Conscious, c.CurrentHP)
	}
	if c.IsEnemy() && c.Enemy.Alive && c.CurrentHP == 0 {
		return fmt.Errorf("enemy %d (%s) alive with 0 hp", c.ID, c.Name)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
