package dnd5e

//go:generate mockgen -destination=mock/mock_client.go -package=mockdnd5e . Client

// Client is the slice of the D&D 5e SRD API the battle core uses as a
// bestiary
type Client interface {
	GetMonster(key string) (*MonsterTemplate, error)
	ListMonstersByCR(minCR, maxCR float32) ([]*MonsterTemplate, error)
}

// MonsterTemplate is an SRD monster reduced to what enemy spawning needs
type MonsterTemplate struct {
	Key             string           `json:"key"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	ArmorClass      int              `json:"armor_class"`
	HitPoints       int              `json:"hit_points"`
	HitDice         string           `json:"hit_dice"`
	ChallengeRating float32          `json:"challenge_rating"`
	Actions         []*MonsterAction `json:"actions"`
}

// MonsterAction is one of a monster's listed actions
type MonsterAction struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	AttackBonus int           `json:"attack_bonus"`
	Damage      []*DamageDice `json:"damage"`
}

// DamageDice is a parsed damage expression such as 2d6+3
type DamageDice struct {
	Count int `json:"count"`
	Size  int `json:"size"`
	Bonus int `json:"bonus"`
}

// Average returns the mean roll, rounded down
func (d *DamageDice) Average() int {
	return (d.Count*(d.Size+1))/2 + d.Bonus
}
