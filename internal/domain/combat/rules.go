package combat

import (
	"time"

	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// Rules are the tunable numbers of a battle
type Rules struct {
	JitterMin          int           `yaml:"jitter_min"`
	JitterMax          int           `yaml:"jitter_max"`
	DamageFactorMin    float64       `yaml:"damage_factor_min"`
	DamageFactorMax    float64       `yaml:"damage_factor_max"`
	DefensiveThreshold float64       `yaml:"defensive_threshold"`
	FinishingThreshold float64       `yaml:"finishing_threshold"`
	EscapeBase         float64       `yaml:"escape_base"`
	TurnCooldown       time.Duration `yaml:"turn_cooldown"`
	MaxPlayers         int           `yaml:"max_players"`
	MaxEnemies         int           `yaml:"max_enemies"`
	LogSize            int           `yaml:"log_size"`
}

// DefaultRules returns the stock battle tuning
func DefaultRules() Rules {
	return Rules{
		JitterMin:          -10,
		JitterMax:          10,
		DamageFactorMin:    0.85,
		DamageFactorMax:    1.0,
		DefensiveThreshold: 0.3,
		FinishingThreshold: 0.1,
		EscapeBase:         0.25,
		TurnCooldown:       time.Second,
		MaxPlayers:         4,
		MaxEnemies:         4,
		LogSize:            20,
	}
}

// Validate rejects tunings that would break the battle math
func (r Rules) Validate() error {
	if r.JitterMax < r.JitterMin {
		return battleerr.Validationf("jitter range [%d, %d) is inverted", r.JitterMin, r.JitterMax)
	}
	if r.DamageFactorMin < 0 || r.DamageFactorMax < r.DamageFactorMin {
		return battleerr.Validationf("damage factor band [%v, %v] is invalid", r.DamageFactorMin, r.DamageFactorMax)
	}
	if r.DefensiveThreshold < 0 || r.DefensiveThreshold > 1 {
		return battleerr.Validationf("defensive threshold %v must be within [0, 1]", r.DefensiveThreshold)
	}
	if r.FinishingThreshold < 0 || r.FinishingThreshold > 1 {
		return battleerr.Validationf("finishing threshold %v must be within [0, 1]", r.FinishingThreshold)
	}
	if r.EscapeBase < 0 || r.EscapeBase > 1 {
		return battleerr.Validationf("escape base %v must be within [0, 1]", r.EscapeBase)
	}
	if r.TurnCooldown < 0 {
		return battleerr.Validationf("turn cooldown %s is negative", r.TurnCooldown)
	}
	if r.MaxPlayers < 1 || r.MaxEnemies < 1 {
		return battleerr.Validationf("slot limits must be positive (players %d, enemies %d)", r.MaxPlayers, r.MaxEnemies)
	}
	if r.LogSize < 1 {
		return battleerr.Validationf("log size %d must be positive", r.LogSize)
	}
	return nil
}
