package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"gopkg.in/yaml.v3"
)

// Report store backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Log     LogConfig
	Redis   RedisConfig
	Reports ReportsConfig
	DND5E   DND5EConfig
	Battle  BattleConfig
}

// LogConfig controls the logrus logger
type LogConfig struct {
	Level  string
	Format string // text or json
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL      string // takes precedence over Addr when set
	Addr     string
	Password string
	DB       int
}

// ReportsConfig selects where finished battle reports go
type ReportsConfig struct {
	Store      string
	SQLitePath string
}

// DND5EConfig controls the SRD monster lookup
type DND5EConfig struct {
	Enabled bool
	Timeout time.Duration
}

// BattleConfig holds the rules and data files a battle is built from
type BattleConfig struct {
	RulesFile    string
	GameDataFile string
	Seed         int64 // zero seeds from the clock
	Rules        combat.Rules
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Reports: ReportsConfig{
			Store:      strings.ToLower(getEnvOrDefault("REPORT_STORE", StoreMemory)),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "battle_reports.db"),
		},
		DND5E: DND5EConfig{
			Enabled: getEnvOrDefault("USE_SRD_MONSTERS", "false") == "true",
			Timeout: time.Duration(getEnvAsIntOrDefault("DND5E_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Battle: BattleConfig{
			RulesFile:    os.Getenv("BATTLE_RULES_FILE"),
			GameDataFile: os.Getenv("GAME_DATA_FILE"),
			Seed:         int64(getEnvAsIntOrDefault("BATTLE_SEED", 0)),
		},
	}

	switch cfg.Reports.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return nil, battleerr.Validationf("REPORT_STORE must be memory, redis or sqlite, got %q", cfg.Reports.Store)
	}

	rules, err := LoadRules(cfg.Battle.RulesFile)
	if err != nil {
		return nil, err
	}
	cfg.Battle.Rules = rules

	return cfg, nil
}

// LoadRules reads a YAML rules file over the default rules.
// An empty path yields the defaults.
func LoadRules(path string) (combat.Rules, error) {
	if path == "" {
		return combat.DefaultRules(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return combat.Rules{}, battleerr.Wrapf(err, "failed to read rules file %s", path)
	}

	return ParseRules(b)
}

// ParseRules decodes YAML rules; fields left out keep their default values
func ParseRules(b []byte) (combat.Rules, error) {
	rules := combat.DefaultRules()
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return combat.Rules{}, battleerr.WrapWithCode(err, battleerr.CodeValidation, "failed to parse rules")
	}

	if err := rules.Validate(); err != nil {
		return combat.Rules{}, err
	}

	return rules, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
