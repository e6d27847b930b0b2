// Package logging builds the logrus logger shared by services and commands.
package logging

import (
	"io"
	"os"
	"strings"

	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/sirupsen/logrus"
)

// Config selects the level and output format
type Config struct {
	Level  string
	Format string // text or json
	Output io.Writer
}

// New creates a logger from cfg; empty fields fall back to info/text/stderr
func New(cfg Config) (*logrus.Logger, error) {
	logger := logrus.New()

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, battleerr.WrapWithCode(err, battleerr.CodeValidation, "invalid log level")
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, battleerr.Validationf("unknown log format %q", cfg.Format)
	}

	return logger, nil
}

// ForBattle scopes a logger to one battle
func ForBattle(log logrus.FieldLogger, battleID string) logrus.FieldLogger {
	return log.WithField("battle_id", battleID)
}
