package reports

//go:generate mockgen -destination=mock/mock_repository.go -package=mockreports -source=interface.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

// Report is the summary kept after a battle ends
type Report struct {
	ID           string         `json:"id"`
	BattleID     string         `json:"battle_id"`
	Outcome      combat.Outcome `json:"outcome"`
	Rounds       int            `json:"rounds"`
	Participants []string       `json:"participants"`
	Log          []string       `json:"log"`
	StartedAt    time.Time      `json:"started_at"`
	EndedAt      time.Time      `json:"ended_at"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Repository stores finished battle reports
type Repository interface {
	// Save stores a new report, stamping CreatedAt
	Save(ctx context.Context, report *Report) error

	// Get retrieves a report by ID
	Get(ctx context.Context, id string) (*Report, error)

	// ListRecent returns up to limit reports, most recently saved first
	ListRecent(ctx context.Context, limit int) ([]*Report, error)

	// CountByOutcome counts the stored reports with the given outcome
	CountByOutcome(ctx context.Context, outcome combat.Outcome) (int64, error)
}

// TimeProvider supplies the clock used for CreatedAt
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock
type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

func validateReport(report *Report) error {
	if report == nil {
		return battleerr.InvalidArgument("report cannot be nil")
	}
	if report.ID == "" {
		return battleerr.InvalidArgument("report ID cannot be empty")
	}
	return nil
}
