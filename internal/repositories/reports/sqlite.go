package reports

import (
	"context"
	"errors"
	"time"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// reportRecord is the table row; Seq orders reports by save time
type reportRecord struct {
	Seq          uint   `gorm:"primaryKey;autoIncrement"`
	ID           string `gorm:"uniqueIndex;not null"`
	BattleID     string `gorm:"index"`
	Outcome      string `gorm:"index"`
	Rounds       int
	Participants []string `gorm:"serializer:json"`
	Log          []string `gorm:"serializer:json"`
	StartedAt    time.Time
	EndedAt      time.Time
	CreatedAt    time.Time
}

func (reportRecord) TableName() string {
	return "battle_reports"
}

type sqliteRepository struct {
	db           *gorm.DB
	timeProvider TimeProvider
}

// OpenSQLite opens the database at dsn and migrates the reports table
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, battleerr.Wrapf(err, "failed to open sqlite %s", dsn)
	}

	if err := db.AutoMigrate(&reportRecord{}); err != nil {
		return nil, battleerr.Wrap(err, "failed to migrate reports table")
	}

	return db, nil
}

// NewSQLiteRepository creates a report repository on a migrated database
func NewSQLiteRepository(db *gorm.DB, timeProvider TimeProvider) Repository {
	if db == nil {
		panic("database is required")
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &sqliteRepository{db: db, timeProvider: timeProvider}
}

func (r *sqliteRepository) Save(ctx context.Context, report *Report) error {
	if err := validateReport(report); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&reportRecord{}).Where("id = ?", report.ID).Count(&count).Error; err != nil {
			return battleerr.Wrap(err, "failed to check report")
		}
		if count > 0 {
			return battleerr.AlreadyExistsf("report %s already exists", report.ID)
		}

		report.CreatedAt = r.timeProvider.Now()
		if err := tx.Create(toRecord(report)).Error; err != nil {
			return battleerr.Wrap(err, "failed to save report")
		}
		return nil
	})
}

func (r *sqliteRepository) Get(ctx context.Context, id string) (*Report, error) {
	var record reportRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, battleerr.NotFoundf("report not found: %s", id)
		}
		return nil, battleerr.Wrap(err, "failed to get report")
	}

	return fromRecord(&record), nil
}

func (r *sqliteRepository) ListRecent(ctx context.Context, limit int) ([]*Report, error) {
	if limit < 1 {
		return nil, battleerr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	var records []reportRecord
	if err := r.db.WithContext(ctx).Order("seq desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, battleerr.Wrap(err, "failed to list recent reports")
	}

	result := make([]*Report, len(records))
	for i := range records {
		result[i] = fromRecord(&records[i])
	}
	return result, nil
}

func (r *sqliteRepository) CountByOutcome(ctx context.Context, outcome combat.Outcome) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&reportRecord{}).Where("outcome = ?", string(outcome)).Count(&count).Error
	if err != nil {
		return 0, battleerr.Wrap(err, "failed to count reports")
	}
	return count, nil
}

func toRecord(report *Report) *reportRecord {
	return &reportRecord{
		ID:           report.ID,
		BattleID:     report.BattleID,
		Outcome:      string(report.Outcome),
		Rounds:       report.Rounds,
		Participants: report.Participants,
		Log:          report.Log,
		StartedAt:    report.StartedAt,
		EndedAt:      report.EndedAt,
		CreatedAt:    report.CreatedAt,
	}
}

func fromRecord(record *reportRecord) *Report {
	return &Report{
		ID:           record.ID,
		BattleID:     record.BattleID,
		Outcome:      combat.Outcome(record.Outcome),
		Rounds:       record.Rounds,
		Participants: record.Participants,
		Log:          record.Log,
		StartedAt:    record.StartedAt,
		EndedAt:      record.EndedAt,
		CreatedAt:    record.CreatedAt,
	}
}
