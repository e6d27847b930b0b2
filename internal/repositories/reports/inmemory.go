package reports

import (
	"context"
	"sync"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
)

type inMemoryRepository struct {
	mu           sync.RWMutex
	reports      map[string]*Report
	recent       []string // oldest first
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a report store that lives for the process
func NewInMemoryRepository(timeProvider TimeProvider) Repository {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &inMemoryRepository{
		reports:      make(map[string]*Report),
		timeProvider: timeProvider,
	}
}

func (r *inMemoryRepository) Save(ctx context.Context, report *Report) error {
	if err := validateReport(report); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[report.ID]; exists {
		return battleerr.AlreadyExistsf("report %s already exists", report.ID)
	}

	report.CreatedAt = r.timeProvider.Now()
	r.reports[report.ID] = copyReport(report)
	r.recent = append(r.recent, report.ID)

	return nil
}

func (r *inMemoryRepository) Get(ctx context.Context, id string) (*Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, exists := r.reports[id]
	if !exists {
		return nil, battleerr.NotFoundf("report not found: %s", id)
	}

	return copyReport(report), nil
}

func (r *inMemoryRepository) ListRecent(ctx context.Context, limit int) ([]*Report, error) {
	if limit < 1 {
		return nil, battleerr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Report, 0, limit)
	for i := len(r.recent) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, copyReport(r.reports[r.recent[i]]))
	}

	return result, nil
}

func (r *inMemoryRepository) CountByOutcome(ctx context.Context, outcome combat.Outcome) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, report := range r.reports {
		if report.Outcome == outcome {
			count++
		}
	}

	return count, nil
}

func copyReport(report *Report) *Report {
	c := *report
	c.Participants = append([]string(nil), report.Participants...)
	c.Log = append([]string(nil), report.Log...)
	return &c
}
