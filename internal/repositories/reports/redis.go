package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	reportKeyPrefix = "report:"
	outcomeKey      = "reports:outcome:%s"
	recentKey       = "reports:recent"

	// Reports beyond this many are dropped from the recent index but kept
	defaultRecentSize = 100
)

// Data is the stored form of a report
type Data struct {
	ID           string    `json:"id"`
	BattleID     string    `json:"battle_id"`
	Outcome      string    `json:"outcome"`
	Rounds       int       `json:"rounds"`
	Participants []string  `json:"participants"`
	Log          []string  `json:"log"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
	ReportTTL    time.Duration // zero keeps reports forever
	RecentSize   int64
}

type redisRepository struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
	ttl          time.Duration
	recentSize   int64
}

// NewRedisRepository creates a Redis-backed report repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	recentSize := cfg.RecentSize
	if recentSize == 0 {
		recentSize = defaultRecentSize
	}

	return &redisRepository{
		client:       cfg.Client,
		timeProvider: timeProvider,
		ttl:          cfg.ReportTTL,
		recentSize:   recentSize,
	}
}

// NewRedis creates a Redis-backed report repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func (r *redisRepository) Save(ctx context.Context, report *Report) error {
	if err := validateReport(report); err != nil {
		return err
	}

	key := reportKeyPrefix + report.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return battleerr.Wrap(err, "failed to check report")
	}
	if exists > 0 {
		return battleerr.AlreadyExistsf("report %s already exists", report.ID)
	}

	report.CreatedAt = r.timeProvider.Now()
	jsonData, err := json.Marshal(toData(report))
	if err != nil {
		return battleerr.Wrap(err, "failed to marshal report")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, string(jsonData), r.ttl)
	pipe.SAdd(ctx, fmt.Sprintf(outcomeKey, report.Outcome), report.ID)
	pipe.LPush(ctx, recentKey, report.ID)
	pipe.LTrim(ctx, recentKey, 0, r.recentSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return battleerr.Wrap(err, "failed to save report")
	}

	return nil
}

func (r *redisRepository) Get(ctx context.Context, id string) (*Report, error) {
	if id == "" {
		return nil, battleerr.InvalidArgument("report ID cannot be empty")
	}

	jsonData, err := r.client.Get(ctx, reportKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, battleerr.NotFoundf("report not found: %s", id)
		}
		return nil, battleerr.Wrap(err, "failed to get report")
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, battleerr.Wrap(err, "failed to unmarshal report")
	}

	return toReport(&data), nil
}

func (r *redisRepository) ListRecent(ctx context.Context, limit int) ([]*Report, error) {
	if limit < 1 {
		return nil, battleerr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	ids, err := r.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, battleerr.Wrap(err, "failed to list recent reports")
	}

	reports := make([]*Report, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id // per-iteration copies (go directive lowered to 1.21 for the local toolchain)
		g.Go(func() error {
			report, err := r.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get report %s: %w", id, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *redisRepository) CountByOutcome(ctx context.Context, outcome combat.Outcome) (int64, error) {
	count, err := r.client.SCard(ctx, fmt.Sprintf(outcomeKey, outcome)).Result()
	if err != nil {
		return 0, battleerr.Wrap(err, "failed to count reports")
	}
	return count, nil
}

func toData(report *Report) *Data {
	return &Data{
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

func toReport(data *Data) *Report {
	return &Report{
		ID:           data.ID,
		BattleID:     data.BattleID,
		Outcome:      combat.Outcome(data.Outcome),
		Rounds:       data.Rounds,
		Participants: data.Participants,
		Log:          data.Log,
		StartedAt:    data.StartedAt,
		EndedAt:      data.EndedAt,
		CreatedAt:    data.CreatedAt,
	}
}
