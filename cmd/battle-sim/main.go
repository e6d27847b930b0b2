package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/battle-core/internal/autopilot"
	"github.com/KirkDiggler/battle-core/internal/clients/dnd5e"
	"github.com/KirkDiggler/battle-core/internal/config"
	"github.com/KirkDiggler/battle-core/internal/dice"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	"github.com/KirkDiggler/battle-core/internal/gamedata"
	"github.com/KirkDiggler/battle-core/internal/logging"
	"github.com/KirkDiggler/battle-core/internal/repositories/battles"
	"github.com/KirkDiggler/battle-core/internal/repositories/reports"
	"github.com/KirkDiggler/battle-core/internal/services/battle"
	"github.com/KirkDiggler/battle-core/internal/spawn"
	"github.com/KirkDiggler/battle-core/internal/uuid"
)

func main() {
	party := flag.String("party", "", "comma separated player keys (defaults to the game data party)")
	enemies := flag.String("enemies", "", "comma separated enemy keys (drawn from the pool when empty)")
	count := flag.Int("count", 3, "number of enemies to draw from the pool")
	runs := flag.Int("battles", 1, "number of battles to simulate")
	maxSteps := flag.Int("max-steps", 1000, "give up on a battle after this many steps")
	wait := flag.Bool("wait", false, "sleep for each turn cooldown")
	quiet := flag.Bool("quiet", false, "only print outcomes")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	data, err := gamedata.Load(cfg.Battle.GameDataFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load game data")
	}

	cat, err := data.Catalog()
	if err != nil {
		logger.WithError(err).Fatal("Failed to build magic catalog")
	}

	provider, err := data.Provider()
	if err != nil {
		logger.WithError(err).Fatal("Failed to build spawn provider")
	}

	pool := data.EnemyPool
	if cfg.DND5E.Enabled {
		dndClient, clientErr := dnd5e.New(&dnd5e.Config{
			HttpClient: &http.Client{Timeout: cfg.DND5E.Timeout},
		})
		if clientErr != nil {
			logger.WithError(clientErr).Fatal("Failed to create D&D 5e client")
		}

		bestiary := dnd5e.NewEnemyProvider(dndClient)
		provider = spawn.Chain(provider, spawn.NewCachedProvider(bestiary))

		if srdPool, poolErr := bestiary.PoolByCR(0, 1); poolErr != nil {
			logger.WithError(poolErr).Warn("Failed to list SRD monsters, keeping the game data pool")
		} else {
			pool = srdPool
			logger.WithField("monsters", len(srdPool)).Info("Using SRD monsters")
		}
	}

	store, closeStore := openReportStore(cfg, logger)
	defer closeStore()

	ids := uuid.Generator(uuid.NewGoogleUUIDGenerator())
	if cfg.Battle.Seed != 0 {
		ids = uuid.NewSequenceGenerator("sim")
	}

	battleCount := int64(0)
	svc := battle.NewService(&battle.ServiceConfig{
		Battles:  battles.NewInMemoryRepository(),
		Reports:  store,
		Provider: provider,
		Catalog:  cat,
		Rules:    &cfg.Battle.Rules,
		RollerFactory: func(string) dice.Roller {
			battleCount++
			if cfg.Battle.Seed == 0 {
				return dice.NewRandomRoller()
			}
			return dice.NewSeededRoller(cfg.Battle.Seed + battleCount)
		},
		UUIDGenerator: ids,
		Log:           logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	sim := &simulator{
		svc:      svc,
		policy:   autopilot.New(cat),
		maxSteps: *maxSteps,
		wait:     *wait,
	}

	input := &battle.StartBattleInput{
		Party:      splitKeys(*party, data.Party),
		Enemies:    splitKeys(*enemies, nil),
		EnemyPool:  pool,
		EnemyCount: *count,
	}

	tally := map[combat.Outcome]int{}
	for i := 0; i < *runs; i++ {
		if !*quiet {
			input.Sink = newPrinter(os.Stdout)
		}

		b, runErr := sim.run(ctx, input)
		if runErr != nil {
			logger.WithError(runErr).Error("Battle failed")
			break
		}

		tally[b.Outcome]++
		fmt.Printf("Battle %s: %s after %d rounds\n", b.ID, outcomeLabel(b.Outcome), b.Round())
	}

	fmt.Println()
	for _, outcome := range []combat.Outcome{combat.OutcomeVictory, combat.OutcomeEscaped, combat.OutcomeDefeat, combat.OutcomeNone} {
		if tally[outcome] > 0 {
			fmt.Printf("%-10s %d\n", outcomeLabel(outcome), tally[outcome])
		}
	}

	if store != nil {
		recent, listErr := svc.RecentReports(ctx, 5)
		if listErr != nil {
			logger.WithError(listErr).Warn("Failed to list reports")
			return
		}
		fmt.Printf("\nLatest %d reports (%s store):\n", len(recent), cfg.Reports.Store)
		for _, r := range recent {
			fmt.Printf("  %s  %-8s %2d rounds  %s\n", r.EndedAt.Format(time.RFC3339), outcomeLabel(r.Outcome), r.Rounds, strings.Join(r.Participants, ", "))
		}
	}
}

// openReportStore picks the configured report store, falling back to memory
// when Redis is unreachable
func openReportStore(cfg *config.Config, logger logrus.FieldLogger) (reports.Repository, func()) {
	noop := func() {}

	switch cfg.Reports.Store {
	case config.StoreRedis:
		var opts *redis.Options
		if cfg.Redis.URL != "" {
			parsed, err := redis.ParseURL(cfg.Redis.URL)
			if err != nil {
				logger.WithError(err).Warn("Failed to parse Redis URL, falling back to in-memory reports")
				return reports.NewInMemoryRepository(nil), noop
			}
			opts = parsed
		} else {
			opts = &redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		}

		client := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Failed to connect to Redis, falling back to in-memory reports")
			_ = client.Close()
			return reports.NewInMemoryRepository(nil), noop
		}

		logger.Info("Using Redis for battle reports")
		return reports.NewRedis(client), func() {
			if err := client.Close(); err != nil {
				logger.WithError(err).Warn("Error closing Redis connection")
			}
		}

	case config.StoreSQLite:
		db, err := reports.OpenSQLite(cfg.Reports.SQLitePath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open report database")
		}

		logger.WithField("path", cfg.Reports.SQLitePath).Info("Using SQLite for battle reports")
		return reports.NewSQLiteRepository(db, nil), func() {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}

	default:
		return reports.NewInMemoryRepository(nil), noop
	}
}

func splitKeys(raw string, fallback []string) []string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func outcomeLabel(outcome combat.Outcome) string {
	if outcome == combat.OutcomeNone {
		return "unfinished"
	}
	return string(outcome)
}
