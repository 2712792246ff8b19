package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confignsk/EVE-Nexus-sub009/internal/cache/redis"
	"github.com/confignsk/EVE-Nexus-sub009/internal/config"
	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
	"github.com/confignsk/EVE-Nexus-sub009/internal/platform/esi"
	"github.com/confignsk/EVE-Nexus-sub009/internal/service"
	"github.com/confignsk/EVE-Nexus-sub009/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application needs.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	OrderProvider  domain.OrderProvider
	OrderCache     domain.OrderCache
	AppraisalStore domain.AppraisalStore
	RateLimiter    domain.RateLimiter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	deps.AppraisalStore = postgres.NewAppraisalStore(pgClient.Pool())

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.OrderCache = redis.NewOrderCache(redisClient)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)

	// --- ESI market data ---
	esiClient := esi.NewClient(
		cfg.ESI.BaseURL,
		cfg.ESI.UserAgent,
		cfg.ESI.RequestTimeout.Duration,
	)

	deps.OrderProvider = service.NewCachedOrderProvider(
		esiClient,
		deps.OrderCache,
		cfg.Appraisal.CacheTTL.Duration,
		logger,
	)

	return deps, cleanup, nil
}
