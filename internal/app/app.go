// Package app provides top-level application lifecycle management for the
// appraisal server. It wires together all dependencies (store, cache, market
// data client, services, WebSocket hub) and runs the HTTP server until the
// context is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/confignsk/EVE-Nexus-sub009/internal/config"
	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
	"github.com/confignsk/EVE-Nexus-sub009/internal/server"
	"github.com/confignsk/EVE-Nexus-sub009/internal/server/handler"
	"github.com/confignsk/EVE-Nexus-sub009/internal/server/ws"
	"github.com/confignsk/EVE-Nexus-sub009/internal/service"
	"github.com/confignsk/EVE-Nexus-sub009/internal/valuation"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 10 * time.Second

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the
// WebSocket hub and HTTP server, and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	// --- Core valuation components ---
	engine := valuation.NewEngine(deps.OrderProvider, a.cfg.Appraisal.MaxConcurrency, a.logger)
	discount := valuation.NewDiscountAdapter(a.cfg.Appraisal.DiscountPercent, a.cfg.Appraisal.DiscountCap)

	// --- WebSocket hub ---
	hub := ws.NewHub(a.logger)

	// --- Services ---
	appraisalSvc := service.NewAppraisalService(engine, discount, deps.AppraisalStore, hub, a.logger)

	// --- HTTP server ---
	defaultHub := domain.TradeHub{
		RegionID: a.cfg.Appraisal.DefaultRegionID,
		SystemID: a.cfg.Appraisal.DefaultSystemID,
	}
	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
			APIKey:      a.cfg.Server.APIKey,
		},
		server.Handlers{
			Health:     handler.NewHealthHandler(a.logger),
			Appraisals: handler.NewAppraisalHandler(appraisalSvc, defaultHub, a.logger),
			Settings:   handler.NewSettingsHandler(discount, a.logger),
		},
		hub,
		deps.RateLimiter,
		a.logger,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		}
		return ctx.Err()
	})

	return g.Wait()
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
