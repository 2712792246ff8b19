package valuation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// Engine is the single-shot valuation pipeline: normalize the bundle, fetch
// order books concurrently, consume liquidity per item, aggregate. All state
// is created per request and discarded; the engine itself is safe for
// concurrent use.
type Engine struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewEngine creates an Engine backed by the given provider. maxConcurrency
// bounds the fetch pool; <= 0 selects the default of 10.
func NewEngine(provider domain.OrderProvider, maxConcurrency int, logger *slog.Logger) *Engine {
	return &Engine{
		fetcher: NewFetcher(provider, maxConcurrency, logger),
		logger:  logger,
	}
}

// Valuate computes the portfolio valuation for a raw item bundle against the
// given trade hub. forceRefresh bypasses provider-side caching.
//
// Per-item fetch failures are absorbed (degraded to empty books) and show up
// only through the insufficiency flag. The request fails outright in exactly
// two cases: an unresolvable hub, or cancellation — a cancelled request
// never produces a PortfolioValuation.
func (e *Engine) Valuate(ctx context.Context, items []domain.ItemDemand, hub domain.TradeHub, forceRefresh bool) (domain.PortfolioValuation, error) {
	if !hub.Valid() {
		return domain.PortfolioValuation{}, domain.ErrInvalidHub
	}

	demands := NormalizeDemands(items)
	typeIDs := make([]int32, 0, len(demands))
	for typeID := range demands {
		typeIDs = append(typeIDs, typeID)
	}

	books, err := e.fetcher.FetchAll(ctx, hub.RegionID, typeIDs, forceRefresh)
	if err != nil {
		return domain.PortfolioValuation{}, fmt.Errorf("valuation: fetch order books: %w", err)
	}

	valuations := make([]domain.ItemValuation, 0, len(demands))
	for typeID, quantity := range demands {
		valuations = append(valuations, ConsumeOrderBook(typeID, books[typeID], quantity, hub.SystemID))
	}

	result := Aggregate(valuations)
	e.logger.DebugContext(ctx, "valuation: bundle valued",
		slog.Int("distinct_types", len(demands)),
		slog.Float64("buy_total", result.BuyTotal),
		slog.Float64("sell_total", result.SellTotal),
		slog.Bool("insufficient_liquidity", result.InsufficientLiquidity),
	)
	return result, nil
}
