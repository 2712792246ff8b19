package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// OrderFetcher retrieves the full order book for one type in one region from
// the market-data API. It is declared locally so the service does not depend
// on the concrete ESI client.
type OrderFetcher interface {
	FetchRegionTypeOrders(ctx context.Context, regionID, typeID int32) ([]domain.MarketOrder, error)
}

// CachedOrderProvider implements domain.OrderProvider by fronting the
// market-data API with the order cache. Cache failures degrade to a direct
// fetch and never fail the request; forceRefresh bypasses the cache read but
// still repopulates it.
type CachedOrderProvider struct {
	fetcher OrderFetcher
	cache   domain.OrderCache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewCachedOrderProvider creates a provider with the given cache TTL. A nil
// cache disables caching entirely.
func NewCachedOrderProvider(fetcher OrderFetcher, cache domain.OrderCache, ttl time.Duration, logger *slog.Logger) *CachedOrderProvider {
	return &CachedOrderProvider{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// FetchOrderBook returns the current order book for (regionID, typeID),
// serving from the cache when possible.
func (p *CachedOrderProvider) FetchOrderBook(ctx context.Context, regionID, typeID int32, forceRefresh bool) ([]domain.MarketOrder, error) {
	if p.cache != nil && !forceRefresh {
		orders, err := p.cache.Get(ctx, regionID, typeID)
		if err == nil {
			return orders, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			p.logger.WarnContext(ctx, "order cache read failed, fetching directly",
				slog.Int("type_id", int(typeID)),
				slog.String("error", err.Error()),
			)
		}
	}

	orders, err := p.fetcher.FetchRegionTypeOrders(ctx, regionID, typeID)
	if err != nil {
		return nil, fmt.Errorf("provider: fetch orders %d/%d: %w", regionID, typeID, err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, regionID, typeID, orders, p.ttl); err != nil {
			p.logger.WarnContext(ctx, "order cache write failed",
				slog.Int("type_id", int(typeID)),
				slog.String("error", err.Error()),
			)
		}
	}

	return orders, nil
}

// Compile-time interface check.
var _ domain.OrderProvider = (*CachedOrderProvider)(nil)
