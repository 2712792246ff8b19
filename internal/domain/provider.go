package domain

import (
	"context"
	"time"
)

// OrderProvider retrieves the current order book for one item type in one
// region. forceRefresh bypasses any provider-side caching. Implementations
// may fail transiently; callers are expected to degrade rather than abort.
type OrderProvider interface {
	FetchOrderBook(ctx context.Context, regionID, typeID int32, forceRefresh bool) ([]MarketOrder, error)
}

// OrderCache stores fetched per-(region, type) order lists with a TTL.
type OrderCache interface {
	Set(ctx context.Context, regionID, typeID int32, orders []MarketOrder, ttl time.Duration) error
	Get(ctx context.Context, regionID, typeID int32) ([]MarketOrder, error)
	Invalidate(ctx context.Context, regionID, typeID int32) error
}

// AppraisalStore persists completed appraisals for history listing.
type AppraisalStore interface {
	Insert(ctx context.Context, a Appraisal) error
	GetByID(ctx context.Context, id string) (Appraisal, error)
	ListRecent(ctx context.Context, opts ListOpts) ([]Appraisal, error)
	Count(ctx context.Context) (int64, error)
}

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	// Allow reports whether a request for key is permitted under limit
	// requests per window, counting the request when it is.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
