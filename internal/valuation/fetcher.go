package valuation

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// defaultMaxConcurrency bounds how many order-book fetches are in flight at
// once, regardless of bundle size.
const defaultMaxConcurrency = 10

// Fetcher retrieves order books for a batch of item types from an
// OrderProvider under bounded concurrency. A single type's fetch failure is
// non-fatal: it is logged and recorded as an empty book so sibling fetches
// and the overall batch continue.
type Fetcher struct {
	provider       domain.OrderProvider
	maxConcurrency int
	logger         *slog.Logger
}

// NewFetcher creates a Fetcher. maxConcurrency <= 0 selects the default
// bound of 10.
func NewFetcher(provider domain.OrderProvider, maxConcurrency int, logger *slog.Logger) *Fetcher {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Fetcher{
		provider:       provider,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// FetchAll fetches the order book for every given type ID in regionID and
// returns a map from type ID to its (possibly empty) order list. The map is
// returned only after every fetch has completed; no partial result is ever
// exposed.
//
// At most min(maxConcurrency, len(typeIDs)) fetches are in flight at once:
// a completed fetch immediately frees a slot for the next pending type.
// If ctx is cancelled, the remaining fetches are abandoned and FetchAll
// returns the context error with a nil map.
func (f *Fetcher) FetchAll(ctx context.Context, regionID int32, typeIDs []int32, forceRefresh bool) (map[int32][]domain.MarketOrder, error) {
	books := make(map[int32][]domain.MarketOrder, len(typeIDs))
	if len(typeIDs) == 0 {
		return books, nil
	}

	concurrency := f.maxConcurrency
	if len(typeIDs) < concurrency {
		concurrency = len(typeIDs)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	for _, typeID := range typeIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			orders, err := f.provider.FetchOrderBook(ctx, regionID, typeID, forceRefresh)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Degrade to an empty book; the item stays in the batch.
				f.logger.WarnContext(ctx, "valuation: order book fetch failed",
					slog.Int("type_id", int(typeID)),
					slog.Int("region_id", int(regionID)),
					slog.String("error", err.Error()),
				)
				orders = nil
			}

			mu.Lock()
			books[typeID] = orders
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return books, nil
}
