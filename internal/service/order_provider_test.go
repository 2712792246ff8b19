package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

type fakeFetcher struct {
	calls  int
	orders []domain.MarketOrder
	err    error
}

func (f *fakeFetcher) FetchRegionTypeOrders(ctx context.Context, regionID, typeID int32) ([]domain.MarketOrder, error) {
	f.calls++
	return f.orders, f.err
}

type memCache struct {
	data map[string][]domain.MarketOrder
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]domain.MarketOrder)}
}

func (c *memCache) key(regionID, typeID int32) string {
	return fmt.Sprintf("%d/%d", regionID, typeID)
}

func (c *memCache) Set(ctx context.Context, regionID, typeID int32, orders []domain.MarketOrder, ttl time.Duration) error {
	c.data[c.key(regionID, typeID)] = orders
	return nil
}

func (c *memCache) Get(ctx context.Context, regionID, typeID int32) ([]domain.MarketOrder, error) {
	orders, ok := c.data[c.key(regionID, typeID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return orders, nil
}

func (c *memCache) Invalidate(ctx context.Context, regionID, typeID int32) error {
	delete(c.data, c.key(regionID, typeID))
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedProviderServesSecondFetchFromCache(t *testing.T) {
	fetcher := &fakeFetcher{orders: []domain.MarketOrder{{OrderID: 1, Price: 10, VolumeRemain: 5}}}
	p := NewCachedOrderProvider(fetcher, newMemCache(), time.Minute, testLogger())

	ctx := context.Background()

	first, err := p.FetchOrderBook(ctx, 10000002, 34, false)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := p.FetchOrderBook(ctx, 10000002, 34, false)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1 (second fetch served from cache)", fetcher.calls)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("order counts = (%d, %d), want (1, 1)", len(first), len(second))
	}
}

func TestCachedProviderForceRefreshBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{orders: []domain.MarketOrder{{OrderID: 1}}}
	cache := newMemCache()
	p := NewCachedOrderProvider(fetcher, cache, time.Minute, testLogger())

	ctx := context.Background()

	if _, err := p.FetchOrderBook(ctx, 10000002, 34, false); err != nil {
		t.Fatalf("warm fetch: %v", err)
	}
	if _, err := p.FetchOrderBook(ctx, 10000002, 34, true); err != nil {
		t.Fatalf("force refresh: %v", err)
	}

	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2 (force refresh bypasses cache)", fetcher.calls)
	}
}

func TestCachedProviderNilCache(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := NewCachedOrderProvider(fetcher, nil, 0, testLogger())

	if _, err := p.FetchOrderBook(context.Background(), 10000002, 34, false); err != nil {
		t.Fatalf("fetch without cache: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}
