package valuation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// trackingProvider records the maximum number of concurrent in-flight
// fetches and can fail selected type IDs.
type trackingProvider struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	failTypes   map[int32]bool
	delay       time.Duration
	orders      []domain.MarketOrder
}

func (p *trackingProvider) FetchOrderBook(ctx context.Context, regionID, typeID int32, forceRefresh bool) ([]domain.MarketOrder, error) {
	cur := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	for {
		max := p.maxInFlight.Load()
		if cur <= max || p.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if p.failTypes[typeID] {
		return nil, errors.New("provider unavailable")
	}
	return p.orders, nil
}

func TestFetchAllConcurrencyBound(t *testing.T) {
	for _, count := range []int{1, 5, 10, 50} {
		t.Run(fmt.Sprintf("%d_types", count), func(t *testing.T) {
			provider := &trackingProvider{delay: 2 * time.Millisecond}
			f := NewFetcher(provider, 0, discardLogger())

			typeIDs := make([]int32, count)
			for i := range typeIDs {
				typeIDs[i] = int32(i + 1)
			}

			books, err := f.FetchAll(context.Background(), 10000002, typeIDs, false)
			if err != nil {
				t.Fatalf("FetchAll: %v", err)
			}
			if len(books) != count {
				t.Fatalf("got %d books, want %d", len(books), count)
			}

			bound := int32(count)
			if bound > 10 {
				bound = 10
			}
			if got := provider.maxInFlight.Load(); got > bound {
				t.Errorf("max in-flight = %d, want <= %d", got, bound)
			}
		})
	}
}

func TestFetchAllFailureDegradesToEmptyBook(t *testing.T) {
	provider := &trackingProvider{
		failTypes: map[int32]bool{2: true},
		orders:    []domain.MarketOrder{{OrderID: 1, Price: 5, VolumeRemain: 10}},
	}
	f := NewFetcher(provider, 0, discardLogger())

	books, err := f.FetchAll(context.Background(), 10000002, []int32{1, 2, 3}, false)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if len(books) != 3 {
		t.Fatalf("got %d books, want 3 (failed type must still be present)", len(books))
	}
	if len(books[2]) != 0 {
		t.Errorf("failed type has %d orders, want empty book", len(books[2]))
	}
	if len(books[1]) != 1 || len(books[3]) != 1 {
		t.Errorf("sibling fetches affected by failure: %d, %d orders", len(books[1]), len(books[3]))
	}
}

func TestFetchAllCancellation(t *testing.T) {
	provider := &trackingProvider{delay: time.Second}
	f := NewFetcher(provider, 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	books, err := f.FetchAll(ctx, 10000002, []int32{1, 2, 3, 4, 5}, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if books != nil {
		t.Error("cancelled fetch returned a result map, want nil")
	}
}

func TestFetchAllEmptyInput(t *testing.T) {
	f := NewFetcher(&trackingProvider{}, 0, discardLogger())

	books, err := f.FetchAll(context.Background(), 10000002, nil, false)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books, want 0", len(books))
	}
}
