package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// OrderCache implements domain.OrderCache, storing each (region, type) order
// list as a JSON blob with a TTL.
//
// Key schema:
//
//	orders:{regionID}:{typeID} - JSON-encoded []domain.MarketOrder
type OrderCache struct {
	rdb *redis.Client
}

// NewOrderCache creates an OrderCache backed by the given Client.
func NewOrderCache(c *Client) *OrderCache {
	return &OrderCache{rdb: c.Underlying()}
}

func orderKey(regionID, typeID int32) string {
	return fmt.Sprintf("orders:%d:%d", regionID, typeID)
}

// Set stores the order list under its (region, type) key. A nil list is
// stored as an empty array so a degraded fetch is still a cache hit.
func (c *OrderCache) Set(ctx context.Context, regionID, typeID int32, orders []domain.MarketOrder, ttl time.Duration) error {
	if orders == nil {
		orders = []domain.MarketOrder{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("redis: encode orders %d/%d: %w", regionID, typeID, err)
	}
	if err := c.rdb.Set(ctx, orderKey(regionID, typeID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set orders %d/%d: %w", regionID, typeID, err)
	}
	return nil
}

// Get returns the cached order list, or domain.ErrNotFound when the key is
// absent or expired.
func (c *OrderCache) Get(ctx context.Context, regionID, typeID int32) ([]domain.MarketOrder, error) {
	data, err := c.rdb.Get(ctx, orderKey(regionID, typeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get orders %d/%d: %w", regionID, typeID, err)
	}

	var orders []domain.MarketOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("redis: decode orders %d/%d: %w", regionID, typeID, err)
	}
	return orders, nil
}

// Invalidate removes the cached order list for one (region, type) pair.
func (c *OrderCache) Invalidate(ctx context.Context, regionID, typeID int32) error {
	if err := c.rdb.Del(ctx, orderKey(regionID, typeID)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate orders %d/%d: %w", regionID, typeID, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.OrderCache = (*OrderCache)(nil)
