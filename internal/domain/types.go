// Package domain defines the core types and interfaces shared across the
// appraisal backend. It has no dependencies outside the standard library.
package domain

import "time"

// ItemDemand is a single (item type, quantity) entry in an appraisal request.
// Requests may repeat a type ID; normalization merges duplicates by summing.
type ItemDemand struct {
	TypeID   int32 `json:"type_id"`
	Quantity int64 `json:"quantity"`
}

// TradeHub identifies the market location an appraisal is valued against.
// RegionID selects which region's orders are fetched; SystemID filters the
// fetched orders down to the hub system (e.g. Jita in The Forge).
type TradeHub struct {
	RegionID int32 `json:"region_id"`
	SystemID int32 `json:"system_id"`
}

// Valid reports whether the hub resolves to a concrete region and system.
func (h TradeHub) Valid() bool {
	return h.RegionID > 0 && h.SystemID > 0
}

// MarketOrder is a single order from the market-data provider, immutable once
// fetched. Field shape follows the ESI market order schema.
type MarketOrder struct {
	OrderID      int64     `json:"order_id"`
	TypeID       int32     `json:"type_id"`
	LocationID   int64     `json:"location_id"`
	SystemID     int32     `json:"system_id"`
	Price        float64   `json:"price"`
	VolumeRemain int64     `json:"volume_remain"`
	VolumeTotal  int64     `json:"volume_total"`
	MinVolume    int64     `json:"min_volume"`
	IsBuyOrder   bool      `json:"is_buy_order"`
	Issued       time.Time `json:"issued"`
}

// ItemValuation is the result of consuming one item's order book against its
// demanded quantity. BuyTotal is the revenue from selling the demanded units
// into standing buy orders; SellTotal is the cost of buying them from
// standing sell orders. Unmet quantities record demand left over after the
// respective side's book was exhausted.
type ItemValuation struct {
	TypeID    int32   `json:"type_id"`
	BuyTotal  float64 `json:"buy_total"`
	SellTotal float64 `json:"sell_total"`
	Demanded  int64   `json:"demanded"`
	UnmetBuy  int64   `json:"unmet_buy"`
	UnmetSell int64   `json:"unmet_sell"`
}

// PortfolioValuation aggregates per-item valuations into bundle-level totals.
// It is ephemeral: recomputed on every request and never mutated.
type PortfolioValuation struct {
	BuyTotal              float64 `json:"buy_total"`
	SellTotal             float64 `json:"sell_total"`
	MidTotal              float64 `json:"mid_total"`
	InsufficientLiquidity bool    `json:"insufficient_liquidity"`
}

// Appraisal is a completed, persisted appraisal: the raw engine output plus
// the discounted totals shown to the user.
type Appraisal struct {
	ID              string             `json:"id"`
	Hub             TradeHub           `json:"hub"`
	ItemCount       int                `json:"item_count"`
	Raw             PortfolioValuation `json:"raw"`
	Adjusted        PortfolioValuation `json:"adjusted"`
	DiscountPercent int                `json:"discount_percent"`
	CreatedAt       time.Time          `json:"created_at"`
}

// AppraisalRequest carries one valuation request through the service layer.
type AppraisalRequest struct {
	Items           []ItemDemand `json:"items"`
	Hub             TradeHub     `json:"hub"`
	DiscountPercent *int         `json:"discount_percent,omitempty"` // nil = session setting
	ForceRefresh    bool         `json:"force_refresh,omitempty"`
}

// ListOpts carries standard pagination parameters.
type ListOpts struct {
	Limit  int
	Offset int
}
