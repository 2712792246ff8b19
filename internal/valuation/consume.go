package valuation

import (
	"sort"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// ConsumeOrderBook walks one item's order book and computes the best
// achievable buy-side and sell-side execution totals for the demanded
// quantity at the given hub system.
//
// Buy-side orders are consumed from the highest bid down (revenue from
// selling the bundle into standing buy orders); sell-side orders from the
// cheapest ask up (cost of buying the bundle from standing sell orders).
// If a side's book is exhausted before demand is met, the leftover is
// recorded as the unmet quantity for that side while the totals already
// accumulated from partially filled levels are kept: the item is flagged,
// not excluded.
func ConsumeOrderBook(typeID int32, orders []domain.MarketOrder, demanded int64, systemID int32) domain.ItemValuation {
	v := domain.ItemValuation{
		TypeID:   typeID,
		Demanded: demanded,
	}
	if demanded <= 0 {
		return v
	}

	var bids, asks []domain.MarketOrder
	for _, o := range orders {
		if o.SystemID != systemID {
			continue
		}
		if o.IsBuyOrder {
			bids = append(bids, o)
		} else {
			asks = append(asks, o)
		}
	}

	// Most aggressive bids first, cheapest asks first.
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })

	v.BuyTotal, v.UnmetBuy = walkSide(bids, demanded)
	v.SellTotal, v.UnmetSell = walkSide(asks, demanded)
	return v
}

// walkSide consumes sorted price levels until demand is met or the book is
// exhausted, returning the accumulated total and the unmet remainder.
func walkSide(orders []domain.MarketOrder, demanded int64) (total float64, unmet int64) {
	remaining := demanded
	for _, o := range orders {
		if remaining <= 0 {
			break
		}
		units := remaining
		if o.VolumeRemain < units {
			units = o.VolumeRemain
		}
		if units <= 0 {
			continue
		}
		total += float64(units) * o.Price
		remaining -= units
	}
	return total, remaining
}

// Aggregate combines per-item valuations into one bundle-level valuation.
// The mid total is the arithmetic mean of the buy and sell totals; the
// insufficiency flag is raised if any item left demand unmet on either side.
func Aggregate(items []domain.ItemValuation) domain.PortfolioValuation {
	var out domain.PortfolioValuation
	for _, it := range items {
		out.BuyTotal += it.BuyTotal
		out.SellTotal += it.SellTotal
		if it.UnmetBuy > 0 || it.UnmetSell > 0 {
			out.InsufficientLiquidity = true
		}
	}
	out.MidTotal = (out.BuyTotal + out.SellTotal) / 2
	return out
}
