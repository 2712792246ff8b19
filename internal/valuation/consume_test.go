package valuation

import (
	"testing"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

const testSystemID = int32(30000142)

func sellOrder(price float64, volume int64) domain.MarketOrder {
	return domain.MarketOrder{SystemID: testSystemID, Price: price, VolumeRemain: volume}
}

func buyOrder(price float64, volume int64) domain.MarketOrder {
	return domain.MarketOrder{SystemID: testSystemID, Price: price, VolumeRemain: volume, IsBuyOrder: true}
}

func TestConsumeSellSideCheapestFirst(t *testing.T) {
	// Asks listed out of order on purpose; consumption must sort ascending.
	orders := []domain.MarketOrder{
		sellOrder(12, 5),
		sellOrder(10, 2),
	}

	v := ConsumeOrderBook(34, orders, 4, testSystemID)

	if want := 2*10.0 + 2*12.0; v.SellTotal != want {
		t.Errorf("SellTotal = %v, want %v", v.SellTotal, want)
	}
	if v.UnmetSell != 0 {
		t.Errorf("UnmetSell = %d, want 0", v.UnmetSell)
	}
}

func TestConsumeBuySideMostAggressiveFirst(t *testing.T) {
	orders := []domain.MarketOrder{
		buyOrder(12, 5),
		buyOrder(15, 2),
	}

	v := ConsumeOrderBook(34, orders, 10, testSystemID)

	if want := 2*15.0 + 5*12.0; v.BuyTotal != want {
		t.Errorf("BuyTotal = %v, want %v", v.BuyTotal, want)
	}
	if v.UnmetBuy != 3 {
		t.Errorf("UnmetBuy = %d, want 3", v.UnmetBuy)
	}
}

func TestConsumePartialFill(t *testing.T) {
	// Book exhausted before demand is met: the accumulated total from the
	// partially consumed side must still be counted.
	orders := []domain.MarketOrder{sellOrder(10, 3)}

	v := ConsumeOrderBook(34, orders, 8, testSystemID)

	if v.SellTotal != 30 {
		t.Errorf("SellTotal = %v, want 30", v.SellTotal)
	}
	if v.UnmetSell != 5 {
		t.Errorf("UnmetSell = %d, want 5", v.UnmetSell)
	}
}

func TestConsumeEmptyBook(t *testing.T) {
	v := ConsumeOrderBook(34, nil, 7, testSystemID)

	if v.BuyTotal != 0 || v.SellTotal != 0 {
		t.Errorf("totals = (%v, %v), want (0, 0)", v.BuyTotal, v.SellTotal)
	}
	if v.UnmetBuy != 7 || v.UnmetSell != 7 {
		t.Errorf("unmet = (%d, %d), want (7, 7)", v.UnmetBuy, v.UnmetSell)
	}
}

func TestConsumeZeroDemand(t *testing.T) {
	v := ConsumeOrderBook(34, []domain.MarketOrder{sellOrder(10, 5)}, 0, testSystemID)

	if v.BuyTotal != 0 || v.SellTotal != 0 || v.UnmetBuy != 0 || v.UnmetSell != 0 {
		t.Errorf("zero-demand valuation not empty: %+v", v)
	}
}

func TestConsumeFiltersOtherSystems(t *testing.T) {
	other := sellOrder(1, 100)
	other.SystemID = 30002187 // different system, must be ignored

	v := ConsumeOrderBook(34, []domain.MarketOrder{other, sellOrder(10, 4)}, 4, testSystemID)

	if v.SellTotal != 40 {
		t.Errorf("SellTotal = %v, want 40", v.SellTotal)
	}
	if v.UnmetSell != 0 {
		t.Errorf("UnmetSell = %d, want 0", v.UnmetSell)
	}
}

func TestConsumeSkipsZeroVolumeOrders(t *testing.T) {
	orders := []domain.MarketOrder{
		sellOrder(5, 0),
		sellOrder(10, 4),
	}

	v := ConsumeOrderBook(34, orders, 4, testSystemID)

	if v.SellTotal != 40 {
		t.Errorf("SellTotal = %v, want 40", v.SellTotal)
	}
}

func TestAggregateMidIsMean(t *testing.T) {
	items := []domain.ItemValuation{
		{BuyTotal: 100, SellTotal: 130},
		{BuyTotal: 40, SellTotal: 50},
	}

	out := Aggregate(items)

	if out.BuyTotal != 140 || out.SellTotal != 180 {
		t.Fatalf("totals = (%v, %v), want (140, 180)", out.BuyTotal, out.SellTotal)
	}
	if want := (out.BuyTotal + out.SellTotal) / 2; out.MidTotal != want {
		t.Errorf("MidTotal = %v, want %v", out.MidTotal, want)
	}
	if out.InsufficientLiquidity {
		t.Error("InsufficientLiquidity = true, want false")
	}
}

func TestAggregateInsufficiencyPropagates(t *testing.T) {
	items := []domain.ItemValuation{
		{BuyTotal: 100, SellTotal: 100},
		{BuyTotal: 10, SellTotal: 0, UnmetSell: 3},
	}

	out := Aggregate(items)

	if !out.InsufficientLiquidity {
		t.Error("InsufficientLiquidity = false, want true when any item has unmet demand")
	}
}
