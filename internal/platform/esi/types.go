package esi

import (
	"time"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// marketOrder mirrors one entry of the ESI market orders response
// (GET /markets/{region_id}/orders/).
type marketOrder struct {
	OrderID      int64     `json:"order_id"`
	TypeID       int32     `json:"type_id"`
	LocationID   int64     `json:"location_id"`
	SystemID     int32     `json:"system_id"`
	Price        float64   `json:"price"`
	VolumeRemain int64     `json:"volume_remain"`
	VolumeTotal  int64     `json:"volume_total"`
	MinVolume    int64     `json:"min_volume"`
	IsBuyOrder   bool      `json:"is_buy_order"`
	Duration     int64     `json:"duration"`
	Issued       time.Time `json:"issued"`
	Range        string    `json:"range"`
}

func (o marketOrder) asDomain() domain.MarketOrder {
	return domain.MarketOrder{
		OrderID:      o.OrderID,
		TypeID:       o.TypeID,
		LocationID:   o.LocationID,
		SystemID:     o.SystemID,
		Price:        o.Price,
		VolumeRemain: o.VolumeRemain,
		VolumeTotal:  o.VolumeTotal,
		MinVolume:    o.MinVolume,
		IsBuyOrder:   o.IsBuyOrder,
		Issued:       o.Issued,
	}
}

// errorResponse is the JSON body ESI returns on non-2xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}
