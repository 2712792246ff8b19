package valuation

import "github.com/confignsk/EVE-Nexus-sub009/internal/domain"

// NormalizeDemands merges a raw item list into a unique-by-type demand map.
// Quantities for repeated type IDs are summed, never overwritten; zero
// quantities are kept and simply contribute nothing. The input is not
// modified.
func NormalizeDemands(items []domain.ItemDemand) map[int32]int64 {
	demands := make(map[int32]int64, len(items))
	for _, it := range items {
		demands[it.TypeID] += it.Quantity
	}
	return demands
}
