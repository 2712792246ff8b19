package valuation

import (
	"strconv"
	"sync"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// DefaultDiscountCap is the highest effective percent when no cap is
// configured. Requested percents above the cap are clamped, not rejected.
const DefaultDiscountCap = 99999

// maxDiscountDigits bounds the raw input length: at most 5 digits.
const maxDiscountDigits = 5

// DiscountAdapter applies a user-configurable percentage scalar to valuation
// totals at presentation time. It performs no I/O; the only state is the
// last accepted percent, which is retained when an update is rejected.
type DiscountAdapter struct {
	mu      sync.RWMutex
	percent int
	cap     int
}

// NewDiscountAdapter creates an adapter with the given starting percent and
// clamp cap. A non-positive starting percent defaults to 100 (no adjustment);
// a non-positive cap defaults to DefaultDiscountCap.
func NewDiscountAdapter(percent, cap int) *DiscountAdapter {
	if percent <= 0 {
		percent = 100
	}
	if cap <= 0 {
		cap = DefaultDiscountCap
	}
	return &DiscountAdapter{percent: percent, cap: cap}
}

// Set parses and accepts a new percent from raw user input. The input must
// be digits only, strictly positive, and at most 5 characters. On rejection
// the previously accepted value is retained and domain.ErrInvalidDiscount is
// returned.
func (d *DiscountAdapter) Set(raw string) error {
	percent, err := ParsePercent(raw)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.percent = percent
	d.mu.Unlock()
	return nil
}

// Percent returns the last accepted percent.
func (d *DiscountAdapter) Percent() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.percent
}

// Multiplier returns the effective scalar: min(cap, percent) / 100.
func (d *DiscountAdapter) Multiplier() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return multiplier(d.percent, d.cap)
}

// Apply returns a copy of v with the current multiplier applied to all three
// totals. The liquidity flag is passed through untouched.
func (d *DiscountAdapter) Apply(v domain.PortfolioValuation) domain.PortfolioValuation {
	return ApplyPercent(v, d.Percent(), d.Cap())
}

// Cap returns the configured clamp cap.
func (d *DiscountAdapter) Cap() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cap
}

// ParsePercent validates raw discount input: numeric-only, strictly
// positive, at most 5 digits. It returns domain.ErrInvalidDiscount otherwise.
func ParsePercent(raw string) (int, error) {
	if raw == "" || len(raw) > maxDiscountDigits {
		return 0, domain.ErrInvalidDiscount
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, domain.ErrInvalidDiscount
		}
	}
	percent, err := strconv.Atoi(raw)
	if err != nil || percent <= 0 {
		return 0, domain.ErrInvalidDiscount
	}
	return percent, nil
}

// ApplyPercent scales v's totals by min(cap, percent)/100. It is the pure
// form of DiscountAdapter.Apply for requests that carry their own percent.
func ApplyPercent(v domain.PortfolioValuation, percent, cap int) domain.PortfolioValuation {
	m := multiplier(percent, cap)
	v.BuyTotal *= m
	v.SellTotal *= m
	v.MidTotal *= m
	return v
}

func multiplier(percent, cap int) float64 {
	if cap > 0 && percent > cap {
		percent = cap
	}
	return float64(percent) / 100
}
