// Package valuation implements the portfolio valuation engine: it normalizes
// a bundle of (type, quantity) demands, fetches live order books per distinct
// type under bounded concurrency, simulates consuming order-book liquidity at
// a trade hub to derive executable buy/sell totals, and aggregates the
// per-item results into a bundle-level valuation with an explicit
// partial-liquidity flag.
package valuation
