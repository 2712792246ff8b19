package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// AppraisalStore implements domain.AppraisalStore using PostgreSQL.
type AppraisalStore struct {
	pool *pgxpool.Pool
}

// NewAppraisalStore creates a new AppraisalStore backed by the given pool.
func NewAppraisalStore(pool *pgxpool.Pool) *AppraisalStore {
	return &AppraisalStore{pool: pool}
}

const appraisalSelectCols = `id, region_id, system_id, item_count,
	buy_total, sell_total, mid_total,
	adjusted_buy_total, adjusted_sell_total, adjusted_mid_total,
	insufficient_liquidity, discount_percent, created_at`

func scanAppraisal(row pgx.Row) (domain.Appraisal, error) {
	var a domain.Appraisal
	err := row.Scan(
		&a.ID, &a.Hub.RegionID, &a.Hub.SystemID, &a.ItemCount,
		&a.Raw.BuyTotal, &a.Raw.SellTotal, &a.Raw.MidTotal,
		&a.Adjusted.BuyTotal, &a.Adjusted.SellTotal, &a.Adjusted.MidTotal,
		&a.Raw.InsufficientLiquidity, &a.DiscountPercent, &a.CreatedAt,
	)
	a.Adjusted.InsufficientLiquidity = a.Raw.InsufficientLiquidity
	return a, err
}

// Insert persists a completed appraisal.
func (s *AppraisalStore) Insert(ctx context.Context, a domain.Appraisal) error {
	const query = `
		INSERT INTO appraisals (
			id, region_id, system_id, item_count,
			buy_total, sell_total, mid_total,
			adjusted_buy_total, adjusted_sell_total, adjusted_mid_total,
			insufficient_liquidity, discount_percent, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13
		)`

	_, err := s.pool.Exec(ctx, query,
		a.ID, a.Hub.RegionID, a.Hub.SystemID, a.ItemCount,
		a.Raw.BuyTotal, a.Raw.SellTotal, a.Raw.MidTotal,
		a.Adjusted.BuyTotal, a.Adjusted.SellTotal, a.Adjusted.MidTotal,
		a.Raw.InsufficientLiquidity, a.DiscountPercent, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert appraisal %s: %w", a.ID, err)
	}
	return nil
}

// GetByID returns one appraisal, or domain.ErrNotFound.
func (s *AppraisalStore) GetByID(ctx context.Context, id string) (domain.Appraisal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+appraisalSelectCols+` FROM appraisals WHERE id = $1`, id)

	a, err := scanAppraisal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Appraisal{}, domain.ErrNotFound
		}
		return domain.Appraisal{}, fmt.Errorf("postgres: get appraisal %s: %w", id, err)
	}
	return a, nil
}

// ListRecent returns appraisals newest-first with pagination.
func (s *AppraisalStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.Appraisal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appraisalSelectCols+` FROM appraisals
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: list appraisals: %w", err)
	}
	defer rows.Close()

	var out []domain.Appraisal
	for rows.Next() {
		a, err := scanAppraisal(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan appraisal: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns the total number of stored appraisals.
func (s *AppraisalStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appraisals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count appraisals: %w", err)
	}
	return n, nil
}

// Compile-time interface check.
var _ domain.AppraisalStore = (*AppraisalStore)(nil)
