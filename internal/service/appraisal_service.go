package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
	"github.com/confignsk/EVE-Nexus-sub009/internal/valuation"
)

// Publisher pushes an event payload to connected UI clients. Publish must not
// block; delivery is best-effort.
type Publisher interface {
	Publish(channel string, payload []byte)
}

// AppraisalService runs the valuation engine for incoming requests, applies
// the presentation discount, persists the result, and announces it on the
// event channel.
type AppraisalService struct {
	engine   *valuation.Engine
	discount *valuation.DiscountAdapter
	store    domain.AppraisalStore
	pub      Publisher
	logger   *slog.Logger
}

// NewAppraisalService creates an AppraisalService. pub may be nil when no
// event channel is attached.
func NewAppraisalService(
	engine *valuation.Engine,
	discount *valuation.DiscountAdapter,
	store domain.AppraisalStore,
	pub Publisher,
	logger *slog.Logger,
) *AppraisalService {
	return &AppraisalService{
		engine:   engine,
		discount: discount,
		store:    store,
		pub:      pub,
		logger:   logger,
	}
}

// Create values the requested bundle and returns the persisted appraisal.
// A request-level discount percent overrides the session setting for this
// appraisal only; an out-of-range override is rejected before any fetch
// starts.
func (s *AppraisalService) Create(ctx context.Context, req domain.AppraisalRequest) (domain.Appraisal, error) {
	percent := s.discount.Percent()
	if req.DiscountPercent != nil {
		p := *req.DiscountPercent
		if p <= 0 || p > valuation.DefaultDiscountCap {
			return domain.Appraisal{}, domain.ErrInvalidDiscount
		}
		percent = p
	}

	raw, err := s.engine.Valuate(ctx, req.Items, req.Hub, req.ForceRefresh)
	if err != nil {
		return domain.Appraisal{}, fmt.Errorf("appraisal: valuate: %w", err)
	}

	a := domain.Appraisal{
		ID:              uuid.NewString(),
		Hub:             req.Hub,
		ItemCount:       len(valuation.NormalizeDemands(req.Items)),
		Raw:             raw,
		Adjusted:        valuation.ApplyPercent(raw, percent, s.discount.Cap()),
		DiscountPercent: percent,
		CreatedAt:       time.Now().UTC(),
	}

	if s.store != nil {
		if err := s.store.Insert(ctx, a); err != nil {
			return domain.Appraisal{}, fmt.Errorf("appraisal: persist %s: %w", a.ID, err)
		}
	}

	s.announce(ctx, a)
	return a, nil
}

// Get returns one stored appraisal by ID.
func (s *AppraisalService) Get(ctx context.Context, id string) (domain.Appraisal, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Appraisal{}, fmt.Errorf("appraisal: get %s: %w", id, err)
	}
	return a, nil
}

// List returns stored appraisals newest-first.
func (s *AppraisalService) List(ctx context.Context, opts domain.ListOpts) ([]domain.Appraisal, error) {
	out, err := s.store.ListRecent(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("appraisal: list: %w", err)
	}
	return out, nil
}

// Count returns the number of stored appraisals.
func (s *AppraisalService) Count(ctx context.Context) (int64, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("appraisal: count: %w", err)
	}
	return n, nil
}

// announce publishes an appraisal_completed event. Failures here never affect
// the request outcome.
func (s *AppraisalService) announce(ctx context.Context, a domain.Appraisal) {
	if s.pub == nil {
		return
	}
	evt, err := json.Marshal(map[string]any{
		"event":                  "appraisal_completed",
		"id":                     a.ID,
		"buy_total":              a.Adjusted.BuyTotal,
		"sell_total":             a.Adjusted.SellTotal,
		"mid_total":              a.Adjusted.MidTotal,
		"insufficient_liquidity": a.Raw.InsufficientLiquidity,
		"created_at":             a.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "appraisal: encode event failed",
			slog.String("id", a.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.pub.Publish("appraisals", evt)
}
