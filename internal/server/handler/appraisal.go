package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

// AppraisalService defines the methods that the appraisal handler requires
// from the service layer. It is declared locally so the handler package does
// not depend on the concrete service implementation.
type AppraisalService interface {
	Create(ctx context.Context, req domain.AppraisalRequest) (domain.Appraisal, error)
	Get(ctx context.Context, id string) (domain.Appraisal, error)
	List(ctx context.Context, opts domain.ListOpts) ([]domain.Appraisal, error)
	Count(ctx context.Context) (int64, error)
}

// AppraisalHandler serves appraisal-related HTTP endpoints.
type AppraisalHandler struct {
	appraisals AppraisalService
	defaultHub domain.TradeHub
	logger     *slog.Logger
}

// NewAppraisalHandler creates an AppraisalHandler. defaultHub is used for
// requests that do not name a region and system explicitly.
func NewAppraisalHandler(appraisals AppraisalService, defaultHub domain.TradeHub, logger *slog.Logger) *AppraisalHandler {
	return &AppraisalHandler{
		appraisals: appraisals,
		defaultHub: defaultHub,
		logger:     logger,
	}
}

// listAppraisalsResponse wraps the list endpoint output with metadata.
type listAppraisalsResponse struct {
	Appraisals []domain.Appraisal `json:"appraisals"`
	Total      int64              `json:"total"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// CreateAppraisal values an item bundle and persists the result.
// POST /api/appraisals
func (h *AppraisalHandler) CreateAppraisal(w http.ResponseWriter, r *http.Request) {
	var req domain.AppraisalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items is required")
		return
	}

	if req.Hub == (domain.TradeHub{}) {
		req.Hub = h.defaultHub
	}

	a, err := h.appraisals.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidHub):
			writeError(w, http.StatusBadRequest, "invalid trade hub")
		case errors.Is(err, domain.ErrInvalidDiscount):
			writeError(w, http.StatusBadRequest, "discount_percent out of range")
		case errors.Is(err, domain.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "upstream rate limited")
		default:
			h.logger.ErrorContext(r.Context(), "handler: create appraisal failed",
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to create appraisal")
		}
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// GetAppraisal returns a single stored appraisal by its ID.
// GET /api/appraisals/{id}
func (h *AppraisalHandler) GetAppraisal(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing appraisal id")
		return
	}

	a, err := h.appraisals.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "appraisal not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get appraisal failed",
			slog.String("appraisal_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get appraisal")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// ListAppraisals returns stored appraisals newest-first with pagination.
// GET /api/appraisals?limit=50&offset=0
func (h *AppraisalHandler) ListAppraisals(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	appraisals, err := h.appraisals.List(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list appraisals failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list appraisals")
		return
	}

	total, err := h.appraisals.Count(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: count appraisals failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to count appraisals")
		return
	}

	if appraisals == nil {
		appraisals = []domain.Appraisal{}
	}

	writeJSON(w, http.StatusOK, listAppraisalsResponse{
		Appraisals: appraisals,
		Total:      total,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}
