package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// DiscountSettings defines what the settings handler needs from the discount
// adapter: set the session discount from raw user input and report the
// current value.
type DiscountSettings interface {
	Set(raw string) error
	Percent() int
	Multiplier() float64
}

// SettingsHandler serves session settings HTTP endpoints.
type SettingsHandler struct {
	discount DiscountSettings
	logger   *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler with the given discount
// adapter and logger.
func NewSettingsHandler(discount DiscountSettings, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		discount: discount,
		logger:   logger,
	}
}

// updateDiscountRequest is the JSON body accepted by UpdateDiscount. The
// percent is a raw string so the same validation applies as for UI input.
type updateDiscountRequest struct {
	Percent string `json:"percent"`
}

// discountResponse reports the current session discount.
type discountResponse struct {
	DiscountPercent int     `json:"discount_percent"`
	Multiplier      float64 `json:"multiplier"`
}

// GetDiscount returns the current session discount setting.
// GET /api/settings/discount
func (h *SettingsHandler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, discountResponse{
		DiscountPercent: h.discount.Percent(),
		Multiplier:      h.discount.Multiplier(),
	})
}

// UpdateDiscount sets the session discount from raw user input. Invalid
// input is rejected and the previous setting remains in effect.
// PUT /api/settings/discount
func (h *SettingsHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	var body updateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.discount.Set(body.Percent); err != nil {
		writeError(w, http.StatusBadRequest, "invalid discount: "+err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "handler: discount updated",
		slog.Int("percent", h.discount.Percent()),
	)

	writeJSON(w, http.StatusOK, discountResponse{
		DiscountPercent: h.discount.Percent(),
		Multiplier:      h.discount.Multiplier(),
	})
}
