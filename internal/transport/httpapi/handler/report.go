package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
)

// ReportHandler handles cross-wallet cashflow and breakdown reports
type ReportHandler struct {
	ledger *ledger.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(ledgerService *ledger.Service) *ReportHandler {
	return &ReportHandler{ledger: ledgerService}
}

// GetSummary handles GET /reports/summary?period=monthly|yearly
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	period := ledger.ReportPeriod(r.URL.Query().Get("period"))

	summary, err := h.ledger.CashflowSummary(r.Context(), userID, period, time.Now())
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, summary, http.StatusOK)
}

// GetBreakdown handles GET /reports/breakdown/{dimension} with dimension one
// of category, scope, wallet.
func (h *ReportHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dim := ledger.BreakdownDimension(chi.URLParam(r, "dimension"))

	entries, err := h.ledger.Breakdown(r.Context(), userID, dim)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if entries == nil {
		entries = []ledger.BreakdownEntry{}
	}
	respondJSON(w, entries, http.StatusOK)
}

func (h *ReportHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidReportPeriod), errors.Is(err, ledger.ErrInvalidBreakdownDimension):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
