package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
	"github.com/adiwinata/duitmu/pkg/money"
)

// CheckpointHandler handles balance checkpoint and ghost report requests
type CheckpointHandler struct {
	ledger *ledger.Service
}

// NewCheckpointHandler creates a new checkpoint handler
func NewCheckpointHandler(ledgerService *ledger.Service) *CheckpointHandler {
	return &CheckpointHandler{ledger: ledgerService}
}

// CreateCheckpointRequest represents the checkpoint creation request body
type CreateCheckpointRequest struct {
	Amount      money.Amount `json:"amount"`
	Note        string       `json:"note"`
	EffectiveAt *time.Time   `json:"effective_at,omitempty"`
}

// CreateCheckpoint handles POST /wallets/{id}/checkpoints: the user declares
// the wallet's true balance.
func (h *CheckpointHandler) CreateCheckpoint(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authed(w, r)
	if !ok {
		return
	}

	var req CreateCheckpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cp, err := h.ledger.CreateCheckpoint(r.Context(), userID, walletID, req.Amount, req.Note, req.EffectiveAt)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, cp, http.StatusCreated)
}

// GetHistory handles GET /wallets/{id}/checkpoints?limit=N, newest first
func (h *CheckpointHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authed(w, r)
	if !ok {
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	history, err := h.ledger.CheckpointHistory(r.Context(), userID, walletID, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, history, http.StatusOK)
}

// GetLatest handles GET /wallets/{id}/checkpoints/latest
func (h *CheckpointHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authed(w, r)
	if !ok {
		return
	}

	cp, err := h.ledger.LatestCheckpoint(r.Context(), userID, walletID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, cp, http.StatusOK)
}

// GetGhostReport handles GET /wallets/{id}/ghosts: the unexplained gaps
// between consecutive checkpoints.
func (h *CheckpointHandler) GetGhostReport(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authed(w, r)
	if !ok {
		return
	}

	ghosts, err := h.ledger.GetGhostReport(r.Context(), userID, walletID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if ghosts == nil {
		ghosts = []ledger.Ghost{}
	}
	respondJSON(w, ghosts, http.StatusOK)
}

func (h *CheckpointHandler) authed(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, walletID, true
}

func (h *CheckpointHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrCheckpointNotFound):
		respondError(w, "checkpoint not found", http.StatusNotFound)
	case errors.Is(err, wallet.ErrWalletNotFound), errors.Is(err, ledger.ErrUnauthorizedAccess):
		respondError(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrNegativeCheckpointAmount):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
