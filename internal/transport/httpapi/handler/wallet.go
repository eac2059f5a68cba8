package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
	"github.com/adiwinata/duitmu/pkg/money"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	wallets *wallet.Service
	ledger  *ledger.Service
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(wallets *wallet.Service, ledgerService *ledger.Service) *WalletHandler {
	return &WalletHandler{
		wallets: wallets,
		ledger:  ledgerService,
	}
}

// CreateWalletRequest represents the wallet creation request body
type CreateWalletRequest struct {
	Name           string        `json:"name"`
	Kind           string        `json:"kind"`
	Currency       string        `json:"currency"`
	InitialBalance *money.Amount `json:"initial_balance,omitempty"`
}

// CreateWallet handles POST /wallets. A non-zero initial balance becomes the
// wallet's first balance checkpoint.
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.wallets.Create(r.Context(), &wallet.Wallet{
		UserID:   userID,
		Name:     req.Name,
		Kind:     wallet.Kind(req.Kind),
		Currency: req.Currency,
		IsActive: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrDuplicateWalletName):
			respondError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, wallet.ErrMissingWalletName),
			errors.Is(err, wallet.ErrWalletNameTooLong),
			errors.Is(err, wallet.ErrInvalidWalletKind),
			errors.Is(err, wallet.ErrInvalidCurrency):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "failed to create wallet", http.StatusInternalServerError)
		}
		return
	}

	if req.InitialBalance != nil && req.InitialBalance.IsPositive() {
		if _, err := h.ledger.CreateCheckpoint(r.Context(), userID, created.ID, *req.InitialBalance, "initial balance", nil); err != nil {
			respondError(w, "failed to set initial balance", http.StatusInternalServerError)
			return
		}
		created.ActualBalance = *req.InitialBalance
	}

	respondJSON(w, created, http.StatusCreated)
}

// GetWallets handles GET /wallets
func (h *WalletHandler) GetWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wallets, err := h.wallets.List(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to list wallets", http.StatusInternalServerError)
		return
	}

	respondJSON(w, wallets, http.StatusOK)
}

// GetWallet handles GET /wallets/{id}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authedWalletID(w, r)
	if !ok {
		return
	}

	found, err := h.wallets.GetByID(r.Context(), walletID, userID)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}

	respondJSON(w, found, http.StatusOK)
}

// UpdateWalletRequest represents the wallet update request body
type UpdateWalletRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Currency string `json:"currency"`
}

// UpdateWallet handles PUT /wallets/{id}. Balances cannot be set here; they
// change only through transactions and checkpoints.
func (h *WalletHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authedWalletID(w, r)
	if !ok {
		return
	}

	var req UpdateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.wallets.Update(r.Context(), &wallet.Wallet{
		ID:       walletID,
		Name:     req.Name,
		Kind:     wallet.Kind(req.Kind),
		Currency: req.Currency,
	}, userID)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}

	respondJSON(w, updated, http.StatusOK)
}

// DeleteWallet handles DELETE /wallets/{id}. Wallets are soft-deleted; their
// transaction history survives.
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authedWalletID(w, r)
	if !ok {
		return
	}

	if err := h.wallets.Deactivate(r.Context(), walletID, userID); err != nil {
		h.respondWalletError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetWalletBalance handles GET /wallets/{id}/balance: the per-wallet summary
// with totals, last activity and outstanding ghost amounts.
func (h *WalletHandler) GetWalletBalance(w http.ResponseWriter, r *http.Request) {
	userID, walletID, ok := h.authedWalletID(w, r)
	if !ok {
		return
	}

	summary, err := h.ledger.Summary(r.Context(), userID, walletID)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}

	respondJSON(w, summary, http.StatusOK)
}

func (h *WalletHandler) authedWalletID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
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

func (h *WalletHandler) respondWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound):
		respondError(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, wallet.ErrUnauthorizedAccess), errors.Is(err, ledger.ErrUnauthorizedAccess):
		respondError(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, wallet.ErrDuplicateWalletName):
		respondError(w, err.Error(), http.StatusConflict)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
