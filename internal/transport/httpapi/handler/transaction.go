package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
	"github.com/adiwinata/duitmu/pkg/money"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	ledger *ledger.Service
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerService *ledger.Service) *TransactionHandler {
	return &TransactionHandler{ledger: ledgerService}
}

// CreateTransactionRequest represents the transaction creation request body
type CreateTransactionRequest struct {
	WalletID      uuid.UUID    `json:"wallet_id"`
	Type          string       `json:"type"`
	Amount        money.Amount `json:"amount"`
	Timestamp     *time.Time   `json:"timestamp,omitempty"`
	CategoryID    *uuid.UUID   `json:"category_id,omitempty"`
	ScopeID       *uuid.UUID   `json:"scope_id,omitempty"`
	Note          string       `json:"note"`
	ResolvesGhost bool         `json:"resolves_ghost"`
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	in := ledger.PostInput{
		UserID:        userID,
		WalletID:      req.WalletID,
		Type:          ledger.TransactionType(req.Type),
		Amount:        req.Amount,
		CategoryID:    req.CategoryID,
		ScopeID:       req.ScopeID,
		Note:          req.Note,
		ResolvesGhost: req.ResolvesGhost,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}

	tx, err := h.ledger.PostTransaction(r.Context(), in)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	respondJSON(w, tx, http.StatusCreated)
}

// GetTransactions handles GET /transactions?wallet_id=...
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	walletID, err := uuid.Parse(r.URL.Query().Get("wallet_id"))
	if err != nil {
		respondError(w, "wallet_id query parameter is required", http.StatusBadRequest)
		return
	}

	txs, err := h.ledger.ListTransactions(r.Context(), userID, walletID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	respondJSON(w, txs, http.StatusOK)
}

// GetTransaction handles GET /transactions/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, txID, ok := h.authedTxID(w, r)
	if !ok {
		return
	}

	tx, err := h.ledger.GetTransaction(r.Context(), txID, userID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	respondJSON(w, tx, http.StatusOK)
}

// UpdateTransactionRequest represents the transaction update request body;
// omitted fields keep their current value
type UpdateTransactionRequest struct {
	Type          *string       `json:"type,omitempty"`
	Amount        *money.Amount `json:"amount,omitempty"`
	Timestamp     *time.Time    `json:"timestamp,omitempty"`
	CategoryID    *uuid.UUID    `json:"category_id,omitempty"`
	ScopeID       *uuid.UUID    `json:"scope_id,omitempty"`
	Note          *string       `json:"note,omitempty"`
	ResolvesGhost *bool         `json:"resolves_ghost,omitempty"`
}

// UpdateTransaction handles PUT /transactions/{id}
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, txID, ok := h.authedTxID(w, r)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	in := ledger.EditInput{
		Amount:        req.Amount,
		Timestamp:     req.Timestamp,
		CategoryID:    req.CategoryID,
		ScopeID:       req.ScopeID,
		Note:          req.Note,
		ResolvesGhost: req.ResolvesGhost,
	}
	if req.Type != nil {
		typ := ledger.TransactionType(*req.Type)
		in.Type = &typ
	}

	tx, err := h.ledger.EditTransaction(r.Context(), txID, userID, in)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	respondJSON(w, tx, http.StatusOK)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, txID, ok := h.authedTxID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteTransaction(r.Context(), txID, userID); err != nil {
		h.respondLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTransfer handles DELETE /transfers/{id}: id is any leg of the
// transfer, and the whole decomposition is removed from both wallets.
func (h *TransactionHandler) DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	userID, txID, ok := h.authedTxID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteTransfer(r.Context(), txID, userID); err != nil {
		h.respondLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TransferRequest represents the transfer request body
type TransferRequest struct {
	FromWalletID uuid.UUID    `json:"from_wallet_id"`
	ToWalletID   uuid.UUID    `json:"to_wallet_id"`
	Amount       money.Amount `json:"amount"`
	Fee          money.Amount `json:"fee"`
	Timestamp    *time.Time   `json:"timestamp,omitempty"`
	Note         string       `json:"note"`
}

// Transfer handles POST /transfers
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	in := ledger.TransferInput{
		UserID:       userID,
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount,
		Fee:          req.Fee,
		Note:         req.Note,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}

	result, err := h.ledger.Transfer(r.Context(), in)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	respondJSON(w, result, http.StatusCreated)
}

// Recalculate handles POST /wallets/{id}/recalculate: a full rebuild of the
// wallet's running-balance snapshots.
func (h *TransactionHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	result, err := h.ledger.Recalculate(r.Context(), userID, walletID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	respondJSON(w, result, http.StatusOK)
}

func (h *TransactionHandler) authedTxID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	txID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid transaction ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, txID, true
}

func (h *TransactionHandler) respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrTransactionNotFound):
		respondError(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, wallet.ErrWalletNotFound), errors.Is(err, ledger.ErrUnauthorizedAccess):
		respondError(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidTransactionType),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrNegativeFee),
		errors.Is(err, ledger.ErrInvalidWalletRef),
		errors.Is(err, ledger.ErrSameWalletTransfer),
		errors.Is(err, ledger.ErrTransferNotDirect),
		errors.Is(err, ledger.ErrNotTransferLeg):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInsufficientBalance):
		respondError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
