package wallet

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/pkg/money"
)

// Kind represents the kind of money location a wallet tracks
type Kind string

const (
	KindBank       Kind = "bank"
	KindEWallet    Kind = "ewallet"
	KindCash       Kind = "cash"
	KindStock      Kind = "stock"
	KindMutualFund Kind = "mutual_fund"
	KindCrypto     Kind = "crypto"
	KindOther      Kind = "other"
)

// IsValid checks if the wallet kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindBank, KindEWallet, KindCash, KindStock, KindMutualFund, KindCrypto, KindOther:
		return true
	}
	return false
}

// DefaultCurrency is used when a wallet is created without a currency code.
const DefaultCurrency = "IDR"

// Wallet represents a money location (bank account, e-wallet, cash, ...).
//
// ActualBalance is a cached running balance. It is overwritten by every
// posted transaction and by every manual balance checkpoint; only the ledger
// balance mutator writes it.
type Wallet struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	Name            string       `json:"name"`
	Kind            Kind         `json:"kind"`
	Currency        string       `json:"currency"`
	ActualBalance   money.Amount `json:"actual_balance"`
	ExpectedBalance money.Amount `json:"expected_balance"`
	IsActive        bool         `json:"is_active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ValidateCreate validates wallet fields for creation
func (w *Wallet) ValidateCreate() error {
	if w.UserID == uuid.Nil {
		return ErrInvalidUserID
	}

	if w.Name == "" {
		return ErrMissingWalletName
	}

	if len(w.Name) > 100 {
		return ErrWalletNameTooLong
	}

	if w.Kind == "" {
		w.Kind = KindBank
	}
	if !w.Kind.IsValid() {
		return ErrInvalidWalletKind
	}

	if w.Currency == "" {
		w.Currency = DefaultCurrency
	}
	if len(w.Currency) != 3 {
		return ErrInvalidCurrency
	}

	return nil
}

// ValidateUpdate validates wallet fields for updates
func (w *Wallet) ValidateUpdate() error {
	if w.ID == uuid.Nil {
		return ErrInvalidWalletID
	}

	if w.Name == "" {
		return ErrMissingWalletName
	}

	if len(w.Name) > 100 {
		return ErrWalletNameTooLong
	}

	if w.Kind != "" && !w.Kind.IsValid() {
		return ErrInvalidWalletKind
	}

	return nil
}
