package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/pkg/money"
)

// TransactionType classifies a ledger transaction
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"

	// TypeTransfer marks a transfer bookkeeping row. Transfers are decomposed
	// into expense/income legs before they touch a wallet balance, so rows of
	// this type never change the running balance; recalculation and
	// reconciliation pass them through.
	TypeTransfer TransactionType = "transfer"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// TransferDirection tells which side of a transfer a leg is
type TransferDirection string

const (
	TransferIn  TransferDirection = "in"
	TransferOut TransferDirection = "out"
)

// TransferDetails is the tagged variant populated only on transfer legs.
type TransferDetails struct {
	CounterWalletID uuid.UUID         `json:"counter_wallet_id"`
	Direction       TransferDirection `json:"direction"`
	NetAmount       money.Amount      `json:"net_amount"`
	Fee             money.Amount      `json:"fee"`
}

// Transaction is a single posted ledger movement on one wallet.
//
// BalanceBefore/BalanceAfter snapshot the wallet's running balance around the
// posting. They can go stale after edits or deletes of earlier rows; the
// recalculator repairs them.
type Transaction struct {
	ID       uuid.UUID       `json:"id"`
	UserID   uuid.UUID       `json:"user_id"`
	WalletID uuid.UUID       `json:"wallet_id"`
	Type     TransactionType `json:"type"`
	Amount   money.Amount    `json:"amount"`
	Currency string          `json:"currency"`

	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	ScopeID    *uuid.UUID `json:"scope_id,omitempty"`
	Note       string     `json:"note"`

	// CheckpointID links the row to the manual balance checkpoint that was
	// active when it was posted; uuid.Nil means the row is unlinked (posted
	// before any checkpoint existed).
	CheckpointID   uuid.UUID `json:"checkpoint_id"`
	SequenceNumber int       `json:"sequence_number"`

	Timestamp     time.Time    `json:"timestamp"`
	BalanceBefore money.Amount `json:"balance_before"`
	BalanceAfter  money.Amount `json:"balance_after"`

	// ResolvesGhost tags a row the user entered specifically to explain a
	// previously reported ghost gap.
	ResolvesGhost bool `json:"resolves_ghost"`

	Transfer *TransferDetails `json:"transfer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the transaction base shape
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil || t.WalletID == uuid.Nil {
		return ErrInvalidWalletRef
	}

	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}

	if !t.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	if t.Transfer != nil {
		if t.Transfer.CounterWalletID == uuid.Nil {
			return ErrInvalidWalletRef
		}
		if t.Transfer.Direction != TransferIn && t.Transfer.Direction != TransferOut {
			return ErrInvalidTransferDirection
		}
		if t.Transfer.Fee.IsNegative() {
			return ErrNegativeFee
		}
	}

	return nil
}

// SignedDelta is the transaction's effect on the wallet's running balance:
// +amount for income, -amount for expense, zero for transfer rows.
func (t *Transaction) SignedDelta() money.Amount {
	switch t.Type {
	case TypeIncome:
		return t.Amount
	case TypeExpense:
		return t.Amount.Neg()
	default:
		return money.Zero
	}
}

// Checkpoint is a user-declared true balance for a wallet at a point in time.
//
// Exactly one checkpoint per wallet is latest at any time, and sequence
// numbers are contiguous 1..N. When a new checkpoint supersedes this one,
// CloseBalance records the amount the user declared then.
type Checkpoint struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	WalletID       uuid.UUID    `json:"wallet_id"`
	BalanceAmount  money.Amount `json:"balance_amount"`
	BalanceDate    time.Time    `json:"balance_date"`
	SequenceNumber int          `json:"sequence_number"`
	IsLatest       bool         `json:"is_latest"`
	IsClosed       bool         `json:"is_closed"`
	CloseBalance   money.Amount `json:"close_balance"`
	CloseDate      *time.Time   `json:"close_date,omitempty"`
	Note           string       `json:"note"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// GhostSign classifies a ghost as unexplained gain or loss
type GhostSign string

const (
	GhostPositive GhostSign = "positive" // unexplained gain
	GhostNegative GhostSign = "negative" // unexplained loss
)

// Ghost is a computed, unexplained gap between a checkpoint's declared
// balance and the balance implied by the transactions recorded since the
// previous checkpoint. Ghosts are derived at read time and never persisted.
type Ghost struct {
	Sign             GhostSign    `json:"sign"`
	Amount           money.Amount `json:"amount"` // remaining unexplained magnitude
	FromCheckpointID uuid.UUID    `json:"from_checkpoint_id"`
	ToCheckpointID   uuid.UUID    `json:"to_checkpoint_id"`
	FromSequence     int          `json:"from_sequence"`
	ToSequence       int          `json:"to_sequence"`
	Expected         money.Amount `json:"expected"`
	Declared         money.Amount `json:"declared"`
	Resolved         money.Amount `json:"resolved"` // magnitude explained by resolving rows
	Timestamp        time.Time    `json:"timestamp"`
}
