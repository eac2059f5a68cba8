package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/pkg/money"
)

// TransactionRepository defines persistence for ledger transactions
type TransactionRepository interface {
	// Create creates a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// ListByWallet retrieves all transactions for a user's wallet ordered by
	// timestamp ascending
	ListByWallet(ctx context.Context, userID, walletID uuid.UUID) ([]*Transaction, error)

	// ListByUser retrieves all transactions across the user's wallets ordered
	// by timestamp ascending
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// ListByCheckpoint retrieves transactions linked to a checkpoint, ordered
	// by sequence number ascending
	ListByCheckpoint(ctx context.Context, userID, walletID, checkpointID uuid.UUID) ([]*Transaction, error)

	// MaxSequence returns the highest sequence number among transactions
	// linked to the checkpoint for that wallet (0 if none)
	MaxSequence(ctx context.Context, userID, walletID, checkpointID uuid.UUID) (int, error)

	// Update updates a transaction in place
	Update(ctx context.Context, tx *Transaction) error

	// UpdateSnapshots rewrites only the running-balance snapshots of a row
	UpdateSnapshots(ctx context.Context, id uuid.UUID, before, after money.Amount) error

	// Delete removes a transaction
	Delete(ctx context.Context, id uuid.UUID) error
}

// CheckpointRepository defines persistence for manual balance checkpoints
type CheckpointRepository interface {
	// Create creates a new checkpoint
	Create(ctx context.Context, cp *Checkpoint) error

	// GetByID retrieves a checkpoint by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Checkpoint, error)

	// FindLatest returns the wallet's checkpoint marked is_latest.
	// Returns ErrCheckpointNotFound when the wallet has no checkpoints.
	FindLatest(ctx context.Context, userID, walletID uuid.UUID) (*Checkpoint, error)

	// FindActiveAt returns the checkpoint with the greatest balance date at
	// or before the given time. Returns ErrCheckpointNotFound when none
	// qualifies.
	FindActiveAt(ctx context.Context, userID, walletID uuid.UUID, at time.Time) (*Checkpoint, error)

	// ListByWallet retrieves all checkpoints for a wallet ordered by
	// sequence number ascending
	ListByWallet(ctx context.Context, userID, walletID uuid.UUID) ([]*Checkpoint, error)

	// History retrieves checkpoints newest first, up to limit
	History(ctx context.Context, userID, walletID uuid.UUID, limit int) ([]*Checkpoint, error)

	// MaxSequence returns the highest sequence number for the wallet (0 if none)
	MaxSequence(ctx context.Context, userID, walletID uuid.UUID) (int, error)

	// Close stamps a superseded checkpoint: is_closed=true, is_latest=false,
	// close_balance and close_date set
	Close(ctx context.Context, id uuid.UUID, closeBalance money.Amount, closeDate time.Time) error
}

// WalletRepository is the slice of the wallet store the ledger needs: lookups
// plus the single balance-write primitive the mutator owns.
type WalletRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	UpdateBalance(ctx context.Context, walletID uuid.UUID, balance money.Amount) error
}

// ReportCache caches computed ghost reports. Implementations must treat every
// method as best effort; the service recomputes on any miss or failure.
type ReportCache interface {
	Get(ctx context.Context, userID, walletID uuid.UUID) ([]Ghost, bool, error)
	Set(ctx context.Context, userID, walletID uuid.UUID, ghosts []Ghost) error
	Invalidate(ctx context.Context, userID, walletID uuid.UUID) error
}
