package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/pkg/money"
)

// Repository defines the interface for wallet data access
type Repository interface {
	// Create creates a new wallet
	Create(ctx context.Context, wallet *Wallet) error

	// GetByID retrieves a wallet by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// GetByUserID retrieves all wallets for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Wallet, error)

	// Update updates wallet attributes (name, kind, active flag); it never
	// touches the cached balances
	Update(ctx context.Context, wallet *Wallet) error

	// UpdateBalance overwrites the cached actual balance. The ledger balance
	// mutator is the only caller; everything else routes through it.
	UpdateBalance(ctx context.Context, walletID uuid.UUID, balance money.Amount) error

	// Deactivate soft-deletes a wallet, keeping its transaction history
	Deactivate(ctx context.Context, id uuid.UUID) error

	// ExistsByUserAndName checks if a wallet with the given name exists for the user
	ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
}
