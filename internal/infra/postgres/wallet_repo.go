package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/pkg/money"
)

// WalletRepository implements the wallet repository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new PostgreSQL wallet repository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, name, kind, currency, actual_balance, expected_balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query,
		w.ID,
		w.UserID,
		w.Name,
		string(w.Kind),
		w.Currency,
		w.ActualBalance.Decimal,
		w.ExpectedBalance.Decimal,
		w.IsActive,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `
		SELECT id, user_id, name, kind, currency, actual_balance, expected_balance, is_active, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return w, nil
}

// GetByUserID retrieves all active wallets for a user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*wallet.Wallet, error) {
	query := `
		SELECT id, user_id, name, kind, currency, actual_balance, expected_balance, is_active, created_at, updated_at
		FROM wallets
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*wallet.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// Update updates wallet attributes. Balances are deliberately excluded; they
// change only through UpdateBalance.
func (r *WalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $1, kind = $2, currency = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	w.UpdatedAt = time.Now()

	result, err := r.pool.Exec(ctx, query,
		w.Name,
		string(w.Kind),
		w.Currency,
		w.IsActive,
		w.UpdatedAt,
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// UpdateBalance overwrites the cached actual balance
func (r *WalletRepository) UpdateBalance(ctx context.Context, walletID uuid.UUID, balance money.Amount) error {
	query := `
		UPDATE wallets
		SET actual_balance = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, balance.Decimal, time.Now(), walletID)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// Deactivate soft-deletes a wallet; its transaction history stays queryable
func (r *WalletRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE wallets
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// ExistsByUserAndName checks if an active wallet with the given name exists
func (r *WalletRepository) ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM wallets
			WHERE user_id = $1 AND name = $2 AND is_active = TRUE
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check wallet name: %w", err)
	}

	return exists, nil
}

func scanWallet(row pgx.Row) (*wallet.Wallet, error) {
	w := &wallet.Wallet{}
	var kind string
	var actual, expected decimal.Decimal

	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Name,
		&kind,
		&w.Currency,
		&actual,
		&expected,
		&w.IsActive,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.Kind = wallet.Kind(kind)
	w.ActualBalance = money.New(actual)
	w.ExpectedBalance = money.New(expected)
	return w, nil
}
