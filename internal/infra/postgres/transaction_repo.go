package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/pkg/money"
)

// TransactionRepository implements the ledger transaction repository using
// PostgreSQL. Transfer details are flattened into nullable columns on the
// transactions table; a row is a transfer leg iff transfer_counter_wallet_id
// is set.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	id, user_id, wallet_id, type, amount, currency, category_id, scope_id, note,
	checkpoint_id, sequence_number, timestamp, balance_before, balance_after,
	resolves_ghost, transfer_counter_wallet_id, transfer_direction,
	transfer_net_amount, transfer_fee, created_at, updated_at`

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query, r.insertArgs(tx)...)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// ListByWallet retrieves all transactions for a user's wallet, ordered by
// timestamp ascending. Recalculation and reconciliation both depend on this
// ordering.
func (r *TransactionRepository) ListByWallet(ctx context.Context, userID, walletID uuid.UUID) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND wallet_id = $2
		ORDER BY timestamp ASC, created_at ASC
	`

	return r.list(ctx, query, userID, walletID)
}

// ListByUser retrieves all transactions across the user's wallets, ordered by
// timestamp ascending
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp ASC, created_at ASC
	`

	return r.list(ctx, query, userID)
}

// ListByCheckpoint retrieves transactions linked to a checkpoint, ordered by
// sequence number ascending
func (r *TransactionRepository) ListByCheckpoint(ctx context.Context, userID, walletID, checkpointID uuid.UUID) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND wallet_id = $2 AND checkpoint_id = $3
		ORDER BY sequence_number ASC
	`

	return r.list(ctx, query, userID, walletID, checkpointID)
}

// MaxSequence returns the highest sequence number among the checkpoint's
// transactions for that wallet, or 0 if none
func (r *TransactionRepository) MaxSequence(ctx context.Context, userID, walletID, checkpointID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(sequence_number), 0)
		FROM transactions
		WHERE user_id = $1 AND wallet_id = $2 AND checkpoint_id = $3
	`

	var max int
	if err := r.pool.QueryRow(ctx, query, userID, walletID, checkpointID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max sequence: %w", err)
	}

	return max, nil
}

// Update updates a transaction in place
func (r *TransactionRepository) Update(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, category_id = $3, scope_id = $4, note = $5,
			checkpoint_id = $6, sequence_number = $7, timestamp = $8,
			balance_before = $9, balance_after = $10, resolves_ghost = $11,
			updated_at = $12
		WHERE id = $13
	`

	tx.UpdatedAt = time.Now()

	result, err := r.pool.Exec(ctx, query,
		string(tx.Type),
		tx.Amount.Decimal,
		tx.CategoryID,
		tx.ScopeID,
		tx.Note,
		nullUUID(tx.CheckpointID),
		tx.SequenceNumber,
		tx.Timestamp,
		tx.BalanceBefore.Decimal,
		tx.BalanceAfter.Decimal,
		tx.ResolvesGhost,
		tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}

	return nil
}

// UpdateSnapshots rewrites only the running-balance snapshots of a row
func (r *TransactionRepository) UpdateSnapshots(ctx context.Context, id uuid.UUID, before, after money.Amount) error {
	query := `
		UPDATE transactions
		SET balance_before = $1, balance_after = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, before.Decimal, after.Decimal, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update snapshots: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

func (r *TransactionRepository) insertArgs(tx *ledger.Transaction) []any {
	var (
		counterWallet uuid.NullUUID
		direction     sql.NullString
		netAmount     decimal.NullDecimal
		fee           decimal.NullDecimal
	)
	if tx.Transfer != nil {
		counterWallet = uuid.NullUUID{UUID: tx.Transfer.CounterWalletID, Valid: true}
		direction = sql.NullString{String: string(tx.Transfer.Direction), Valid: true}
		netAmount = decimal.NullDecimal{Decimal: tx.Transfer.NetAmount.Decimal, Valid: true}
		fee = decimal.NullDecimal{Decimal: tx.Transfer.Fee.Decimal, Valid: true}
	}

	return []any{
		tx.ID,
		tx.UserID,
		tx.WalletID,
		string(tx.Type),
		tx.Amount.Decimal,
		tx.Currency,
		tx.CategoryID,
		tx.ScopeID,
		tx.Note,
		nullUUID(tx.CheckpointID),
		tx.SequenceNumber,
		tx.Timestamp,
		tx.BalanceBefore.Decimal,
		tx.BalanceAfter.Decimal,
		tx.ResolvesGhost,
		counterWallet,
		direction,
		netAmount,
		fee,
		tx.CreatedAt,
		tx.UpdatedAt,
	}
}

func scanTransaction(row pgx.Row) (*ledger.Transaction, error) {
	tx := &ledger.Transaction{}
	var (
		typ           string
		amount        decimal.Decimal
		before, after decimal.Decimal
		checkpointID  uuid.NullUUID
		counterWallet uuid.NullUUID
		direction     sql.NullString
		netAmount     decimal.NullDecimal
		fee           decimal.NullDecimal
	)

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.WalletID,
		&typ,
		&amount,
		&tx.Currency,
		&tx.CategoryID,
		&tx.ScopeID,
		&tx.Note,
		&checkpointID,
		&tx.SequenceNumber,
		&tx.Timestamp,
		&before,
		&after,
		&tx.ResolvesGhost,
		&counterWallet,
		&direction,
		&netAmount,
		&fee,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = ledger.TransactionType(typ)
	tx.Amount = money.New(amount)
	tx.BalanceBefore = money.New(before)
	tx.BalanceAfter = money.New(after)
	if checkpointID.Valid {
		tx.CheckpointID = checkpointID.UUID
	}
	if counterWallet.Valid {
		tx.Transfer = &ledger.TransferDetails{
			CounterWalletID: counterWallet.UUID,
			Direction:       ledger.TransferDirection(direction.String),
			NetAmount:       money.New(netAmount.Decimal),
			Fee:             money.New(fee.Decimal),
		}
	}

	return tx, nil
}

// nullUUID maps uuid.Nil to SQL NULL; unlinked rows carry no checkpoint
func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
