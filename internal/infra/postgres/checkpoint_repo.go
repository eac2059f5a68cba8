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

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/pkg/money"
)

// CheckpointRepository implements the manual balance checkpoint repository
// using PostgreSQL. A partial unique index on (wallet_id) WHERE is_latest
// backs the one-latest-per-wallet invariant.
type CheckpointRepository struct {
	pool *pgxpool.Pool
}

// NewCheckpointRepository creates a new PostgreSQL checkpoint repository
func NewCheckpointRepository(pool *pgxpool.Pool) *CheckpointRepository {
	return &CheckpointRepository{pool: pool}
}

const checkpointColumns = `
	id, user_id, wallet_id, balance_amount, balance_date, sequence_number,
	is_latest, is_closed, close_balance, close_date, note, created_at, updated_at`

// Create creates a new checkpoint
func (r *CheckpointRepository) Create(ctx context.Context, cp *ledger.Checkpoint) error {
	query := `
		INSERT INTO checkpoints (` + checkpointColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now

	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query,
		cp.ID,
		cp.UserID,
		cp.WalletID,
		cp.BalanceAmount.Decimal,
		cp.BalanceDate,
		cp.SequenceNumber,
		cp.IsLatest,
		cp.IsClosed,
		cp.CloseBalance.Decimal,
		cp.CloseDate,
		cp.Note,
		cp.CreatedAt,
		cp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint: %w", err)
	}

	return nil
}

// GetByID retrieves a checkpoint by ID
func (r *CheckpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Checkpoint, error) {
	query := `SELECT ` + checkpointColumns + ` FROM checkpoints WHERE id = $1`
	return r.one(ctx, query, id)
}

// FindLatest returns the wallet's checkpoint marked is_latest
func (r *CheckpointRepository) FindLatest(ctx context.Context, userID, walletID uuid.UUID) (*ledger.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE user_id = $1 AND wallet_id = $2 AND is_latest = TRUE
	`
	return r.one(ctx, query, userID, walletID)
}

// FindActiveAt returns the checkpoint with the greatest balance date at or
// before the given time
func (r *CheckpointRepository) FindActiveAt(ctx context.Context, userID, walletID uuid.UUID, at time.Time) (*ledger.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE user_id = $1 AND wallet_id = $2 AND balance_date <= $3
		ORDER BY balance_date DESC
		LIMIT 1
	`
	return r.one(ctx, query, userID, walletID, at)
}

// ListByWallet retrieves all checkpoints for a wallet, ordered by sequence
// number ascending
func (r *CheckpointRepository) ListByWallet(ctx context.Context, userID, walletID uuid.UUID) ([]*ledger.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE user_id = $1 AND wallet_id = $2
		ORDER BY sequence_number ASC
	`
	return r.many(ctx, query, userID, walletID)
}

// History retrieves checkpoints newest first, up to limit
func (r *CheckpointRepository) History(ctx context.Context, userID, walletID uuid.UUID, limit int) ([]*ledger.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE user_id = $1 AND wallet_id = $2
		ORDER BY sequence_number DESC
		LIMIT $3
	`
	return r.many(ctx, query, userID, walletID, limit)
}

// MaxSequence returns the highest sequence number for the wallet, or 0
func (r *CheckpointRepository) MaxSequence(ctx context.Context, userID, walletID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(sequence_number), 0)
		FROM checkpoints
		WHERE user_id = $1 AND wallet_id = $2
	`

	var max int
	if err := r.pool.QueryRow(ctx, query, userID, walletID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get checkpoint sequence: %w", err)
	}

	return max, nil
}

// Close stamps a superseded checkpoint with its closing balance and date
func (r *CheckpointRepository) Close(ctx context.Context, id uuid.UUID, closeBalance money.Amount, closeDate time.Time) error {
	query := `
		UPDATE checkpoints
		SET is_latest = FALSE, is_closed = TRUE, close_balance = $1, close_date = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, closeBalance.Decimal, closeDate, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to close checkpoint: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrCheckpointNotFound
	}

	return nil
}

func (r *CheckpointRepository) one(ctx context.Context, query string, args ...any) (*ledger.Checkpoint, error) {
	cp, err := scanCheckpoint(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}
	return cp, nil
}

func (r *CheckpointRepository) many(ctx context.Context, query string, args ...any) ([]*ledger.Checkpoint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints: %w", err)
	}
	defer rows.Close()

	var cps []*ledger.Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		cps = append(cps, cp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkpoints: %w", err)
	}

	return cps, nil
}

func scanCheckpoint(row pgx.Row) (*ledger.Checkpoint, error) {
	cp := &ledger.Checkpoint{}
	var balance, closeBalance decimal.Decimal

	err := row.Scan(
		&cp.ID,
		&cp.UserID,
		&cp.WalletID,
		&balance,
		&cp.BalanceDate,
		&cp.SequenceNumber,
		&cp.IsLatest,
		&cp.IsClosed,
		&closeBalance,
		&cp.CloseDate,
		&cp.Note,
		&cp.CreatedAt,
		&cp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cp.BalanceAmount = money.New(balance)
	cp.CloseBalance = money.New(closeBalance)
	return cp, nil
}
