package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// checkpointLinker resolves which manual balance checkpoint a transaction
// belongs to and hands out per-checkpoint sequence numbers.
type checkpointLinker struct {
	checkpoints  CheckpointRepository
	transactions TransactionRepository
}

func newCheckpointLinker(checkpoints CheckpointRepository, transactions TransactionRepository) *checkpointLinker {
	return &checkpointLinker{checkpoints: checkpoints, transactions: transactions}
}

// activeCheckpoint finds the checkpoint active for a transaction at the given
// time: the latest checkpoint if its balance date qualifies, otherwise the
// closest earlier checkpoint by date (backdated entries). Returns uuid.Nil
// when the wallet has no qualifying checkpoint — the transaction is then
// linked to the implicit zero baseline.
func (l *checkpointLinker) activeCheckpoint(ctx context.Context, userID, walletID uuid.UUID, at time.Time) (uuid.UUID, error) {
	latest, err := l.checkpoints.FindLatest(ctx, userID, walletID)
	if err != nil {
		if errors.Is(err, ErrCheckpointNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to find latest checkpoint: %w", err)
	}

	if !latest.BalanceDate.After(at) {
		return latest.ID, nil
	}

	// The latest checkpoint postdates the transaction; fall back to the
	// closest checkpoint at or before it.
	cp, err := l.checkpoints.FindActiveAt(ctx, userID, walletID, at)
	if err != nil {
		if errors.Is(err, ErrCheckpointNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to find checkpoint at %s: %w", at, err)
	}

	return cp.ID, nil
}

// nextSequence returns 1 + the highest sequence number already assigned to
// the checkpoint's transactions for that wallet, or 1 if none.
func (l *checkpointLinker) nextSequence(ctx context.Context, userID, walletID, checkpointID uuid.UUID) (int, error) {
	if checkpointID == uuid.Nil {
		return 0, nil
	}

	max, err := l.transactions.MaxSequence(ctx, userID, walletID, checkpointID)
	if err != nil {
		return 0, fmt.Errorf("failed to get max sequence: %w", err)
	}

	return max + 1, nil
}
