package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/pkg/money"
)

// checkpointManager creates manual balance checkpoints and maintains the
// is_latest and contiguous-sequence invariants per wallet.
type checkpointManager struct {
	checkpoints CheckpointRepository
	mutator     *balanceMutator
}

func newCheckpointManager(checkpoints CheckpointRepository, mutator *balanceMutator) *checkpointManager {
	return &checkpointManager{checkpoints: checkpoints, mutator: mutator}
}

// create declares a new true balance for the wallet. The previous latest
// checkpoint is closed with close_balance set to the NEW declared amount:
// the closing balance of an interval is what the user now says the wallet
// holds, not a computed value. Creating a checkpoint also overwrites the
// wallet's cached actual balance.
func (cm *checkpointManager) create(ctx context.Context, w *wallet.Wallet, amount money.Amount, note string, effectiveAt *time.Time) (*Checkpoint, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeCheckpointAmount
	}

	now := time.Now()

	prev, err := cm.checkpoints.FindLatest(ctx, w.UserID, w.ID)
	if err != nil && !errors.Is(err, ErrCheckpointNotFound) {
		return nil, fmt.Errorf("failed to find latest checkpoint: %w", err)
	}

	if prev != nil && prev.IsLatest {
		if err := cm.checkpoints.Close(ctx, prev.ID, amount, now); err != nil {
			return nil, fmt.Errorf("failed to close checkpoint %d: %w", prev.SequenceNumber, err)
		}
	}

	maxSeq, err := cm.checkpoints.MaxSequence(ctx, w.UserID, w.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint sequence: %w", err)
	}

	balanceDate := now
	if effectiveAt != nil {
		balanceDate = *effectiveAt
	}

	cp := &Checkpoint{
		ID:             uuid.New(),
		UserID:         w.UserID,
		WalletID:       w.ID,
		BalanceAmount:  amount,
		BalanceDate:    balanceDate,
		SequenceNumber: maxSeq + 1,
		IsLatest:       true,
		Note:           note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := cm.checkpoints.Create(ctx, cp); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}

	// Declaring a balance IS the balance. Reconciliation against transaction
	// history stays a read-time concern.
	if err := cm.mutator.setBalance(ctx, w, amount); err != nil {
		return nil, err
	}

	return cp, nil
}
