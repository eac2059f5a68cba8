package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/pkg/money"
)

// RecalcResult reports the outcome of a full snapshot rebuild.
type RecalcResult struct {
	UpdatedCount    int          `json:"updated_count"`
	FinalBalance    money.Amount `json:"final_balance"`
	StartingBalance money.Amount `json:"starting_balance"`

	// Drift is the difference between the wallet's cached balance and the
	// balance implied by replaying every transaction from zero. A non-zero
	// drift is absorbed as an implicit starting balance, not treated as a
	// failure: transactions predating any checkpoint legitimately leave one.
	Drift   money.Amount `json:"drift"`
	Warning string       `json:"warning,omitempty"`
}

// balanceRecalculator rebuilds every transaction's balance_before and
// balance_after snapshot after edits or deletes may have left them stale.
type balanceRecalculator struct {
	transactions TransactionRepository
	wallets      WalletRepository
}

func newBalanceRecalculator(transactions TransactionRepository, wallets WalletRepository) *balanceRecalculator {
	return &balanceRecalculator{transactions: transactions, wallets: wallets}
}

// recalculate replays the wallet's whole transaction history in timestamp
// order, rewriting snapshots as it goes. The wallet's cached actual balance
// is the ground truth; if the replay from zero lands somewhere else, the
// difference is recovered as an implicit starting balance.
func (r *balanceRecalculator) recalculate(ctx context.Context, userID, walletID uuid.UUID) (RecalcResult, error) {
	w, err := r.wallets.GetByID(ctx, walletID)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("failed to load wallet: %w", err)
	}
	if w.UserID != userID {
		return RecalcResult{}, ErrUnauthorizedAccess
	}

	txs, err := r.transactions.ListByWallet(ctx, userID, walletID)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	simulated := money.Zero
	for _, tx := range txs {
		simulated = simulated.Add(tx.SignedDelta())
	}

	result := RecalcResult{FinalBalance: w.ActualBalance}

	drift := w.ActualBalance.Sub(simulated)
	if !money.Negligible(drift) {
		result.StartingBalance = drift
		result.Drift = drift
		result.Warning = fmt.Sprintf("balance drift of %s absorbed as implicit starting balance", drift)
	}

	running := result.StartingBalance
	for _, tx := range txs {
		before := running
		// Transfer rows pass through: their effect already lives in the
		// decomposed expense/income legs.
		running = running.Add(tx.SignedDelta())

		if err := r.transactions.UpdateSnapshots(ctx, tx.ID, before, running); err != nil {
			// Per-row writes that already succeeded stay; UpdatedCount tells
			// the caller how far the pass got.
			return result, fmt.Errorf("failed to update snapshots for transaction %s: %w", tx.ID, err)
		}
		tx.BalanceBefore = before
		tx.BalanceAfter = running
		result.UpdatedCount++
	}

	result.FinalBalance = running
	return result, nil
}
