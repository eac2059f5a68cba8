package ledger

import (
	"context"
	"fmt"

	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/pkg/money"
)

// balanceMutator is the only component that writes wallet.ActualBalance.
// Every balance change routes through it so the before/after snapshots on the
// transaction and the cached wallet balance move in one logical step.
type balanceMutator struct {
	wallets WalletRepository
}

func newBalanceMutator(wallets WalletRepository) *balanceMutator {
	return &balanceMutator{wallets: wallets}
}

// apply posts the transaction's effect to the wallet balance and records the
// before/after snapshots on the transaction itself.
func (m *balanceMutator) apply(ctx context.Context, w *wallet.Wallet, tx *Transaction) error {
	if tx.Type == TypeTransfer {
		return ErrTransferNotDirect
	}
	if !tx.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	before := w.ActualBalance
	after := before.Add(tx.SignedDelta())

	tx.BalanceBefore = before
	tx.BalanceAfter = after

	if err := m.persist(ctx, w, after); err != nil {
		return fmt.Errorf("failed to apply %s of %s: %w", tx.Type, tx.Amount, err)
	}

	return nil
}

// revert undoes a previously applied transaction effect, used before an edit
// re-applies the new effect or a delete leaves it undone. Snapshots on the
// transaction are left alone; the row is either going away or about to be
// re-stamped by apply.
func (m *balanceMutator) revert(ctx context.Context, w *wallet.Wallet, tx *Transaction) error {
	if tx.Type == TypeTransfer {
		return ErrTransferNotDirect
	}
	if !tx.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	after := w.ActualBalance.Sub(tx.SignedDelta())

	if err := m.persist(ctx, w, after); err != nil {
		return fmt.Errorf("failed to revert %s of %s: %w", tx.Type, tx.Amount, err)
	}

	return nil
}

// setBalance overwrites the wallet balance outright; checkpoint creation is
// a balance-setting operation.
func (m *balanceMutator) setBalance(ctx context.Context, w *wallet.Wallet, balance money.Amount) error {
	if err := m.persist(ctx, w, balance); err != nil {
		return fmt.Errorf("failed to set balance to %s: %w", balance, err)
	}
	return nil
}

func (m *balanceMutator) persist(ctx context.Context, w *wallet.Wallet, balance money.Amount) error {
	if err := m.wallets.UpdateBalance(ctx, w.ID, balance); err != nil {
		return err
	}
	w.ActualBalance = balance
	return nil
}
