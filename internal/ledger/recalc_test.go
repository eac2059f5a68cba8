package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiwinata/duitmu/pkg/money"
)

func seedTx(txs *memTransactionRepo, userID, walletID uuid.UUID, typ TransactionType, amount int64, at time.Time) *Transaction {
	tx := testTx(typ, amount, at)
	tx.UserID = userID
	tx.WalletID = walletID
	// Deliberately stale snapshots; recalculation must repair them.
	tx.BalanceBefore = money.FromInt(-999)
	tx.BalanceAfter = money.FromInt(-999)
	txs.rows = append(txs.rows, tx)
	return tx
}

func TestRecalculate_RepairsSnapshots(t *testing.T) {
	w := testWallet(130_000)
	wallets := newMemWalletRepo(w)
	txs := &memTransactionRepo{}

	seedTx(txs, w.UserID, w.ID, TypeIncome, 200_000, reconcileBase)
	seedTx(txs, w.UserID, w.ID, TypeExpense, 70_000, reconcileBase.Add(time.Hour))

	r := newBalanceRecalculator(txs, wallets)
	result, err := r.recalculate(context.Background(), w.UserID, w.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.UpdatedCount)
	assert.Empty(t, result.Warning)
	assert.True(t, result.FinalBalance.Equal(money.FromInt(130_000)))

	assert.True(t, txs.rows[0].BalanceBefore.Equal(money.Zero))
	assert.True(t, txs.rows[0].BalanceAfter.Equal(money.FromInt(200_000)))
	assert.True(t, txs.rows[1].BalanceBefore.Equal(money.FromInt(200_000)))
	assert.True(t, txs.rows[1].BalanceAfter.Equal(money.FromInt(130_000)))
}

func TestRecalculate_Converges(t *testing.T) {
	w := testWallet(130_000)
	wallets := newMemWalletRepo(w)
	txs := &memTransactionRepo{}

	seedTx(txs, w.UserID, w.ID, TypeIncome, 200_000, reconcileBase)
	seedTx(txs, w.UserID, w.ID, TypeExpense, 70_000, reconcileBase.Add(time.Hour))

	r := newBalanceRecalculator(txs, wallets)

	first, err := r.recalculate(context.Background(), w.UserID, w.ID)
	require.NoError(t, err)
	second, err := r.recalculate(context.Background(), w.UserID, w.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecalculate_RecoversImplicitStartingBalance(t *testing.T) {
	// Wallet holds 500k but recorded movements only explain 200k: the
	// missing 300k predates any record and becomes the starting balance.
	w := testWallet(500_000)
	wallets := newMemWalletRepo(w)
	txs := &memTransactionRepo{}

	seedTx(txs, w.UserID, w.ID, TypeIncome, 200_000, reconcileBase)

	r := newBalanceRecalculator(txs, wallets)
	result, err := r.recalculate(context.Background(), w.UserID, w.ID)
	require.NoError(t, err)

	assert.True(t, result.StartingBalance.Equal(money.FromInt(300_000)))
	assert.True(t, result.Drift.Equal(money.FromInt(300_000)))
	assert.NotEmpty(t, result.Warning)
	assert.True(t, result.FinalBalance.Equal(money.FromInt(500_000)))
	assert.True(t, txs.rows[0].BalanceBefore.Equal(money.FromInt(300_000)))
}

func TestRecalculate_TransferRowsKeepBalanceFlat(t *testing.T) {
	w := testWallet(50_000)
	wallets := newMemWalletRepo(w)
	txs := &memTransactionRepo{}

	seedTx(txs, w.UserID, w.ID, TypeIncome, 50_000, reconcileBase)
	marker := seedTx(txs, w.UserID, w.ID, TypeTransfer, 20_000, reconcileBase.Add(time.Hour))

	r := newBalanceRecalculator(txs, wallets)
	result, err := r.recalculate(context.Background(), w.UserID, w.ID)
	require.NoError(t, err)

	assert.Empty(t, result.Warning)
	assert.True(t, marker.BalanceBefore.Equal(money.FromInt(50_000)))
	assert.True(t, marker.BalanceAfter.Equal(money.FromInt(50_000)))
}

func TestRecalculate_RejectsForeignWallet(t *testing.T) {
	w := testWallet(0)
	r := newBalanceRecalculator(&memTransactionRepo{}, newMemWalletRepo(w))

	_, err := r.recalculate(context.Background(), uuid.New(), w.ID)
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
}

func TestRecalculate_ReportsPartialProgressOnWriteFailure(t *testing.T) {
	w := testWallet(200_000)
	wallets := newMemWalletRepo(w)
	txs := &memTransactionRepo{}

	seedTx(txs, w.UserID, w.ID, TypeIncome, 200_000, reconcileBase)
	txs.snapshotErr = assert.AnError

	r := newBalanceRecalculator(txs, wallets)
	result, err := r.recalculate(context.Background(), w.UserID, w.ID)
	require.Error(t, err)
	assert.Equal(t, 0, result.UpdatedCount)
}
