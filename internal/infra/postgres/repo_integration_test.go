//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/internal/platform/user"
	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/pkg/money"
	"github.com/adiwinata/duitmu/testutil/testdb"
)

var testDB *testdb.TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testDB, err = testdb.NewTestDB(ctx)
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}

	code := m.Run()

	testDB.Close(ctx)
	if code != 0 {
		panic("tests failed")
	}
}

func resetDB(t *testing.T) context.Context {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))
	return ctx
}

// Helper to create a test user
func createTestUser(t *testing.T, ctx context.Context) uuid.UUID {
	userID := uuid.New()
	_, err := testDB.Pool.Exec(ctx, `
		INSERT INTO users (id, username, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, userID, "user_"+userID.String()[:8], "Test User", "hash")
	require.NoError(t, err)
	return userID
}

// Helper to create a test wallet
func createTestWallet(t *testing.T, ctx context.Context, userID uuid.UUID) uuid.UUID {
	walletID := uuid.New()
	_, err := testDB.Pool.Exec(ctx, `
		INSERT INTO wallets (id, user_id, name, kind, currency, actual_balance, expected_balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, TRUE, NOW(), NOW())
	`, walletID, userID, "Test Wallet "+walletID.String()[:8], "bank", "IDR")
	require.NoError(t, err)
	return walletID
}

func buildTransaction(userID, walletID uuid.UUID, typ ledger.TransactionType, amount int64, at time.Time) *ledger.Transaction {
	return &ledger.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		WalletID:  walletID,
		Type:      typ,
		Amount:    money.FromInt(amount),
		Currency:  "IDR",
		Timestamp: at,
	}
}

// Transaction tests

func TestTransactionRepository_CreateAndGet(t *testing.T) {
	ctx := resetDB(t)
	repo := NewTransactionRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	tx := buildTransaction(userID, walletID, ledger.TypeIncome, 150000, time.Now().Add(-time.Hour))
	tx.Note = "salary"
	tx.BalanceBefore = money.FromInt(100000)
	tx.BalanceAfter = money.FromInt(250000)

	require.NoError(t, repo.Create(ctx, tx))

	retrieved, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, retrieved.ID)
	assert.Equal(t, ledger.TypeIncome, retrieved.Type)
	assert.True(t, retrieved.Amount.Equal(money.FromInt(150000)))
	assert.Equal(t, "salary", retrieved.Note)
	assert.True(t, retrieved.BalanceBefore.Equal(money.FromInt(100000)))
	assert.True(t, retrieved.BalanceAfter.Equal(money.FromInt(250000)))
	assert.Equal(t, uuid.Nil, retrieved.CheckpointID)
	assert.Nil(t, retrieved.Transfer)
}

func TestTransactionRepository_GetByID_NotFound(t *testing.T) {
	ctx := resetDB(t)
	repo := NewTransactionRepository(testDB.Pool)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestTransactionRepository_TransferLegRoundTrip(t *testing.T) {
	ctx := resetDB(t)
	repo := NewTransactionRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)
	counterID := createTestWallet(t, ctx, userID)

	tx := buildTransaction(userID, walletID, ledger.TypeExpense, 52000, time.Now())
	tx.Transfer = &ledger.TransferDetails{
		CounterWalletID: counterID,
		Direction:       ledger.TransferOut,
		NetAmount:       money.FromInt(50000),
		Fee:             money.FromInt(2000),
	}

	require.NoError(t, repo.Create(ctx, tx))

	retrieved, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.Transfer)
	assert.Equal(t, counterID, retrieved.Transfer.CounterWalletID)
	assert.Equal(t, ledger.TransferOut, retrieved.Transfer.Direction)
	assert.True(t, retrieved.Transfer.NetAmount.Equal(money.FromInt(50000)))
	assert.True(t, retrieved.Transfer.Fee.Equal(money.FromInt(2000)))
}

func TestTransactionRepository_ListByWallet_OrderedByTimestamp(t *testing.T) {
	ctx := resetDB(t)
	repo := NewTransactionRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	base := time.Now().Add(-3 * time.Hour)
	late := buildTransaction(userID, walletID, ledger.TypeExpense, 300, base.Add(2*time.Hour))
	early := buildTransaction(userID, walletID, ledger.TypeIncome, 100, base)
	mid := buildTransaction(userID, walletID, ledger.TypeIncome, 200, base.Add(time.Hour))

	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, early))
	require.NoError(t, repo.Create(ctx, mid))

	rows, err := repo.ListByWallet(ctx, userID, walletID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, early.ID, rows[0].ID)
	assert.Equal(t, mid.ID, rows[1].ID)
	assert.Equal(t, late.ID, rows[2].ID)
}

func TestTransactionRepository_MaxSequence(t *testing.T) {
	ctx := resetDB(t)
	repo := NewTransactionRepository(testDB.Pool)
	cpRepo := NewCheckpointRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	cp := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(100000),
		BalanceDate:    time.Now().Add(-time.Hour),
		SequenceNumber: 1,
		IsLatest:       true,
	}
	require.NoError(t, cpRepo.Create(ctx, cp))

	// No linked rows yet
	seq, err := repo.MaxSequence(ctx, userID, walletID, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, seq)

	for i := 1; i <= 3; i++ {
		tx := buildTransaction(userID, walletID, ledger.TypeIncome, int64(i*100), time.Now())
		tx.CheckpointID = cp.ID
		tx.SequenceNumber = i
		require.NoError(t, repo.Create(ctx, tx))
	}

	seq, err = repo.MaxSequence(ctx, userID, walletID, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
}

func TestTransactionRepository_UpdateSnapshots(t *testing.T) {
	ctx := resetDB(t)
	repo := NewTransactionRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	tx := buildTransaction(userID, walletID, ledger.TypeIncome, 500, time.Now())
	require.NoError(t, repo.Create(ctx, tx))

	require.NoError(t, repo.UpdateSnapshots(ctx, tx.ID, money.FromInt(1000), money.FromInt(1500)))

	retrieved, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, retrieved.BalanceBefore.Equal(money.FromInt(1000)))
	assert.True(t, retrieved.BalanceAfter.Equal(money.FromInt(1500)))
}

func TestTransactionRepository_Delete(t *testing.T) {
	ctx := resetDB(t)
	repo := NewTransactionRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	tx := buildTransaction(userID, walletID, ledger.TypeExpense, 700, time.Now())
	require.NoError(t, repo.Create(ctx, tx))

	require.NoError(t, repo.Delete(ctx, tx.ID))

	_, err := repo.GetByID(ctx, tx.ID)
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, tx.ID), ledger.ErrTransactionNotFound)
}

// Checkpoint tests

func TestCheckpointRepository_FindLatest(t *testing.T) {
	ctx := resetDB(t)
	repo := NewCheckpointRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	_, err := repo.FindLatest(ctx, userID, walletID)
	assert.ErrorIs(t, err, ledger.ErrCheckpointNotFound)

	cp := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(1000000),
		BalanceDate:    time.Now().Add(-time.Hour),
		SequenceNumber: 1,
		IsLatest:       true,
	}
	require.NoError(t, repo.Create(ctx, cp))

	latest, err := repo.FindLatest(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, cp.ID, latest.ID)
	assert.True(t, latest.BalanceAmount.Equal(money.FromInt(1000000)))
}

func TestCheckpointRepository_CloseSupersedes(t *testing.T) {
	ctx := resetDB(t)
	repo := NewCheckpointRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	first := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(1000000),
		BalanceDate:    time.Now().Add(-2 * time.Hour),
		SequenceNumber: 1,
		IsLatest:       true,
	}
	require.NoError(t, repo.Create(ctx, first))

	closeDate := time.Now()
	require.NoError(t, repo.Close(ctx, first.ID, money.FromInt(1200000), closeDate))

	second := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(1200000),
		BalanceDate:    closeDate,
		SequenceNumber: 2,
		IsLatest:       true,
	}
	require.NoError(t, repo.Create(ctx, second))

	closed, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsLatest)
	assert.True(t, closed.IsClosed)
	assert.True(t, closed.CloseBalance.Equal(money.FromInt(1200000)))
	require.NotNil(t, closed.CloseDate)

	latest, err := repo.FindLatest(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestCheckpointRepository_SecondLatestViolatesUniqueIndex(t *testing.T) {
	ctx := resetDB(t)
	repo := NewCheckpointRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	first := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(100),
		BalanceDate:    time.Now().Add(-time.Hour),
		SequenceNumber: 1,
		IsLatest:       true,
	}
	require.NoError(t, repo.Create(ctx, first))

	// Inserting a second open checkpoint without closing the first must fail.
	second := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(200),
		BalanceDate:    time.Now(),
		SequenceNumber: 2,
		IsLatest:       true,
	}
	assert.Error(t, repo.Create(ctx, second))
}

func TestCheckpointRepository_FindActiveAt(t *testing.T) {
	ctx := resetDB(t)
	repo := NewCheckpointRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	base := time.Now().Add(-48 * time.Hour)

	first := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(100),
		BalanceDate:    base,
		SequenceNumber: 1,
		IsLatest:       false,
		IsClosed:       true,
	}
	second := &ledger.Checkpoint{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       walletID,
		BalanceAmount:  money.FromInt(200),
		BalanceDate:    base.Add(24 * time.Hour),
		SequenceNumber: 2,
		IsLatest:       true,
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	active, err := repo.FindActiveAt(ctx, userID, walletID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	active, err = repo.FindActiveAt(ctx, userID, walletID, base.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	_, err = repo.FindActiveAt(ctx, userID, walletID, base.Add(-time.Hour))
	assert.ErrorIs(t, err, ledger.ErrCheckpointNotFound)
}

func TestCheckpointRepository_HistoryNewestFirst(t *testing.T) {
	ctx := resetDB(t)
	repo := NewCheckpointRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	base := time.Now().Add(-72 * time.Hour)
	for i := 1; i <= 3; i++ {
		cp := &ledger.Checkpoint{
			ID:             uuid.New(),
			UserID:         userID,
			WalletID:       walletID,
			BalanceAmount:  money.FromInt(int64(i * 1000)),
			BalanceDate:    base.Add(time.Duration(i) * 24 * time.Hour),
			SequenceNumber: i,
			IsLatest:       i == 3,
			IsClosed:       i != 3,
		}
		require.NoError(t, repo.Create(ctx, cp))
	}

	history, err := repo.History(ctx, userID, walletID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].SequenceNumber)
	assert.Equal(t, 2, history[1].SequenceNumber)

	maxSeq, err := repo.MaxSequence(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, 3, maxSeq)
}

// Wallet tests

func TestWalletRepository_UpdateBalance(t *testing.T) {
	ctx := resetDB(t)
	repo := NewWalletRepository(testDB.Pool)

	userID := createTestUser(t, ctx)
	walletID := createTestWallet(t, ctx, userID)

	require.NoError(t, repo.UpdateBalance(ctx, walletID, money.FromInt(750000)))

	w, err := repo.GetByID(ctx, walletID)
	require.NoError(t, err)
	assert.True(t, w.ActualBalance.Equal(money.FromInt(750000)))

	assert.ErrorIs(t, repo.UpdateBalance(ctx, uuid.New(), money.FromInt(1)), wallet.ErrWalletNotFound)
}

func TestWalletRepository_ExistsByUserAndName(t *testing.T) {
	ctx := resetDB(t)
	repo := NewWalletRepository(testDB.Pool)

	userID := createTestUser(t, ctx)

	w := &wallet.Wallet{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "Daily Spending",
		Kind:     wallet.KindBank,
		Currency: wallet.DefaultCurrency,
		IsActive: true,
	}
	require.NoError(t, repo.Create(ctx, w))

	exists, err := repo.ExistsByUserAndName(ctx, userID, "Daily Spending")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUserAndName(ctx, userID, "No Such Wallet")
	require.NoError(t, err)
	assert.False(t, exists)
}

// User tests

func TestUserRepository_DuplicateUsername(t *testing.T) {
	ctx := resetDB(t)
	repo := NewUserRepository(testDB.Pool)

	u := &user.User{
		ID:           uuid.New(),
		Username:     "budi",
		Name:         "Budi",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(ctx, u))

	dup := &user.User{
		ID:           uuid.New(),
		Username:     "budi",
		Name:         "Budi Again",
		PasswordHash: "hash",
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), user.ErrUserAlreadyExists)
}
