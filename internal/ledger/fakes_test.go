package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/pkg/money"
)

// In-memory repositories backing the ledger tests. They mimic the storage
// contracts closely enough to exercise full posting/edit/delete flows without
// a database.

type memTransactionRepo struct {
	rows []*Transaction

	createErr   error
	updateErr   error
	deleteErr   error
	snapshotErr error

	// failCreateOnCall makes the Nth Create call fail (1-based); 0 disables.
	createCalls      int
	failCreateOnCall int
}

func (r *memTransactionRepo) Create(_ context.Context, tx *Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.createCalls++
	if r.failCreateOnCall > 0 && r.createCalls == r.failCreateOnCall {
		return fmt.Errorf("insert rejected")
	}
	r.rows = append(r.rows, tx)
	return nil
}

func (r *memTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*Transaction, error) {
	for _, tx := range r.rows {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (r *memTransactionRepo) ListByWallet(_ context.Context, userID, walletID uuid.UUID) ([]*Transaction, error) {
	var out []*Transaction
	for _, tx := range r.rows {
		if tx.UserID == userID && tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memTransactionRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*Transaction, error) {
	var out []*Transaction
	for _, tx := range r.rows {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memTransactionRepo) ListByCheckpoint(_ context.Context, userID, walletID, checkpointID uuid.UUID) ([]*Transaction, error) {
	var out []*Transaction
	for _, tx := range r.rows {
		if tx.UserID == userID && tx.WalletID == walletID && tx.CheckpointID == checkpointID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r *memTransactionRepo) MaxSequence(_ context.Context, userID, walletID, checkpointID uuid.UUID) (int, error) {
	max := 0
	for _, tx := range r.rows {
		if tx.UserID == userID && tx.WalletID == walletID && tx.CheckpointID == checkpointID && tx.SequenceNumber > max {
			max = tx.SequenceNumber
		}
	}
	return max, nil
}

func (r *memTransactionRepo) Update(_ context.Context, tx *Transaction) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, row := range r.rows {
		if row.ID == tx.ID {
			r.rows[i] = tx
			return nil
		}
	}
	return ErrTransactionNotFound
}

func (r *memTransactionRepo) UpdateSnapshots(_ context.Context, id uuid.UUID, before, after money.Amount) error {
	if r.snapshotErr != nil {
		return r.snapshotErr
	}
	for _, tx := range r.rows {
		if tx.ID == id {
			tx.BalanceBefore = before
			tx.BalanceAfter = after
			return nil
		}
	}
	return ErrTransactionNotFound
}

func (r *memTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, tx := range r.rows {
		if tx.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return ErrTransactionNotFound
}

type memCheckpointRepo struct {
	rows []*Checkpoint
}

func (r *memCheckpointRepo) Create(_ context.Context, cp *Checkpoint) error {
	r.rows = append(r.rows, cp)
	return nil
}

func (r *memCheckpointRepo) GetByID(_ context.Context, id uuid.UUID) (*Checkpoint, error) {
	for _, cp := range r.rows {
		if cp.ID == id {
			return cp, nil
		}
	}
	return nil, ErrCheckpointNotFound
}

func (r *memCheckpointRepo) FindLatest(_ context.Context, userID, walletID uuid.UUID) (*Checkpoint, error) {
	for _, cp := range r.rows {
		if cp.UserID == userID && cp.WalletID == walletID && cp.IsLatest {
			return cp, nil
		}
	}
	return nil, ErrCheckpointNotFound
}

func (r *memCheckpointRepo) FindActiveAt(_ context.Context, userID, walletID uuid.UUID, at time.Time) (*Checkpoint, error) {
	var best *Checkpoint
	for _, cp := range r.rows {
		if cp.UserID != userID || cp.WalletID != walletID || cp.BalanceDate.After(at) {
			continue
		}
		if best == nil || cp.BalanceDate.After(best.BalanceDate) {
			best = cp
		}
	}
	if best == nil {
		return nil, ErrCheckpointNotFound
	}
	return best, nil
}

func (r *memCheckpointRepo) ListByWallet(_ context.Context, userID, walletID uuid.UUID) ([]*Checkpoint, error) {
	var out []*Checkpoint
	for _, cp := range r.rows {
		if cp.UserID == userID && cp.WalletID == walletID {
			out = append(out, cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r *memCheckpointRepo) History(_ context.Context, userID, walletID uuid.UUID, limit int) ([]*Checkpoint, error) {
	out, _ := r.ListByWallet(context.Background(), userID, walletID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SequenceNumber > out[j].SequenceNumber })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memCheckpointRepo) MaxSequence(_ context.Context, userID, walletID uuid.UUID) (int, error) {
	max := 0
	for _, cp := range r.rows {
		if cp.UserID == userID && cp.WalletID == walletID && cp.SequenceNumber > max {
			max = cp.SequenceNumber
		}
	}
	return max, nil
}

func (r *memCheckpointRepo) Close(_ context.Context, id uuid.UUID, closeBalance money.Amount, closeDate time.Time) error {
	for _, cp := range r.rows {
		if cp.ID == id {
			cp.IsLatest = false
			cp.IsClosed = true
			cp.CloseBalance = closeBalance
			d := closeDate
			cp.CloseDate = &d
			return nil
		}
	}
	return ErrCheckpointNotFound
}

type memWalletRepo struct {
	wallets map[uuid.UUID]*wallet.Wallet

	balanceErr error

	// failBalanceOnCall makes the Nth UpdateBalance call fail (1-based);
	// 0 disables.
	balanceCalls      int
	failBalanceOnCall int
}

func newMemWalletRepo(wallets ...*wallet.Wallet) *memWalletRepo {
	r := &memWalletRepo{wallets: make(map[uuid.UUID]*wallet.Wallet)}
	for _, w := range wallets {
		r.wallets[w.ID] = w
	}
	return r
}

func (r *memWalletRepo) GetByID(_ context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, wallet.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memWalletRepo) UpdateBalance(_ context.Context, walletID uuid.UUID, balance money.Amount) error {
	if r.balanceErr != nil {
		return r.balanceErr
	}
	r.balanceCalls++
	if r.failBalanceOnCall > 0 && r.balanceCalls == r.failBalanceOnCall {
		return fmt.Errorf("balance write rejected")
	}
	w, ok := r.wallets[walletID]
	if !ok {
		return wallet.ErrWalletNotFound
	}
	w.ActualBalance = balance
	return nil
}

func (r *memWalletRepo) balance(id uuid.UUID) money.Amount {
	return r.wallets[id].ActualBalance
}

type memReportCache struct {
	entries map[string][]Ghost

	sets        int
	hits        int
	invalidated int
}

func newMemReportCache() *memReportCache {
	return &memReportCache{entries: make(map[string][]Ghost)}
}

func (c *memReportCache) key(userID, walletID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", userID, walletID)
}

func (c *memReportCache) Get(_ context.Context, userID, walletID uuid.UUID) ([]Ghost, bool, error) {
	ghosts, ok := c.entries[c.key(userID, walletID)]
	if ok {
		c.hits++
	}
	return ghosts, ok, nil
}

func (c *memReportCache) Set(_ context.Context, userID, walletID uuid.UUID, ghosts []Ghost) error {
	c.entries[c.key(userID, walletID)] = ghosts
	c.sets++
	return nil
}

func (c *memReportCache) Invalidate(_ context.Context, userID, walletID uuid.UUID) error {
	delete(c.entries, c.key(userID, walletID))
	c.invalidated++
	return nil
}
