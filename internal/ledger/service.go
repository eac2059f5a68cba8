package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/pkg/logger"
	"github.com/adiwinata/duitmu/pkg/money"
)

// Service orchestrates the reconciliation ledger: posting, editing and
// deleting transactions, declaring manual balance checkpoints, ghost
// reporting and full snapshot recalculation.
type Service struct {
	transactions TransactionRepository
	checkpoints  CheckpointRepository
	wallets      WalletRepository
	cache        ReportCache
	log          *logger.Logger

	linker       *checkpointLinker
	mutator      *balanceMutator
	manager      *checkpointManager
	recalculator *balanceRecalculator
}

// NewService creates a new ledger service. cache may be nil; ghost reports
// are then always recomputed.
func NewService(
	transactions TransactionRepository,
	checkpoints CheckpointRepository,
	wallets WalletRepository,
	cache ReportCache,
	log *logger.Logger,
) *Service {
	mutator := newBalanceMutator(wallets)
	return &Service{
		transactions: transactions,
		checkpoints:  checkpoints,
		wallets:      wallets,
		cache:        cache,
		log:          log.WithField("component", "ledger"),
		linker:       newCheckpointLinker(checkpoints, transactions),
		mutator:      mutator,
		manager:      newCheckpointManager(checkpoints, mutator),
		recalculator: newBalanceRecalculator(transactions, wallets),
	}
}

// PostInput carries the fields for posting a new income or expense.
type PostInput struct {
	UserID        uuid.UUID
	WalletID      uuid.UUID
	Type          TransactionType
	Amount        money.Amount
	Timestamp     time.Time
	CategoryID    *uuid.UUID
	ScopeID       *uuid.UUID
	Note          string
	ResolvesGhost bool
}

// PostTransaction posts a new income or expense transaction: resolves the
// active checkpoint, assigns the per-checkpoint sequence number, applies the
// balance effect and persists the row.
func (s *Service) PostTransaction(ctx context.Context, in PostInput) (*Transaction, error) {
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return nil, ErrInvalidTransactionType
	}
	if !in.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	w, err := s.loadOwnedWallet(ctx, in.UserID, in.WalletID)
	if err != nil {
		return nil, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	tx := &Transaction{
		ID:            uuid.New(),
		UserID:        in.UserID,
		WalletID:      in.WalletID,
		Type:          in.Type,
		Amount:        in.Amount,
		Currency:      w.Currency,
		CategoryID:    in.CategoryID,
		ScopeID:       in.ScopeID,
		Note:          in.Note,
		Timestamp:     ts,
		ResolvesGhost: in.ResolvesGhost,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.post(ctx, w, tx); err != nil {
		return nil, err
	}

	s.invalidateReport(ctx, in.UserID, in.WalletID)
	return tx, nil
}

// post links, sequences, applies and persists a prepared transaction against
// an already-loaded wallet.
func (s *Service) post(ctx context.Context, w *wallet.Wallet, tx *Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	// Linking degrades softly: posting must not be blocked by missing
	// checkpoints. An unlinked row sits on the implicit zero baseline.
	cpID, err := s.linker.activeCheckpoint(ctx, tx.UserID, tx.WalletID, tx.Timestamp)
	if err != nil {
		s.log.Warn("checkpoint linking skipped", "wallet_id", tx.WalletID, "error", err)
		cpID = uuid.Nil
	}
	tx.CheckpointID = cpID

	if cpID != uuid.Nil {
		seq, err := s.linker.nextSequence(ctx, tx.UserID, tx.WalletID, cpID)
		if err != nil {
			s.log.Warn("sequence assignment skipped", "wallet_id", tx.WalletID, "error", err)
			seq = 0
		}
		tx.SequenceNumber = seq
	}

	if err := s.mutator.apply(ctx, w, tx); err != nil {
		return err
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		// Compensate the balance write so the wallet doesn't drift on a
		// failed insert.
		if revertErr := s.mutator.revert(ctx, w, tx); revertErr != nil {
			s.log.Error("failed to revert balance after insert failure",
				"wallet_id", tx.WalletID, "error", revertErr)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// TransferInput carries the fields for a wallet-to-wallet transfer.
type TransferInput struct {
	UserID       uuid.UUID
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	Amount       money.Amount
	Fee          money.Amount
	Timestamp    time.Time
	Note         string
}

// TransferResult returns the decomposed legs of a transfer.
type TransferResult struct {
	OutLeg *Transaction `json:"out_leg"`
	FeeLeg *Transaction `json:"fee_leg,omitempty"`
	InLeg  *Transaction `json:"in_leg"`
}

// Transfer moves money between two wallets of the same user. It is
// decomposed into an expense leg on the source, an optional fee expense leg
// on the source, and an income leg on the destination; all legs share one
// timestamp and cross-reference the counter wallet.
func (s *Service) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if in.Fee.IsNegative() {
		return nil, ErrNegativeFee
	}
	if in.FromWalletID == in.ToWalletID {
		return nil, ErrSameWalletTransfer
	}

	from, err := s.loadOwnedWallet(ctx, in.UserID, in.FromWalletID)
	if err != nil {
		return nil, err
	}
	to, err := s.loadOwnedWallet(ctx, in.UserID, in.ToWalletID)
	if err != nil {
		return nil, err
	}

	totalDebit := in.Amount.Add(in.Fee)
	if from.ActualBalance.Decimal.LessThan(totalDebit.Decimal) {
		return nil, ErrInsufficientBalance
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	now := time.Now()

	result := &TransferResult{}

	outLeg := &Transaction{
		ID:        uuid.New(),
		UserID:    in.UserID,
		WalletID:  from.ID,
		Type:      TypeExpense,
		Amount:    in.Amount,
		Currency:  from.Currency,
		Note:      in.Note,
		Timestamp: ts,
		Transfer: &TransferDetails{
			CounterWalletID: to.ID,
			Direction:       TransferOut,
			NetAmount:       in.Amount,
			Fee:             in.Fee,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.post(ctx, from, outLeg); err != nil {
		return nil, err
	}
	result.OutLeg = outLeg

	if in.Fee.IsPositive() {
		feeLeg := &Transaction{
			ID:        uuid.New(),
			UserID:    in.UserID,
			WalletID:  from.ID,
			Type:      TypeExpense,
			Amount:    in.Fee,
			Currency:  from.Currency,
			Note:      fmt.Sprintf("Admin fee for transfer to %s", to.Name),
			Timestamp: ts,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.post(ctx, from, feeLeg); err != nil {
			s.unpost(ctx, from, outLeg)
			return nil, err
		}
		result.FeeLeg = feeLeg
	}

	inLeg := &Transaction{
		ID:        uuid.New(),
		UserID:    in.UserID,
		WalletID:  to.ID,
		Type:      TypeIncome,
		Amount:    in.Amount,
		Currency:  to.Currency,
		Note:      fmt.Sprintf("Incoming transfer from %s", from.Name),
		Timestamp: ts,
		Transfer: &TransferDetails{
			CounterWalletID: from.ID,
			Direction:       TransferIn,
			NetAmount:       in.Amount,
			Fee:             in.Fee,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.post(ctx, to, inLeg); err != nil {
		// None of the legs may survive alone: money must not leave the
		// source wallet without arriving on the destination.
		if result.FeeLeg != nil {
			s.unpost(ctx, from, result.FeeLeg)
		}
		s.unpost(ctx, from, outLeg)
		return nil, err
	}
	result.InLeg = inLeg

	s.invalidateReport(ctx, in.UserID, in.FromWalletID)
	s.invalidateReport(ctx, in.UserID, in.ToWalletID)
	return result, nil
}

// unpost removes a row this call already posted: the row is deleted and its
// balance effect reverted.
func (s *Service) unpost(ctx context.Context, w *wallet.Wallet, tx *Transaction) {
	if err := s.transactions.Delete(ctx, tx.ID); err != nil {
		s.log.Error("failed to delete leg while abandoning transfer",
			"transaction_id", tx.ID, "error", err)
		return
	}
	if err := s.mutator.revert(ctx, w, tx); err != nil {
		s.log.Error("failed to revert balance while abandoning transfer",
			"transaction_id", tx.ID, "error", err)
	}
}

// EditInput carries the mutable fields of a transaction; nil pointers leave
// the existing value in place.
type EditInput struct {
	Type          *TransactionType
	Amount        *money.Amount
	Timestamp     *time.Time
	CategoryID    *uuid.UUID
	ScopeID       *uuid.UUID
	Note          *string
	ResolvesGhost *bool
}

// EditTransaction updates a transaction in place: the old effect is reverted,
// the new one applied, and the wallet's snapshot chain rebuilt.
func (s *Service) EditTransaction(ctx context.Context, txID, userID uuid.UUID, in EditInput) (*Transaction, error) {
	tx, err := s.loadOwnedTransaction(ctx, txID, userID)
	if err != nil {
		return nil, err
	}

	if tx.Transfer != nil || tx.Type == TypeTransfer {
		// Transfer legs are edited by deleting and re-issuing the transfer;
		// touching one leg alone would desynchronize the counter wallet.
		return nil, ErrTransferNotDirect
	}

	w, err := s.loadOwnedWallet(ctx, userID, tx.WalletID)
	if err != nil {
		return nil, err
	}

	// Patch a copy first: a rejected edit must leave the stored row and the
	// wallet balance exactly as they were.
	updated := *tx
	relink := false
	if in.Type != nil && *in.Type != updated.Type {
		if *in.Type != TypeIncome && *in.Type != TypeExpense {
			return nil, ErrInvalidTransactionType
		}
		updated.Type = *in.Type
	}
	if in.Amount != nil {
		updated.Amount = *in.Amount
	}
	if in.Timestamp != nil && !in.Timestamp.Equal(updated.Timestamp) {
		updated.Timestamp = *in.Timestamp
		relink = true
	}
	if in.CategoryID != nil {
		updated.CategoryID = in.CategoryID
	}
	if in.ScopeID != nil {
		updated.ScopeID = in.ScopeID
	}
	if in.Note != nil {
		updated.Note = *in.Note
	}
	if in.ResolvesGhost != nil {
		updated.ResolvesGhost = *in.ResolvesGhost
	}
	updated.UpdatedAt = time.Now()

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if relink {
		cpID, err := s.linker.activeCheckpoint(ctx, userID, updated.WalletID, updated.Timestamp)
		if err != nil {
			s.log.Warn("checkpoint relinking skipped", "transaction_id", updated.ID, "error", err)
			cpID = uuid.Nil
		}
		if cpID != updated.CheckpointID {
			updated.CheckpointID = cpID
			updated.SequenceNumber = 0
			if cpID != uuid.Nil {
				if seq, err := s.linker.nextSequence(ctx, userID, updated.WalletID, cpID); err == nil {
					updated.SequenceNumber = seq
				}
			}
		}
	}

	if err := s.mutator.revert(ctx, w, tx); err != nil {
		return nil, err
	}

	if err := s.mutator.apply(ctx, w, &updated); err != nil {
		// Put the old effect back so the balance still matches the stored row.
		if applyErr := s.mutator.apply(ctx, w, tx); applyErr != nil {
			s.log.Error("failed to restore balance after rejected edit",
				"transaction_id", tx.ID, "error", applyErr)
		}
		return nil, err
	}

	if err := s.transactions.Update(ctx, &updated); err != nil {
		if revertErr := s.mutator.revert(ctx, w, &updated); revertErr != nil {
			s.log.Error("failed to revert balance after update failure",
				"transaction_id", tx.ID, "error", revertErr)
		} else if applyErr := s.mutator.apply(ctx, w, tx); applyErr != nil {
			s.log.Error("failed to restore balance after update failure",
				"transaction_id", tx.ID, "error", applyErr)
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	// The edit may have changed history in the middle of the chain; rebuild
	// every snapshot.
	if _, err := s.recalculator.recalculate(ctx, userID, updated.WalletID); err != nil {
		s.log.Warn("post-edit recalculation failed", "wallet_id", updated.WalletID, "error", err)
	}

	s.invalidateReport(ctx, userID, updated.WalletID)
	return &updated, nil
}

// DeleteTransaction removes a transaction and reverts its balance effect.
// Transfer legs are rejected; DeleteTransfer removes the whole decomposition.
func (s *Service) DeleteTransaction(ctx context.Context, txID, userID uuid.UUID) error {
	tx, err := s.loadOwnedTransaction(ctx, txID, userID)
	if err != nil {
		return err
	}

	if tx.Transfer != nil {
		// A lone leg can't go: the counter wallet would keep a phantom
		// arrival or departure.
		return ErrTransferNotDirect
	}

	// Transfer bookkeeping rows carry no balance effect; everything else is
	// reverted before removal.
	if tx.Type != TypeTransfer {
		w, err := s.loadOwnedWallet(ctx, userID, tx.WalletID)
		if err != nil {
			return err
		}
		if err := s.mutator.revert(ctx, w, tx); err != nil {
			return err
		}
		if err := s.transactions.Delete(ctx, txID); err != nil {
			// Put the effect back so the balance still matches the stored row.
			if applyErr := s.mutator.apply(ctx, w, tx); applyErr != nil {
				s.log.Error("failed to restore balance after delete failure",
					"transaction_id", tx.ID, "error", applyErr)
			}
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
	} else if err := s.transactions.Delete(ctx, txID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if _, err := s.recalculator.recalculate(ctx, userID, tx.WalletID); err != nil {
		s.log.Warn("post-delete recalculation failed", "wallet_id", tx.WalletID, "error", err)
	}

	s.invalidateReport(ctx, userID, tx.WalletID)
	return nil
}

// DeleteTransfer removes a transfer given any of its legs: the out leg, the
// fee leg when one was posted, and the in leg are all deleted and their
// balance effects reverted on both wallets.
func (s *Service) DeleteTransfer(ctx context.Context, legID, userID uuid.UUID) error {
	leg, err := s.loadOwnedTransaction(ctx, legID, userID)
	if err != nil {
		return err
	}
	if leg.Transfer == nil {
		return ErrNotTransferLeg
	}

	thisWallet, err := s.loadOwnedWallet(ctx, userID, leg.WalletID)
	if err != nil {
		return err
	}
	counterWallet, err := s.loadOwnedWallet(ctx, userID, leg.Transfer.CounterWalletID)
	if err != nil {
		return err
	}

	var outWallet, inWallet *wallet.Wallet
	if leg.Transfer.Direction == TransferOut {
		outWallet, inWallet = thisWallet, counterWallet
	} else {
		outWallet, inWallet = counterWallet, thisWallet
	}

	sibling, err := s.findCounterLeg(ctx, userID, counterWallet.ID, leg)
	if err != nil {
		return err
	}

	type walletLeg struct {
		w  *wallet.Wallet
		tx *Transaction
	}
	legs := []walletLeg{{thisWallet, leg}}
	if sibling != nil {
		legs = append(legs, walletLeg{counterWallet, sibling})
	}

	if leg.Transfer.Fee.IsPositive() {
		if feeLeg, err := s.findFeeLeg(ctx, userID, outWallet.ID, leg.Timestamp, leg.Transfer.Fee); err != nil {
			return err
		} else if feeLeg != nil {
			legs = append(legs, walletLeg{outWallet, feeLeg})
		}
	}

	for _, l := range legs {
		if err := s.transactions.Delete(ctx, l.tx.ID); err != nil {
			return fmt.Errorf("failed to delete transfer leg %s: %w", l.tx.ID, err)
		}
		if err := s.mutator.revert(ctx, l.w, l.tx); err != nil {
			s.log.Error("failed to revert balance for deleted transfer leg",
				"transaction_id", l.tx.ID, "error", err)
		}
	}

	if _, err := s.recalculator.recalculate(ctx, userID, outWallet.ID); err != nil {
		s.log.Warn("post-delete recalculation failed", "wallet_id", outWallet.ID, "error", err)
	}
	if _, err := s.recalculator.recalculate(ctx, userID, inWallet.ID); err != nil {
		s.log.Warn("post-delete recalculation failed", "wallet_id", inWallet.ID, "error", err)
	}

	s.invalidateReport(ctx, userID, outWallet.ID)
	s.invalidateReport(ctx, userID, inWallet.ID)
	return nil
}

// findCounterLeg locates the leg posted on the counter wallet: same shared
// timestamp, mirrored direction, same net amount, counter-referencing this
// leg's wallet.
func (s *Service) findCounterLeg(ctx context.Context, userID, counterWalletID uuid.UUID, leg *Transaction) (*Transaction, error) {
	rows, err := s.transactions.ListByWallet(ctx, userID, counterWalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list counter wallet transactions: %w", err)
	}
	for _, row := range rows {
		if row.Transfer == nil {
			continue
		}
		if row.Transfer.CounterWalletID != leg.WalletID {
			continue
		}
		if row.Transfer.Direction == leg.Transfer.Direction {
			continue
		}
		if !row.Timestamp.Equal(leg.Timestamp) {
			continue
		}
		if !row.Transfer.NetAmount.Equal(leg.Transfer.NetAmount) {
			continue
		}
		return row, nil
	}
	return nil, nil
}

// findFeeLeg locates the fee expense posted on the source wallet at the
// transfer's shared timestamp.
func (s *Service) findFeeLeg(ctx context.Context, userID, sourceWalletID uuid.UUID, ts time.Time, fee money.Amount) (*Transaction, error) {
	rows, err := s.transactions.ListByWallet(ctx, userID, sourceWalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list source wallet transactions: %w", err)
	}
	for _, row := range rows {
		if row.Transfer != nil || row.Type != TypeExpense {
			continue
		}
		if !row.Timestamp.Equal(ts) {
			continue
		}
		if !row.Amount.Equal(fee) {
			continue
		}
		return row, nil
	}
	return nil, nil
}

// CreateCheckpoint declares a new true balance for a wallet.
func (s *Service) CreateCheckpoint(ctx context.Context, userID, walletID uuid.UUID, amount money.Amount, note string, effectiveAt *time.Time) (*Checkpoint, error) {
	w, err := s.loadOwnedWallet(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}

	cp, err := s.manager.create(ctx, w, amount, note, effectiveAt)
	if err != nil {
		return nil, err
	}

	s.invalidateReport(ctx, userID, walletID)
	return cp, nil
}

// LatestCheckpoint returns the wallet's current latest checkpoint.
func (s *Service) LatestCheckpoint(ctx context.Context, userID, walletID uuid.UUID) (*Checkpoint, error) {
	if _, err := s.loadOwnedWallet(ctx, userID, walletID); err != nil {
		return nil, err
	}
	return s.checkpoints.FindLatest(ctx, userID, walletID)
}

// CheckpointHistory returns the wallet's checkpoints newest first.
func (s *Service) CheckpointHistory(ctx context.Context, userID, walletID uuid.UUID, limit int) ([]*Checkpoint, error) {
	if _, err := s.loadOwnedWallet(ctx, userID, walletID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.checkpoints.History(ctx, userID, walletID, limit)
}

// GetGhostReport computes (or serves from cache) the wallet's ghost
// transactions: the unexplained gaps between consecutive checkpoints.
func (s *Service) GetGhostReport(ctx context.Context, userID, walletID uuid.UUID) ([]Ghost, error) {
	if _, err := s.loadOwnedWallet(ctx, userID, walletID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if ghosts, ok, err := s.cache.Get(ctx, userID, walletID); err != nil {
			s.log.Warn("report cache read failed", "wallet_id", walletID, "error", err)
		} else if ok {
			return ghosts, nil
		}
	}

	checkpoints, err := s.checkpoints.ListByWallet(ctx, userID, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	transactions, err := s.transactions.ListByWallet(ctx, userID, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	ghosts := ComputeGhosts(checkpoints, transactions)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, walletID, ghosts); err != nil {
			s.log.Warn("report cache write failed", "wallet_id", walletID, "error", err)
		}
	}

	return ghosts, nil
}

// Recalculate rebuilds every snapshot on the wallet's transactions.
func (s *Service) Recalculate(ctx context.Context, userID, walletID uuid.UUID) (RecalcResult, error) {
	result, err := s.recalculator.recalculate(ctx, userID, walletID)
	if err != nil {
		return result, err
	}

	s.invalidateReport(ctx, userID, walletID)
	return result, nil
}

// GetTransaction retrieves a transaction owned by the user.
func (s *Service) GetTransaction(ctx context.Context, txID, userID uuid.UUID) (*Transaction, error) {
	return s.loadOwnedTransaction(ctx, txID, userID)
}

// ListTransactions lists the wallet's transactions in timestamp order.
func (s *Service) ListTransactions(ctx context.Context, userID, walletID uuid.UUID) ([]*Transaction, error) {
	if _, err := s.loadOwnedWallet(ctx, userID, walletID); err != nil {
		return nil, err
	}
	return s.transactions.ListByWallet(ctx, userID, walletID)
}

// WalletSummary aggregates a wallet's ledger for the balance overview.
type WalletSummary struct {
	WalletID         uuid.UUID    `json:"wallet_id"`
	ActualBalance    money.Amount `json:"actual_balance"`
	TotalIncome      money.Amount `json:"total_income"`
	TotalExpense     money.Amount `json:"total_expense"`
	TransactionCount int          `json:"transaction_count"`
	LastTransaction  *time.Time   `json:"last_transaction,omitempty"`
	GhostPositive    money.Amount `json:"ghost_positive"`
	GhostNegative    money.Amount `json:"ghost_negative"`
	Ghosts           []Ghost      `json:"ghosts"`
}

// Summary builds the per-wallet balance overview: totals by type, last
// activity, and outstanding ghost amounts.
func (s *Service) Summary(ctx context.Context, userID, walletID uuid.UUID) (*WalletSummary, error) {
	w, err := s.loadOwnedWallet(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.ListByWallet(ctx, userID, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	summary := &WalletSummary{
		WalletID:      walletID,
		ActualBalance: w.ActualBalance,
		TotalIncome:   money.Zero,
		TotalExpense:  money.Zero,
		GhostPositive: money.Zero,
		GhostNegative: money.Zero,
	}

	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
		}
		summary.TransactionCount++
		if summary.LastTransaction == nil || tx.Timestamp.After(*summary.LastTransaction) {
			ts := tx.Timestamp
			summary.LastTransaction = &ts
		}
	}

	ghosts, err := s.GetGhostReport(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}
	summary.Ghosts = ghosts
	for _, g := range ghosts {
		if g.Sign == GhostPositive {
			summary.GhostPositive = summary.GhostPositive.Add(g.Amount)
		} else {
			summary.GhostNegative = summary.GhostNegative.Add(g.Amount)
		}
	}

	return summary, nil
}

func (s *Service) loadOwnedWallet(ctx context.Context, userID, walletID uuid.UUID) (*wallet.Wallet, error) {
	w, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}
	return w, nil
}

func (s *Service) loadOwnedTransaction(ctx context.Context, txID, userID uuid.UUID) (*Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}
	return tx, nil
}

func (s *Service) invalidateReport(ctx context.Context, userID, walletID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID, walletID); err != nil {
		s.log.Warn("report cache invalidation failed", "wallet_id", walletID, "error", err)
	}
}
