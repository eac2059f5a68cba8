package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/pkg/money"
)

// ReportPeriod selects the window a cashflow summary covers.
type ReportPeriod string

const (
	PeriodMonthly ReportPeriod = "monthly"
	PeriodYearly  ReportPeriod = "yearly"
)

// IsValid checks if the report period is valid
func (p ReportPeriod) IsValid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

// CashflowSummary aggregates income and expense across all of the user's
// wallets since the start of the current period.
type CashflowSummary struct {
	Period      ReportPeriod `json:"period"`
	Start       time.Time    `json:"start"`
	Income      money.Amount `json:"income"`
	Expense     money.Amount `json:"expense"`
	NetCashflow money.Amount `json:"net_cashflow"`
}

// BreakdownDimension selects the grouping key of a breakdown report.
type BreakdownDimension string

const (
	BreakdownCategory BreakdownDimension = "category"
	BreakdownScope    BreakdownDimension = "scope"
	BreakdownWallet   BreakdownDimension = "wallet"
)

// IsValid checks if the breakdown dimension is valid
func (d BreakdownDimension) IsValid() bool {
	switch d {
	case BreakdownCategory, BreakdownScope, BreakdownWallet:
		return true
	}
	return false
}

// BreakdownEntry is one (dimension value, type) bucket. Key is nil for rows
// that don't carry the dimension (uncategorized, unscoped).
type BreakdownEntry struct {
	Key    *uuid.UUID      `json:"key,omitempty"`
	Type   TransactionType `json:"type"`
	Amount money.Amount    `json:"amount"`
}

// CashflowSummary sums income and expense across every wallet of the user
// from the start of the period containing at. Transfer bookkeeping rows
// contribute nothing; their decomposed legs count as ordinary income and
// expense on each side, so a transfer between own wallets nets to the fee.
func (s *Service) CashflowSummary(ctx context.Context, userID uuid.UUID, period ReportPeriod, at time.Time) (*CashflowSummary, error) {
	if period == "" {
		period = PeriodMonthly
	}
	if !period.IsValid() {
		return nil, ErrInvalidReportPeriod
	}

	at = at.UTC()
	var start time.Time
	if period == PeriodYearly {
		start = time.Date(at.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		start = time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	txs, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	summary := &CashflowSummary{
		Period:  period,
		Start:   start,
		Income:  money.Zero,
		Expense: money.Zero,
	}

	for _, tx := range txs {
		if tx.Timestamp.Before(start) {
			continue
		}
		switch tx.Type {
		case TypeIncome:
			summary.Income = summary.Income.Add(tx.Amount)
		case TypeExpense:
			summary.Expense = summary.Expense.Add(tx.Amount)
		}
	}

	summary.NetCashflow = summary.Income.Sub(summary.Expense)
	return summary, nil
}

// Breakdown groups all of the user's transactions by the chosen dimension and
// type, sums the amounts and sorts the buckets largest first.
func (s *Service) Breakdown(ctx context.Context, userID uuid.UUID, dim BreakdownDimension) ([]BreakdownEntry, error) {
	if !dim.IsValid() {
		return nil, ErrInvalidBreakdownDimension
	}

	txs, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	buckets := make(map[string]*BreakdownEntry)
	for _, tx := range txs {
		if tx.Type != TypeIncome && tx.Type != TypeExpense {
			continue
		}

		var key *uuid.UUID
		switch dim {
		case BreakdownCategory:
			key = tx.CategoryID
		case BreakdownScope:
			key = tx.ScopeID
		case BreakdownWallet:
			id := tx.WalletID
			key = &id
		}

		mapKey := string(tx.Type)
		if key != nil {
			mapKey += "|" + key.String()
		}

		entry, ok := buckets[mapKey]
		if !ok {
			entry = &BreakdownEntry{Key: key, Type: tx.Type, Amount: money.Zero}
			buckets[mapKey] = entry
		}
		entry.Amount = entry.Amount.Add(tx.Amount)
	}

	out := make([]BreakdownEntry, 0, len(buckets))
	for _, entry := range buckets {
		out = append(out, *entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Decimal.GreaterThan(out[j].Amount.Decimal)
	})

	return out, nil
}
