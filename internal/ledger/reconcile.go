package ledger

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/adiwinata/duitmu/pkg/money"
)

// ComputeGhosts compares each adjacent checkpoint pair against the
// transactions recorded between them and reports the unexplained gaps.
//
// It is a pure function of its inputs: no storage, no clock, identical output
// for identical input. Data-quality problems (unlinked rows, legacy
// checkpoints without sequence numbers, duplicated query results) degrade to
// sensible fallbacks instead of errors, because a financial report should
// never crash on dirty data.
func ComputeGhosts(checkpoints []*Checkpoint, transactions []*Transaction) []Ghost {
	if len(checkpoints) < 2 {
		return nil
	}

	cps := sortCheckpoints(checkpoints)
	txs := dedupeTransactions(transactions)

	var ghosts []Ghost
	for i := 0; i < len(cps)-1; i++ {
		prev, curr := cps[i], cps[i+1]

		delta := money.Zero
		for _, tx := range intervalTransactions(prev, curr, txs) {
			delta = delta.Add(tx.SignedDelta())
		}

		expected := prev.BalanceAmount.Add(delta)
		gap := curr.BalanceAmount.Sub(expected)

		if money.Negligible(gap) {
			continue
		}

		sign := GhostPositive
		if gap.IsNegative() {
			sign = GhostNegative
		}
		magnitude := gap.Abs()

		resolved := resolvedAmount(sign, curr, txs)
		if resolved.Decimal.GreaterThan(magnitude.Decimal) {
			// A ghost cannot flip sign through partial resolution.
			resolved = magnitude
		}

		remaining := magnitude.Sub(resolved)
		if money.Negligible(remaining) {
			continue
		}

		ghosts = append(ghosts, Ghost{
			Sign:             sign,
			Amount:           remaining,
			FromCheckpointID: prev.ID,
			ToCheckpointID:   curr.ID,
			FromSequence:     prev.SequenceNumber,
			ToSequence:       curr.SequenceNumber,
			Expected:         expected,
			Declared:         curr.BalanceAmount,
			Resolved:         resolved,
			Timestamp:        curr.BalanceDate,
		})
	}

	return ghosts
}

// sortCheckpoints orders checkpoints by sequence number, falling back to
// balance date for legacy rows that carry no sequence. The input slice is
// left untouched.
func sortCheckpoints(checkpoints []*Checkpoint) []*Checkpoint {
	cps := make([]*Checkpoint, len(checkpoints))
	copy(cps, checkpoints)

	sort.SliceStable(cps, func(i, j int) bool {
		a, b := cps[i], cps[j]
		if a.SequenceNumber > 0 && b.SequenceNumber > 0 {
			return a.SequenceNumber < b.SequenceNumber
		}
		return a.BalanceDate.Before(b.BalanceDate)
	})

	return cps
}

// dedupeTransactions drops rows identical on (type, amount, timestamp, note).
// Callers sometimes union transactions fetched through several filters; the
// same logical row must not inflate the expected-balance delta twice.
func dedupeTransactions(transactions []*Transaction) []*Transaction {
	seen := make(map[string]struct{}, len(transactions))
	out := make([]*Transaction, 0, len(transactions))

	for _, tx := range transactions {
		key := fmt.Sprintf("%s|%s|%d|%s", tx.Type, tx.Amount.String(), tx.Timestamp.UnixNano(), tx.Note)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}

	return out
}

// intervalTransactions attributes transactions to the (prev, curr] checkpoint
// interval. The checkpoint link wins when present: rows posted while prev was
// active belong to prev's interval. Unlinked rows fall back to the half-open
// timestamp window [prev.BalanceDate, curr.BalanceDate), which keeps the
// attribution a partition even when a row lands exactly on a checkpoint date.
func intervalTransactions(prev, curr *Checkpoint, transactions []*Transaction) []*Transaction {
	var out []*Transaction
	for _, tx := range transactions {
		if tx.CheckpointID != uuid.Nil {
			if tx.CheckpointID == prev.ID {
				out = append(out, tx)
			}
			continue
		}
		if !tx.Timestamp.Before(prev.BalanceDate) && tx.Timestamp.Before(curr.BalanceDate) {
			out = append(out, tx)
		}
	}
	return out
}

// resolvedAmount nets the signed contribution of transactions after curr that
// the user flagged as resolving a ghost: a positive ghost is reduced by their
// net income, a negative ghost by their net expense.
func resolvedAmount(sign GhostSign, curr *Checkpoint, transactions []*Transaction) money.Amount {
	net := money.Zero
	for _, tx := range transactions {
		if !tx.ResolvesGhost || !tx.Timestamp.After(curr.BalanceDate) {
			continue
		}
		net = net.Add(tx.SignedDelta())
	}

	if sign == GhostNegative {
		net = net.Neg()
	}
	if net.IsNegative() {
		return money.Zero
	}
	return net
}
