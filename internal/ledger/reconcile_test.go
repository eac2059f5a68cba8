package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiwinata/duitmu/pkg/money"
)

var reconcileBase = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testCheckpoint(seq int, amount int64, at time.Time) *Checkpoint {
	return &Checkpoint{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		WalletID:       uuid.New(),
		BalanceAmount:  money.FromInt(amount),
		BalanceDate:    at,
		SequenceNumber: seq,
	}
}

func testTx(typ TransactionType, amount int64, at time.Time) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		Type:      typ,
		Amount:    money.FromInt(amount),
		Timestamp: at,
	}
}

func TestComputeGhosts_UnexplainedGain(t *testing.T) {
	cp1 := testCheckpoint(1, 1_000_000, reconcileBase)
	cp2 := testCheckpoint(2, 1_200_000, reconcileBase.Add(100*time.Minute))

	txs := []*Transaction{
		testTx(TypeIncome, 200_000, reconcileBase.Add(50*time.Minute)),
		testTx(TypeExpense, 50_000, reconcileBase.Add(80*time.Minute)),
	}

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, txs)
	require.Len(t, ghosts, 1)

	g := ghosts[0]
	assert.Equal(t, GhostPositive, g.Sign)
	assert.True(t, g.Amount.Equal(money.FromInt(50_000)), "got %s", g.Amount)
	assert.True(t, g.Expected.Equal(money.FromInt(1_150_000)))
	assert.True(t, g.Declared.Equal(money.FromInt(1_200_000)))
	assert.Equal(t, cp1.ID, g.FromCheckpointID)
	assert.Equal(t, cp2.ID, g.ToCheckpointID)
	assert.Equal(t, 1, g.FromSequence)
	assert.Equal(t, 2, g.ToSequence)
}

func TestComputeGhosts_UnexplainedLoss(t *testing.T) {
	cp1 := testCheckpoint(1, 500_000, reconcileBase)
	cp2 := testCheckpoint(2, 420_000, reconcileBase.Add(time.Hour))

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, nil)
	require.Len(t, ghosts, 1)
	assert.Equal(t, GhostNegative, ghosts[0].Sign)
	assert.True(t, ghosts[0].Amount.Equal(money.FromInt(80_000)))
}

func TestComputeGhosts_GapWithinEpsilon(t *testing.T) {
	cp1 := testCheckpoint(1, 100, reconcileBase)
	cp2 := testCheckpoint(2, 100, reconcileBase.Add(time.Hour))
	cp2.BalanceAmount = money.FromFloat(100.005)

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, nil)
	assert.Empty(t, ghosts)
}

func TestComputeGhosts_FewerThanTwoCheckpoints(t *testing.T) {
	assert.Nil(t, ComputeGhosts(nil, nil))
	assert.Nil(t, ComputeGhosts([]*Checkpoint{testCheckpoint(1, 100, reconcileBase)}, nil))
}

func TestComputeGhosts_Idempotent(t *testing.T) {
	cps := []*Checkpoint{
		testCheckpoint(1, 1_000_000, reconcileBase),
		testCheckpoint(2, 1_200_000, reconcileBase.Add(time.Hour)),
		testCheckpoint(3, 1_100_000, reconcileBase.Add(2*time.Hour)),
	}
	txs := []*Transaction{
		testTx(TypeIncome, 150_000, reconcileBase.Add(30*time.Minute)),
		testTx(TypeExpense, 40_000, reconcileBase.Add(90*time.Minute)),
	}

	first := ComputeGhosts(cps, txs)
	second := ComputeGhosts(cps, txs)
	assert.Equal(t, first, second)
}

func TestComputeGhosts_DeduplicatesIdenticalRows(t *testing.T) {
	cp1 := testCheckpoint(1, 1_000_000, reconcileBase)
	cp2 := testCheckpoint(2, 1_200_000, reconcileBase.Add(time.Hour))

	income := testTx(TypeIncome, 200_000, reconcileBase.Add(30*time.Minute))
	income.Note = "salary"
	dup := testTx(TypeIncome, 200_000, reconcileBase.Add(30*time.Minute))
	dup.Note = "salary"

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, []*Transaction{income, dup})
	assert.Empty(t, ghosts, "duplicated query result must not count twice")
}

func TestComputeGhosts_CheckpointLinkWinsOverTimestamp(t *testing.T) {
	cp1 := testCheckpoint(1, 1_000_000, reconcileBase)
	cp2 := testCheckpoint(2, 1_200_000, reconcileBase.Add(time.Hour))

	// Backdated row linked to cp1 despite a timestamp before cp1's date.
	linked := testTx(TypeIncome, 200_000, reconcileBase.Add(-time.Hour))
	linked.CheckpointID = cp1.ID

	// Row linked elsewhere sits inside the window but belongs to another
	// interval.
	foreign := testTx(TypeIncome, 999_999, reconcileBase.Add(30*time.Minute))
	foreign.CheckpointID = uuid.New()

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, []*Transaction{linked, foreign})
	assert.Empty(t, ghosts)
}

func TestComputeGhosts_HalfOpenTimestampWindow(t *testing.T) {
	cp1 := testCheckpoint(1, 0, reconcileBase)
	cp2 := testCheckpoint(2, 100_000, reconcileBase.Add(time.Hour))
	cp3 := testCheckpoint(3, 100_000, reconcileBase.Add(2*time.Hour))

	// Lands exactly on cp2's date: belongs to the second interval only.
	onBoundary := testTx(TypeIncome, 100_000, cp2.BalanceDate)

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2, cp3}, []*Transaction{onBoundary})
	require.Len(t, ghosts, 2)

	// First interval: expected 0, declared 100k -> positive ghost.
	assert.Equal(t, GhostPositive, ghosts[0].Sign)
	assert.True(t, ghosts[0].Amount.Equal(money.FromInt(100_000)))

	// Second interval: expected 200k, declared 100k -> negative ghost.
	assert.Equal(t, GhostNegative, ghosts[1].Sign)
	assert.True(t, ghosts[1].Amount.Equal(money.FromInt(100_000)))
}

func TestComputeGhosts_TransferRowsPassThrough(t *testing.T) {
	cp1 := testCheckpoint(1, 300_000, reconcileBase)
	cp2 := testCheckpoint(2, 300_000, reconcileBase.Add(time.Hour))

	marker := testTx(TypeTransfer, 150_000, reconcileBase.Add(30*time.Minute))

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, []*Transaction{marker})
	assert.Empty(t, ghosts)
}

func TestComputeGhosts_LegacyCheckpointsSortByDate(t *testing.T) {
	// Sequence numbers missing on legacy rows; date order must prevail.
	late := testCheckpoint(0, 700_000, reconcileBase.Add(time.Hour))
	early := testCheckpoint(0, 500_000, reconcileBase)

	ghosts := ComputeGhosts([]*Checkpoint{late, early}, nil)
	require.Len(t, ghosts, 1)
	assert.Equal(t, GhostPositive, ghosts[0].Sign)
	assert.True(t, ghosts[0].Amount.Equal(money.FromInt(200_000)))
	assert.Equal(t, early.ID, ghosts[0].FromCheckpointID)
}

func TestComputeGhosts_PartialResolution(t *testing.T) {
	cp1 := testCheckpoint(1, 1_000_000, reconcileBase)
	cp2 := testCheckpoint(2, 1_050_000, reconcileBase.Add(time.Hour))

	resolving := testTx(TypeIncome, 30_000, cp2.BalanceDate.Add(10*time.Minute))
	resolving.ResolvesGhost = true

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, []*Transaction{resolving})
	require.Len(t, ghosts, 1)
	assert.True(t, ghosts[0].Amount.Equal(money.FromInt(20_000)), "got %s", ghosts[0].Amount)
	assert.True(t, ghosts[0].Resolved.Equal(money.FromInt(30_000)))
}

func TestComputeGhosts_ResolutionFullyExplains(t *testing.T) {
	cp1 := testCheckpoint(1, 1_000_000, reconcileBase)
	cp2 := testCheckpoint(2, 1_050_000, reconcileBase.Add(time.Hour))

	resolving := testTx(TypeIncome, 80_000, cp2.BalanceDate.Add(10*time.Minute))
	resolving.ResolvesGhost = true

	// Over-resolution is clamped; the ghost disappears, it does not flip.
	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, []*Transaction{resolving})
	assert.Empty(t, ghosts)
}

func TestComputeGhosts_NegativeGhostResolvedByExpense(t *testing.T) {
	cp1 := testCheckpoint(1, 500_000, reconcileBase)
	cp2 := testCheckpoint(2, 440_000, reconcileBase.Add(time.Hour))

	resolving := testTx(TypeExpense, 60_000, cp2.BalanceDate.Add(10*time.Minute))
	resolving.ResolvesGhost = true

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, []*Transaction{resolving})
	assert.Empty(t, ghosts)
}

func TestComputeGhosts_ResolutionWrongDirectionIgnored(t *testing.T) {
	cp1 := testCheckpoint(1, 1_000_000, reconcileBase)
	cp2 := testCheckpoint(2, 1_050_000, reconcileBase.Add(time.Hour))

	// An expense cannot explain an unexplained gain.
	resolving := testTx(TypeExpense, 30_000, cp2.BalanceDate.Add(10*time.Minute))
	resolving.ResolvesGhost = true

	ghosts := ComputeGhosts([]*Checkpoint{cp1, cp2}, []*Transaction{resolving})
	require.Len(t, ghosts, 1)
	assert.True(t, ghosts[0].Amount.Equal(money.FromInt(50_000)))
	assert.True(t, ghosts[0].Resolved.Equal(money.Zero))
}
