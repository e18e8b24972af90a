package ledger

import (
	"time"

	"github.com/cashupol/pold/dbaccess"
	"github.com/cashupol/pold/logger"
	"github.com/cashupol/pold/util/mstime"
	"github.com/pkg/errors"
)

// Report is an immutable snapshot of the mint's outstanding liabilities.
// It is derived from the epoch rows at generation time and is never
// persisted. Field names follow the report's JSON form.
type Report struct {
	// GeneratedAt is the time the report was generated at.
	GeneratedAt time.Time `json:"generated_at"`

	// TotalOutstandingBalance is the net liability in satoshis: everything
	// ever minted minus everything ever burned, across all epochs.
	TotalOutstandingBalance uint64 `json:"total_outstanding_balance"`

	// Epochs holds one summary per Detailed epoch, in ascending epoch ID
	// order.
	Epochs []EpochSummary `json:"epochs"`

	// PrunedSummary rolls all the Summarized epochs into a single entry.
	PrunedSummary PrunedSummary `json:"pruned_summary"`
}

// EpochSummary is the per-epoch breakdown of a report.
type EpochSummary struct {
	EpochID   uint64    `json:"epoch_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	MintTotal uint64    `json:"mint_total"`
	BurnTotal uint64    `json:"burn_total"`

	// Commitment is the epoch's finalized proof multiset hash.
	Commitment string `json:"commitment"`
}

// PrunedSummary aggregates the epochs whose individual proof records were
// already pruned. Their totals are retained permanently and keep
// contributing to the outstanding balance.
type PrunedSummary struct {
	EpochCount uint64 `json:"epoch_count"`
	MintTotal  uint64 `json:"mint_total"`
	BurnTotal  uint64 `json:"burn_total"`
}

// GenerateReport rotates the epoch sequence up to the present and then
// aggregates every epoch row into a Report. Generating a report is
// otherwise read-only and never mutates totals or proof records.
func (l *Ledger) GenerateReport() (*Report, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "GenerateReport")
	defer onEnd()

	l.ledgerLock.Lock()
	err := l.catchUp()
	l.ledgerLock.Unlock()
	if err != nil {
		return nil, err
	}

	l.ledgerLock.RLock()
	defer l.ledgerLock.RUnlock()
	return l.buildReport()
}

// buildReport scans the epoch rows in ascending ID order and assembles
// the report. Caller must hold the ledger lock for reads.
func (l *Ledger) buildReport() (*Report, error) {
	cursor, err := dbaccess.EpochsCursor(l.databaseContext.NoTx())
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var mintSum, burnSum uint64
	epochs := []EpochSummary{}
	prunedSummary := PrunedSummary{}
	for cursor.Next() {
		serializedEpoch, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		epoch, err := deserializeEpoch(serializedEpoch)
		if err != nil {
			return nil, err
		}

		mintSum += epoch.MintTotal
		burnSum += epoch.BurnTotal
		switch epoch.Status {
		case StatusDetailed:
			epochs = append(epochs, EpochSummary{
				EpochID:    epoch.ID,
				StartTime:  epoch.StartTime,
				EndTime:    epoch.EndTime,
				MintTotal:  epoch.MintTotal,
				BurnTotal:  epoch.BurnTotal,
				Commitment: epoch.Commitment(),
			})
		case StatusSummarized:
			prunedSummary.EpochCount++
			prunedSummary.MintTotal += epoch.MintTotal
			prunedSummary.BurnTotal += epoch.BurnTotal
		default:
			return nil, errors.Errorf("epoch %d has unknown status %d",
				epoch.ID, epoch.Status)
		}
	}

	if burnSum > mintSum {
		return nil, errors.Wrapf(ErrNegativeBalance, "the ledger's burn total "+
			"%d exceeds its mint total %d", burnSum, mintSum)
	}

	return &Report{
		GeneratedAt:             mstime.ReduceToMillisecondPrecision(l.timeSource.Now()),
		TotalOutstandingBalance: mintSum - burnSum,
		Epochs:                  epochs,
		PrunedSummary:           prunedSummary,
	}, nil
}
