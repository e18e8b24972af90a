package ledger

import (
	"time"

	"github.com/cashupol/pold/dbaccess"
	"github.com/cashupol/pold/util/mstime"
	"github.com/cashupol/pold/util/recordid"
	"github.com/pkg/errors"
)

// rotateIfNeeded advances the epoch sequence until the current epoch's
// interval contains now, creating one Detailed epoch per elapsed interval,
// then summarizes the epochs that fell out of the retention window. All
// writes go through dbTx.
//
// The returned window is ascending by ID and its last element is the
// current epoch. The ledger's own window is left untouched: the caller
// publishes the returned window only after the transaction commits.
//
// Caller must hold the ledger lock for writes.
func (l *Ledger) rotateIfNeeded(dbTx *dbaccess.TxContext, now time.Time) ([]*Epoch, error) {
	window := make([]*Epoch, len(l.detailedEpochs))
	copy(window, l.detailedEpochs)
	current := window[len(window)-1]

	if now.Before(current.StartTime) {
		return nil, errors.Wrapf(ErrClockSkew, "the observed time %s precedes "+
			"the current epoch's start time %s", now, current.StartTime)
	}
	if current.Contains(now) {
		return window, nil
	}

	rotated := 0
	for !current.Contains(now) {
		next := newEpoch(current.ID+1, current.EndTime, l.epochDuration)
		err := storeEpoch(dbTx, next)
		if err != nil {
			return nil, err
		}
		window = append(window, next)
		current = next
		rotated++
	}
	err := dbaccess.StoreCurrentEpochID(dbTx, current.ID)
	if err != nil {
		return nil, err
	}

	summarized := 0
	for uint64(len(window)) > l.historySize {
		err := l.summarizeEpoch(dbTx, window[0])
		if err != nil {
			return nil, err
		}
		window = window[1:]
		summarized++
	}

	log.Infof("Rotated to epoch %d. Created %d epochs, summarized %d",
		current.ID, rotated, summarized)
	return window, nil
}

// summarizeEpoch transitions the given epoch to Summarized status. Its
// proof records and their index entries are deleted, while its totals and
// its frozen proof commitment are stored permanently. The epoch object the
// caller passed in is never mutated: the status change happens on a clone
// that only exists in the transaction.
func (l *Ledger) summarizeEpoch(dbTx *dbaccess.TxContext, epoch *Epoch) error {
	cursor, err := dbaccess.ProofRecordsCursor(dbTx, epoch.ID)
	if err != nil {
		return err
	}
	defer cursor.Close()

	recordCount := 0
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return err
		}
		recordID, err := recordid.New(key.Suffix())
		if err != nil {
			return err
		}
		err = dbaccess.DeleteProofRecord(dbTx, epoch.ID, recordID)
		if err != nil {
			return err
		}
		recordCount++
	}

	summarizedEpoch := epoch.clone()
	summarizedEpoch.Status = StatusSummarized
	err = storeEpoch(dbTx, summarizedEpoch)
	if err != nil {
		return err
	}

	log.Infof("Summarized epoch %d. Dropped %d proof records, retained "+
		"mint total %d and burn total %d", epoch.ID, recordCount,
		epoch.MintTotal, epoch.BurnTotal)
	return nil
}

// catchUp rotates the epoch sequence up to the present in its own
// transaction. It is a no-op while the current epoch still contains the
// present time, so the fast path costs no database work at all.
//
// Caller must hold the ledger lock for writes.
func (l *Ledger) catchUp() error {
	now := mstime.ReduceToMillisecondPrecision(l.timeSource.Now())
	current := l.currentEpoch()
	if current.Contains(now) {
		return nil
	}
	if now.Before(current.StartTime) {
		return errors.Wrapf(ErrClockSkew, "the observed time %s precedes "+
			"the current epoch's start time %s", now, current.StartTime)
	}

	dbTx, err := l.databaseContext.NewTx()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	window, err := l.rotateIfNeeded(dbTx, now)
	if err != nil {
		return err
	}
	err = dbTx.Commit()
	if err != nil {
		return err
	}

	l.detailedEpochs = window
	return nil
}

// storeEpoch serializes the given epoch and writes its row.
func storeEpoch(dbTx *dbaccess.TxContext, epoch *Epoch) error {
	serializedEpoch, err := serializeEpoch(epoch)
	if err != nil {
		return err
	}
	return dbaccess.StoreEpoch(dbTx, epoch.ID, serializedEpoch)
}
