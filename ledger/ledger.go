package ledger

import (
	"sync"
	"time"

	"github.com/cashupol/pold/cashu"
	"github.com/cashupol/pold/dbaccess"
	"github.com/cashupol/pold/logger"
	"github.com/cashupol/pold/util/mstime"
	"github.com/cashupol/pold/util/recordid"
	"github.com/pkg/errors"
)

// ProofVerifier is the capability the ledger uses to validate proof
// structure before recording anything. Implementations must be pure: no
// storage access, no clock access, no side effects.
type ProofVerifier interface {
	// VerifyMintProof checks that the given proof has the structure of a
	// mint-issued proof.
	VerifyMintProof(proof *cashu.Proof) error

	// VerifyBurnSecret checks that the given redemption secret is
	// well-formed.
	VerifyBurnSecret(secret string, amount uint64) error
}

// Config holds the ledger's construction parameters.
type Config struct {
	// DatabaseContext is the open database the ledger records into.
	DatabaseContext *dbaccess.DatabaseContext

	// EpochDuration is the length of one accounting window. Fixed for
	// the lifetime of the database.
	EpochDuration time.Duration

	// HistorySize is how many trailing epochs retain their individual
	// proof records. Older epochs are summarized. Fixed for the lifetime
	// of the database.
	HistorySize uint64

	// TimeSource supplies the ledger's clock. Nil means local time.
	TimeSource TimeSource

	// Verifier validates proof structure before anything is recorded.
	Verifier ProofVerifier
}

// Ledger tracks a mint's outstanding liabilities by recording verified
// mint and burn proofs into fixed-duration epochs.
//
// All mutating operations against one Ledger are serialized through
// ledgerLock, so there is exactly one logical writer per database. Every
// mutation runs inside a single database transaction, and the in-memory
// state below is only updated after that transaction commits.
type Ledger struct {
	databaseContext *dbaccess.DatabaseContext
	epochDuration   time.Duration
	historySize     uint64
	timeSource      TimeSource
	verifier        ProofVerifier

	ledgerLock sync.RWMutex

	// detailedEpochs is the window of epochs that still retain their
	// proof records, ascending by ID. Its last element is the current
	// epoch. Never empty after Initialize.
	detailedEpochs []*Epoch

	// mintTotal and burnTotal accumulate the totals of all epochs,
	// Detailed and Summarized alike.
	mintTotal uint64
	burnTotal uint64
}

// New creates a Ledger over the given configuration. The returned ledger
// is inert until Initialize is called.
func New(config *Config) (*Ledger, error) {
	if config.DatabaseContext == nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "no database was provided")
	}
	if config.EpochDuration <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "epoch duration must be "+
			"positive, got %s", config.EpochDuration)
	}
	if config.HistorySize == 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "history size must be positive")
	}
	if config.Verifier == nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "no proof verifier was provided")
	}

	timeSource := config.TimeSource
	if timeSource == nil {
		timeSource = NewTimeSource()
	}

	return &Ledger{
		databaseContext: config.DatabaseContext,
		epochDuration:   config.EpochDuration,
		historySize:     config.HistorySize,
		timeSource:      timeSource,
		verifier:        config.Verifier,
	}, nil
}

// Initialize brings the ledger to the present: an empty database gets
// epoch 0 starting now, while a populated one has its state loaded and its
// epoch sequence rotated to cover the current time, so the first operation
// after downtime never observes a stale current epoch.
func (l *Ledger) Initialize() error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "Initialize")
	defer onEnd()

	l.ledgerLock.Lock()
	defer l.ledgerLock.Unlock()

	_, err := dbaccess.FetchCurrentEpochID(l.databaseContext.NoTx())
	if err != nil {
		if !dbaccess.IsNotFoundError(err) {
			return err
		}
		return l.createFirstEpoch()
	}

	err = l.loadState()
	if err != nil {
		return err
	}
	return l.catchUp()
}

// createFirstEpoch initializes an empty database with epoch 0, starting at
// the current time. Caller must hold the ledger lock for writes.
func (l *Ledger) createFirstEpoch() error {
	now := mstime.ReduceToMillisecondPrecision(l.timeSource.Now())
	epoch := newEpoch(0, now, l.epochDuration)

	dbTx, err := l.databaseContext.NewTx()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = storeEpoch(dbTx, epoch)
	if err != nil {
		return err
	}
	err = dbaccess.StoreCurrentEpochID(dbTx, epoch.ID)
	if err != nil {
		return err
	}
	err = dbTx.Commit()
	if err != nil {
		return err
	}

	l.detailedEpochs = []*Epoch{epoch}
	l.mintTotal, l.burnTotal = 0, 0
	log.Infof("Created epoch 0 covering %s to %s", epoch.StartTime, epoch.EndTime)
	return nil
}

// loadState scans the epoch rows of a populated database into the ledger's
// in-memory state, and checks the invariants the rows are expected to
// satisfy. Caller must hold the ledger lock for writes.
func (l *Ledger) loadState() error {
	currentEpochID, err := dbaccess.FetchCurrentEpochID(l.databaseContext.NoTx())
	if err != nil {
		return err
	}

	cursor, err := dbaccess.EpochsCursor(l.databaseContext.NoTx())
	if err != nil {
		return err
	}
	defer cursor.Close()

	var mintTotal, burnTotal uint64
	window := []*Epoch{}
	for cursor.Next() {
		serializedEpoch, err := cursor.Value()
		if err != nil {
			return err
		}
		epoch, err := deserializeEpoch(serializedEpoch)
		if err != nil {
			return err
		}

		mintTotal += epoch.MintTotal
		burnTotal += epoch.BurnTotal
		if epoch.Status == StatusDetailed {
			window = append(window, epoch)
		}
	}

	if len(window) == 0 {
		return errors.Errorf("the database contains no epoch in Detailed status")
	}
	current := window[len(window)-1]
	if current.ID != currentEpochID {
		return errors.Errorf("the current-epoch pointer points at epoch %d, "+
			"but the latest Detailed epoch is %d", currentEpochID, current.ID)
	}
	for i := 1; i < len(window); i++ {
		if window[i].ID != window[i-1].ID+1 {
			return errors.Errorf("epochs %d and %d are not contiguous",
				window[i-1].ID, window[i].ID)
		}
	}
	if burnTotal > mintTotal {
		return errors.Wrapf(ErrNegativeBalance, "the stored burn total %d "+
			"exceeds the stored mint total %d", burnTotal, mintTotal)
	}

	l.detailedEpochs = window
	l.mintTotal = mintTotal
	l.burnTotal = burnTotal
	log.Debugf("Loaded %d Detailed epochs, current epoch is %d. "+
		"Mint total: %d, burn total: %d", len(window), current.ID,
		mintTotal, burnTotal)
	return nil
}

// currentEpoch returns the open epoch. Caller must hold the ledger lock.
func (l *Ledger) currentEpoch() *Epoch {
	return l.detailedEpochs[len(l.detailedEpochs)-1]
}

// LookupProofRecord reports whether the given identifier is recorded in
// any epoch that still retains its proof records, and returns the stored
// record when it is. Once the identifier's epoch has been summarized the
// record is gone, and the lookup reports false.
func (l *Ledger) LookupProofRecord(identifier string) (*ProofRecord, bool, error) {
	l.ledgerLock.RLock()
	defer l.ledgerLock.RUnlock()

	recordID := recordid.FromIdentifier(identifier)
	epochID, err := dbaccess.FetchProofRecordEpoch(l.databaseContext.NoTx(), recordID)
	if err != nil {
		if dbaccess.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	serializedRecord, err := dbaccess.FetchProofRecord(l.databaseContext.NoTx(), epochID, recordID)
	if err != nil {
		return nil, false, err
	}
	record, err := deserializeProofRecord(serializedRecord)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}
