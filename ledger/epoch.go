package ledger

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/cashupol/pold/util/binaryserializer"
	"github.com/cashupol/pold/util/mstime"
	"github.com/cashupol/pold/util/recordid"
	"github.com/kaspanet/go-muhash"
	"github.com/pkg/errors"
)

// EpochStatus identifies an epoch's retention state.
type EpochStatus byte

const (
	// StatusDetailed marks an epoch that still retains its individual
	// proof records.
	StatusDetailed EpochStatus = iota

	// StatusSummarized marks an epoch whose proof records were pruned.
	// Its totals and its frozen commitment are retained permanently.
	StatusSummarized
)

// String returns the EpochStatus in human-readable form.
func (status EpochStatus) String() string {
	switch status {
	case StatusDetailed:
		return "Detailed"
	case StatusSummarized:
		return "Summarized"
	}
	return fmt.Sprintf("Unknown EpochStatus (%d)", byte(status))
}

// Epoch is one fixed-duration accounting window. Its interval is half-open:
// a time t belongs to the epoch when StartTime <= t < EndTime. MintTotal and
// BurnTotal accumulate the amounts of all the proofs recorded into the
// epoch, and proofMultiset commits to the exact set of record IDs behind
// those totals.
type Epoch struct {
	ID        uint64
	StartTime time.Time
	EndTime   time.Time
	Status    EpochStatus
	MintTotal uint64
	BurnTotal uint64

	proofMultiset *muhash.MuHash
}

// newEpoch returns a new empty Detailed epoch that starts at startTime and
// covers one epochDuration.
func newEpoch(id uint64, startTime time.Time, epochDuration time.Duration) *Epoch {
	return &Epoch{
		ID:            id,
		StartTime:     startTime,
		EndTime:       startTime.Add(epochDuration),
		Status:        StatusDetailed,
		proofMultiset: muhash.NewMuHash(),
	}
}

// Contains returns whether t falls inside the epoch's half-open
// [StartTime, EndTime) interval.
func (e *Epoch) Contains(t time.Time) bool {
	return !t.Before(e.StartTime) && t.Before(e.EndTime)
}

// addToMultiset adds the given record ID to the epoch's proof multiset.
// Record IDs are only ever added: pruning freezes the multiset rather than
// removing the pruned records from it, so the commitment stays reproducible
// after records are dropped.
func (e *Epoch) addToMultiset(id *recordid.RecordID) {
	e.proofMultiset.Add(id[:])
}

// Commitment returns the finalized multiset hash over the record IDs of
// all the proofs recorded into the epoch, as a hexadecimal string.
func (e *Epoch) Commitment() string {
	finalized := e.proofMultiset.Finalize()
	return hex.EncodeToString(finalized.AsArray()[:])
}

// clone returns a deep copy of the epoch. Operations mutate clones and
// publish them only after their database transaction commits, so a failed
// commit never leaves a half-updated epoch in memory.
func (e *Epoch) clone() *Epoch {
	clone := *e
	clone.proofMultiset = e.proofMultiset.Clone()
	return &clone
}

// serializeEpoch serializes the epoch into a fixed-size row:
// ID, start and end times in milliseconds, status, both totals, and the
// serialized proof multiset.
func serializeEpoch(epoch *Epoch) ([]byte, error) {
	w := &bytes.Buffer{}

	err := binaryserializer.PutUint64(w, epoch.ID)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, uint64(mstime.TimeToUnixMilli(epoch.StartTime)))
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, uint64(mstime.TimeToUnixMilli(epoch.EndTime)))
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint8(w, uint8(epoch.Status))
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, epoch.MintTotal)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, epoch.BurnTotal)
	if err != nil {
		return nil, err
	}

	serializedMultiset := epoch.proofMultiset.Serialize()
	_, err = w.Write(serializedMultiset[:])
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return w.Bytes(), nil
}

// deserializeEpoch deserializes an epoch row produced by serializeEpoch.
func deserializeEpoch(serializedEpoch []byte) (*Epoch, error) {
	r := bytes.NewReader(serializedEpoch)
	epoch := &Epoch{}

	var err error
	epoch.ID, err = binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	startTimeMilliseconds, err := binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	epoch.StartTime = mstime.UnixMilliToTime(int64(startTimeMilliseconds))
	endTimeMilliseconds, err := binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	epoch.EndTime = mstime.UnixMilliToTime(int64(endTimeMilliseconds))
	status, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	epoch.Status = EpochStatus(status)
	epoch.MintTotal, err = binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	epoch.BurnTotal, err = binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}

	var serializedMultiset muhash.SerializedMuHash
	_, err = io.ReadFull(r, serializedMultiset[:])
	if err != nil {
		return nil, errors.WithStack(err)
	}
	epoch.proofMultiset, err = muhash.DeserializeMuHash(&serializedMultiset)
	if err != nil {
		return nil, errors.Wrapf(err, "could not deserialize the proof "+
			"multiset of epoch %d", epoch.ID)
	}

	return epoch, nil
}
