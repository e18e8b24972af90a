package dbaccess

import (
	"github.com/cashupol/pold/database"
	"github.com/cashupol/pold/util/recordid"
)

var (
	proofRecordsBucket = database.MakeBucket([]byte("proof-records"))
	proofIndexBucket   = database.MakeBucket([]byte("proof-index"))
)

// epochProofRecordsBucket returns the bucket that holds the proof records
// of the epoch with the given epochID.
func epochProofRecordsBucket(epochID uint64) *database.Bucket {
	return proofRecordsBucket.Bucket(serializeEpochID(epochID))
}

func proofRecordKey(epochID uint64, id *recordid.RecordID) *database.Key {
	return epochProofRecordsBucket(epochID).Key(id[:])
}

func proofIndexKey(id *recordid.RecordID) *database.Key {
	return proofIndexBucket.Key(id[:])
}

// StoreProofRecord stores the given proof record under the epoch with the
// given epochID, and indexes its record ID so that it can later be found
// without knowing its epoch. Duplicate protection is the caller's
// responsibility.
func StoreProofRecord(context *TxContext, epochID uint64, id *recordid.RecordID, recordBytes []byte) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	err = accessor.Put(proofRecordKey(epochID, id), recordBytes)
	if err != nil {
		return err
	}

	return accessor.Put(proofIndexKey(id), serializeEpochID(epochID))
}

// HasProofRecord returns whether a proof record with the given record ID
// has been previously inserted into the database, in any epoch that had
// not been pruned yet.
func HasProofRecord(context Context, id *recordid.RecordID) (bool, error) {
	accessor, err := context.accessor()
	if err != nil {
		return false, err
	}

	return accessor.Has(proofIndexKey(id))
}

// FetchProofRecordEpoch returns the ID of the epoch that holds the proof
// record with the given record ID. Returns ErrNotFound if the record is
// missing from the database.
func FetchProofRecordEpoch(context Context, id *recordid.RecordID) (uint64, error) {
	accessor, err := context.accessor()
	if err != nil {
		return 0, err
	}

	serializedEpochID, err := accessor.Get(proofIndexKey(id))
	if err != nil {
		return 0, err
	}

	return deserializeEpochID(serializedEpochID)
}

// FetchProofRecord returns the proof record with the given record ID under
// the epoch with the given epochID. Returns ErrNotFound if the record is
// missing from the database.
func FetchProofRecord(context Context, epochID uint64, id *recordid.RecordID) ([]byte, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	return accessor.Get(proofRecordKey(epochID, id))
}

// ProofRecordsCursor opens a cursor over all the proof records of the
// epoch with the given epochID.
func ProofRecordsCursor(context Context, epochID uint64) (database.Cursor, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	return accessor.Cursor(epochProofRecordsBucket(epochID))
}

// DeleteProofRecord deletes the proof record with the given record ID from
// the epoch with the given epochID, along with its index entry. Will not
// return an error if the record doesn't exist.
func DeleteProofRecord(context *TxContext, epochID uint64, id *recordid.RecordID) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	err = accessor.Delete(proofRecordKey(epochID, id))
	if err != nil {
		return err
	}

	return accessor.Delete(proofIndexKey(id))
}
