package dbaccess

import (
	"encoding/binary"

	"github.com/cashupol/pold/database"
	"github.com/pkg/errors"
)

var (
	epochsBucket = database.MakeBucket([]byte("epochs"))

	currentEpochKey = database.MakeBucket().Key([]byte("current-epoch"))
)

// serializeEpochID serializes an epoch ID for use in database keys.
// Big-endian is used so that the lexicographic order of the keys matches
// the natural order of the epochs.
func serializeEpochID(epochID uint64) []byte {
	serializedEpochID := make([]byte, 8)
	binary.BigEndian.PutUint64(serializedEpochID, epochID)
	return serializedEpochID
}

func deserializeEpochID(serializedEpochID []byte) (uint64, error) {
	if len(serializedEpochID) != 8 {
		return 0, errors.Errorf("unexpected serialized epoch ID "+
			"length %d", len(serializedEpochID))
	}
	return binary.BigEndian.Uint64(serializedEpochID), nil
}

func epochKey(epochID uint64) *database.Key {
	return epochsBucket.Key(serializeEpochID(epochID))
}

// StoreEpoch stores the given epoch in the database. It overwrites
// any previous epoch with the same epochID.
func StoreEpoch(context Context, epochID uint64, epochBytes []byte) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	return accessor.Put(epochKey(epochID), epochBytes)
}

// FetchEpoch returns the epoch with the given epochID. Returns
// ErrNotFound if the epoch had not been previously inserted into
// the database.
func FetchEpoch(context Context, epochID uint64) ([]byte, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	return accessor.Get(epochKey(epochID))
}

// HasEpoch returns whether the epoch with the given epochID has been
// previously inserted into the database.
func HasEpoch(context Context, epochID uint64) (bool, error) {
	accessor, err := context.accessor()
	if err != nil {
		return false, err
	}

	return accessor.Has(epochKey(epochID))
}

// EpochsCursor opens a cursor over all the epochs that have been
// previously added to the database, ordered by epochID.
func EpochsCursor(context Context) (database.Cursor, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	return accessor.Cursor(epochsBucket)
}

// EpochsCursorFrom opens a cursor over epochs starting from the epoch
// with the given epochID. Returns ErrNotFound if the epoch is missing
// from the database.
func EpochsCursorFrom(context Context, epochID uint64) (database.Cursor, error) {
	cursor, err := EpochsCursor(context)
	if err != nil {
		return nil, err
	}

	err = cursor.Seek(epochKey(epochID))
	if IsNotFoundError(err) {
		cursor.Close()
		return nil, errors.Wrapf(database.ErrNotFound,
			"epoch not found for ID %d", epochID)
	}
	if err != nil {
		return nil, err
	}

	return cursor, nil
}

// StoreCurrentEpochID stores the ID of the current epoch in the database.
func StoreCurrentEpochID(context Context, epochID uint64) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	return accessor.Put(currentEpochKey, serializeEpochID(epochID))
}

// FetchCurrentEpochID retrieves the ID of the current epoch from the
// database. Returns ErrNotFound if no current epoch had ever been stored,
// i.e. the database is fresh.
func FetchCurrentEpochID(context Context) (uint64, error) {
	accessor, err := context.accessor()
	if err != nil {
		return 0, err
	}

	serializedEpochID, err := accessor.Get(currentEpochKey)
	if err != nil {
		return 0, err
	}

	return deserializeEpochID(serializedEpochID)
}
