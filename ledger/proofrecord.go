package ledger

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cashupol/pold/util/binaryserializer"
	"github.com/cashupol/pold/util/mstime"
	"github.com/cashupol/pold/util/recordid"
	"github.com/pkg/errors"
)

// ProofKind distinguishes records of issuance from records of redemption.
type ProofKind byte

const (
	// KindMint marks a record of ecash issuance: a liability increase.
	KindMint ProofKind = iota

	// KindBurn marks a record of ecash redemption: a liability decrease.
	KindBurn
)

// String returns the ProofKind in human-readable form.
func (kind ProofKind) String() string {
	switch kind {
	case KindMint:
		return "mint"
	case KindBurn:
		return "burn"
	}
	return fmt.Sprintf("unknown ProofKind (%d)", byte(kind))
}

// recordVerified is the only verification status a committed record can
// carry: records are verified before they are written, and the status is
// frozen afterwards.
const recordVerified uint8 = 1

// ProofRecord is one verified mint or burn event. A record is immutable
// once committed, and exists only while its epoch is in Detailed status.
type ProofRecord struct {
	// Kind is whether the record represents a mint or a burn.
	Kind ProofKind

	// Identifier is what makes the proof unique: the redemption secret
	// for burns, or the commitment for mints.
	Identifier string

	// Amount is the proof's amount in satoshis.
	Amount uint64

	// EpochID is the ID of the epoch the record was recorded into.
	EpochID uint64

	// Timestamp is the time the record was recorded at.
	Timestamp time.Time
}

// RecordID returns the ID the record is stored and indexed under: the hash
// of its identifier.
func (r *ProofRecord) RecordID() *recordid.RecordID {
	return recordid.FromIdentifier(r.Identifier)
}

// serializeProofRecord serializes the proof record: kind, amount, epoch ID,
// timestamp in milliseconds, verification status, and the length-prefixed
// identifier.
func serializeProofRecord(record *ProofRecord) ([]byte, error) {
	if len(record.Identifier) > math.MaxUint16 {
		return nil, errors.Errorf("proof record identifier is %d bytes "+
			"long, max %d", len(record.Identifier), math.MaxUint16)
	}

	w := &bytes.Buffer{}
	err := binaryserializer.PutUint8(w, uint8(record.Kind))
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, record.Amount)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, record.EpochID)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, uint64(mstime.TimeToUnixMilli(record.Timestamp)))
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint8(w, recordVerified)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint16(w, uint16(len(record.Identifier)))
	if err != nil {
		return nil, err
	}
	_, err = w.WriteString(record.Identifier)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return w.Bytes(), nil
}

// deserializeProofRecord deserializes a record row produced by
// serializeProofRecord.
func deserializeProofRecord(serializedRecord []byte) (*ProofRecord, error) {
	r := bytes.NewReader(serializedRecord)
	record := &ProofRecord{}

	kind, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	record.Kind = ProofKind(kind)
	record.Amount, err = binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	record.EpochID, err = binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	timestampMilliseconds, err := binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	record.Timestamp = mstime.UnixMilliToTime(int64(timestampMilliseconds))
	verificationStatus, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	if verificationStatus != recordVerified {
		return nil, errors.Errorf("proof record has unknown verification "+
			"status %d", verificationStatus)
	}

	identifierLength, err := binaryserializer.Uint16(r)
	if err != nil {
		return nil, err
	}
	identifier := make([]byte, identifierLength)
	_, err = io.ReadFull(r, identifier)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	record.Identifier = string(identifier)

	return record, nil
}
