package ledger

import (
	"strings"
	"testing"

	"github.com/cashupol/pold/util/mstime"
	"github.com/cashupol/pold/util/recordid"
)

func TestProofKindString(t *testing.T) {
	tests := []struct {
		kind ProofKind
		want string
	}{
		{KindMint, "mint"},
		{KindBurn, "burn"},
		{ProofKind(0xff), "unknown ProofKind (255)"},
	}
	for _, test := range tests {
		if got := test.kind.String(); got != test.want {
			t.Errorf("TestProofKindString: got %s, want %s", got, test.want)
		}
	}
}

func TestProofRecordSerialization(t *testing.T) {
	records := []*ProofRecord{
		{
			Kind:       KindMint,
			Identifier: "02bc9097997d81afb2cc7346b5e4345a9346bd2a506eb7958598a72f0cf85163ea",
			Amount:     1000,
			EpochID:    0,
			Timestamp:  mstime.UnixMilliToTime(1600000000000),
		},
		{
			Kind:       KindBurn,
			Identifier: "une chaîne de caractères",
			Amount:     1,
			EpochID:    18446744073709551615,
			Timestamp:  mstime.UnixMilliToTime(1),
		},
	}

	for _, record := range records {
		serializedRecord, err := serializeProofRecord(record)
		if err != nil {
			t.Fatalf("TestProofRecordSerialization: serializeProofRecord "+
				"unexpectedly failed: %s", err)
		}
		deserializedRecord, err := deserializeProofRecord(serializedRecord)
		if err != nil {
			t.Fatalf("TestProofRecordSerialization: deserializeProofRecord "+
				"unexpectedly failed: %s", err)
		}

		if deserializedRecord.Kind != record.Kind {
			t.Errorf("TestProofRecordSerialization: got kind %s, want %s",
				deserializedRecord.Kind, record.Kind)
		}
		if deserializedRecord.Identifier != record.Identifier {
			t.Errorf("TestProofRecordSerialization: got identifier %s, want %s",
				deserializedRecord.Identifier, record.Identifier)
		}
		if deserializedRecord.Amount != record.Amount {
			t.Errorf("TestProofRecordSerialization: got amount %d, want %d",
				deserializedRecord.Amount, record.Amount)
		}
		if deserializedRecord.EpochID != record.EpochID {
			t.Errorf("TestProofRecordSerialization: got epoch ID %d, want %d",
				deserializedRecord.EpochID, record.EpochID)
		}
		if !deserializedRecord.Timestamp.Equal(record.Timestamp) {
			t.Errorf("TestProofRecordSerialization: got timestamp %s, want %s",
				deserializedRecord.Timestamp, record.Timestamp)
		}
	}
}

func TestProofRecordSerializationErrors(t *testing.T) {
	oversized := &ProofRecord{
		Kind:       KindMint,
		Identifier: strings.Repeat("a", 65536),
		Amount:     1,
		Timestamp:  mstime.UnixMilliToTime(1600000000000),
	}
	_, err := serializeProofRecord(oversized)
	if err == nil {
		t.Errorf("TestProofRecordSerializationErrors: serializeProofRecord " +
			"unexpectedly accepted an identifier longer than 65535 bytes")
	}
}

func TestProofRecordDeserializationErrors(t *testing.T) {
	record := &ProofRecord{
		Kind:       KindBurn,
		Identifier: "some secret",
		Amount:     400,
		EpochID:    2,
		Timestamp:  mstime.UnixMilliToTime(1600000000000),
	}
	serializedRecord, err := serializeProofRecord(record)
	if err != nil {
		t.Fatalf("TestProofRecordDeserializationErrors: serializeProofRecord "+
			"unexpectedly failed: %s", err)
	}

	for _, length := range []int{0, 1, 17, 25, 26, len(serializedRecord) - 1} {
		_, err := deserializeProofRecord(serializedRecord[:length])
		if err == nil {
			t.Errorf("TestProofRecordDeserializationErrors: "+
				"deserializeProofRecord unexpectedly succeeded on a row "+
				"truncated to %d bytes", length)
		}
	}

	// The verification status byte sits right after the kind, the amount,
	// the epoch ID and the timestamp.
	unverified := make([]byte, len(serializedRecord))
	copy(unverified, serializedRecord)
	unverified[25] = 0
	_, err = deserializeProofRecord(unverified)
	if err == nil {
		t.Errorf("TestProofRecordDeserializationErrors: " +
			"deserializeProofRecord unexpectedly accepted an unknown " +
			"verification status")
	}
}

func TestProofRecordID(t *testing.T) {
	record := &ProofRecord{Kind: KindMint, Identifier: "some identifier"}
	if !record.RecordID().IsEqual(recordid.FromIdentifier("some identifier")) {
		t.Errorf("TestProofRecordID: RecordID disagrees with " +
			"recordid.FromIdentifier over the same identifier")
	}
}
