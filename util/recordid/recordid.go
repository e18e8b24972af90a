// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package recordid

import (
	"encoding/hex"
	"fmt"

	"github.com/cashupol/pold/util"
)

// Size of array used to store a record ID. See RecordID.
const Size = 32

// MaxStringSize is the maximum length of a RecordID string.
const MaxStringSize = Size * 2

// ErrIDStrSize describes an error that indicates the caller specified an ID
// string that has too many characters.
var ErrIDStrSize = fmt.Errorf("max ID string length is %v bytes", MaxStringSize)

// RecordID identifies a single proof record in the ledger. It is the
// blake2b digest of the proof's unique identifier, so equal identifiers
// always map to equal record IDs.
type RecordID [Size]byte

// FromIdentifier returns the RecordID for the given proof identifier.
func FromIdentifier(identifier string) *RecordID {
	var id RecordID
	copy(id[:], util.HashBlake2b([]byte(identifier)))
	return &id
}

// String returns the RecordID as a hexadecimal string.
func (id RecordID) String() string {
	return hex.EncodeToString(id[:])
}

// CloneBytes returns a copy of the bytes which represent the ID as a byte
// slice.
//
// NOTE: It is generally cheaper to just slice the ID directly thereby reusing
// the same bytes rather than calling this method.
func (id *RecordID) CloneBytes() []byte {
	newID := make([]byte, Size)
	copy(newID, id[:])

	return newID
}

// SetBytes sets the bytes which represent the ID. An error is returned if
// the number of bytes passed in is not Size.
func (id *RecordID) SetBytes(newID []byte) error {
	nhlen := len(newID)
	if nhlen != Size {
		return fmt.Errorf("invalid ID length of %v, want %v", nhlen,
			Size)
	}
	copy(id[:], newID)

	return nil
}

// IsEqual returns true if target is the same as ID.
func (id *RecordID) IsEqual(target *RecordID) bool {
	if id == nil && target == nil {
		return true
	}
	if id == nil || target == nil {
		return false
	}
	return *id == *target
}

// New returns a new ID from a byte slice. An error is returned if
// the number of bytes passed in is not Size.
func New(newID []byte) (*RecordID, error) {
	var id RecordID
	err := id.SetBytes(newID)
	if err != nil {
		return nil, err
	}
	return &id, err
}

// NewFromStr creates a RecordID from a hexadecimal ID string.
func NewFromStr(idStr string) (*RecordID, error) {
	// Return error if ID string is too long.
	if len(idStr) > MaxStringSize {
		return nil, ErrIDStrSize
	}

	decoded, err := hex.DecodeString(idStr)
	if err != nil {
		return nil, err
	}

	return New(decoded)
}
