// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cashu

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeysetIDLength of array used to store a keyset ID. See KeysetID.
const KeysetIDLength = 8

// keysetIDStringSize is the exact length of a KeysetID string.
const keysetIDStringSize = KeysetIDLength * 2

// ErrKeysetIDStrSize describes an error that indicates the caller specified
// an ID string with the wrong amount of characters.
var ErrKeysetIDStrSize = fmt.Errorf("keyset ID string length must be %v bytes", keysetIDStringSize)

// KeysetID identifies the mint keyset a proof was signed under. On the wire
// it is the hexadecimal string of its bytes, version byte first.
type KeysetID [KeysetIDLength]byte

// String returns the KeysetID as a hexadecimal string.
func (id KeysetID) String() string {
	return hex.EncodeToString(id[:])
}

// CloneBytes returns a copy of the bytes which represent the ID as a byte
// slice.
//
// NOTE: It is generally cheaper to just slice the ID directly thereby reusing
// the same bytes rather than calling this method.
func (id *KeysetID) CloneBytes() []byte {
	newID := make([]byte, KeysetIDLength)
	copy(newID, id[:])

	return newID
}

// SetBytes sets the bytes which represent the ID. An error is returned if
// the number of bytes passed in is not KeysetIDLength.
func (id *KeysetID) SetBytes(newID []byte) error {
	nhlen := len(newID)
	if nhlen != KeysetIDLength {
		return fmt.Errorf("invalid keyset ID length of %v, want %v", nhlen,
			KeysetIDLength)
	}
	copy(id[:], newID)

	return nil
}

// IsEqual returns true if target is the same as ID.
func (id *KeysetID) IsEqual(target *KeysetID) bool {
	if id == nil && target == nil {
		return true
	}
	if id == nil || target == nil {
		return false
	}
	return *id == *target
}

// NewKeysetID returns a new ID from a byte slice. An error is returned if
// the number of bytes passed in is not KeysetIDLength.
func NewKeysetID(newID []byte) (*KeysetID, error) {
	var id KeysetID
	err := id.SetBytes(newID)
	if err != nil {
		return nil, err
	}
	return &id, err
}

// NewKeysetIDFromStr creates a KeysetID from its hexadecimal string. Unlike
// hash strings, keyset ID strings are never padded, so the string must
// decode to exactly KeysetIDLength bytes.
func NewKeysetIDFromStr(idStr string) (*KeysetID, error) {
	if len(idStr) != keysetIDStringSize {
		return nil, ErrKeysetIDStrSize
	}

	decoded, err := hex.DecodeString(idStr)
	if err != nil {
		return nil, err
	}

	return NewKeysetID(decoded)
}

// MarshalJSON encodes the KeysetID as its hexadecimal JSON string.
func (id KeysetID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes a KeysetID from its hexadecimal JSON string.
func (id *KeysetID) UnmarshalJSON(data []byte) error {
	var idStr string
	err := json.Unmarshal(data, &idStr)
	if err != nil {
		return err
	}

	decodedID, err := NewKeysetIDFromStr(idStr)
	if err != nil {
		return err
	}

	*id = *decodedID
	return nil
}
