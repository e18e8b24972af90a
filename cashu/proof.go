package cashu

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
)

// CommitmentLength is the length of a proof's unblinded commitment C: a
// compressed secp256k1 point.
const CommitmentLength = 33

// MaxSecretLength is the maximum length in bytes of a proof secret.
const MaxSecretLength = 512

// Proof is an ecash proof as issued by a mint. Field names follow the wire
// JSON format, so a proof pasted from a wallet or mint response decodes
// as-is.
type Proof struct {
	// Amount is the denomination of the proof in satoshis.
	Amount uint64 `json:"amount"`

	// ID is the ID of the keyset the proof was signed under.
	ID KeysetID `json:"id"`

	// Secret is the utf-8 secret message that was blindly signed.
	Secret string `json:"secret"`

	// C is the hexadecimal unblinded signature commitment over Secret.
	C string `json:"C"`
}

// ParseProof decodes a single JSON-encoded proof.
func ParseProof(serializedProof []byte) (*Proof, error) {
	proof := &Proof{}
	err := json.Unmarshal(serializedProof, proof)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse proof")
	}
	return proof, nil
}

// CBytes returns the decoded bytes of the proof's commitment C. An error is
// returned if C is not the hexadecimal form of a compressed point.
func (p *Proof) CBytes() ([]byte, error) {
	decoded, err := hex.DecodeString(p.C)
	if err != nil {
		return nil, errors.Wrapf(err, "commitment is not valid hex")
	}
	if len(decoded) != CommitmentLength {
		return nil, errors.Errorf("commitment is %d bytes, want %d",
			len(decoded), CommitmentLength)
	}
	return decoded, nil
}
