package verifier

import (
	"unicode/utf8"

	"github.com/cashupol/pold/cashu"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

// Verifier checks that mint and burn proofs are structurally valid: that
// their commitments parse as curve points and their secrets are well-formed.
// It deliberately checks nothing about spend state, so it needs no storage
// and no clock.
type Verifier struct{}

// New returns a new structural Verifier.
func New() *Verifier {
	return &Verifier{}
}

// VerifyMintProof checks that the given proof has the structure of a
// mint-issued proof: a well-formed secret and a commitment that
// deserializes as a compressed secp256k1 point.
func (v *Verifier) VerifyMintProof(proof *cashu.Proof) error {
	if proof == nil {
		return errors.New("proof is nil")
	}

	err := checkSecret(proof.Secret)
	if err != nil {
		return err
	}

	cBytes, err := proof.CBytes()
	if err != nil {
		return err
	}
	_, err = secp256k1.DeserializeECDSAPubKey(cBytes)
	if err != nil {
		return errors.Wrapf(err, "commitment does not deserialize as a point")
	}

	log.Tracef("Verified structure of mint proof under keyset %s", proof.ID)
	return nil
}

// VerifyBurnSecret checks that the given redemption secret is well-formed.
func (v *Verifier) VerifyBurnSecret(secret string, amount uint64) error {
	err := checkSecret(secret)
	if err != nil {
		return err
	}

	log.Tracef("Verified structure of burn secret for amount %d", amount)
	return nil
}

func checkSecret(secret string) error {
	if len(secret) == 0 {
		return errors.New("secret is empty")
	}
	if len(secret) > cashu.MaxSecretLength {
		return errors.Errorf("secret is %d bytes, max %d",
			len(secret), cashu.MaxSecretLength)
	}
	if !utf8.ValidString(secret) {
		return errors.New("secret is not valid utf-8")
	}
	return nil
}
