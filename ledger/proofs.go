package ledger

import (
	"github.com/cashupol/pold/cashu"
	"github.com/cashupol/pold/dbaccess"
	"github.com/cashupol/pold/util/mstime"
	"github.com/cashupol/pold/util/recordid"
	"github.com/pkg/errors"
)

// RecordMintProof verifies the given mint proof and records it into the
// current epoch, increasing the epoch's mint total by amount. The proof's
// commitment serves as its identifier: re-presenting the same commitment
// while its record is retained returns ErrDuplicateProof.
func (l *Ledger) RecordMintProof(proof *cashu.Proof, amount uint64) (*recordid.RecordID, error) {
	l.ledgerLock.Lock()
	defer l.ledgerLock.Unlock()

	if amount == 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "mint amount must be positive")
	}
	if proof == nil {
		return nil, errors.Wrapf(ErrInvalidProof, "no proof was provided")
	}
	if proof.Amount != amount {
		return nil, errors.Wrapf(ErrInvalidAmount, "the proof's amount %d "+
			"disagrees with the recorded amount %d", proof.Amount, amount)
	}
	err := l.verifier.VerifyMintProof(proof)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidProof, "mint proof failed "+
			"verification: %s", err)
	}

	return l.recordProof(KindMint, proof.C, amount)
}

// RecordBurnProof verifies the given redemption secret and records the
// burn into the current epoch, increasing the epoch's burn total by
// amount. A burn that would push the outstanding balance below zero is
// rejected with ErrNegativeBalance and leaves no trace.
func (l *Ledger) RecordBurnProof(secret string, amount uint64) (*recordid.RecordID, error) {
	l.ledgerLock.Lock()
	defer l.ledgerLock.Unlock()

	if amount == 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "burn amount must be positive")
	}
	err := l.verifier.VerifyBurnSecret(secret, amount)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidProof, "burn secret failed "+
			"verification: %s", err)
	}

	return l.recordProof(KindBurn, secret, amount)
}

// recordProof runs the shared recording flow under one database
// transaction: rotate the epoch sequence if needed, refuse duplicate
// identifiers and balance-breaking burns, then write the record and the
// updated epoch row. The in-memory state is only updated after the
// transaction commits, so a failure at any point leaves no effect at all.
//
// Caller must hold the ledger lock for writes.
func (l *Ledger) recordProof(kind ProofKind, identifier string, amount uint64) (*recordid.RecordID, error) {
	now := mstime.ReduceToMillisecondPrecision(l.timeSource.Now())
	recordID := recordid.FromIdentifier(identifier)

	dbTx, err := l.databaseContext.NewTx()
	if err != nil {
		return nil, err
	}
	defer dbTx.RollbackUnlessClosed()

	window, err := l.rotateIfNeeded(dbTx, now)
	if err != nil {
		return nil, err
	}

	// Duplicate protection covers exactly the epochs that still retain
	// their records. The index is read from the transaction's snapshot,
	// so an entry that a pending summarization in this very transaction
	// has already deleted still shows up here. Such an entry belongs to
	// an epoch below the window and no longer blocks the identifier.
	existingEpochID, err := dbaccess.FetchProofRecordEpoch(dbTx, recordID)
	if err != nil && !dbaccess.IsNotFoundError(err) {
		return nil, err
	}
	if err == nil && existingEpochID >= window[0].ID {
		return nil, errors.Wrapf(ErrDuplicateProof, "the identifier is "+
			"already recorded as %s in epoch %d", recordID, existingEpochID)
	}

	if kind == KindBurn && amount > l.mintTotal-l.burnTotal {
		return nil, errors.Wrapf(ErrNegativeBalance, "burning %d would exceed "+
			"the outstanding balance of %d", amount, l.mintTotal-l.burnTotal)
	}

	currentEpoch := window[len(window)-1].clone()
	record := &ProofRecord{
		Kind:       kind,
		Identifier: identifier,
		Amount:     amount,
		EpochID:    currentEpoch.ID,
		Timestamp:  now,
	}
	switch kind {
	case KindMint:
		currentEpoch.MintTotal += amount
	case KindBurn:
		currentEpoch.BurnTotal += amount
	}
	currentEpoch.addToMultiset(recordID)

	serializedRecord, err := serializeProofRecord(record)
	if err != nil {
		return nil, err
	}
	err = dbaccess.StoreProofRecord(dbTx, currentEpoch.ID, recordID, serializedRecord)
	if err != nil {
		return nil, err
	}
	err = storeEpoch(dbTx, currentEpoch)
	if err != nil {
		return nil, err
	}

	err = dbTx.Commit()
	if err != nil {
		return nil, err
	}

	window[len(window)-1] = currentEpoch
	l.detailedEpochs = window
	switch kind {
	case KindMint:
		l.mintTotal += amount
	case KindBurn:
		l.burnTotal += amount
	}

	log.Debugf("Recorded %s proof %s for amount %d in epoch %d",
		kind, recordID, amount, currentEpoch.ID)
	return recordID, nil
}
