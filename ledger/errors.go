package ledger

import (
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrInvalidConfig indicates the ledger was constructed with a
	// missing or non-positive configuration parameter.
	ErrInvalidConfig = newRuleError("ErrInvalidConfig")

	// ErrInvalidAmount indicates a proof amount that is zero, or a mint
	// proof whose embedded amount disagrees with the amount being
	// recorded.
	ErrInvalidAmount = newRuleError("ErrInvalidAmount")

	// ErrInvalidProof indicates the verifier rejected the structure of a
	// mint proof or burn secret.
	ErrInvalidProof = newRuleError("ErrInvalidProof")

	// ErrDuplicateProof indicates an identifier that is already recorded
	// in an epoch that still retains its proof records.
	ErrDuplicateProof = newRuleError("ErrDuplicateProof")

	// ErrClockSkew indicates the observed time precedes the current
	// epoch's start time, so rotation was refused.
	ErrClockSkew = newRuleError("ErrClockSkew")

	// ErrNegativeBalance indicates an operation that would drive the
	// outstanding balance below zero.
	ErrNegativeBalance = newRuleError("ErrNegativeBalance")
)

// A RuleError wraps an error to guarantee it is an accounting-rule
// violation rather than a storage or programming failure. Rule errors are
// terminal for the call that produced them and leave no state behind;
// storage failures are not rule errors and may be retried by the caller.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// IsRuleError returns whether err or any error it wraps is a RuleError.
func IsRuleError(err error) bool {
	return errors.As(err, &RuleError{})
}
