package qzkp

import "errors"

// Sentinel errors. Verification never returns these from VerifyProof; they
// classify rejections through VerifyProofReport and prove-side failures.
var (
	// ErrConfiguration rejects invalid engine parameters.
	ErrConfiguration = errors.New("qzkp: invalid configuration")
	// ErrInvalidInput rejects vectors that cannot be encoded.
	ErrInvalidInput = errors.New("qzkp: invalid input vector")
	// ErrStructural classifies missing, malformed or inconsistent proof fields.
	ErrStructural = errors.New("qzkp: malformed proof")
	// ErrIdentifierMismatch classifies a proof bound to a different identifier.
	ErrIdentifierMismatch = errors.New("qzkp: identifier mismatch")
	// ErrSignature classifies a transcript signature that does not verify.
	ErrSignature = errors.New("qzkp: signature verification failed")
	// ErrNormalization classifies coefficients that are not a unit vector.
	ErrNormalization = errors.New("qzkp: state not normalized")
	// ErrMeasurementRange classifies measurements outside their legal ranges.
	ErrMeasurementRange = errors.New("qzkp: measurement out of range")
)
