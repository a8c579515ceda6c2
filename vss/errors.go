package vss

import "errors"

// Sentinel errors. Reconstruction fails closed: any integrity failure aborts
// the whole call.
var (
	// ErrConfiguration rejects invalid engine parameters or threshold choices.
	ErrConfiguration = errors.New("vss: invalid configuration")
	// ErrInvalidInput rejects vectors that cannot be shared.
	ErrInvalidInput = errors.New("vss: invalid input vector")
	// ErrInsufficientShares rejects reconstruction below the threshold.
	ErrInsufficientShares = errors.New("vss: insufficient shares")
	// ErrDuplicateShare rejects repeated share indices for one coordinate.
	ErrDuplicateShare = errors.New("vss: duplicate share index")
	// ErrIntegrity rejects shares whose signature, encapsulation or ciphertext
	// fails to check out.
	ErrIntegrity = errors.New("vss: share integrity check failed")
)
