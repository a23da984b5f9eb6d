package sampledata

import "errors"

// Sentinel kinds for sample data errors.
var (
	ErrInvalidRows        = errors.New("rows must be positive")
	ErrUnexpectedStatus   = errors.New("unexpected status")
	ErrVerificationFailed = errors.New("verification failed")
)
