package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrNilTable        = errors.New("nil table")
)
