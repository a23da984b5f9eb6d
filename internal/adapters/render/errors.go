package render

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNothingToRender = errors.New("nothing to render")
	ErrUnknownKind     = errors.New("unknown section kind")
)
