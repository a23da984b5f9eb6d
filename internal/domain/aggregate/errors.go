package aggregate

import (
	"errors"

	"github.com/okian/eventdash/internal/domain/table"
)

// InvalidColumnError is returned when an operation names a column the table
// does not have.
type InvalidColumnError = table.InvalidColumnError

// Sentinel kinds for aggregation errors. These allow errors.Is/As from callers.
var (
	ErrInvalidColumn      = table.ErrInvalidColumn
	ErrInvalidKeyColumns  = errors.New("count_by needs one or two key columns")
	ErrInvalidLimit       = errors.New("top-n limit must be at least 1")
	ErrInvalidBucketCount = errors.New("bucket count must be at least 1")
	ErrInvalidMode        = errors.New("unknown histogram mode")
)
