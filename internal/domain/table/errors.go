package table

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for table errors. These allow errors.Is/As from callers.
var (
	ErrInvalidColumn   = errors.New("invalid column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrEmptyColumnName = errors.New("empty column name")
	ErrRaggedRow       = errors.New("row width does not match header")
)

// InvalidColumnError reports a reference to a column the table does not have.
type InvalidColumnError struct {
	Column    string
	Available []string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid column %q (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrInvalidColumn) hold for any InvalidColumnError.
func (e *InvalidColumnError) Is(target error) bool {
	return target == ErrInvalidColumn
}
