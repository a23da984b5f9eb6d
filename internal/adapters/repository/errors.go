package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for dataset errors.
var (
	ErrDataLoad          = errors.New("data load failed")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrParse             = errors.New("dataset parse failed")
	ErrEmptyDataset      = errors.New("dataset has no header")
	ErrMissingYear       = errors.New("dataset has no year column")
	ErrInvalidYear       = errors.New("year is not an integer")
	ErrNoSheet           = errors.New("workbook has no sheet")
)

// DataLoadError reports a dataset that could not be loaded. It is fatal at
// startup.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataLoad) hold for any DataLoadError.
func (e *DataLoadError) Is(target error) bool {
	return target == ErrDataLoad
}
