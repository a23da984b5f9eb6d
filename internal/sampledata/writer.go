package sampledata

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// File permission constants.
const (
	outputFilePermission = 0o644
)

// Header is the column header of generated files. Names are spreadsheet
// style; the loader snake-cases them.
var Header = []string{"Participant ID", "Year", "Gender", "Event", "City", "Nationality", "Age"} //nolint:gochecknoglobals // fixed header

// WriteCSV writes participants as CSV with Header as the first row.
func WriteCSV(w io.Writer, participants []Participant) error {
	records := make([][]string, 0, len(participants)+1)
	records = append(records, Header)
	for _, p := range participants {
		records = append(records, append([]string{p.ID}, p.Values()...))
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df.WriteCSV(w)
}

// WriteFile writes participants to path as CSV.
func WriteFile(path string, participants []Participant) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, participants)
}
