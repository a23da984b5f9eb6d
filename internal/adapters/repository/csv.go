package repository

import (
	"encoding/csv"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// readCSV returns the raw CSV records, header first.
func readCSV(r io.Reader) ([][]string, error) {
	return csv.NewReader(r).ReadAll()
}

// loadRows builds a dataframe from row-major cells whose first row is the
// header. Every column is kept as text; typing is left to the consumers that
// need numbers.
func loadRows(rows [][]string) dataframe.DataFrame {
	return dataframe.LoadRecords(rows, loadOptions()...)
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	}
}
