// Package model contains domain models passed between layers.
package model

import "strconv"

// Column names of the participation dataset.
const (
	ColumnYear        = "year"
	ColumnGender      = "gender"
	ColumnEvent       = "event"
	ColumnCity        = "city"
	ColumnNationality = "nationality"
	ColumnAge         = "age"
)

// Columns lists the dataset columns in their canonical order.
var Columns = []string{
	ColumnYear,
	ColumnGender,
	ColumnEvent,
	ColumnCity,
	ColumnNationality,
	ColumnAge,
}

// Record represents one participant's single event participation.
// Duplicate records are meaningful: each one counts as a participation.
type Record struct {
	Year        int
	Gender      string
	Event       string
	City        string
	Nationality string
	Age         *float64 // nil when absent or not numeric
}

// Values renders the record as cells in Columns order.
// A nil Age becomes an empty (missing) cell.
func (r Record) Values() []string {
	age := ""
	if r.Age != nil {
		age = strconv.FormatFloat(*r.Age, 'f', -1, 64)
	}
	return []string{
		strconv.Itoa(r.Year),
		r.Gender,
		r.Event,
		r.City,
		r.Nationality,
		age,
	}
}

// AgeOf is a helper for building records with a known age.
func AgeOf(v float64) *float64 {
	return &v
}
