package sampledata

import (
	"time"

	"github.com/okian/eventdash/internal/domain/model"
)

// Config holds configuration for the sample data tool.
type Config struct {
	Rows       int           // Number of participation rows to generate
	OutputFile string        // CSV destination; empty skips generation
	BaseURL    string        // Base URL of a running dashboard to verify
	Verify     bool          // Check the server's sections after generation
	TopN       int           // Expected per-year limit of ranking sections
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for tool output
	Verbose    bool          // Enable debug logging
}

// Participant is one generated row: a record plus the synthetic id of the
// person who attended.
type Participant struct {
	ID string
	model.Record
}

// Check is the outcome of one verification rule.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Report collects the checks of one Verify run.
type Report struct {
	Rows   int
	Checks []Check
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

func (r *Report) add(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: detail})
}
