package sampledata

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/okian/eventdash/pkg/logger"
)

const percentTolerance = 1e-6

// Wire shapes of the dashboard API, decoded loosely so the verifier does not
// depend on the server packages.
type (
	statsPayload struct {
		Rows int `json:"rows"`
	}

	sectionPayload struct {
		ID        string            `json:"id"`
		Kind      string            `json:"kind"`
		Error     string            `json:"error"`
		Result    *resultPayload    `json:"result"`
		Histogram *histogramPayload `json:"histogram"`
	}

	resultPayload struct {
		Columns []string                 `json:"columns"`
		Metric  string                   `json:"metric"`
		Rows    []map[string]interface{} `json:"rows"`
	}

	histogramPayload struct {
		Mode   string `json:"mode"`
		Series []struct {
			Key    string    `json:"key"`
			Total  int       `json:"total"`
			Values []float64 `json:"values"`
		} `json:"series"`
	}
)

// Verify fetches /stats and /api/sections from a running dashboard and
// checks the aggregation invariants on what it serves.
func Verify(ctx context.Context, cfg *Config) (*Report, error) {
	log := logger.Named("verify")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	var stats statsPayload
	if err := client.getJSON(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	var sections []sectionPayload
	if err := client.getJSON(ctx, "/api/sections", &sections); err != nil {
		return nil, err
	}
	log.Info(ctx, "fetched dashboard", logger.Int("rows", stats.Rows), logger.Int("sections", len(sections)))

	report := check(stats, sections, cfg.TopN)
	for _, c := range report.Checks {
		if c.Passed {
			log.Debug(ctx, "check passed", logger.String("check", c.Name))
			continue
		}
		log.Warn(ctx, "check failed", logger.String("check", c.Name), logger.String("detail", c.Detail))
	}
	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("%w: %d of %d checks", ErrVerificationFailed, len(failed), len(report.Checks))
	}
	log.Info(ctx, "verification passed", logger.Int("checks", len(report.Checks)))
	return report, nil
}

func check(stats statsPayload, sections []sectionPayload, topN int) *Report {
	report := &Report{Rows: stats.Rows}
	byID := make(map[string]sectionPayload, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}

	perYear, ok := resultOf(report, byID, "participants-by-year")
	if !ok {
		return report
	}
	yearTotals := map[string]int{}
	sum := 0
	for _, row := range perYear.Rows {
		n := count(row)
		yearTotals[key(row, "year")] = n
		sum += n
	}
	report.add("year counts sum to rows", sum == stats.Rows,
		fmt.Sprintf("sum %d, rows %d", sum, stats.Rows))

	if res, ok := resultOf(report, byID, "participants-by-gender"); ok {
		genderSums := map[string]int{}
		for _, row := range res.Rows {
			genderSums[key(row, "year")] += count(row)
		}
		report.add("gender counts within year totals", withinTotals(genderSums, yearTotals), describe(genderSums))
	}

	for _, id := range []string{"unique-events", "unique-cities", "unique-nationalities"} {
		res, ok := resultOf(report, byID, id)
		if !ok {
			continue
		}
		distinct := map[string]int{}
		for _, row := range res.Rows {
			distinct[key(row, "year")] = count(row)
		}
		report.add(id+" within year totals", withinTotals(distinct, yearTotals), describe(distinct))
	}

	for _, id := range []string{"top-cities", "top-nationalities", "top-events"} {
		res, ok := resultOf(report, byID, id)
		if !ok {
			continue
		}
		passed, detail := checkRanking(res, yearTotals, topN)
		report.add(id+" ranking bounds", passed, detail)
	}

	if s, ok := byID["age-distribution"]; ok && s.Histogram != nil && s.Histogram.Mode == "percent" {
		passed, detail := checkPercentSeries(s.Histogram)
		report.add("age-distribution percent sums", passed, detail)
	}
	return report
}

func resultOf(report *Report, byID map[string]sectionPayload, id string) (*resultPayload, bool) {
	s, ok := byID[id]
	switch {
	case !ok:
		report.add(id+" present", false, "section missing")
		return nil, false
	case s.Error != "":
		report.add(id+" computed", false, s.Error)
		return nil, false
	case s.Result == nil:
		report.add(id+" computed", false, "no result")
		return nil, false
	}
	return s.Result, true
}

func checkRanking(res *resultPayload, yearTotals map[string]int, topN int) (bool, string) {
	perYear := map[string]int{}
	last := map[string]int{}
	for _, row := range res.Rows {
		year := key(row, "year")
		n := count(row)
		if _, known := yearTotals[year]; !known {
			return false, "unknown year " + year
		}
		perYear[year]++
		if topN > 0 && perYear[year] > topN {
			return false, fmt.Sprintf("year %s has more than %d rows", year, topN)
		}
		if prev, seen := last[year]; seen && n > prev {
			return false, fmt.Sprintf("year %s not count-descending", year)
		}
		last[year] = n
	}
	return true, describe(perYear)
}

func checkPercentSeries(h *histogramPayload) (bool, string) {
	for _, s := range h.Series {
		sum := 0.0
		for _, v := range s.Values {
			sum += v
		}
		if s.Total == 0 {
			if sum != 0 {
				return false, fmt.Sprintf("empty series %s sums to %.4f", s.Key, sum)
			}
			continue
		}
		if math.Abs(sum-100) > percentTolerance {
			return false, fmt.Sprintf("series %s sums to %.4f", s.Key, sum)
		}
	}
	return true, fmt.Sprintf("%d series", len(h.Series))
}

func withinTotals(values, totals map[string]int) bool {
	for year, v := range values {
		if v < 0 || v > totals[year] {
			return false
		}
	}
	return true
}

func key(row map[string]interface{}, column string) string {
	s, _ := row[column].(string)
	return s
}

func count(row map[string]interface{}) int {
	f, _ := row["count"].(float64)
	return int(f)
}

func describe(m map[string]int) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, fmt.Sprintf("%s=%d", k, v))
	}
	slices.Sort(parts)
	return strings.Join(parts, " ")
}
