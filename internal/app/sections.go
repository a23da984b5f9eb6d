package service

import (
	"fmt"

	"github.com/okian/eventdash/internal/domain/aggregate"
	"github.com/okian/eventdash/internal/domain/model"
	"github.com/okian/eventdash/internal/domain/table"
)

// Kind tells renderers how to draw a section.
type Kind string

// Section kinds.
const (
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
)

// Section IDs in page order.
const (
	SectionParticipantsByYear   = "participants-by-year"
	SectionParticipantsByGender = "participants-by-gender"
	SectionUniqueEvents         = "unique-events"
	SectionUniqueCities         = "unique-cities"
	SectionUniqueNationalities  = "unique-nationalities"
	SectionAgeDistribution      = "age-distribution"
	SectionTopCities            = "top-cities"
	SectionTopNationalities     = "top-nationalities"
	SectionTopEvents            = "top-events"
)

// Section is one computed block of the dashboard. Exactly one of Result,
// Histogram and Error is set.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  Kind   `json:"kind"`
	// XColumn is drawn along the x axis; CategoryColumn picks the bar colour.
	XColumn        string               `json:"x_column"`
	CategoryColumn string               `json:"category_column,omitempty"`
	Result         *aggregate.Result    `json:"result,omitempty"`
	Histogram      *aggregate.Histogram `json:"histogram,omitempty"`
	Error          string               `json:"error,omitempty"`
}

// Failed reports whether the section could not be computed.
func (s Section) Failed() bool { return s.Error != "" }

type sectionDef struct {
	id       string
	title    string
	kind     Kind
	x        string
	category string
	compute  func(t *table.Table) (*aggregate.Result, *aggregate.Histogram, error)
}

func bar(f func(t *table.Table) (*aggregate.Result, error)) func(*table.Table) (*aggregate.Result, *aggregate.Histogram, error) {
	return func(t *table.Table) (*aggregate.Result, *aggregate.Histogram, error) {
		r, err := f(t)
		return r, nil, err
	}
}

func distinctPerYear(target string) func(*table.Table) (*aggregate.Result, *aggregate.Histogram, error) {
	return bar(func(t *table.Table) (*aggregate.Result, error) {
		return aggregate.DistinctCountBy(t, model.ColumnYear, target)
	})
}

func topPerYear(category string, n int) func(*table.Table) (*aggregate.Result, *aggregate.Histogram, error) {
	return bar(func(t *table.Table) (*aggregate.Result, error) {
		return aggregate.TopNByGroup(t, model.ColumnYear, category, n)
	})
}

// participantsTitle names the year span the dataset covers.
func participantsTitle(t *table.Table) string {
	const title = "Total number of participants"
	years, err := t.Column(model.ColumnYear)
	if err != nil {
		return title
	}
	lo, hi, found := 0.0, 0.0, false
	for i := 0; i < years.Len(); i++ {
		y, ok := years.Float(i)
		if !ok {
			continue
		}
		if !found || y < lo {
			lo = y
		}
		if !found || y > hi {
			hi = y
		}
		found = true
	}
	switch {
	case !found:
		return title
	case lo == hi:
		return fmt.Sprintf("%s in %d", title, int(lo))
	default:
		return fmt.Sprintf("%s from %d to %d", title, int(lo), int(hi))
	}
}

// catalogue lists the dashboard sections in page order.
func (s *Service) catalogue() []sectionDef {
	return []sectionDef{
		{
			id: SectionParticipantsByYear, title: participantsTitle(s.table),
			kind: KindBar, x: model.ColumnYear, category: model.ColumnYear,
			compute: bar(func(t *table.Table) (*aggregate.Result, error) {
				return aggregate.CountBy(t, model.ColumnYear)
			}),
		},
		{
			id: SectionParticipantsByGender, title: "Total number of participants by gender",
			kind: KindBar, x: model.ColumnYear, category: model.ColumnGender,
			compute: bar(func(t *table.Table) (*aggregate.Result, error) {
				return aggregate.CountBy(t, model.ColumnYear, model.ColumnGender)
			}),
		},
		{
			id: SectionUniqueEvents, title: "Total number of unique events",
			kind: KindBar, x: model.ColumnYear, category: model.ColumnYear,
			compute: distinctPerYear(model.ColumnEvent),
		},
		{
			id: SectionUniqueCities, title: "Total number of cities",
			kind: KindBar, x: model.ColumnYear, category: model.ColumnYear,
			compute: distinctPerYear(model.ColumnCity),
		},
		{
			id: SectionUniqueNationalities, title: "Total number of nationalities",
			kind: KindBar, x: model.ColumnYear, category: model.ColumnYear,
			compute: distinctPerYear(model.ColumnNationality),
		},
		{
			id: SectionAgeDistribution, title: "Age distribution histogram",
			kind: KindHistogram, x: model.ColumnAge, category: model.ColumnYear,
			compute: func(t *table.Table) (*aggregate.Result, *aggregate.Histogram, error) {
				h, err := aggregate.HistogramBuckets(t, model.ColumnAge, model.ColumnYear,
					s.histogramBuckets, s.histogramMode, aggregate.WithLowerBound(0))
				return nil, h, err
			},
		},
		{
			id: SectionTopCities, title: fmt.Sprintf("Top %d cities per year", s.topN),
			kind: KindBar, x: model.ColumnCity, category: model.ColumnYear,
			compute: topPerYear(model.ColumnCity, s.topN),
		},
		{
			id: SectionTopNationalities, title: fmt.Sprintf("Top %d nationalities per year", s.topN),
			kind: KindBar, x: model.ColumnNationality, category: model.ColumnYear,
			compute: topPerYear(model.ColumnNationality, s.topN),
		},
		{
			id: SectionTopEvents, title: fmt.Sprintf("Top %d events per year", s.topN),
			kind: KindBar, x: model.ColumnEvent, category: model.ColumnYear,
			compute: topPerYear(model.ColumnEvent, s.topN),
		},
	}
}
