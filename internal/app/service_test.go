package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	service "github.com/okian/eventdash/internal/app"
	"github.com/okian/eventdash/internal/domain/aggregate"
	"github.com/okian/eventdash/internal/domain/model"
	"github.com/okian/eventdash/internal/domain/table"
	"github.com/okian/eventdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func sampleTable() *table.Table {
	return table.FromRecords([]model.Record{
		{Year: 2018, Gender: "M", Event: "Data Day", City: "Dubai", Nationality: "UAE", Age: model.AgeOf(31)},
		{Year: 2018, Gender: "F", Event: "Data Day", City: "Dubai", Nationality: "India", Age: model.AgeOf(24)},
		{Year: 2018, Gender: "F", Event: "AI Summit", City: "Sharjah", Nationality: "UAE"},
		{Year: 2019, Gender: "M", Event: "AI Summit", City: "Abu Dhabi", Nationality: "Egypt", Age: model.AgeOf(44)},
		{Year: 2019, Gender: "F", Event: "Hack Night", City: "Dubai", Nationality: "Jordan", Age: model.AgeOf(29)},
		{Year: 2019, Gender: "F", Event: "Hack Night", City: "Dubai", Nationality: "UAE", Age: model.AgeOf(35)},
	})
}

func TestService_New(t *testing.T) {
	Convey("Given a nil table", t, func() {
		svc, err := service.New(nil)

		Convey("Then construction should fail", func() {
			So(svc, ShouldBeNil)
			So(errors.Is(err, service.ErrNilTable), ShouldBeTrue)
		})
	})

	Convey("Given a new service with default options", t, func() {
		svc, err := service.New(sampleTable(), service.WithSourceName("events.csv"))
		So(err, ShouldBeNil)

		Convey("Then it should expose the catalogue in page order", func() {
			So(svc.IDs(), ShouldResemble, []string{
				service.SectionParticipantsByYear,
				service.SectionParticipantsByGender,
				service.SectionUniqueEvents,
				service.SectionUniqueCities,
				service.SectionUniqueNationalities,
				service.SectionAgeDistribution,
				service.SectionTopCities,
				service.SectionTopNationalities,
				service.SectionTopEvents,
			})
		})

		Convey("And the summary should describe the dataset", func() {
			sum := svc.Summary(context.Background())
			So(sum.Source, ShouldEqual, "events.csv")
			So(sum.Participants, ShouldEqual, 6)
			So(sum.Columns, ShouldResemble, model.Columns)
			So(sum.Sections, ShouldEqual, 9)
		})

		Convey("And stats should report defaults", func() {
			stats := svc.GetStats()
			So(stats["rows"], ShouldEqual, 6)
			So(stats["topN"], ShouldEqual, aggregate.DefaultTopN)
			So(stats["histogramBuckets"], ShouldEqual, aggregate.DefaultBuckets)
			So(stats["histogramMode"], ShouldEqual, "percent")
			So(stats["workers"], ShouldBeGreaterThan, 0)
		})
	})
}

func TestService_Sections(t *testing.T) {
	Convey("Given a service over a complete table", t, func() {
		ctx := context.Background()
		svc, err := service.New(sampleTable(), service.WithTopN(1), service.WithHistogramBuckets(5))
		So(err, ShouldBeNil)

		Convey("When computing every section", func() {
			sections, err := svc.Sections(ctx)

			Convey("Then all sections should succeed", func() {
				So(err, ShouldBeNil)
				So(len(sections), ShouldEqual, 9)
				for _, sec := range sections {
					So(sec.Failed(), ShouldBeFalse)
				}
			})

			Convey("And participants per year should sum to the row count", func() {
				So(sections[0].Title, ShouldEqual, "Total number of participants from 2018 to 2019")
				res := sections[0].Result
				So(res.Total(), ShouldEqual, 6)
				c, ok := res.Lookup("2018")
				So(ok, ShouldBeTrue)
				So(c, ShouldEqual, 3)
			})

			Convey("And unique events should be distinct per year", func() {
				res := sections[2].Result
				c, _ := res.Lookup("2018")
				So(c, ShouldEqual, 2)
				c, _ = res.Lookup("2019")
				So(c, ShouldEqual, 2)
			})

			Convey("And rankings should honour the configured limit", func() {
				top := sections[6]
				So(top.Title, ShouldEqual, "Top 1 cities per year")
				So(top.Result.Rows, ShouldResemble, []aggregate.Row{
					{Keys: []string{"2018", "Dubai"}, Count: 2},
					{Keys: []string{"2019", "Dubai"}, Count: 2},
				})
			})

			Convey("And the age distribution should be per-year percentages", func() {
				h := sections[5].Histogram
				So(sections[5].Kind, ShouldEqual, service.KindHistogram)
				So(h.Mode, ShouldEqual, aggregate.ModePercent)
				So(len(h.Buckets), ShouldEqual, 5)
				So(h.Buckets[0].Lower, ShouldEqual, 0)
				for _, series := range h.Series {
					sum := 0.0
					for _, v := range series.Values {
						sum += v
					}
					So(sum, ShouldAlmostEqual, 100, 1e-9)
				}
			})
		})

		Convey("When computing a single section", func() {
			sec, err := svc.Section(ctx, service.SectionParticipantsByGender)

			Convey("Then it should carry its rendering hints", func() {
				So(err, ShouldBeNil)
				So(sec.Kind, ShouldEqual, service.KindBar)
				So(sec.XColumn, ShouldEqual, model.ColumnYear)
				So(sec.CategoryColumn, ShouldEqual, model.ColumnGender)
				c, ok := sec.Result.Lookup("2019", "F")
				So(ok, ShouldBeTrue)
				So(c, ShouldEqual, 2)
			})

			Convey("And it should encode to JSON with named row fields", func() {
				raw, err := json.Marshal(sec)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"kind":"bar"`)
				So(string(raw), ShouldContainSubstring, `{"year":"2018","gender":"F","count":2}`)
				So(string(raw), ShouldNotContainSubstring, `"error"`)
			})
		})

		Convey("When asking for an unknown section", func() {
			_, err := svc.Section(ctx, "weather")

			Convey("Then it should report ErrSectionNotFound", func() {
				So(errors.Is(err, service.ErrSectionNotFound), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Sections(cctx)

			Convey("Then it should stop with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestService_WorkerCount(t *testing.T) {
	Convey("Given services with one and three workers", t, func() {
		ctx := context.Background()
		serial, err := service.New(sampleTable(), service.WithWorkerCount(1))
		So(err, ShouldBeNil)
		parallel, err := service.New(sampleTable(), service.WithWorkerCount(3))
		So(err, ShouldBeNil)

		Convey("When computing every section with both", func() {
			a, err := serial.Sections(ctx)
			So(err, ShouldBeNil)
			b, err := parallel.Sections(ctx)
			So(err, ShouldBeNil)

			Convey("Then results should match and keep page order", func() {
				So(parallel.GetStats()["workers"], ShouldEqual, 3)
				So(len(b), ShouldEqual, len(a))
				for i := range a {
					So(b[i].ID, ShouldEqual, serial.IDs()[i])
					So(b[i].Result, ShouldResemble, a[i].Result)
					So(b[i].Histogram, ShouldResemble, a[i].Histogram)
				}
			})
		})
	})
}

func TestService_EmptyTable(t *testing.T) {
	Convey("Given a table with the dataset columns and no rows", t, func() {
		tbl, err := table.New(model.Columns, nil)
		So(err, ShouldBeNil)
		svc, err := service.New(tbl)
		So(err, ShouldBeNil)

		Convey("When computing every section", func() {
			sections, err := svc.Sections(context.Background())

			Convey("Then every section should succeed with nothing in it", func() {
				So(err, ShouldBeNil)
				So(len(sections), ShouldEqual, 9)
				for _, sec := range sections {
					So(sec.Failed(), ShouldBeFalse)
					if sec.Kind == service.KindHistogram {
						So(sec.Histogram.Buckets, ShouldBeEmpty)
						So(sec.Histogram.Series, ShouldBeEmpty)
						continue
					}
					So(sec.Result.Rows, ShouldBeEmpty)
				}
			})

			Convey("And the participants title should not name a year span", func() {
				So(sections[0].Title, ShouldEqual, "Total number of participants")
			})
		})
	})

	Convey("Given a table covering a single year", t, func() {
		svc, err := service.New(table.FromRecords([]model.Record{
			{Year: 2021, Gender: "F", Event: "Data Day", City: "Dubai", Nationality: "UAE"},
		}))
		So(err, ShouldBeNil)

		Convey("Then the participants title should name that year", func() {
			sec, err := svc.Section(context.Background(), service.SectionParticipantsByYear)
			So(err, ShouldBeNil)
			So(sec.Title, ShouldEqual, "Total number of participants in 2021")
		})
	})
}

func TestService_PartialFailure(t *testing.T) {
	Convey("Given a table without an age column", t, func() {
		tbl, err := table.New(
			[]string{"year", "gender", "event", "city", "nationality"},
			[][]string{
				{"2020", "F", "Data Day", "Dubai", "UAE"},
				{"2021", "M", "Data Day", "Al Ain", "UAE"},
			},
		)
		So(err, ShouldBeNil)
		svc, err := service.New(tbl)
		So(err, ShouldBeNil)

		Convey("When computing every section", func() {
			sections, err := svc.Sections(context.Background())
			So(err, ShouldBeNil)

			Convey("Then only the age distribution should fail", func() {
				for _, sec := range sections {
					if sec.ID == service.SectionAgeDistribution {
						So(sec.Failed(), ShouldBeTrue)
						So(sec.Error, ShouldContainSubstring, "age")
						So(sec.Histogram, ShouldBeNil)
						continue
					}
					So(sec.Failed(), ShouldBeFalse)
				}
			})

			Convey("And stats should count the failure", func() {
				stats := svc.GetStats()
				So(stats["failed"], ShouldEqual, int64(1))
				So(stats["computed"], ShouldEqual, int64(8))
				So(stats["hasAge"], ShouldBeFalse)
			})
		})
	})
}
