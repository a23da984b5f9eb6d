package aggregate_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/eventdash/internal/domain/aggregate"
	"github.com/okian/eventdash/internal/domain/model"
	"github.com/okian/eventdash/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func genderTable() *table.Table {
	return table.FromRecords([]model.Record{
		{Year: 2018, Gender: "M"},
		{Year: 2018, Gender: "F"},
		{Year: 2018, Gender: "F"},
		{Year: 2019, Gender: "M"},
	})
}

func cityTable() *table.Table {
	return table.FromRecords([]model.Record{
		{Year: 2018, City: "A"},
		{Year: 2018, City: "A"},
		{Year: 2018, City: "B"},
		{Year: 2019, City: "C"},
	})
}

// eventTable builds 2018 with event counts {E1:5, E2:3, E3:3, E4:1} inserted
// in an order that does not match the ranking, and 2019 with a single event.
func eventTable() *table.Table {
	var recs []model.Record
	add := func(year int, event string, n int) {
		for i := 0; i < n; i++ {
			recs = append(recs, model.Record{Year: year, Event: event})
		}
	}
	add(2018, "E4", 1)
	add(2018, "E3", 3)
	add(2018, "E1", 5)
	add(2018, "E2", 3)
	add(2019, "E9", 2)
	return table.FromRecords(recs)
}

func TestCountBy(t *testing.T) {
	Convey("Given the year/gender example table", t, func() {
		tbl := genderTable()

		Convey("When counting by year and gender", func() {
			res, err := aggregate.CountBy(tbl, model.ColumnYear, model.ColumnGender)

			Convey("Then it should yield one row per pair in key order", func() {
				So(err, ShouldBeNil)
				So(res.Columns, ShouldResemble, []string{"year", "gender"})
				So(res.Metric, ShouldEqual, aggregate.MetricCount)
				So(res.Rows, ShouldResemble, []aggregate.Row{
					{Keys: []string{"2018", "F"}, Count: 2},
					{Keys: []string{"2018", "M"}, Count: 1},
					{Keys: []string{"2019", "M"}, Count: 1},
				})
			})
		})

		Convey("When counting by year only", func() {
			res, err := aggregate.CountBy(tbl, model.ColumnYear)

			Convey("Then the counts should sum to the table length", func() {
				So(err, ShouldBeNil)
				So(res.Total(), ShouldEqual, tbl.Len())
				c, ok := res.Lookup("2018")
				So(ok, ShouldBeTrue)
				So(c, ShouldEqual, 3)
			})
		})

		Convey("When a column does not exist", func() {
			_, err := aggregate.CountBy(tbl, "latitude")

			Convey("Then it should return an InvalidColumnError", func() {
				var ice *aggregate.InvalidColumnError
				So(errors.As(err, &ice), ShouldBeTrue)
				So(ice.Column, ShouldEqual, "latitude")
				So(errors.Is(err, aggregate.ErrInvalidColumn), ShouldBeTrue)
			})
		})

		Convey("When passing no or too many key columns", func() {
			_, errNone := aggregate.CountBy(tbl)
			_, errMany := aggregate.CountBy(tbl, "year", "gender", "city")

			Convey("Then it should reject the key list", func() {
				So(errors.Is(errNone, aggregate.ErrInvalidKeyColumns), ShouldBeTrue)
				So(errors.Is(errMany, aggregate.ErrInvalidKeyColumns), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty table", t, func() {
		tbl := table.FromRecords(nil)

		Convey("When counting", func() {
			res, err := aggregate.CountBy(tbl, model.ColumnYear, model.ColumnGender)

			Convey("Then it should return an empty result without error", func() {
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given keys that sort differently as text and as numbers", t, func() {
		tbl, err := table.New([]string{"bucket"}, [][]string{{"10"}, {"9"}, {"x"}, {"100"}, {"9"}})
		So(err, ShouldBeNil)

		Convey("When counting", func() {
			res, err := aggregate.CountBy(tbl, "bucket")

			Convey("Then numbers should sort numerically before text", func() {
				So(err, ShouldBeNil)
				var keys []string
				for _, r := range res.Rows {
					keys = append(keys, r.Keys[0])
				}
				So(keys, ShouldResemble, []string{"9", "10", "100", "x"})
			})
		})
	})

	Convey("Given rows with a missing key value", t, func() {
		tbl := table.FromRecords([]model.Record{
			{Year: 2018, Gender: "F"},
			{Year: 2018, Gender: ""},
		})

		Convey("When counting by year and gender", func() {
			res, err := aggregate.CountBy(tbl, model.ColumnYear, model.ColumnGender)

			Convey("Then rows missing the key should be left out", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldResemble, []aggregate.Row{{Keys: []string{"2018", "F"}, Count: 1}})
			})
		})
	})
}

func TestDistinctCountBy(t *testing.T) {
	Convey("Given the city example table", t, func() {
		tbl := cityTable()

		Convey("When counting distinct cities per year", func() {
			res, err := aggregate.DistinctCountBy(tbl, model.ColumnYear, model.ColumnCity)

			Convey("Then 2018 should have 2 and 2019 should have 1", func() {
				So(err, ShouldBeNil)
				So(res.Metric, ShouldEqual, aggregate.MetricDistinctCount)
				So(res.Target, ShouldEqual, model.ColumnCity)
				So(res.Rows, ShouldResemble, []aggregate.Row{
					{Keys: []string{"2018"}, Count: 2},
					{Keys: []string{"2019"}, Count: 1},
				})
			})

			Convey("And no group should exceed its row count", func() {
				totals, err := aggregate.CountBy(tbl, model.ColumnYear)
				So(err, ShouldBeNil)
				for _, row := range res.Rows {
					total, ok := totals.Lookup(row.Keys...)
					So(ok, ShouldBeTrue)
					So(row.Count, ShouldBeLessThanOrEqualTo, total)
				}
			})
		})

		Convey("When the target column is unknown", func() {
			_, err := aggregate.DistinctCountBy(tbl, model.ColumnYear, "venue")

			Convey("Then it should return an InvalidColumnError", func() {
				So(errors.Is(err, aggregate.ErrInvalidColumn), ShouldBeTrue)
			})
		})
	})

	Convey("Given a year whose target values are all missing", t, func() {
		tbl := table.FromRecords([]model.Record{
			{Year: 2020, City: ""},
			{Year: 2021, City: "Dubai"},
		})

		Convey("When counting distinct cities", func() {
			res, err := aggregate.DistinctCountBy(tbl, model.ColumnYear, model.ColumnCity)

			Convey("Then that year should report zero", func() {
				So(err, ShouldBeNil)
				c, ok := res.Lookup("2020")
				So(ok, ShouldBeTrue)
				So(c, ShouldEqual, 0)
			})
		})
	})
}

func TestTopNByGroup(t *testing.T) {
	Convey("Given event counts with a tie in 2018", t, func() {
		tbl := eventTable()

		Convey("When ranking the top 2 events per year", func() {
			res, err := aggregate.TopNByGroup(tbl, model.ColumnYear, model.ColumnEvent, 2)

			Convey("Then 2018 should hold E1 then E2 and 2019 its only event", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldResemble, []aggregate.Row{
					{Keys: []string{"2018", "E1"}, Count: 5},
					{Keys: []string{"2018", "E2"}, Count: 3},
					{Keys: []string{"2019", "E9"}, Count: 2},
				})
			})
		})

		Convey("When ranking with the default depth", func() {
			res, err := aggregate.TopNByGroup(tbl, model.ColumnYear, model.ColumnEvent, aggregate.DefaultTopN)

			Convey("Then every kept row should dominate every dropped row of its year", func() {
				So(err, ShouldBeNil)
				all, err := aggregate.CountBy(tbl, model.ColumnYear, model.ColumnEvent)
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, all.Len())

				perYear := map[string]int{}
				for i, row := range res.Rows {
					perYear[row.Keys[0]]++
					if i > 0 && res.Rows[i-1].Keys[0] == row.Keys[0] {
						So(res.Rows[i-1].Count, ShouldBeGreaterThanOrEqualTo, row.Count)
					}
				}
				for _, n := range perYear {
					So(n, ShouldBeLessThanOrEqualTo, aggregate.DefaultTopN)
				}
			})
		})

		Convey("When ranking the top 1", func() {
			res, err := aggregate.TopNByGroup(tbl, model.ColumnYear, model.ColumnEvent, 1)

			Convey("Then no kept row should be outranked by an excluded one", func() {
				So(err, ShouldBeNil)
				all, _ := aggregate.CountBy(tbl, model.ColumnYear, model.ColumnEvent)
				for _, kept := range res.Rows {
					for _, row := range all.Rows {
						if row.Keys[0] == kept.Keys[0] {
							So(kept.Count, ShouldBeGreaterThanOrEqualTo, row.Count)
						}
					}
				}
			})
		})

		Convey("When n is below one", func() {
			_, err := aggregate.TopNByGroup(tbl, model.ColumnYear, model.ColumnEvent, 0)

			Convey("Then it should fail with ErrInvalidLimit", func() {
				So(errors.Is(err, aggregate.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When the category column is unknown", func() {
			_, err := aggregate.TopNByGroup(tbl, model.ColumnYear, "venue", 3)

			Convey("Then it should return an InvalidColumnError", func() {
				So(errors.Is(err, aggregate.ErrInvalidColumn), ShouldBeTrue)
			})
		})
	})

	Convey("Given a single year and a single category", t, func() {
		tbl := table.FromRecords([]model.Record{
			{Year: 2022, City: "Dubai"},
			{Year: 2022, City: "Dubai"},
		})

		Convey("When ranking", func() {
			res, err := aggregate.TopNByGroup(tbl, model.ColumnYear, model.ColumnCity, 10)

			Convey("Then it should return exactly one row", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldResemble, []aggregate.Row{{Keys: []string{"2022", "Dubai"}, Count: 2}})
			})
		})
	})

	Convey("Given an empty table", t, func() {
		res, err := aggregate.TopNByGroup(table.FromRecords(nil), model.ColumnYear, model.ColumnCity, 10)

		Convey("Then ranking should return no rows", func() {
			So(err, ShouldBeNil)
			So(res.Len(), ShouldEqual, 0)
		})
	})
}

func ageTable() *table.Table {
	return table.FromRecords([]model.Record{
		{Year: 2018, Age: model.AgeOf(20)},
		{Year: 2018, Age: model.AgeOf(30)},
		{Year: 2018, Age: model.AgeOf(40)},
		{Year: 2018},
		{Year: 2019, Age: model.AgeOf(40)},
		{Year: 2020},
	})
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

func TestHistogramBuckets(t *testing.T) {
	Convey("Given ages overlaid by year", t, func() {
		tbl := ageTable()

		Convey("When bucketing into 2 percent buckets", func() {
			h, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, model.ColumnYear, 2, aggregate.ModePercent)

			Convey("Then buckets should span the observed range", func() {
				So(err, ShouldBeNil)
				So(h.Buckets, ShouldResemble, []aggregate.Bucket{{Lower: 20, Upper: 30}, {Lower: 30, Upper: 40}})
			})

			Convey("And each series should sum to 100 or 0 on its own", func() {
				So(len(h.Series), ShouldEqual, 3)
				So(h.Series[0].Key, ShouldEqual, "2018")
				So(sum(h.Series[0].Values), ShouldAlmostEqual, 100, 1e-9)
				So(sum(h.Series[1].Values), ShouldAlmostEqual, 100, 1e-9)
				So(h.Series[2].Key, ShouldEqual, "2020")
				So(sum(h.Series[2].Values), ShouldEqual, 0)
				So(h.Series[2].Total, ShouldEqual, 0)
			})

			Convey("And the maximum should land in the last bucket", func() {
				So(h.Series[1].Values, ShouldResemble, []float64{0, 100})
				So(h.Series[0].Values[0], ShouldAlmostEqual, 100.0/3, 1e-9)
			})
		})

		Convey("When counting instead of normalising", func() {
			h, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, model.ColumnYear, 2, aggregate.ModeCount)

			Convey("Then series should hold raw counts", func() {
				So(err, ShouldBeNil)
				So(h.Series[0].Values, ShouldResemble, []float64{1, 2})
				So(h.Series[0].Total, ShouldEqual, 3)
			})
		})

		Convey("When pinning the lower bound at zero", func() {
			h, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, "", 4, aggregate.ModeCount, aggregate.WithLowerBound(0))

			Convey("Then buckets should start at zero and end at the maximum", func() {
				So(err, ShouldBeNil)
				So(h.Buckets[0].Lower, ShouldEqual, 0)
				So(h.Buckets[3].Upper, ShouldEqual, 40)
				So(len(h.Series), ShouldEqual, 1)
				So(h.Series[0].Key, ShouldEqual, "all")
				So(h.Series[0].Values, ShouldResemble, []float64{0, 0, 1, 3})
			})
		})

		Convey("When an upper bound excludes some values", func() {
			h, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, "", 1, aggregate.ModeCount, aggregate.WithUpperBound(35))

			Convey("Then values beyond it should not be counted", func() {
				So(err, ShouldBeNil)
				So(h.Series[0].Total, ShouldEqual, 2)
			})
		})

		Convey("When the bucket count is invalid", func() {
			_, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, model.ColumnYear, 0, aggregate.ModePercent)

			Convey("Then it should fail", func() {
				So(errors.Is(err, aggregate.ErrInvalidBucketCount), ShouldBeTrue)
			})
		})

		Convey("When the mode is unknown", func() {
			_, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, model.ColumnYear, 3, aggregate.Mode("density"))

			Convey("Then it should fail", func() {
				So(errors.Is(err, aggregate.ErrInvalidMode), ShouldBeTrue)
			})
		})

		Convey("When the overlay column is unknown", func() {
			_, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, "cohort", 3, aggregate.ModePercent)

			Convey("Then it should return an InvalidColumnError", func() {
				So(errors.Is(err, aggregate.ErrInvalidColumn), ShouldBeTrue)
			})
		})
	})

	Convey("Given a single distinct value", t, func() {
		tbl := table.FromRecords([]model.Record{
			{Year: 2021, Age: model.AgeOf(25)},
			{Year: 2021, Age: model.AgeOf(25)},
		})

		Convey("When bucketing", func() {
			h, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, model.ColumnYear, aggregate.DefaultBuckets, aggregate.ModePercent)

			Convey("Then the range should widen and everything land in one bucket", func() {
				So(err, ShouldBeNil)
				So(len(h.Buckets), ShouldEqual, aggregate.DefaultBuckets)
				So(h.Buckets[0].Lower, ShouldEqual, 25)
				So(h.Series[0].Values[0], ShouldAlmostEqual, 100, 1e-9)
				So(sum(h.Series[0].Values), ShouldAlmostEqual, 100, 1e-9)
				for _, b := range h.Buckets {
					So(math.IsNaN(b.Upper), ShouldBeFalse)
				}
			})
		})
	})

	Convey("Given no valid numeric values", t, func() {
		tbl := table.FromRecords([]model.Record{{Year: 2018}, {Year: 2019}})

		Convey("When bucketing", func() {
			h, err := aggregate.HistogramBuckets(tbl, model.ColumnAge, model.ColumnYear, 10, aggregate.ModePercent)

			Convey("Then it should return empty buckets and zero series", func() {
				So(err, ShouldBeNil)
				So(h.Buckets, ShouldBeEmpty)
				So(len(h.Series), ShouldEqual, 2)
				So(sum(h.Series[0].Values), ShouldEqual, 0)
			})
		})
	})
}

func TestIdempotence(t *testing.T) {
	Convey("Given an unmodified table", t, func() {
		tbl := eventTable()

		Convey("When running each operation twice", func() {
			c1, _ := aggregate.CountBy(tbl, model.ColumnYear, model.ColumnEvent)
			c2, _ := aggregate.CountBy(tbl, model.ColumnYear, model.ColumnEvent)
			d1, _ := aggregate.DistinctCountBy(tbl, model.ColumnYear, model.ColumnEvent)
			d2, _ := aggregate.DistinctCountBy(tbl, model.ColumnYear, model.ColumnEvent)
			t1, _ := aggregate.TopNByGroup(tbl, model.ColumnYear, model.ColumnEvent, 3)
			t2, _ := aggregate.TopNByGroup(tbl, model.ColumnYear, model.ColumnEvent, 3)
			h1, _ := aggregate.HistogramBuckets(ageTable(), model.ColumnAge, model.ColumnYear, 5, aggregate.ModePercent)
			h2, _ := aggregate.HistogramBuckets(ageTable(), model.ColumnAge, model.ColumnYear, 5, aggregate.ModePercent)

			Convey("Then the outputs should be identical", func() {
				So(c1, ShouldResemble, c2)
				So(d1, ShouldResemble, d2)
				So(t1, ShouldResemble, t2)
				So(h1, ShouldResemble, h2)
			})
		})
	})
}

func TestResultJSON(t *testing.T) {
	Convey("Given a count result", t, func() {
		res, err := aggregate.CountBy(genderTable(), model.ColumnYear, model.ColumnGender)
		So(err, ShouldBeNil)

		Convey("When encoding it", func() {
			b, err := json.Marshal(res)

			Convey("Then rows should carry named fields", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `{"year":"2018","gender":"F","count":2}`)

				var decoded struct {
					Columns []string         `json:"columns"`
					Metric  string           `json:"metric"`
					Rows    []map[string]any `json:"rows"`
				}
				So(json.Unmarshal(b, &decoded), ShouldBeNil)
				So(decoded.Metric, ShouldEqual, "count")
				So(len(decoded.Rows), ShouldEqual, 3)
			})
		})
	})
}

func TestParseMode(t *testing.T) {
	Convey("Given mode names", t, func() {
		m, err := aggregate.ParseMode("percent")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, aggregate.ModePercent)

		_, err = aggregate.ParseMode("PERCENT")
		So(errors.Is(err, aggregate.ErrInvalidMode), ShouldBeTrue)
	})
}
