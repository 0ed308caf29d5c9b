package core

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/delaycast/delaycast/schema"
)

// BuildDailySeries turns a mapping from date to raw observations into one
// ordered series with exactly one value per distinct date, equal to the
// arithmetic mean of that date's observations. NaN observations count as
// missing and are excluded before averaging; dates left with no valid
// observation are dropped entirely. The output is sorted ascending by date
// with no duplicates.
func BuildDailySeries(observations map[time.Time][]float64, name string) (*schema.Series, error) {
	type daily struct {
		date  time.Time
		sum   float64
		count int
	}

	// Group on the normalized date so observations keyed with different
	// clock times still land on one calendar-day point.
	grouped := make(map[time.Time]*daily, len(observations))
	for date, values := range observations {
		day := normalizeDate(date)
		d := grouped[day]
		if d == nil {
			d = &daily{date: day}
			grouped[day] = d
		}
		for _, v := range values {
			if math.IsNaN(v) {
				continue
			}
			d.sum += v
			d.count++
		}
	}

	points := make([]*daily, 0, len(grouped))
	for _, d := range grouped {
		if d.count == 0 {
			continue
		}
		points = append(points, d)
	}

	if len(points) == 0 {
		return nil, &EmptySeriesError{Stage: "series builder"}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].date.Before(points[j].date)
	})

	series := &schema.Series{
		Dates:  make([]time.Time, len(points)),
		Values: make([]float64, len(points)),
		Name:   name,
	}
	for i, p := range points {
		series.Dates[i] = p.date
		series.Values[i] = p.sum / float64(p.count)
	}
	return series, nil
}

// normalizeDate truncates a timestamp to UTC midnight so observations from
// different sources land on the same calendar day key.
func normalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// mean returns the arithmetic mean of values, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// variance returns the sample variance of values.
func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.Variance(values, nil)
}
