// Package schema has configs, models and shared types for all parts of delaycast.
package schema

import "time"

// TimePoint is a single dated observation in a daily series.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ordered daily series: dates strictly increasing, one value per
// date. Instances are built once by the series builder and treated as
// immutable afterwards.
type Series struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
	Name   string      `json:"name,omitempty"`
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// At returns the point at index i.
func (s *Series) At(i int) TimePoint {
	return TimePoint{Date: s.Dates[i], Value: s.Values[i]}
}

// Min returns the smallest value in the series, or 0 for an empty series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	m := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return &Series{Dates: dates, Values: values, Name: s.Name}
}

// WithValues returns a new series that keeps the dates and name of s but
// carries the given values. The two slices must have equal length; this is the
// shape used when a transform maps values pointwise.
func (s *Series) WithValues(values []float64, name string) *Series {
	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)
	return &Series{Dates: dates, Values: values, Name: name}
}
