// Package loader reads raw delay observations from CSV files.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/delaycast/delaycast/internal/contract"
)

// Missing-value markers accepted in the value column. Rows carrying one
// produce a NaN observation, which the series builder excludes.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
}

// LoadObservations reads a two-column CSV file of (date, value) rows and
// groups the parsed values by calendar day. Multiple rows may share a day;
// the series builder averages them. A header row is detected and skipped.
func LoadObservations(path string) (map[time.Time][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return LoadObservationsFromReader(file)
}

// LoadObservationsFromReader reads observations from an io.Reader.
func LoadObservationsFromReader(r io.Reader) (map[time.Time][]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	observations := make(map[time.Time][]float64)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected at least 2 columns, got %d", line, len(record))
		}

		date, err := parseDate(record[0])
		if err != nil {
			// The first row may be a header.
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		value, err := parseValue(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		observations[date] = append(observations[date], value)
	}

	return observations, nil
}

// parseDate parses a calendar day, normalized to UTC midnight.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(contract.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", s, contract.DateFormat)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseValue parses a float value, mapping missing-value markers to NaN.
func parseValue(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if missingMarkers[strings.ToLower(trimmed)] {
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return value, nil
}
