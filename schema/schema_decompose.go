package schema

import (
	"encoding/json"
	"math"
)

// Decomposition is the classical additive decomposition of a series into
// trend, seasonal and residual components at a fixed period. Offered as an
// auxiliary diagnostic for the presentation layer; the forecasting contract
// does not depend on it.
type Decomposition struct {
	Period   int       `json:"period"`
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
}

// MarshalJSON renders the NaN edges the centered moving average leaves as
// null; encoding/json rejects NaN.
func (d Decomposition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Period   int   `json:"period"`
		Trend    []any `json:"trend"`
		Seasonal []any `json:"seasonal"`
		Residual []any `json:"residual"`
	}{d.Period, finiteOrNull(d.Trend), finiteOrNull(d.Seasonal), finiteOrNull(d.Residual)})
}

// finiteOrNull maps non-finite values to nil so they serialize as null.
func finiteOrNull(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}
