package schema

import (
	"encoding/json"
	"math"
	"time"
)

// ForecastResult holds h-step-ahead point forecasts. Values are on the scale
// they were produced on; PointForecasts after inversion are on the original
// scale. Immutable once produced.
type ForecastResult struct {
	Horizon        int       `json:"horizon"`
	StartDate      time.Time `json:"start_date"`
	PointForecasts []float64 `json:"point_forecasts"`
}

// Dates returns the calendar dates covered by the forecast, one per step.
func (f *ForecastResult) Dates() []time.Time {
	dates := make([]time.Time, f.Horizon)
	for i := range dates {
		dates[i] = f.StartDate.AddDate(0, 0, i)
	}
	return dates
}

// ErrorReport holds the forecast error metrics against a ground-truth series.
// MAPE is NaN when any ground-truth value is exactly zero; ZeroTruthCount
// says how many, so the undefined case is surfaced rather than dropped.
type ErrorReport struct {
	MAE  float64 `json:"mae"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`

	ZeroTruthCount int `json:"zero_truth_count"`
}

// MarshalJSON renders an undefined MAPE as null; encoding/json rejects NaN.
func (e ErrorReport) MarshalJSON() ([]byte, error) {
	type alias ErrorReport
	out := struct {
		alias
		MAPE any `json:"mape"`
	}{alias: alias(e)}
	if !math.IsNaN(e.MAPE) {
		out.MAPE = e.MAPE
	}
	return json.Marshal(out)
}

// PipelineReport bundles every record the pipeline produces for the
// presentation layer. Fields are nil when the corresponding stage did not run
// (e.g. no test series means no ErrorReport).
type PipelineReport struct {
	TrainStart time.Time `json:"train_start"`
	TrainEnd   time.Time `json:"train_end"`
	TrainN     int       `json:"train_n"`

	Transform     *TransformReport    `json:"transform,omitempty"`
	Stationarity  *StationarityReport `json:"stationarity,omitempty"`
	Selection     *SelectionReport    `json:"selection,omitempty"`
	Model         *FittedModel        `json:"model,omitempty"`
	Diagnostics   *DiagnosticsReport  `json:"diagnostics,omitempty"`
	Forecast      *ForecastResult     `json:"forecast,omitempty"`
	Errors        *ErrorReport        `json:"errors,omitempty"`
	Decomposition *Decomposition      `json:"decomposition,omitempty"`
}
