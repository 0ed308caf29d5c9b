package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/schema"
)

// TestForecastDeterminism checks repeated forecasts are identical.
func TestForecastDeterminism(t *testing.T) {
	model, err := FitARMA(arNoise(300, 0.7), schema.ModelOrder{P: 1})
	require.NoError(t, err)

	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	first := Forecast(model, 31, start)
	second := Forecast(model, 31, start)

	assert.Equal(t, first.PointForecasts, second.PointForecasts)
	assert.Equal(t, 31, first.Horizon)
	require.Len(t, first.Dates(), 31)
	assert.Equal(t, start, first.Dates()[0])
	assert.Equal(t, start.AddDate(0, 0, 30), first.Dates()[30])
}

// TestForecastWhiteNoiseIsIntercept checks the degenerate model forecasts a
// flat line.
func TestForecastWhiteNoiseIsIntercept(t *testing.T) {
	model, err := FitARMA(arNoise(200, 0.7), schema.ModelOrder{})
	require.NoError(t, err)

	result := Forecast(model, 5, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, result.PointForecasts, 5)
	for _, v := range result.PointForecasts {
		assert.Equal(t, model.Intercept, v)
	}
}

// TestForecastDecaysTowardMean checks AR forecasts revert to the intercept.
func TestForecastDecaysTowardMean(t *testing.T) {
	model, err := FitARMA(arNoise(300, 0.7), schema.ModelOrder{P: 1})
	require.NoError(t, err)

	result := Forecast(model, 20, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, result.PointForecasts, 20)

	prev := math.Inf(1)
	for _, v := range result.PointForecasts {
		dist := math.Abs(v - model.Intercept)
		assert.LessOrEqual(t, dist, prev+1e-12)
		prev = dist
	}
}

// TestForecastSeasonalRecursion checks seasonal AR terms feed the recursion
// at lag multiples of the period.
func TestForecastSeasonalRecursion(t *testing.T) {
	pattern := []float64{3, 1, -2, 0, 2, -1, -3}
	train := make([]float64, 14)
	for i := range train {
		train[i] = 10 + pattern[i%7]
	}

	model := &schema.FittedModel{
		Order:       schema.ModelOrder{SeasonalP: 1, SeasonalPeriod: 7},
		SARCoeffs:   []float64{0.5},
		Intercept:   10,
		TrainValues: train,
		Residuals:   make([]float64, 14),
	}

	result := Forecast(model, 14, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, result.PointForecasts, 14)

	// The first cycle pulls each step halfway from the lag-7 observation
	// toward the intercept; the second cycle recurses on the first.
	for h := 0; h < 7; h++ {
		assert.InDelta(t, 10+0.5*pattern[h], result.PointForecasts[h], 1e-12)
	}
	for h := 7; h < 14; h++ {
		assert.InDelta(t, 10+0.25*pattern[h-7], result.PointForecasts[h], 1e-12)
	}
}

// TestForecastZeroHorizon returns an empty result.
func TestForecastZeroHorizon(t *testing.T) {
	model, err := FitARMA(arNoise(200, 0.7), schema.ModelOrder{})
	require.NoError(t, err)

	result := Forecast(model, 0, time.Time{})
	assert.Equal(t, 0, result.Horizon)
	assert.Empty(t, result.PointForecasts)
}

// TestInvertForecast maps transformed forecasts back to the original scale.
func TestInvertForecast(t *testing.T) {
	params := schema.TransformParams{Lambda: 0.5, Shift: -2}
	forecast := &schema.ForecastResult{
		Horizon:        3,
		StartDate:      time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		PointForecasts: []float64{1, 2, 3},
	}

	inverted := InvertForecast(forecast, params)
	require.Len(t, inverted.PointForecasts, 3)
	assert.Equal(t, forecast.Horizon, inverted.Horizon)
	assert.Equal(t, forecast.StartDate, inverted.StartDate)

	for i, v := range forecast.PointForecasts {
		// Inverting then re-applying must land on the transformed value.
		assert.InDelta(t, v, boxcox(inverted.PointForecasts[i]-params.Shift+1, params.Lambda), 1e-9)
	}
}

// TestScore checks the error metrics against hand-computed values.
func TestScore(t *testing.T) {
	start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	forecast := &schema.ForecastResult{
		Horizon:        2,
		StartDate:      start,
		PointForecasts: []float64{10, 12},
	}
	truth := dailySeries(start, []float64{10, 10}, "truth")

	report, err := Score(forecast, truth)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, report.MAE, 1e-12)
	assert.InDelta(t, 2.0, report.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(2), report.RMSE, 1e-12)
	assert.InDelta(t, 10.0, report.MAPE, 1e-12)
	assert.Equal(t, 0, report.ZeroTruthCount)
}

// TestScoreZeroTruth surfaces undefined MAPE as NaN with a count.
func TestScoreZeroTruth(t *testing.T) {
	start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	forecast := &schema.ForecastResult{
		Horizon:        3,
		StartDate:      start,
		PointForecasts: []float64{1, 2, 3},
	}
	truth := dailySeries(start, []float64{0, 2, 0}, "truth")

	report, err := Score(forecast, truth)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(report.MAPE))
	assert.Equal(t, 2, report.ZeroTruthCount)
	assert.InDelta(t, 4.0/3.0, report.MAE, 1e-12, "absolute metrics still defined")
}

// TestScoreLengthMismatch rejects a leap-year 366-point forecast against a
// 365-point truth.
func TestScoreLengthMismatch(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	forecast := &schema.ForecastResult{
		Horizon:        366,
		StartDate:      start,
		PointForecasts: make([]float64, 366),
	}
	truth := dailySeries(start, make([]float64, 365), "truth")

	_, err := Score(forecast, truth)
	var mismatch *LengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 366, mismatch.ForecastLen)
	assert.Equal(t, 365, mismatch.TruthLen)
}

// TestScoreEmpty rejects zero-length comparisons.
func TestScoreEmpty(t *testing.T) {
	forecast := &schema.ForecastResult{}
	_, err := Score(forecast, &schema.Series{})
	var emptyErr *EmptySeriesError
	require.ErrorAs(t, err, &emptyErr)
}
