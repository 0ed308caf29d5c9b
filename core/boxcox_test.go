package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/schema"
)

// multiplicativeSeries has variance that grows with the level, the shape the
// power transform is meant to fix.
func multiplicativeSeries(n int) *schema.Series {
	noise := chaosNoise(n)
	values := make([]float64, n)
	for i := range values {
		values[i] = (5.0 + 0.1*float64(i)) * math.Exp(0.4*noise[i])
	}
	return dailySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), values, "train")
}

// TestTransformRoundTrip checks invert(apply(s)) == s across lambda values.
func TestTransformRoundTrip(t *testing.T) {
	series := multiplicativeSeries(120)

	for _, lambda := range []float64{-0.5, 0, 0.182, 0.5, 1, 2} {
		params := schema.TransformParams{Lambda: lambda}
		transformed, err := ApplyTransform(series, params)
		require.NoError(t, err)
		restored := InvertTransform(transformed, params)

		for i := range series.Values {
			assert.InDelta(t, series.Values[i], restored.Values[i], 1e-9,
				"lambda %g index %d", lambda, i)
		}
	}
}

// TestFitTransformMaximizesLikelihood checks the selection policy against the
// reported grid: no candidate beats the chosen lambda, and ties go to the
// smaller |lambda|.
func TestFitTransformMaximizesLikelihood(t *testing.T) {
	params, report, err := FitTransform(multiplicativeSeries(300))
	require.NoError(t, err)
	require.NotEmpty(t, report.Grid)

	var chosenLL float64
	found := false
	for _, cand := range report.Grid {
		if cand.Lambda == params.Lambda {
			chosenLL = cand.LogLik
			found = true
			break
		}
	}
	require.True(t, found, "chosen lambda must appear in the grid")

	for _, cand := range report.Grid {
		assert.LessOrEqual(t, cand.LogLik, chosenLL+1e-9)
		if math.Abs(cand.LogLik-chosenLL) <= 1e-9 {
			assert.GreaterOrEqual(t, math.Abs(cand.Lambda), math.Abs(params.Lambda))
		}
	}

	assert.GreaterOrEqual(t, params.Lambda, schema.DefaultLambdaMin)
	assert.LessOrEqual(t, params.Lambda, schema.DefaultLambdaMax)
	assert.Equal(t, 0.0, params.Shift, "all-positive series needs no shift")
}

// TestFitTransformStabilizesVariance compares the spread of the first and
// last thirds before and after the transform.
func TestFitTransformStabilizesVariance(t *testing.T) {
	series := multiplicativeSeries(300)
	params, _, err := FitTransform(series)
	require.NoError(t, err)

	transformed, err := ApplyTransform(series, params)
	require.NoError(t, err)

	third := series.Len() / 3
	rawRatio := variance(series.Values[2*third:]) / variance(series.Values[:third])
	stabilizedRatio := variance(transformed.Values[2*third:]) / variance(transformed.Values[:third])

	assert.Less(t, stabilizedRatio, rawRatio)
	assert.Less(t, stabilizedRatio, 1.8)
}

// TestFitTransformShift verifies non-positive series are shifted above zero.
func TestFitTransformShift(t *testing.T) {
	noise := chaosNoise(120)
	values := make([]float64, len(noise))
	for i, v := range noise {
		values[i] = v * 10 // spans negative territory
	}
	series := dailySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), values, "train")

	params, _, err := FitTransform(series)
	require.NoError(t, err)
	assert.Equal(t, series.Min(), params.Shift)

	transformed, err := ApplyTransform(series, params)
	require.NoError(t, err)
	for _, v := range transformed.Values {
		assert.False(t, math.IsNaN(v))
	}

	restored := InvertTransform(transformed, params)
	for i := range series.Values {
		assert.InDelta(t, series.Values[i], restored.Values[i], 1e-9)
	}
}

// TestApplyTransformDomainError checks that out-of-domain values fail loudly
// instead of producing NaN.
func TestApplyTransformDomainError(t *testing.T) {
	series := dailySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		[]float64{3, 4, -5, 6}, "train")

	// Params fitted elsewhere on an all-positive window: shift 0 leaves the
	// -5 with a non-positive shifted value.
	_, err := ApplyTransform(series, schema.TransformParams{Lambda: 0.5})

	var domainErr *InvalidDomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 2, domainErr.Index)
	assert.Equal(t, -5.0, domainErr.Value)
}

// TestFitTransformEmptySeries covers the empty input edge.
func TestFitTransformEmptySeries(t *testing.T) {
	_, _, err := FitTransform(&schema.Series{})
	var emptyErr *EmptySeriesError
	require.ErrorAs(t, err, &emptyErr)
}

// TestBoxcoxLogBranch checks lambda 0 uses the exact log transform.
func TestBoxcoxLogBranch(t *testing.T) {
	assert.InDelta(t, math.Log(5), boxcox(5, 0), 1e-12)
	assert.InDelta(t, 4.0, invertBoxcox(math.Log(5), schema.TransformParams{Lambda: 0}), 1e-12)
}
