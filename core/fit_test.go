package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/schema"
)

// TestFitARMARecoversARCoefficient fits AR(1) data and checks the estimate.
func TestFitARMARecoversARCoefficient(t *testing.T) {
	values := arNoise(300, 0.7)

	model, err := FitARMA(values, schema.ModelOrder{P: 1})
	require.NoError(t, err)

	require.Len(t, model.ARCoeffs, 1)
	assert.InDelta(t, 0.7, model.ARCoeffs[0], 0.2)
	assert.LessOrEqual(t, model.Iterations, fitMaxIter)
	assert.Greater(t, model.Variance, 0.0)
	assert.False(t, math.IsInf(model.AIC, 0))
	assert.Len(t, model.Residuals, len(values))
	assert.Equal(t, values, model.TrainValues)
}

// TestFitARMAWhiteNoise covers the intercept-only candidate.
func TestFitARMAWhiteNoise(t *testing.T) {
	values := arNoise(200, 0.7)

	model, err := FitARMA(values, schema.ModelOrder{})
	require.NoError(t, err)

	assert.InDelta(t, mean(values), model.Intercept, 1e-12)
	assert.Empty(t, model.ARCoeffs)
	assert.Empty(t, model.MACoeffs)
	for i, r := range model.Residuals {
		assert.InDelta(t, values[i]-model.Intercept, r, 1e-12)
	}
	assert.InDelta(t, variance(values), model.Variance, 1e-12)
}

// TestFitARMATooShort fails with NonConvergenceError on tiny samples.
func TestFitARMATooShort(t *testing.T) {
	_, err := FitARMA(chaosNoise(8), schema.ModelOrder{P: 2, Q: 1})
	var convErr *NonConvergenceError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 2, convErr.P)
	assert.Equal(t, 1, convErr.Q)
}

// TestFitARMABeatsWhiteNoiseOnARData compares information criteria.
func TestFitARMABeatsWhiteNoiseOnARData(t *testing.T) {
	values := arNoise(300, 0.7)

	arModel, err := FitARMA(values, schema.ModelOrder{P: 1})
	require.NoError(t, err)
	flat, err := FitARMA(values, schema.ModelOrder{})
	require.NoError(t, err)

	assert.Less(t, arModel.AIC, flat.AIC-50, "AR structure must dominate the penalty")
}

// TestSelectAndFit checks the order-selection policy on AR(1) data.
func TestSelectAndFit(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, arNoise(300, 0.7), "train")

	model, report, err := SelectAndFit(series, DefaultFitOptions())
	require.NoError(t, err)
	require.NotNil(t, model)
	require.NotNil(t, report)

	assert.Equal(t, model.Order, report.Chosen)
	assert.GreaterOrEqual(t, model.Order.P, 1, "white noise must not win on AR data")
	assert.Equal(t, 0, model.Order.D)

	// The grid covers (PMax+1) x (QMax+1) candidates.
	assert.Len(t, report.Candidates, (report.PMax+1)*(report.QMax+1))
	assert.Contains(t, report.SignificantPACF, 1)

	// The winner minimizes AIC over the converged candidates.
	for _, cand := range report.Candidates {
		if !cand.Converged {
			assert.True(t, math.IsInf(cand.AIC, 1))
			continue
		}
		assert.LessOrEqual(t, model.AIC, cand.AIC+1e-9)
	}
}

// TestSelectAndFitSeasonalGrid checks a configured period extends the grid
// with seasonal AR/MA candidates.
func TestSelectAndFitSeasonalGrid(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, arNoise(120, 0.7), "train")

	model, report, err := SelectAndFit(series, FitOptions{MaxP: 1, MaxQ: 1, SeasonalPeriod: 7})
	require.NoError(t, err)
	require.NotNil(t, model)

	// Each (p,q) cell fans out over seasonal orders in {0,1} x {0,1}.
	require.Len(t, report.Candidates, (report.PMax+1)*(report.QMax+1)*4)

	seasonal := 0
	for _, cand := range report.Candidates {
		assert.Equal(t, 7, cand.Order.SeasonalPeriod)
		if cand.Order.SeasonalP > 0 || cand.Order.SeasonalQ > 0 {
			seasonal++
		}
	}
	assert.Equal(t, (report.PMax+1)*(report.QMax+1)*3, seasonal)

	// The winner still minimizes AIC over the converged candidates.
	for _, cand := range report.Candidates {
		if cand.Converged {
			assert.LessOrEqual(t, model.AIC, cand.AIC+1e-9)
		}
	}
}

// TestSelectAndFitBounds checks grid-bound derivation from the correlograms.
func TestSelectAndFitBounds(t *testing.T) {
	tests := []struct {
		name     string
		result   *schema.CorrelogramResult
		limit    int
		expected int
	}{
		{
			name:     "nil correlogram falls back to one",
			result:   nil,
			limit:    5,
			expected: 1,
		},
		{
			name:     "no significant lags falls back to one",
			result:   &schema.CorrelogramResult{},
			limit:    5,
			expected: 1,
		},
		{
			name:     "largest significant lag",
			result:   &schema.CorrelogramResult{SignificantLags: []int{1, 3}},
			limit:    5,
			expected: 3,
		},
		{
			name:     "capped at the limit",
			result:   &schema.CorrelogramResult{SignificantLags: []int{1, 2, 9}},
			limit:    5,
			expected: 5,
		},
		{
			name:     "zero limit uses the default cap",
			result:   &schema.CorrelogramResult{SignificantLags: []int{12}},
			limit:    0,
			expected: schema.DefaultMaxOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, boundFromSignificance(tt.result, tt.limit))
		})
	}
}

// TestBetterTieBreaks checks the AIC / p+q / BIC cascade.
func TestBetterTieBreaks(t *testing.T) {
	modelWith := func(p, q int, aic, bic float64) *schema.FittedModel {
		return &schema.FittedModel{
			Order: schema.ModelOrder{P: p, Q: q},
			AIC:   aic,
			BIC:   bic,
		}
	}

	assert.True(t, better(modelWith(1, 0, 100, 110), nil))
	assert.True(t, better(modelWith(1, 0, 99, 110), modelWith(2, 2, 100, 105)))
	assert.False(t, better(modelWith(1, 0, 101, 100), modelWith(2, 2, 100, 105)))

	// AIC tie: fewer parameters win
	assert.True(t, better(modelWith(1, 0, 100, 110), modelWith(1, 1, 100, 105)))
	assert.False(t, better(modelWith(1, 1, 100, 105), modelWith(1, 0, 100, 110)))

	// AIC and p+q tie: smaller BIC wins
	assert.True(t, better(modelWith(2, 0, 100, 104), modelWith(1, 1, 100, 105)))
}

// TestYuleWalker checks the AR(1) initializer equals the lag-1
// autocorrelation.
func TestYuleWalker(t *testing.T) {
	values := arNoise(300, 0.7)
	acf := ACF(values, 3)
	require.NotNil(t, acf)

	phi := yuleWalker(acf, 1)
	require.Len(t, phi, 1)
	assert.InDelta(t, acf[1], phi[0], 1e-12)

	phi2 := yuleWalker(acf, 2)
	require.Len(t, phi2, 2)
	assert.InDelta(t, acf[1], phi2[0]+phi2[1]*acf[1], 1e-9, "first Yule-Walker equation")

	assert.Nil(t, yuleWalker(acf, 0))
	assert.Nil(t, yuleWalker(acf, 5))
}

// TestClamp keeps coefficients inside the stability bound.
func TestClamp(t *testing.T) {
	assert.Equal(t, coeffBound, clamp(3.7))
	assert.Equal(t, -coeffBound, clamp(-42))
	assert.Equal(t, 0.5, clamp(0.5))
}
