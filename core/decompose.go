package core

import (
	"math"

	"github.com/delaycast/delaycast/schema"
)

// Decompose performs classical additive decomposition (Y = T + S + R) with a
// centered moving average for the trend and per-period-index averages for the
// seasonal component. Auxiliary diagnostic only; the forecasting contract
// does not consume it. Returns nil when the series is shorter than two
// periods.
func Decompose(series *schema.Series, period int) *schema.Decomposition {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}

	trend := centeredMovingAverage(series.Values, period)

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			detrended[i] = math.NaN()
		} else {
			detrended[i] = series.Values[i] - trend[i]
		}
	}

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if math.IsNaN(v) {
			continue
		}
		pattern[i%period] += v
		counts[i%period]++
	}
	patternMean := 0.0
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		patternMean += pattern[i]
	}
	patternMean /= float64(period)
	for i := range pattern {
		pattern[i] -= patternMean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
		} else {
			residual[i] = series.Values[i] - trend[i] - seasonal[i]
		}
	}

	return &schema.Decomposition{
		Period:   period,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}
}

// centeredMovingAverage computes the period-length centered moving average,
// with the even-period halves weighted at the edges. Positions without a full
// window are NaN.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	if period%2 == 1 {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
		return trend
	}

	for i := half; i < n-half; i++ {
		sum := 0.5*values[i-half] + 0.5*values[i+half]
		for j := i - half + 1; j < i+half; j++ {
			sum += values[j]
		}
		trend[i] = sum / float64(period)
	}
	return trend
}
