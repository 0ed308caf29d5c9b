package core

import (
	"math"

	"github.com/delaycast/delaycast/schema"
)

// ACF computes the sample autocorrelation function for lags 0..maxLag.
// Returns nil for degenerate input (constant or empty series).
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	m := mean(values)
	denom := 0.0
	for _, v := range values {
		d := v - m
		denom += d * d
	}
	if denom == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - m) * (values[i-k] - m)
		}
		acf[k] = sum / denom
	}
	return acf
}

// PACF computes the partial autocorrelation function for lags 0..maxLag via
// the Durbin-Levinson recursion. PACF at lag 0 is 1 by convention.
func PACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}
		if den == 0 {
			pacf[k] = 0
			continue
		}
		phi[k][k] = num / den
		pacf[k] = phi[k][k]
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}
	return pacf
}

// Correlogram wraps ACF or PACF values with the +/- 1.96/sqrt(n) confidence
// band and the lags exceeding it.
func Correlogram(values []float64, maxLag int, partial bool) *schema.CorrelogramResult {
	var coeffs []float64
	if partial {
		coeffs = PACF(values, maxLag)
	} else {
		coeffs = ACF(values, maxLag)
	}
	if coeffs == nil {
		return nil
	}

	bound := 1.96 / math.Sqrt(float64(len(values)))
	lags := make([]int, len(coeffs))
	for i := range lags {
		lags[i] = i
	}

	return &schema.CorrelogramResult{
		Lags:            lags,
		Values:          coeffs,
		ConfBound:       bound,
		SignificantLags: significantLags(coeffs, bound),
	}
}

// significantLags returns the lags (skipping lag 0) whose absolute value
// exceeds the confidence bound.
func significantLags(coeffs []float64, bound float64) []int {
	var sig []int
	for i := 1; i < len(coeffs); i++ {
		if math.Abs(coeffs[i]) > bound {
			sig = append(sig, i)
		}
	}
	return sig
}

// selectionMaxLag is the correlogram depth used during order selection.
func selectionMaxLag(n int) int {
	lag := n / 4
	if lag > 40 {
		lag = 40
	}
	if lag < 1 {
		lag = 1
	}
	return lag
}
