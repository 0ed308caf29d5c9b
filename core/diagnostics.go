package core

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/delaycast/delaycast/schema"
)

// ljungBoxLags is the default lag count for the independence test.
const ljungBoxLags = 10

// Diagnose analyzes the residuals of a fitted model: residual
// autocorrelation, Shapiro-Wilk normality, and Ljung-Box independence. It is
// purely informational and never fails: a failing check is data for the
// report, not an operational fault, so the pipeline can still forecast.
func Diagnose(model *schema.FittedModel) *schema.DiagnosticsReport {
	residuals := model.Residuals
	maxLag := selectionMaxLag(len(residuals))

	return &schema.DiagnosticsReport{
		ResidualACF:  Correlogram(residuals, maxLag, false),
		ResidualPACF: Correlogram(residuals, maxLag, true),
		ShapiroWilk:  ShapiroWilk(residuals),
		LjungBox:     LjungBox(residuals, ljungBoxLags, model.Order.P+model.Order.Q),
	}
}

// LjungBox performs the Ljung-Box test for autocorrelation up to the given
// lag. The null hypothesis is no autocorrelation; p > 0.05 is consistent with
// independent residuals. fitdf is the number of model parameters consumed by
// the fit (p + q), subtracted from the degrees of freedom.
func LjungBox(values []float64, lags, fitdf int) *schema.LjungBoxResult {
	n := len(values)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(values, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi := distuv.ChiSquared{K: float64(dof)}
	pValue := chi.Survival(q)

	return &schema.LjungBoxResult{
		Statistic:   q,
		PValue:      pValue,
		Lags:        lags,
		DOF:         dof,
		Independent: pValue > schema.DefaultSignificance,
	}
}

// ShapiroWilk performs the Shapiro-Wilk normality test using Royston's
// approximation (AS R94). Valid for sample sizes between 3 and 5000; returns
// nil outside that range or for constant samples.
func ShapiroWilk(values []float64) *schema.ShapiroWilkResult {
	n := len(values)
	if n < 3 || n > 5000 {
		return nil
	}

	x := append([]float64(nil), values...)
	sort.Float64s(x)

	normal := distuv.UnitNormal

	// Expected normal order statistics (Blom scores).
	m := make([]float64, n)
	ssqM := 0.0
	for i := 0; i < n; i++ {
		m[i] = normal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		ssqM += m[i] * m[i]
	}

	// Royston's polynomial-corrected weights.
	a := make([]float64, n)
	rsqrt := 1 / math.Sqrt(ssqM)
	if n <= 5 {
		u := 1 / math.Sqrt(float64(n))
		an := rsqrt*m[n-1] + polyval(u, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056)
		phi := (ssqM - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
		a[n-1] = an
		a[0] = -an
		for i := 1; i < n-1; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	} else {
		u := 1 / math.Sqrt(float64(n))
		an := rsqrt*m[n-1] + polyval(u, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056)
		an1 := rsqrt*m[n-2] + polyval(u, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633)
		phi := (ssqM - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
		a[n-1] = an
		a[n-2] = an1
		a[0] = -an
		a[1] = -an1
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	}

	xMean := mean(x)
	num := 0.0
	den := 0.0
	for i := 0; i < n; i++ {
		num += a[i] * x[i]
		d := x[i] - xMean
		den += d * d
	}
	if den == 0 {
		return nil
	}

	w := num * num / den
	if w > 1 {
		w = 1
	}

	// Normalizing transformation for the p-value.
	var z float64
	if n < 12 {
		nf := float64(n)
		gamma := -2.273 + 0.459*nf
		mu := 0.5440 - 0.39978*nf + 0.025054*nf*nf - 0.0006714*nf*nf*nf
		sigma := math.Exp(1.3822 - 0.77857*nf + 0.062767*nf*nf - 0.0020322*nf*nf*nf)
		if gamma-math.Log(1-w) <= 0 {
			z = math.Inf(-1)
		} else {
			z = (-math.Log(gamma-math.Log(1-w)) - mu) / sigma
		}
	} else {
		logN := math.Log(float64(n))
		mu := 0.0038915*logN*logN*logN - 0.083751*logN*logN - 0.31082*logN - 1.5861
		sigma := math.Exp(0.0030302*logN*logN - 0.082676*logN - 0.4803)
		if w >= 1 {
			z = math.Inf(-1)
		} else {
			z = (math.Log(1-w) - mu) / sigma
		}
	}

	pValue := normal.Survival(z)

	return &schema.ShapiroWilkResult{
		Statistic: w,
		PValue:    pValue,
		Normal:    pValue > schema.DefaultSignificance,
	}
}

// polyval evaluates c1*u + c2*u^2 + ... in ascending power order.
func polyval(u float64, coeffs ...float64) float64 {
	sum := 0.0
	pow := u
	for _, c := range coeffs {
		sum += c * pow
		pow *= u
	}
	return sum
}
