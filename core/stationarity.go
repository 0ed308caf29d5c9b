package core

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/delaycast/delaycast/schema"
)

// VerifyStationarity runs both the ADF unit-root test and the KPSS
// stationarity test on the (transformed) series values and reports whether
// the two agree. The series is treated as stationary, with the differencing
// order fixed to zero downstream, only when ADF rejects its unit-root null
// and KPSS fails to reject its stationarity null. A disagreement is exposed
// in the report so callers can flag the series for differencing.
func VerifyStationarity(series *schema.Series) *schema.StationarityReport {
	adf := ADFTest(series.Values, 0)
	kpss := KPSSTest(series.Values, 0)

	adfOK := adf != nil && adf.IsStationary
	kpssOK := kpss != nil && kpss.IsStationary

	return &schema.StationarityReport{
		ADF:          adf,
		KPSS:         kpss,
		IsStationary: adfOK && kpssOK,
		Agreement:    adfOK == kpssOK,
	}
}

// ADFTest performs the Augmented Dickey-Fuller test with constant and no
// trend. The null hypothesis is a unit root; p < 0.05 rejects it. maxLag <= 0
// selects the default floor((n-1)^(1/3)) augmentation depth.
func ADFTest(values []float64, maxLag int) *schema.ADFResult {
	n := len(values)
	if n < 10 {
		return nil
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = values[i] - values[i-1]
	}

	// Regression: diff_t = alpha + beta*y_{t-1} + sum gamma_i * diff_{t-i}.
	// The unit-root test statistic is the t-stat on beta.
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	k := 2 + maxLag
	y := make([]float64, nObs)
	x := mat.NewDense(nObs, k, nil)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff[t]
		x.Set(i, 0, 1)
		x.Set(i, 1, values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff[t-j])
		}
	}

	coeffs, se, ok := olsRegress(x, y)
	if !ok {
		return nil
	}
	tStat := coeffs[1] / se[1]

	criticalVals := map[string]float64{
		"1%":  -3.43,
		"5%":  -2.86,
		"10%": -2.57,
	}
	pValue := mackinnonPValue(tStat)

	return &schema.ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		NObs:         nObs,
		CriticalVals: criticalVals,
		IsStationary: pValue < schema.DefaultSignificance,
	}
}

// KPSSTest performs the KPSS level-stationarity test. The null hypothesis is
// stationarity; the series is consistent with it when the statistic stays
// below the 5% critical value. nlags <= 0 selects the default
// ceil(12*(n/100)^0.25) Newey-West bandwidth.
func KPSSTest(values []float64, nlags int) *schema.KPSSResult {
	n := len(values)
	if n < 10 {
		return nil
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	m := mean(values)
	residuals := make([]float64, n)
	for i, v := range values {
		residuals[i] = v - m
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// Long-run variance via Newey-West with Bartlett weights.
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		weight := 1 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	stat := etaSq / (float64(n) * float64(n) * s2)

	criticalVals := map[string]float64{
		"10%": 0.347,
		"5%":  0.463,
		"1%":  0.739,
	}
	pValue := kpssPValue(stat)

	return &schema.KPSSResult{
		Statistic:    stat,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: criticalVals,
		IsStationary: stat < criticalVals["5%"],
	}
}

// olsRegress solves y = X*beta by least squares and returns the coefficients
// with their standard errors. ok is false when X is rank deficient.
func olsRegress(x *mat.Dense, y []float64) (coeffs, stdErrors []float64, ok bool) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, false
	}

	var qr mat.QR
	qr.Factorize(x)

	yVec := mat.NewVecDense(n, y)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, nil, false
	}

	coeffs = make([]float64, k)
	for i := range coeffs {
		coeffs[i] = beta.AtVec(i)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	sse := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		sse += r * r
	}
	s2 := sse / float64(n-k)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, false
	}

	stdErrors = make([]float64, k)
	for i := range stdErrors {
		stdErrors[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}
	return coeffs, stdErrors, true
}

// mackinnonPValue approximates the ADF p-value by interpolating the MacKinnon
// asymptotic table for the constant-only regression.
func mackinnonPValue(stat float64) float64 {
	// (statistic, p-value) knots, statistic ascending.
	knots := [][2]float64{
		{-3.96, 0.001},
		{-3.43, 0.01},
		{-2.86, 0.05},
		{-2.57, 0.10},
		{-1.94, 0.25},
		{-1.62, 0.50},
		{-0.50, 0.90},
	}

	if stat <= knots[0][0] {
		return knots[0][1]
	}
	for i := 1; i < len(knots); i++ {
		if stat <= knots[i][0] {
			lo, hi := knots[i-1], knots[i]
			frac := (stat - lo[0]) / (hi[0] - lo[0])
			return lo[1] + frac*(hi[1]-lo[1])
		}
	}
	return 0.99
}

// kpssPValue approximates the KPSS p-value by interpolating the level
// stationarity critical-value table.
func kpssPValue(stat float64) float64 {
	// (statistic, p-value) knots, statistic ascending.
	knots := [][2]float64{
		{0.119, 0.50},
		{0.347, 0.10},
		{0.463, 0.05},
		{0.574, 0.025},
		{0.739, 0.01},
	}

	if stat <= knots[0][0] {
		return knots[0][1]
	}
	for i := 1; i < len(knots); i++ {
		if stat <= knots[i][0] {
			lo, hi := knots[i-1], knots[i]
			frac := (stat - lo[0]) / (hi[0] - lo[0])
			return lo[1] + frac*(hi[1]-lo[1])
		}
	}
	return 0.001
}
