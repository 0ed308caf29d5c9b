package schema

// ADFResult is the outcome of an Augmented Dickey-Fuller unit-root test.
// The null hypothesis is that the series has a unit root; a p-value below the
// significance level rejects the null and supports stationarity.
type ADFResult struct {
	Statistic    float64            `json:"statistic"`
	PValue       float64            `json:"p_value"`
	Lags         int                `json:"lags"`
	NObs         int                `json:"n_obs"`
	CriticalVals map[string]float64 `json:"critical_vals"`
	IsStationary bool               `json:"is_stationary"`
}

// KPSSResult is the outcome of a KPSS stationarity test. The null hypothesis
// is that the series is stationary; the series is consistent with
// stationarity when the statistic stays below the chosen critical value.
type KPSSResult struct {
	Statistic    float64            `json:"statistic"`
	PValue       float64            `json:"p_value"`
	Lags         int                `json:"lags"`
	CriticalVals map[string]float64 `json:"critical_vals"`
	IsStationary bool               `json:"is_stationary"`
}

// StationarityReport combines both tests. IsStationary is true only when the
// tests agree; Agreement exposes the disagreement case so callers can flag
// the series for differencing instead of silently proceeding.
type StationarityReport struct {
	ADF          *ADFResult  `json:"adf"`
	KPSS         *KPSSResult `json:"kpss"`
	IsStationary bool        `json:"is_stationary"`
	Agreement    bool        `json:"agreement"`
}
