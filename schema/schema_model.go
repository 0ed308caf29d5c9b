package schema

import "encoding/json"

// ModelOrder identifies an ARIMA-class model order. D is fixed to 0 when the
// stationarity tests confirm the series needs no differencing. Seasonal terms
// are only engaged when SeasonalPeriod > 0.
type ModelOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`

	SeasonalP      int `json:"seasonal_p,omitempty"`
	SeasonalQ      int `json:"seasonal_q,omitempty"`
	SeasonalPeriod int `json:"seasonal_period,omitempty"`
}

// NumParams returns the number of estimated parameters including the
// intercept, as counted by the information criteria.
func (o ModelOrder) NumParams() int {
	return o.P + o.Q + o.SeasonalP + o.SeasonalQ + 1
}

// FittedModel is the result of a maximum-likelihood ARMA fit on the
// transformed training series. It is produced once by the fitter and consumed
// read-only by diagnostics and forecasting; a refit produces a new value.
type FittedModel struct {
	Order     ModelOrder `json:"order"`
	ARCoeffs  []float64  `json:"ar_coeffs"`
	MACoeffs  []float64  `json:"ma_coeffs"`
	SARCoeffs []float64  `json:"seasonal_ar_coeffs,omitempty"`
	SMACoeffs []float64  `json:"seasonal_ma_coeffs,omitempty"`
	Intercept float64    `json:"intercept"`
	Variance  float64    `json:"variance"`
	LogLik    float64    `json:"log_lik"`
	AIC       float64    `json:"aic"`
	BIC       float64    `json:"bic"`

	// Residuals are aligned with the training values the model was fit on.
	Residuals []float64 `json:"-"`

	// TrainValues holds the transformed training values, needed by the
	// recursive forecaster.
	TrainValues []float64 `json:"-"`

	// Iterations is how many optimizer iterations the fit consumed.
	Iterations int `json:"iterations"`
}

// CandidateFit records one evaluated order of the selection grid, whether it
// converged, and its criteria when it did.
type CandidateFit struct {
	Order     ModelOrder `json:"order"`
	AIC       float64    `json:"aic"`
	BIC       float64    `json:"bic"`
	Converged bool       `json:"converged"`
}

// MarshalJSON renders the criteria of a non-converged candidate as null;
// they are +Inf internally and encoding/json rejects infinities.
func (c CandidateFit) MarshalJSON() ([]byte, error) {
	type alias CandidateFit
	out := struct {
		alias
		AIC any `json:"aic"`
		BIC any `json:"bic"`
	}{alias: alias(c)}
	if c.Converged {
		out.AIC = c.AIC
		out.BIC = c.BIC
	}
	return json.Marshal(out)
}

// SelectionReport captures the reproducible order-selection trail: the
// ACF/PACF derived bounds and every candidate evaluated.
type SelectionReport struct {
	MaxLag          int            `json:"max_lag"`
	SignificantACF  []int          `json:"significant_acf"`
	SignificantPACF []int          `json:"significant_pacf"`
	PMax            int            `json:"p_max"`
	QMax            int            `json:"q_max"`
	Candidates      []CandidateFit `json:"candidates"`
	Chosen          ModelOrder     `json:"chosen"`
}
