package schema

// CorrelogramResult carries ACF or PACF values with their shared 95%
// confidence band and the lags that exceed it.
type CorrelogramResult struct {
	Lags            []int     `json:"lags"`
	Values          []float64 `json:"values"`
	ConfBound       float64   `json:"conf_bound"`
	SignificantLags []int     `json:"significant_lags"`
}

// ShapiroWilkResult is the outcome of a Shapiro-Wilk normality test on the
// residuals. Residuals are consistent with normality when PValue exceeds the
// significance level.
type ShapiroWilkResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Normal    bool    `json:"normal"`
}

// LjungBoxResult is the outcome of a Ljung-Box independence test on the
// residuals at a chosen lag count.
type LjungBoxResult struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Lags        int     `json:"lags"`
	DOF         int     `json:"dof"`
	Independent bool    `json:"independent"`
}

// DiagnosticsReport is the purely informational residual analysis. A failing
// check is reported as data, never as an error, so the pipeline can still
// proceed to forecasting.
type DiagnosticsReport struct {
	ResidualACF  *CorrelogramResult `json:"residual_acf"`
	ResidualPACF *CorrelogramResult `json:"residual_pacf"`
	ShapiroWilk  *ShapiroWilkResult `json:"shapiro_wilk"`
	LjungBox     *LjungBoxResult    `json:"ljung_box"`
}

// Verdicts summarizes the three checks as display labels.
func (d *DiagnosticsReport) Verdicts() map[string]Verdict {
	v := make(map[string]Verdict, 3)

	if d.ResidualACF != nil && len(d.ResidualACF.SignificantLags) == 0 {
		v["autocorrelation"] = PassVerdict
	} else {
		v["autocorrelation"] = FailVerdict
	}

	if d.ShapiroWilk != nil && d.ShapiroWilk.Normal {
		v["normality"] = PassVerdict
	} else {
		v["normality"] = FailVerdict
	}

	if d.LjungBox != nil && d.LjungBox.Independent {
		v["independence"] = PassVerdict
	} else {
		v["independence"] = FailVerdict
	}

	return v
}
