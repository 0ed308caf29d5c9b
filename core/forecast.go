package core

import (
	"math"
	"time"

	"github.com/delaycast/delaycast/schema"
)

// Forecast produces horizon point forecasts on the transformed scale by
// recursive application of the fitted ARMA recursion: each step uses earlier
// forecasts as if observed, and all future innovations are zero. The output
// is deterministic for a fixed model and horizon.
func Forecast(model *schema.FittedModel, horizon int, startDate time.Time) *schema.ForecastResult {
	if horizon < 1 {
		return &schema.ForecastResult{Horizon: 0, StartDate: startDate}
	}

	n := len(model.TrainValues)
	period := 0
	if model.Order.SeasonalPeriod > 0 && (model.Order.SeasonalP > 0 || model.Order.SeasonalQ > 0) {
		period = model.Order.SeasonalPeriod
	}

	extValues := make([]float64, n+horizon)
	copy(extValues, model.TrainValues)
	extResiduals := make([]float64, n+horizon)
	copy(extResiduals, model.Residuals)

	for h := 0; h < horizon; h++ {
		t := n + h
		pred := model.Intercept
		for i, phi := range model.ARCoeffs {
			if idx := t - i - 1; idx >= 0 {
				pred += phi * (extValues[idx] - model.Intercept)
			}
		}
		// Future innovations are zero, so MA terms only reach observed
		// residuals.
		for i, theta := range model.MACoeffs {
			if idx := t - i - 1; idx >= 0 && idx < n {
				pred += theta * extResiduals[idx]
			}
		}
		if period > 0 {
			for i, phi := range model.SARCoeffs {
				if idx := t - (i+1)*period; idx >= 0 {
					pred += phi * (extValues[idx] - model.Intercept)
				}
			}
			for i, theta := range model.SMACoeffs {
				if idx := t - (i+1)*period; idx >= 0 && idx < n {
					pred += theta * extResiduals[idx]
				}
			}
		}
		extValues[t] = pred
	}

	return &schema.ForecastResult{
		Horizon:        horizon,
		StartDate:      startDate,
		PointForecasts: extValues[n:],
	}
}

// InvertForecast maps a transformed-scale forecast back to the original
// scale using the training transform params. The params must be the ones
// fitted on the training series; refitting on test data would leak.
func InvertForecast(forecast *schema.ForecastResult, params schema.TransformParams) *schema.ForecastResult {
	points := make([]float64, len(forecast.PointForecasts))
	for i, v := range forecast.PointForecasts {
		points[i] = invertBoxcox(v, params)
	}
	return &schema.ForecastResult{
		Horizon:        forecast.Horizon,
		StartDate:      forecast.StartDate,
		PointForecasts: points,
	}
}

// Score compares an original-scale forecast against a ground-truth series of
// equal length and computes MAE, MSE, RMSE and MAPE. MAPE is NaN when any
// ground-truth value is exactly zero; the zero count is surfaced in the
// report rather than dropped. Length mismatches fail with
// LengthMismatchError.
func Score(forecast *schema.ForecastResult, truth *schema.Series) (*schema.ErrorReport, error) {
	if len(forecast.PointForecasts) != truth.Len() {
		return nil, &LengthMismatchError{
			ForecastLen: len(forecast.PointForecasts),
			TruthLen:    truth.Len(),
		}
	}
	n := truth.Len()
	if n == 0 {
		return nil, &EmptySeriesError{Stage: "scorer"}
	}

	sumAbs := 0.0
	sumSq := 0.0
	sumPct := 0.0
	zeroTruth := 0

	for i := 0; i < n; i++ {
		diff := forecast.PointForecasts[i] - truth.Values[i]
		sumAbs += math.Abs(diff)
		sumSq += diff * diff
		if truth.Values[i] == 0 {
			zeroTruth++
		} else {
			sumPct += math.Abs(diff / truth.Values[i])
		}
	}

	nf := float64(n)
	report := &schema.ErrorReport{
		MAE:            sumAbs / nf,
		MSE:            sumSq / nf,
		RMSE:           math.Sqrt(sumSq / nf),
		ZeroTruthCount: zeroTruth,
	}
	if zeroTruth > 0 {
		report.MAPE = math.NaN()
	} else {
		report.MAPE = 100 * sumPct / nf
	}
	return report, nil
}
