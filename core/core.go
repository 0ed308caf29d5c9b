// Package core has the forecasting pipeline: series building, variance
// stabilization, stationarity verification, model selection and fitting,
// residual diagnostics, forecasting and error scoring.
package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/internal/loader"
	"github.com/delaycast/delaycast/internal/outwriter"
	"github.com/delaycast/delaycast/schema"
)

// writer is the output facade shared by the Execute entry points.
var writer = outwriter.NewOutWriter()

// ExecuteForecast runs the full pipeline: load and build the training
// series, fit and apply the variance-stabilizing transform, verify
// stationarity, select and fit the model, diagnose residuals, forecast,
// invert the transform, and, when a test series is configured, score the
// forecast against it. It serves as the main entry point for the 'forecast'
// command.
func ExecuteForecast(cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	train, err := loadSeries(cfg.TrainPath, "train")
	if err != nil {
		return err
	}

	var truth *schema.Series
	if cfg.TestPath != "" {
		truth, err = loadSeries(cfg.TestPath, "test")
		if err != nil {
			return err
		}
	}

	horizon := cfg.Horizon
	if horizon == 0 && truth != nil {
		horizon = truth.Len()
	}
	if horizon < 1 {
		return errors.New("--horizon is required when no test series is given")
	}

	report, err := runPipeline(train, truth, horizon, cfg)
	if err != nil {
		return err
	}

	recordRun(mgr, report, start, horizon)

	duration := time.Since(start)
	return writer.WritePipeline(report, cfg, duration)
}

// runPipeline threads the immutable stage outputs through the pipeline in
// dependency order. Each stage consumes a snapshot of its predecessor; the
// transform params fitted here on the training series are the ones used to
// invert the forecast, never refit on test data.
func runPipeline(train, truth *schema.Series, horizon int, cfg *contract.Config) (*schema.PipelineReport, error) {
	params, transformReport, err := FitTransform(train)
	if err != nil {
		return nil, fmt.Errorf("variance stabilizer: %w", err)
	}

	transformed, err := ApplyTransform(train, params)
	if err != nil {
		return nil, fmt.Errorf("variance stabilizer: %w", err)
	}

	stationarity := VerifyStationarity(transformed)
	if !stationarity.IsStationary {
		// Differencing is not applied here; the disagreement is surfaced in
		// the report and the fit proceeds with d = 0.
		contract.LogWarn("Stationarity tests did not both pass; series flagged for differencing", nil)
	}

	opts := FitOptions{
		MaxP:           cfg.MaxP,
		MaxQ:           cfg.MaxQ,
		SeasonalPeriod: cfg.SeasonalPeriod,
	}
	model, selection, err := SelectAndFit(transformed, opts)
	if err != nil {
		return nil, fmt.Errorf("model fitter: %w", err)
	}

	diagnostics := Diagnose(model)

	forecastStart := train.Dates[train.Len()-1].AddDate(0, 0, 1)
	forecast := Forecast(model, horizon, forecastStart)
	inverted := InvertForecast(forecast, params)

	report := &schema.PipelineReport{
		TrainStart:   train.Dates[0],
		TrainEnd:     train.Dates[train.Len()-1],
		TrainN:       train.Len(),
		Transform:    transformReport,
		Stationarity: stationarity,
		Selection:    selection,
		Model:        model,
		Diagnostics:  diagnostics,
		Forecast:     inverted,
	}

	if truth != nil {
		if !sameDay(truth.Dates[0], forecastStart) {
			contract.LogWarn(fmt.Sprintf("Test series starts %s but forecast starts %s",
				truth.Dates[0].Format(contract.DateFormat), forecastStart.Format(contract.DateFormat)), nil)
		}
		errReport, err := Score(inverted, truth)
		if err != nil {
			return nil, fmt.Errorf("scorer: %w", err)
		}
		report.Errors = errReport
	}

	return report, nil
}

// ExecuteStationarity transforms the training series and reports both
// stationarity tests without fitting a model.
func ExecuteStationarity(cfg *contract.Config) error {
	start := time.Now()

	train, err := loadSeries(cfg.TrainPath, "train")
	if err != nil {
		return err
	}

	params, transformReport, err := FitTransform(train)
	if err != nil {
		return fmt.Errorf("variance stabilizer: %w", err)
	}
	transformed, err := ApplyTransform(train, params)
	if err != nil {
		return fmt.Errorf("variance stabilizer: %w", err)
	}

	report := &schema.PipelineReport{
		TrainStart:   train.Dates[0],
		TrainEnd:     train.Dates[train.Len()-1],
		TrainN:       train.Len(),
		Transform:    transformReport,
		Stationarity: VerifyStationarity(transformed),
	}

	duration := time.Since(start)
	return writer.WriteStationarity(report, cfg, duration)
}

// ExecuteTransform fits the Box-Cox transform and reports the chosen params
// with the profile-likelihood grid neighborhood.
func ExecuteTransform(cfg *contract.Config) error {
	start := time.Now()

	train, err := loadSeries(cfg.TrainPath, "train")
	if err != nil {
		return err
	}

	_, transformReport, err := FitTransform(train)
	if err != nil {
		return fmt.Errorf("variance stabilizer: %w", err)
	}

	duration := time.Since(start)
	return writer.WriteTransform(transformReport, cfg, duration)
}

// ExecuteDecompose runs the classical additive decomposition diagnostic.
func ExecuteDecompose(cfg *contract.Config) error {
	start := time.Now()

	train, err := loadSeries(cfg.TrainPath, "train")
	if err != nil {
		return err
	}

	period := cfg.Period
	if period == 0 {
		period = schema.DefaultSeasonalPeriod
	}
	decomposition := Decompose(train, period)
	if decomposition == nil {
		return fmt.Errorf("decompose: series of %d points is too short for period %d", train.Len(), period)
	}

	duration := time.Since(start)
	return writer.WriteDecomposition(train, decomposition, cfg, duration)
}

// loadSeries reads a CSV observation file and builds the daily series.
func loadSeries(path, name string) (*schema.Series, error) {
	observations, err := loader.LoadObservations(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s series from %s: %w", name, path, err)
	}
	series, err := BuildDailySeries(observations, name)
	if err != nil {
		return nil, fmt.Errorf("series builder (%s): %w", name, err)
	}
	return series, nil
}

// recordRun persists the run summary to the run-history store. Tracking
// failures are warnings, never run failures.
func recordRun(mgr contract.StoreManager, report *schema.PipelineReport, start time.Time, horizon int) {
	if mgr == nil {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}

	rec := schema.RunRecord{
		StartTime:  start,
		EndTime:    time.Now(),
		TrainStart: report.TrainStart,
		TrainEnd:   report.TrainEnd,
		TrainN:     report.TrainN,
		Horizon:    horizon,
	}
	if report.Transform != nil {
		rec.Lambda = report.Transform.Params.Lambda
		rec.Shift = report.Transform.Params.Shift
	}
	if report.Stationarity != nil {
		rec.IsStationary = report.Stationarity.IsStationary
	}
	if report.Model != nil {
		rec.OrderP = report.Model.Order.P
		rec.OrderD = report.Model.Order.D
		rec.OrderQ = report.Model.Order.Q
		rec.AIC = report.Model.AIC
		rec.BIC = report.Model.BIC
	}
	if report.Errors != nil {
		rec.MAE = report.Errors.MAE
		rec.MSE = report.Errors.MSE
		rec.RMSE = report.Errors.RMSE
		rec.MAPE = report.Errors.MAPE
	}

	if _, err := store.RecordRun(rec); err != nil {
		contract.LogWarn("Could not record run", err)
	}
}

// sameDay reports whether two timestamps fall on the same UTC calendar day.
func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}
