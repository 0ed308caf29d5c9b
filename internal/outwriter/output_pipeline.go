package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/internal/parquet"
	"github.com/delaycast/delaycast/schema"
)

// forecastPreviewRows caps how many forecast steps the text table shows.
const forecastPreviewRows = 14

// PrintPipelineReport outputs a full pipeline run, dispatching based on the
// output format configured.
func PrintPipelineReport(report *schema.PipelineReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeForecastCSV(csvWriter, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteForecastRows(w, report)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePipelineTables(w, report, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writePipelineTables renders the stage-by-stage text report.
func writePipelineTables(w io.Writer, report *schema.PipelineReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Training window: %s .. %s (%d days)\n",
		report.TrainStart.Format(contract.DateFormat),
		report.TrainEnd.Format(contract.DateFormat),
		report.TrainN); err != nil {
		return err
	}

	if report.Transform != nil {
		if _, err := fmt.Fprintf(w, "Box-Cox transform: lambda=%s shift=%s\n",
			fmtFloat(report.Transform.Params.Lambda),
			fmtFloat(report.Transform.Params.Shift)); err != nil {
			return err
		}
	}

	if report.Stationarity != nil {
		if err := writeStationarityTable(w, report.Stationarity, cfg, fmtFloat, intFmt); err != nil {
			return err
		}
	}

	if report.Selection != nil && report.Model != nil {
		if err := writeModelSection(w, report.Selection, report.Model, cfg, fmtFloat, intFmt); err != nil {
			return err
		}
	}

	if report.Diagnostics != nil {
		if err := writeDiagnosticsTable(w, report.Diagnostics, cfg, fmtFloat); err != nil {
			return err
		}
	}

	if report.Forecast != nil {
		if err := writeForecastTable(w, report.Forecast, fmtFloat); err != nil {
			return err
		}
	}

	if report.Errors != nil {
		if err := writeErrorTable(w, report.Errors, fmtFloat, intFmt); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Pipeline completed in %v. Run store backend: %s\n", duration, cfg.StoreBackend)
	return err
}

// writeStationarityTable renders the ADF and KPSS outcomes side by side.
func writeStationarityTable(w io.Writer, report *schema.StationarityReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintln(w, "\nStationarity:"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Test", "Statistic", "P-Value", "Lags", "Verdict"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	if report.ADF != nil {
		data = append(data, []string{
			"ADF",
			fmtFloat(report.ADF.Statistic),
			fmtFloat(report.ADF.PValue),
			fmt.Sprintf(intFmt, report.ADF.Lags),
			verdictLabel(boolVerdict(report.ADF.IsStationary), cfg),
		})
	}
	if report.KPSS != nil {
		data = append(data, []string{
			"KPSS",
			fmtFloat(report.KPSS.Statistic),
			fmtFloat(report.KPSS.PValue),
			fmt.Sprintf(intFmt, report.KPSS.Lags),
			verdictLabel(boolVerdict(report.KPSS.IsStationary), cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	verdict := boolVerdict(report.IsStationary)
	if !report.Agreement {
		verdict = schema.MixedVerdict
	}
	_, err := fmt.Fprintf(w, "Overall: %s\n", verdictLabel(verdict, cfg))
	return err
}

// writeModelSection renders the chosen model and the top of the candidate grid.
func writeModelSection(w io.Writer, selection *schema.SelectionReport, model *schema.FittedModel, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintf(w, "\nChosen model: %s (AIC=%s, BIC=%s, loglik=%s, %d iterations)\n",
		formatOrder(model.Order), fmtFloat(model.AIC), fmtFloat(model.BIC),
		fmtFloat(model.LogLik), model.Iterations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "AR: %s  MA: %s  intercept: %s\n",
		formatCoeffs(model.ARCoeffs, fmtFloat),
		formatCoeffs(model.MACoeffs, fmtFloat),
		fmtFloat(model.Intercept)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Significant PACF lags: %s  Significant ACF lags: %s (max lag %d)\n",
		formatLags(selection.SignificantPACF),
		formatLags(selection.SignificantACF),
		selection.MaxLag); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Order", "AIC", "BIC", "Converged"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	limit := min(len(selection.Candidates), maxGridRows(cfg))
	var data [][]string
	for _, c := range selection.Candidates[:limit] {
		aic, bic := "-", "-"
		if c.Converged {
			aic, bic = fmtFloat(c.AIC), fmtFloat(c.BIC)
		}
		data = append(data, []string{
			formatOrder(c.Order),
			aic,
			bic,
			fmt.Sprintf("%t", c.Converged),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(selection.Candidates) > limit {
		if _, err := fmt.Fprintf(w, "Showing %d of %d candidates\n", limit, len(selection.Candidates)); err != nil {
			return err
		}
	}
	return nil
}

// writeDiagnosticsTable renders the residual checks with verdicts.
func writeDiagnosticsTable(w io.Writer, diags *schema.DiagnosticsReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintln(w, "\nResidual diagnostics:"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Statistic", "P-Value", "Verdict"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	verdicts := diags.Verdicts()
	var data [][]string
	if diags.ShapiroWilk != nil {
		data = append(data, []string{
			"Shapiro-Wilk",
			fmtFloat(diags.ShapiroWilk.Statistic),
			fmtFloat(diags.ShapiroWilk.PValue),
			verdictLabel(verdicts["normality"], cfg),
		})
	}
	if diags.LjungBox != nil {
		data = append(data, []string{
			fmt.Sprintf("Ljung-Box (%d lags)", diags.LjungBox.Lags),
			fmtFloat(diags.LjungBox.Statistic),
			fmtFloat(diags.LjungBox.PValue),
			verdictLabel(verdicts["independence"], cfg),
		})
	}
	if diags.ResidualACF != nil {
		data = append(data, []string{
			"Residual ACF",
			formatLags(diags.ResidualACF.SignificantLags),
			"-",
			verdictLabel(verdicts["autocorrelation"], cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeForecastTable renders the leading forecast steps.
func writeForecastTable(w io.Writer, forecast *schema.ForecastResult, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "\nForecast (%d steps):\n", forecast.Horizon); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Forecast"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	dates := forecast.Dates()
	limit := min(len(forecast.PointForecasts), forecastPreviewRows)
	var data [][]string
	for i := range limit {
		data = append(data, []string{
			dates[i].Format(contract.DateFormat),
			fmtFloat(forecast.PointForecasts[i]),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if forecast.Horizon > limit {
		if _, err := fmt.Fprintf(w, "Showing %d of %d steps (use --output csv for all)\n", limit, forecast.Horizon); err != nil {
			return err
		}
	}
	return nil
}

// writeErrorTable renders the forecast error metrics.
func writeErrorTable(w io.Writer, errReport *schema.ErrorReport, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintln(w, "\nForecast errors:"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"MAE", "MSE", "RMSE", "MAPE (%)"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{{
		fmtFloat(errReport.MAE),
		fmtFloat(errReport.MSE),
		fmtFloat(errReport.RMSE),
		fmtFloat(errReport.MAPE),
	}}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if errReport.ZeroTruthCount > 0 {
		if _, err := fmt.Fprintf(w, "MAPE undefined: "+intFmt+" ground-truth values are zero\n", errReport.ZeroTruthCount); err != nil {
			return err
		}
	}
	return nil
}

// writeForecastCSV writes the forecast steps, with error metrics appended as
// trailing columns on the first row when available.
func writeForecastCSV(w *csv.Writer, report *schema.PipelineReport, fmtFloat func(float64) string) error {
	header := []string{"step", "date", "forecast"}
	hasErrors := report.Errors != nil
	if hasErrors {
		header = append(header, "mae", "mse", "rmse", "mape")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	if report.Forecast == nil {
		return nil
	}

	dates := report.Forecast.Dates()
	for i, v := range report.Forecast.PointForecasts {
		rec := []string{
			fmt.Sprintf("%d", i+1),
			dates[i].Format(contract.DateFormat),
			fmtFloat(v),
		}
		if hasErrors {
			if i == 0 {
				rec = append(rec,
					fmtFloat(report.Errors.MAE),
					fmtFloat(report.Errors.MSE),
					fmtFloat(report.Errors.RMSE),
					fmtFloat(report.Errors.MAPE),
				)
			} else {
				rec = append(rec, "", "", "", "")
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
