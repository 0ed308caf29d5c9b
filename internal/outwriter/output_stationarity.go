package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

// PrintStationarityReport outputs the transform params and both stationarity
// tests, dispatching based on the output format configured.
func PrintStationarityReport(report *schema.PipelineReport, cfg *contract.Config, duration time.Duration) error {
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
			return writeStationarityCSV(csvWriter, report.Stationarity, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for stationarity reports")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
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
			if err := writeStationarityTable(w, report.Stationarity, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Verification completed in %v\n", duration)
			return err
		}, "Wrote table")
	}
	return nil
}

// writeStationarityCSV writes one row per test.
func writeStationarityCSV(w *csv.Writer, report *schema.StationarityReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"test", "statistic", "p_value", "lags", "stationary"}
	if err := w.Write(header); err != nil {
		return err
	}
	if report.ADF != nil {
		rec := []string{
			"adf",
			fmtFloat(report.ADF.Statistic),
			fmtFloat(report.ADF.PValue),
			fmt.Sprintf(intFmt, report.ADF.Lags),
			fmt.Sprintf("%t", report.ADF.IsStationary),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	if report.KPSS != nil {
		rec := []string{
			"kpss",
			fmtFloat(report.KPSS.Statistic),
			fmtFloat(report.KPSS.PValue),
			fmt.Sprintf(intFmt, report.KPSS.Lags),
			fmt.Sprintf("%t", report.KPSS.IsStationary),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
