package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/internal/parquet"
	"github.com/delaycast/delaycast/schema"
)

// PrintRunRecords outputs the tracked run history, dispatching based on the
// output format configured.
func PrintRunRecords(runs []schema.RunRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeRunsCSV(csvWriter, runs, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRunRows(w, runs)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, runs, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeRunsTable renders one row per run.
func writeRunsTable(w io.Writer, runs []schema.RunRecord, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "When", "Window", "N", "Order", "AIC", "MAE", "MAPE (%)"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		order := schema.ModelOrder{P: r.OrderP, D: r.OrderD, Q: r.OrderQ}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartTime.Format(time.RFC3339),
			fmt.Sprintf("%s .. %s", r.TrainStart.Format(contract.DateFormat), r.TrainEnd.Format(contract.DateFormat)),
			strconv.Itoa(r.TrainN),
			formatOrder(order),
			fmtFloat(r.AIC),
			fmtFloat(r.MAE),
			fmtFloat(r.MAPE),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d runs in %v\n", len(runs), duration)
	return err
}

// writeRunsCSV writes every tracked field per run.
func writeRunsCSV(w *csv.Writer, runs []schema.RunRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"run_id", "start_time", "end_time",
		"train_start", "train_end", "train_n",
		"lambda", "shift", "stationary",
		"order_p", "order_d", "order_q", "aic", "bic", "horizon",
		"mae", "mse", "rmse", "mape",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range runs {
		rec := []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.TrainStart.Format(contract.DateFormat),
			r.TrainEnd.Format(contract.DateFormat),
			fmt.Sprintf(intFmt, r.TrainN),
			fmtFloat(r.Lambda),
			fmtFloat(r.Shift),
			fmt.Sprintf("%t", r.IsStationary),
			fmt.Sprintf(intFmt, r.OrderP),
			fmt.Sprintf(intFmt, r.OrderD),
			fmt.Sprintf(intFmt, r.OrderQ),
			fmtFloat(r.AIC),
			fmtFloat(r.BIC),
			fmt.Sprintf(intFmt, r.Horizon),
			fmtFloat(r.MAE),
			fmtFloat(r.MSE),
			fmtFloat(r.RMSE),
			fmtFloat(r.MAPE),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// PrintRunStatus outputs run store status information.
func PrintRunStatus(status schema.RunStoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Backend: %s\nLocation: %s\nRuns: %d\n",
				status.Backend, status.Location, status.RunCount); err != nil {
				return err
			}
			if !status.LastRun.IsZero() {
				if _, err := fmt.Fprintf(w, "Last run: %s\n", status.LastRun.Format(time.RFC3339)); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote status")
	}
}
