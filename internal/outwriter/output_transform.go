package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

// PrintTransformReport outputs the fitted transform params and the profile
// log-likelihood grid neighborhood, dispatching based on the output format
// configured.
func PrintTransformReport(report *schema.TransformReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

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
			return writeTransformCSV(csvWriter, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for transform reports")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTransformTable(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeTransformTable renders the chosen params and the grid rows closest to
// the optimum.
func writeTransformTable(w io.Writer, report *schema.TransformReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Box-Cox transform: lambda=%s shift=%s\n",
		fmtFloat(report.Params.Lambda), fmtFloat(report.Params.Shift)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Lambda", "Log-Likelihood"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	limit := min(len(report.Grid), maxGridRows(cfg))
	var data [][]string
	for _, c := range report.Grid[:limit] {
		data = append(data, []string{
			fmtFloat(c.Lambda),
			fmtFloat(c.LogLik),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(report.Grid) > limit {
		if _, err := fmt.Fprintf(w, "Showing %d of %d grid points\n", limit, len(report.Grid)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Fit completed in %v\n", duration)
	return err
}

// writeTransformCSV writes the full lambda grid.
func writeTransformCSV(w *csv.Writer, report *schema.TransformReport, fmtFloat func(float64) string) error {
	header := []string{"lambda", "log_lik", "chosen"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, c := range report.Grid {
		rec := []string{
			fmtFloat(c.Lambda),
			fmtFloat(c.LogLik),
			fmt.Sprintf("%t", c.Lambda == report.Params.Lambda),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
