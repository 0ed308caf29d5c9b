package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

// decomposePreviewRows caps how many rows the text table shows.
const decomposePreviewRows = 14

// PrintDecomposition outputs the trend, seasonal and residual components,
// dispatching based on the output format configured.
func PrintDecomposition(series *schema.Series, decomposition *schema.Decomposition, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, decomposition)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeDecompositionCSV(csvWriter, series, decomposition, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for decompositions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDecompositionTable(w, series, decomposition, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeDecompositionTable renders the leading component rows.
func writeDecompositionTable(w io.Writer, series *schema.Series, decomposition *schema.Decomposition, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Classical additive decomposition (period %d):\n", decomposition.Period); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Observed", "Trend", "Seasonal", "Residual"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// The moving average leaves NaN edges; start the preview at the first
	// row with a defined trend.
	start := 0
	for start < len(decomposition.Trend) && math.IsNaN(decomposition.Trend[start]) {
		start++
	}

	limit := min(len(series.Values)-start, decomposePreviewRows)
	var data [][]string
	for i := start; i < start+limit; i++ {
		data = append(data, []string{
			series.Dates[i].Format(contract.DateFormat),
			fmtFloat(series.Values[i]),
			fmtFloat(decomposition.Trend[i]),
			fmtFloat(decomposition.Seasonal[i]),
			fmtFloat(decomposition.Residual[i]),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(series.Values) > limit {
		if _, err := fmt.Fprintf(w, "Showing %d of %d rows (use --output csv for all)\n", limit, len(series.Values)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Decomposition completed in %v\n", duration)
	return err
}

// writeDecompositionCSV writes every component row.
func writeDecompositionCSV(w *csv.Writer, series *schema.Series, decomposition *schema.Decomposition, fmtFloat func(float64) string) error {
	header := []string{"date", "observed", "trend", "seasonal", "residual"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range series.Values {
		rec := []string{
			series.Dates[i].Format(contract.DateFormat),
			fmtFloat(series.Values[i]),
			fmtFloat(decomposition.Trend[i]),
			fmtFloat(decomposition.Seasonal[i]),
			fmtFloat(decomposition.Residual[i]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
