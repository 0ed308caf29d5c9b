package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

func sampleTransformReport() *schema.TransformReport {
	return &schema.TransformReport{
		Params: schema.TransformParams{Lambda: 0.2, Shift: -1.5},
		Grid: []schema.LambdaCandidate{
			{Lambda: 0.1, LogLik: -120.5},
			{Lambda: 0.2, LogLik: -118.2},
			{Lambda: 0.3, LogLik: -121.9},
		},
	}
}

func TestWriteTransformCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	require.NoError(t, writeTransformCSV(csvWriter, sampleTransformReport(), fmtFloat))
	csvWriter.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"lambda", "log_lik", "chosen"}, records[0])
	assert.Equal(t, []string{"0.10", "-120.50", "false"}, records[1])
	assert.Equal(t, []string{"0.20", "-118.20", "true"}, records[2])
	assert.Equal(t, []string{"0.30", "-121.90", "false"}, records[3])
}

func TestWriteTransformTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeTransformTable(&buf, sampleTransformReport(), cfg, fmtFloat, time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Box-Cox transform: lambda=0.20 shift=-1.50")
	assert.Contains(t, out, "-118.20") // nothing truncated at 3 grid rows
	assert.NotContains(t, out, "Showing")
}

func TestWriteTransformTableTruncatesGrid(t *testing.T) {
	report := &schema.TransformReport{Params: schema.TransformParams{Lambda: 0}}
	for i := range 12 {
		report.Grid = append(report.Grid, schema.LambdaCandidate{
			Lambda: float64(i) * 0.1, LogLik: -120 - float64(i),
		})
	}

	cfg := &contract.Config{Precision: 2, Width: 80}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeTransformTable(&buf, report, cfg, fmtFloat, time.Second))
	assert.Contains(t, buf.String(), "Showing 5 of 12 grid points")
}

func TestPrintTransformReportParquetUnsupported(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Output: schema.ParquetOut}
	err := PrintTransformReport(sampleTransformReport(), cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet output is not supported")
}
