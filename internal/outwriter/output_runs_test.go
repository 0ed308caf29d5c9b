package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

func sampleRunRecords() []schema.RunRecord {
	start := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return []schema.RunRecord{
		{
			RunID:      1,
			StartTime:  start,
			EndTime:    start.Add(2 * time.Second),
			TrainStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			TrainEnd:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			TrainN:     60,

			Lambda:       0.18,
			Shift:        0,
			IsStationary: true,

			OrderP: 1, OrderD: 0, OrderQ: 2,
			AIC: 238.1, BIC: 246.5, Horizon: 14,

			MAE: 4.91, MSE: 38.2, RMSE: 6.18, MAPE: 22.67,
		},
		{
			RunID:      2,
			StartTime:  start.Add(time.Hour),
			EndTime:    start.Add(time.Hour + time.Second),
			TrainStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			TrainEnd:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			TrainN:     60,

			OrderP: 2, Horizon: 7,
		},
	}
}

func TestWriteRunsTable(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	err := writeRunsTable(&buf, sampleRunRecords(), fmtFloat, time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ARIMA(1,0,2)")
	assert.Contains(t, out, "ARIMA(2,0,0)")
	assert.Contains(t, out, "2024-01-01 .. 2024-02-29")
	assert.Contains(t, out, "Showing 2 runs")
}

func TestWriteRunsCSV(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	require.NoError(t, writeRunsCSV(csvWriter, sampleRunRecords(), fmtFloat, intFmt))
	csvWriter.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := []string{
		"run_id", "start_time", "end_time",
		"train_start", "train_end", "train_n",
		"lambda", "shift", "stationary",
		"order_p", "order_d", "order_q", "aic", "bic", "horizon",
		"mae", "mse", "rmse", "mape",
	}
	assert.Equal(t, header, records[0])

	row := records[1]
	require.Len(t, row, len(header))
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "2024-03-01T10:30:00Z", row[1])
	assert.Equal(t, "2024-01-01", row[3])
	assert.Equal(t, "60", row[5])
	assert.Equal(t, "true", row[8])
	assert.Equal(t, "2", row[11])
	assert.Equal(t, "238.10", row[12])
	assert.Equal(t, "22.67", row[18])
}

func TestPrintRunRecordsJSONFile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "runs.json")
	cfg := &contract.Config{Precision: 2, Output: schema.JSONOut, OutputFile: outFile}

	require.NoError(t, PrintRunRecords(sampleRunRecords(), cfg, time.Second))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"run_id\": 1")
	assert.Contains(t, string(data), "\"order_q\": 2")
}

func TestPrintRunStatus(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "status.txt")
	cfg := &contract.Config{Output: schema.TextOut, OutputFile: outFile}
	status := schema.RunStoreStatus{
		Backend:  schema.SQLiteBackend,
		Location: "/tmp/runs.db",
		RunCount: 3,
		LastRun:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	require.NoError(t, PrintRunStatus(status, cfg))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Location: /tmp/runs.db")
	assert.Contains(t, out, "Runs: 3")
	assert.Contains(t, out, "Last run: 2024-03-01T10:30:00Z")
}

func TestPrintRunStatusZeroLastRun(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "status.txt")
	cfg := &contract.Config{Output: schema.TextOut, OutputFile: outFile}
	status := schema.RunStoreStatus{Backend: schema.SQLiteBackend, Location: "/tmp/runs.db"}

	require.NoError(t, PrintRunStatus(status, cfg))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Last run:")
}
