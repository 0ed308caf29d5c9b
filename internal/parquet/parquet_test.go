package parquet

import (
	"bytes"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaycast/delaycast/schema"
)

func TestForecastRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(ForecastRow))
	require.NotNil(t, s)

	// Check that all expected columns exist
	expectedColumns := []string{
		"step",
		"date",
		"forecast",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRunRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(RunRow))
	require.NotNil(t, s)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"train_start",
		"train_end",
		"train_n",
		"lambda",
		"shift",
		"is_stationary",
		"order_p",
		"order_d",
		"order_q",
		"aic",
		"bic",
		"horizon",
		"mae",
		"mse",
		"rmse",
		"mape",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteForecastRows(t *testing.T) {
	report := &schema.PipelineReport{
		Forecast: &schema.ForecastResult{
			Horizon:        3,
			StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			PointForecasts: []float64{10.5, 11.2, 9.8},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteForecastRows(&buf, report))
	require.NotZero(t, buf.Len())

	rows, err := parquet.Read[ForecastRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int32(1), rows[0].Step)
	assert.InDelta(t, 10.5, rows[0].Forecast, 1e-12)
	assert.InDelta(t, 9.8, rows[2].Forecast, 1e-12)
}

func TestWriteForecastRowsNoForecast(t *testing.T) {
	var buf bytes.Buffer
	err := WriteForecastRows(&buf, &schema.PipelineReport{})
	assert.Error(t, err)
}

func TestWriteRunRows(t *testing.T) {
	runs := []schema.RunRecord{
		{
			RunID:        1,
			StartTime:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			EndTime:      time.Date(2024, 6, 1, 12, 0, 5, 0, time.UTC),
			TrainStart:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TrainEnd:     time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			TrainN:       365,
			Lambda:       0.18,
			IsStationary: true,
			OrderP:       1,
			OrderQ:       2,
			AIC:          1234.5,
			Horizon:      30,
			MAE:          4.91,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRunRows(&buf, runs))

	rows, err := parquet.Read[RunRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].RunID)
	assert.Equal(t, int32(365), rows[0].TrainN)
	assert.True(t, rows[0].IsStationary)
	assert.InDelta(t, 4.91, rows[0].MAE, 1e-12)
}
