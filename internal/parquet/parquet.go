// Package parquet provides data structures and functions for exporting
// forecast and run-history data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/delaycast/delaycast/schema"
)

// ForecastRow represents one forecast step on the original scale.
type ForecastRow struct {
	// Step is the 1-based forecast step
	Step int32 `parquet:"step,snappy"`

	// Date is the calendar day the forecast covers
	Date time.Time `parquet:"date,snappy"`

	// Forecast is the point forecast on the original scale
	Forecast float64 `parquet:"forecast,snappy"`
}

// RunRow represents a single tracked pipeline run.
// This struct maps to the delaycast_runs database table.
type RunRow struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed
	EndTime time.Time `parquet:"end_time,snappy"`

	// TrainStart and TrainEnd bound the training window
	TrainStart time.Time `parquet:"train_start,snappy"`
	TrainEnd   time.Time `parquet:"train_end,snappy"`

	// TrainN is the number of training days
	TrainN int32 `parquet:"train_n,snappy"`

	// Lambda and Shift are the fitted transform parameters
	Lambda float64 `parquet:"lambda,snappy"`
	Shift  float64 `parquet:"shift,snappy"`

	// IsStationary records whether both stationarity tests agreed
	IsStationary bool `parquet:"is_stationary,snappy"`

	// OrderP, OrderD and OrderQ identify the chosen model order
	OrderP int32 `parquet:"order_p,snappy"`
	OrderD int32 `parquet:"order_d,snappy"`
	OrderQ int32 `parquet:"order_q,snappy"`

	// AIC and BIC are the information criteria of the chosen model
	AIC float64 `parquet:"aic,snappy"`
	BIC float64 `parquet:"bic,snappy"`

	// Horizon is the number of forecast steps
	Horizon int32 `parquet:"horizon,snappy"`

	// Forecast error metrics, zero when no test series was scored
	MAE  float64 `parquet:"mae,snappy"`
	MSE  float64 `parquet:"mse,snappy"`
	RMSE float64 `parquet:"rmse,snappy"`
	MAPE float64 `parquet:"mape,snappy"`
}

// WriteForecastRows writes the forecast steps of a pipeline report to a
// Parquet stream.
func WriteForecastRows(w io.Writer, report *schema.PipelineReport) error {
	if report.Forecast == nil {
		return fmt.Errorf("no forecast to export")
	}

	dates := report.Forecast.Dates()
	rows := make([]ForecastRow, len(report.Forecast.PointForecasts))
	for i, v := range report.Forecast.PointForecasts {
		rows[i] = ForecastRow{
			Step:     int32(i + 1),
			Date:     dates[i],
			Forecast: v,
		}
	}

	return writeRows(w, rows)
}

// WriteRunRows writes tracked run records to a Parquet stream.
func WriteRunRows(w io.Writer, runs []schema.RunRecord) error {
	rows := make([]RunRow, len(runs))
	for i, r := range runs {
		rows[i] = RunRow{
			RunID:        r.RunID,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			TrainStart:   r.TrainStart,
			TrainEnd:     r.TrainEnd,
			TrainN:       int32(r.TrainN),
			Lambda:       r.Lambda,
			Shift:        r.Shift,
			IsStationary: r.IsStationary,
			OrderP:       int32(r.OrderP),
			OrderD:       int32(r.OrderD),
			OrderQ:       int32(r.OrderQ),
			AIC:          r.AIC,
			BIC:          r.BIC,
			Horizon:      int32(r.Horizon),
			MAE:          r.MAE,
			MSE:          r.MSE,
			RMSE:         r.RMSE,
			MAPE:         r.MAPE,
		}
	}

	return writeRows(w, rows)
}

// writeRows writes any row type to a Parquet stream using struct schema
// inference from the parquet tags.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)

	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet stream: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
