package cmd

import (
	"github.com/delaycast/delaycast/core"
	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/internal/runstore"
	"github.com/spf13/cobra"
)

// forecastCmd runs the full forecasting pipeline.
var forecastCmd = &cobra.Command{
	Use:   "forecast <train-csv>",
	Short: "Run the full pipeline: transform, fit, diagnose and forecast.",
	Long: `Run the end-to-end forecasting pipeline on a daily delay series.

The pipeline mirrors a classical Box-Jenkins workflow:
- Aggregate raw observations into one average per calendar day
- Stabilize variance with a Box-Cox transform (lambda chosen by maximum likelihood)
- Verify stationarity with ADF and KPSS tests
- Pick ARMA orders from significant ACF/PACF lags, then refine by AIC grid search
- Check residuals with Shapiro-Wilk and Ljung-Box
- Forecast on the original scale and score against the held-out test series

Forecast accuracy (MAE, MSE, RMSE, MAPE) is reported whenever a test
series is given, and each completed run is recorded in the run store.

Examples:
  # Forecast 31 days past the end of the training window
  delaycast forecast train.csv --horizon 31

  # Score the forecast against a held-out December
  delaycast forecast train.csv --test december.csv

  # Widen the order search and allow yearly seasonal terms
  delaycast forecast train.csv --test december.csv --max-p 8 --max-q 8 --seasonal-period 365

  # Export the forecast for downstream tooling
  delaycast forecast train.csv --horizon 31 --output parquet --output-file forecast.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForecast(cfg, runstore.Manager); err != nil {
			contract.LogFatal("Cannot run forecast", err)
		}
	},
}
