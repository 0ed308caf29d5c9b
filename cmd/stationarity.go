package cmd

import (
	"github.com/delaycast/delaycast/core"
	"github.com/delaycast/delaycast/internal/contract"
	"github.com/spf13/cobra"
)

// stationarityCmd checks a series for stationarity without fitting a model.
var stationarityCmd = &cobra.Command{
	Use:   "stationarity <train-csv>",
	Short: "Test a series for stationarity with ADF and KPSS.",
	Long: `Run stationarity tests on a daily delay series after variance stabilization.

Applies the Augmented Dickey-Fuller test (null: unit root) and the KPSS
test (null: stationary) to the Box-Cox transformed series. The two tests
have opposite null hypotheses, so agreement in either direction is a
strong signal:
- Both pass: the series is ready for ARMA modeling
- Both fail: the series needs differencing
- Mixed: inspect the series before trusting a fitted model

Examples:
  # Quick stationarity check
  delaycast stationarity train.csv

  # Machine-readable verdicts
  delaycast stationarity train.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStationarity(cfg); err != nil {
			contract.LogFatal("Cannot run stationarity tests", err)
		}
	},
}
