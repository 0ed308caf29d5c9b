package cmd

import (
	"github.com/delaycast/delaycast/core"
	"github.com/delaycast/delaycast/internal/contract"
	"github.com/spf13/cobra"
)

// decomposeCmd splits a series into trend, seasonal and residual parts.
var decomposeCmd = &cobra.Command{
	Use:   "decompose <train-csv>",
	Short: "Decompose a series into trend, seasonal and residual components.",
	Long: `Run a classical additive decomposition on a daily delay series.

Estimates the trend with a centered moving average over one period,
averages the detrended values by position in the period to get the
seasonal component, and leaves the rest as residual. Trend values near
the series edges are undefined and rendered as NaN.

Examples:
  # Decompose with a yearly period
  delaycast decompose train.csv

  # Weekly seasonality instead
  delaycast decompose train.csv --period 7

  # Export all components
  delaycast decompose train.csv --output csv --output-file components.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDecompose(cfg); err != nil {
			contract.LogFatal("Cannot run decomposition", err)
		}
	},
}
