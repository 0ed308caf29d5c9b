package cmd

import (
	"github.com/delaycast/delaycast/core"
	"github.com/delaycast/delaycast/internal/contract"
	"github.com/spf13/cobra"
)

// transformCmd reports the Box-Cox lambda search for a series.
var transformCmd = &cobra.Command{
	Use:   "transform <train-csv>",
	Short: "Show the Box-Cox lambda profile for a series.",
	Long: `Search for the Box-Cox lambda that best stabilizes the series variance.

Profiles the Box-Cox log-likelihood over a lambda grid and reports the
maximizing value alongside the candidates considered. Non-positive
series values are handled by shifting the series above zero before the
transform; the shift is reported with the chosen lambda.

Useful for:
- Inspecting how sharply the likelihood peaks around the chosen lambda
- Deciding whether a plain log transform (lambda = 0) is close enough
- Debugging unexpected transform behavior in the full pipeline

Examples:
  # Show the chosen lambda and the profile around it
  delaycast transform train.csv

  # Export the full profile
  delaycast transform train.csv --output csv --output-file lambdas.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTransform(cfg); err != nil {
			contract.LogFatal("Cannot run transform", err)
		}
	},
}
