// Package cmd defines the command-line interface for delaycast.
package cmd

import (
	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(stationarityCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(decomposeCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored verdicts in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Run store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of forecastCmd to Viper
	forecastCmd.Flags().String("test", "", "Path to the held-out test series CSV")
	forecastCmd.Flags().Int("horizon", 0, "Number of days to forecast (defaults to test series length)")
	forecastCmd.Flags().Int("max-p", schema.DefaultMaxOrder, "Maximum AR order considered by the grid search")
	forecastCmd.Flags().Int("max-q", schema.DefaultMaxOrder, "Maximum MA order considered by the grid search")
	forecastCmd.Flags().Int("seasonal-period", 0, "Seasonal period in observations (0 = non-seasonal)")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding forecast flags", err)
	}

	// Bind all flags of decomposeCmd to Viper
	decomposeCmd.Flags().Int("period", 0, "Decomposition period in observations (0 = one year)")
	if err := viper.BindPFlags(decomposeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding decompose flags", err)
	}

	// Bind all flags of runsListCmd to Viper
	runsListCmd.Flags().IntP("limit", "l", contract.DefaultRunsLimit, "Number of runs to display")
	if err := viper.BindPFlags(runsListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs list flags", err)
	}
}
