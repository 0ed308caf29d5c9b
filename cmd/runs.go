package cmd

import (
	"fmt"
	"time"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/internal/outwriter"
	"github.com/delaycast/delaycast/internal/runstore"
	"github.com/delaycast/delaycast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for run store maintenance.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the run store with the loaded config
	if err := runstore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for runs maintenance commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// runsCmd focused on run history management.
//
// Note: The status and clear subcommands use minimal initialization (storeSetup)
// instead of the full sharedSetup used by pipeline commands. This avoids series
// path resolution and complex config processing for simple store operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of recorded pipeline runs",
	Long: `Manage the run store that tracks completed forecasting runs.

Delaycast records a summary of every completed forecast run: the training
window, the chosen transform and model order, and the accuracy scores.
Model coefficients are never stored; re-run the pipeline to reproduce a fit.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list   - Show recent runs with their orders and scores
  status - Show run store statistics and connection info
  clear  - Remove all recorded runs

Examples:
  # Compare the last few runs
  delaycast runs list

  # Check store health
  delaycast runs status`,
}

// runsListCmd lists recent runs.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent recorded runs",
	Long: `List recorded forecasting runs, newest first.

Each row shows the training window, the chosen ARIMA order, and the
accuracy scores from that run. Use this to compare how order bounds or
training windows affect forecast quality over time.

Examples:
  # Show the most recent runs
  delaycast runs list

  # Show more history as CSV
  delaycast runs list --limit 100 --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		runs, err := runstore.Manager.GetRunStore().ListRuns(cfg.RunsLimit)
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.NewOutWriter().WriteRuns(runs, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to print runs", err)
		}
	},
}

// runsStatusCmd shows run store status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run store statistics and connection details",
	Long: `Show detailed information about the run store.

Displays:
- Backend type and location
- Total number of recorded runs
- Timestamp of the most recent run

Examples:
  # Check run store status
  delaycast runs status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := runstore.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run store status", err)
		}
		if err := outwriter.NewOutWriter().WriteRunStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print run store status", err)
		}
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all recorded runs from the configured backend.

Use this when:
- Starting a fresh round of experiments
- The underlying data files changed and old scores are misleading

Examples:
  # Clear the SQLite run store (default)
  delaycast runs clear

  # Clear a MySQL run store (set connection string via env variable)
  DELAYCAST_STORE_BACKEND=mysql DELAYCAST_STORE_DB_CONNECT="..." delaycast runs clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.Manager.GetRunStore().Clear(); err != nil {
			contract.LogFatal("Failed to clear runs", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}
