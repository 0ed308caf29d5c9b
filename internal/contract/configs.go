package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/delaycast/delaycast/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 4
	MaxPrecision     = 8
	DefaultRunsLimit = 25
	MaxRunsLimit     = 1000
	MaxOrderLimit    = 12
)

// DateFormat is the calendar-day representation used for series dates.
const DateFormat = "2006-01-02"

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a pipeline run.
// This struct remains the "final, validated" config.
type Config struct {
	TrainPath string
	TestPath  string
	Horizon   int

	MaxP           int
	MaxQ           int
	SeasonalPeriod int

	Period int // Decomposition period (0 = default)

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	RunsLimit int

	UseColors bool // Enable colored verdicts in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	TrainPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields from forecastCmd.Flags() ---
	Test           string `mapstructure:"test"`
	Horizon        int    `mapstructure:"horizon"`
	MaxP           int    `mapstructure:"max-p"`
	MaxQ           int    `mapstructure:"max-q"`
	SeasonalPeriod int    `mapstructure:"seasonal-period"`

	// --- Fields from decomposeCmd.Flags() ---
	Period int `mapstructure:"period"`

	// --- Fields from runsCmd.Flags() ---
	Limit int `mapstructure:"limit"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOrderBounds(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return resolveSeriesPaths(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 2. Horizon Validation ---
	if input.Horizon < 0 {
		return fmt.Errorf("horizon cannot be negative (received %d)", input.Horizon)
	}
	cfg.Horizon = input.Horizon

	// --- 3. Runs Limit Validation ---
	limit := input.Limit
	if limit == 0 {
		limit = DefaultRunsLimit
	}
	if limit < 0 || limit > MaxRunsLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxRunsLimit, input.Limit)
	}
	cfg.RunsLimit = limit

	return nil
}

// validateOrderBounds validates the model-order search bounds and the
// seasonal and decomposition periods.
func validateOrderBounds(cfg *Config, input *ConfigRawInput) error {
	if input.MaxP < 0 || input.MaxP > MaxOrderLimit {
		return fmt.Errorf("max-p must be between 0 and %d (received %d)", MaxOrderLimit, input.MaxP)
	}
	cfg.MaxP = input.MaxP

	if input.MaxQ < 0 || input.MaxQ > MaxOrderLimit {
		return fmt.Errorf("max-q must be between 0 and %d (received %d)", MaxOrderLimit, input.MaxQ)
	}
	cfg.MaxQ = input.MaxQ

	if input.SeasonalPeriod < 0 {
		return fmt.Errorf("seasonal-period cannot be negative (received %d)", input.SeasonalPeriod)
	}
	cfg.SeasonalPeriod = input.SeasonalPeriod

	if input.Period != 0 && input.Period < 2 {
		return fmt.Errorf("period must be at least 2 (received %d)", input.Period)
	}
	cfg.Period = input.Period

	return nil
}

// validateBackendConfig validates the run-store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// resolveSeriesPaths resolves the training and test series paths to
// absolute, cleaned paths.
func resolveSeriesPaths(cfg *Config, input *ConfigRawInput) error {
	if input.TrainPathStr != "" {
		absPath, err := filepath.Abs(input.TrainPathStr)
		if err != nil {
			return err
		}
		cfg.TrainPath = filepath.Clean(absPath)
	}

	if input.Test != "" {
		absPath, err := filepath.Abs(input.Test)
		if err != nil {
			return err
		}
		cfg.TestPath = filepath.Clean(absPath)
	}

	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
