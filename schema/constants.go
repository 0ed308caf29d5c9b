package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// Verdict represents the outcome of a statistical check.
	Verdict string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Verdicts for diagnostic and stationarity checks.
const (
	PassVerdict  Verdict = "pass"
	FailVerdict  Verdict = "fail"
	MixedVerdict Verdict = "mixed"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid run store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Default tuning knobs for the forecasting pipeline.
const (
	// DefaultLambdaMin and DefaultLambdaMax bound the Box-Cox lambda grid.
	DefaultLambdaMin = -2.0
	DefaultLambdaMax = 2.0

	// DefaultLambdaStep is the coarse grid step for the lambda search.
	DefaultLambdaStep = 0.1

	// DefaultMaxOrder caps the AR and MA orders considered by the grid search.
	DefaultMaxOrder = 5

	// DefaultSeasonalPeriod is the number of observations per year for a
	// daily series.
	DefaultSeasonalPeriod = 365

	// DefaultSignificance is the significance level shared by all tests.
	DefaultSignificance = 0.05
)
