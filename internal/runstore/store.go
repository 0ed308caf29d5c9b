package runstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

// runsTable is the name of the table for run tracking.
const runsTable = "delaycast_runs"

// SQLRunStore implements the RunStore interface over database/sql.
type SQLRunStore struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	location   string
}

var _ contract.RunStore = &SQLRunStore{} // Compile-time check

// NewSQLRunStore creates a new RunStore with the specified backend.
func NewSQLRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	var db *sql.DB
	var err error
	var driverName string
	location := connStr

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunDBFilePath()
		}
		location = dbPath
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &SQLRunStore{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and connection parameters are valid", backend, err)
	}

	// Create the table schema
	if _, err := db.Exec(getCreateRunsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", runsTable, err)
	}

	return &SQLRunStore{
		db:         db,
		backend:    backend,
		driverName: driverName,
		location:   location,
	}, nil
}

// getCreateRunsQuery returns the CREATE TABLE query for delaycast_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6) NOT NULL,
				train_start DATETIME(6) NOT NULL,
				train_end DATETIME(6) NOT NULL,
				train_n INT NOT NULL,
				lambda DOUBLE NOT NULL,
				shift DOUBLE NOT NULL,
				is_stationary BOOLEAN NOT NULL,
				order_p INT NOT NULL,
				order_d INT NOT NULL,
				order_q INT NOT NULL,
				aic DOUBLE NOT NULL,
				bic DOUBLE NOT NULL,
				horizon INT NOT NULL,
				mae DOUBLE NOT NULL,
				mse DOUBLE NOT NULL,
				rmse DOUBLE NOT NULL,
				mape DOUBLE NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ NOT NULL,
				train_start TIMESTAMPTZ NOT NULL,
				train_end TIMESTAMPTZ NOT NULL,
				train_n INT NOT NULL,
				lambda DOUBLE PRECISION NOT NULL,
				shift DOUBLE PRECISION NOT NULL,
				is_stationary BOOLEAN NOT NULL,
				order_p INT NOT NULL,
				order_d INT NOT NULL,
				order_q INT NOT NULL,
				aic DOUBLE PRECISION NOT NULL,
				bic DOUBLE PRECISION NOT NULL,
				horizon INT NOT NULL,
				mae DOUBLE PRECISION NOT NULL,
				mse DOUBLE PRECISION NOT NULL,
				rmse DOUBLE PRECISION NOT NULL,
				mape DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				train_start TEXT NOT NULL,
				train_end TEXT NOT NULL,
				train_n INTEGER NOT NULL,
				lambda REAL NOT NULL,
				shift REAL NOT NULL,
				is_stationary BOOLEAN NOT NULL,
				order_p INTEGER NOT NULL,
				order_d INTEGER NOT NULL,
				order_q INTEGER NOT NULL,
				aic REAL NOT NULL,
				bic REAL NOT NULL,
				horizon INTEGER NOT NULL,
				mae REAL NOT NULL,
				mse REAL NOT NULL,
				rmse REAL NOT NULL,
				mape REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// runColumns lists the insertable columns in insert order.
const runColumns = `start_time, end_time, train_start, train_end, train_n,
	lambda, shift, is_stationary,
	order_p, order_d, order_q, aic, bic, horizon,
	mae, mse, rmse, mape`

// RecordRun stores a completed run summary and returns its unique ID.
func (rs *SQLRunStore) RecordRun(rec schema.RunRecord) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	args := []any{
		formatTime(rec.StartTime, rs.backend),
		formatTime(rec.EndTime, rs.backend),
		formatTime(rec.TrainStart, rs.backend),
		formatTime(rec.TrainEnd, rs.backend),
		rec.TrainN,
		rec.Lambda, rec.Shift, rec.IsStationary,
		rec.OrderP, rec.OrderD, rec.OrderQ, rec.AIC, rec.BIC, rec.Horizon,
		rec.MAE, rec.MSE, rec.RMSE, rec.MAPE,
	}

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING run_id`, quotedTableName, runColumns)
		err = rs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName, runColumns)
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent run summaries, newest first.
func (rs *SQLRunStore) ListRuns(limit int) ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, %s FROM %s ORDER BY run_id DESC`, runColumns, quotedTableName)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		rec, err := rs.scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// scanRun scans one row, handling per-backend time storage formats.
func (rs *SQLRunStore) scanRun(rows *sql.Rows) (schema.RunRecord, error) {
	var rec schema.RunRecord

	switch rs.backend {
	case schema.SQLiteBackend:
		var startStr, endStr, trainStartStr, trainEndStr string
		if err := rows.Scan(&rec.RunID, &startStr, &endStr, &trainStartStr, &trainEndStr,
			&rec.TrainN, &rec.Lambda, &rec.Shift, &rec.IsStationary,
			&rec.OrderP, &rec.OrderD, &rec.OrderQ, &rec.AIC, &rec.BIC, &rec.Horizon,
			&rec.MAE, &rec.MSE, &rec.RMSE, &rec.MAPE); err != nil {
			return rec, fmt.Errorf("failed to scan run: %w", err)
		}
		for _, pair := range []struct {
			dst *time.Time
			src string
		}{
			{&rec.StartTime, startStr},
			{&rec.EndTime, endStr},
			{&rec.TrainStart, trainStartStr},
			{&rec.TrainEnd, trainEndStr},
		} {
			t, err := time.Parse(time.RFC3339Nano, pair.src)
			if err != nil {
				return rec, fmt.Errorf("failed to parse stored time: %w", err)
			}
			*pair.dst = t
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := rows.Scan(&rec.RunID, &rec.StartTime, &rec.EndTime, &rec.TrainStart, &rec.TrainEnd,
			&rec.TrainN, &rec.Lambda, &rec.Shift, &rec.IsStationary,
			&rec.OrderP, &rec.OrderD, &rec.OrderQ, &rec.AIC, &rec.BIC, &rec.Horizon,
			&rec.MAE, &rec.MSE, &rec.RMSE, &rec.MAPE); err != nil {
			return rec, fmt.Errorf("failed to scan run: %w", err)
		}
	}

	return rec, nil
}

// GetStatus returns status information about the run store.
func (rs *SQLRunStore) GetStatus() (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:  rs.backend,
		Location: rs.location,
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := rs.db.QueryRow(countQuery).Scan(&status.RunCount); err != nil {
		return status, fmt.Errorf("failed to get run count: %w", err)
	}

	if status.RunCount > 0 {
		lastQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedTableName)
		row := rs.db.QueryRow(lastQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastStr string
			if err := row.Scan(&lastStr); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
			last, err := time.Parse(time.RFC3339Nano, lastStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRun = last
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.LastRun); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
		}
	}

	return status, nil
}

// Clear removes all recorded runs.
func (rs *SQLRunStore) Clear() error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	if _, err := rs.db.Exec(fmt.Sprintf("DELETE FROM %s", quotedTableName)); err != nil {
		return fmt.Errorf("failed to clear runs: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *SQLRunStore) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}
