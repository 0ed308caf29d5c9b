// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/delaycast/delaycast/schema"
)

// StoreManager defines the interface for managing the run-history store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
	Close()
}

// RunStore defines the interface for tracking forecast runs.
type RunStore interface {
	// RecordRun stores a completed run summary and returns its unique ID
	RecordRun(rec schema.RunRecord) (int64, error)

	// ListRuns returns the most recent run summaries, newest first
	ListRuns(limit int) ([]schema.RunRecord, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStoreStatus, error)

	// Clear removes all recorded runs
	Clear() error

	// Close closes the underlying connection
	Close() error
}
