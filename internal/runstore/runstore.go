// Package runstore tracks pipeline runs in a SQL backend.
package runstore

import (
	"fmt"
	"sync"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

// RunStoreManager manages the run-history store instance.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the run-history RunStore.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// Close closes the run store, logging rather than failing on error.
func (mgr *RunStoreManager) Close() {
	mgr.Lock()
	defer mgr.Unlock()
	if mgr.runs != nil {
		if err := mgr.runs.Close(); err != nil {
			contract.LogWarn("Could not close run store", err)
		}
		mgr.runs = nil
	}
}

// Global Manager instance for main logic.
var (
	Manager   = &RunStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global run store manager.
// An empty backend disables run tracking.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		if backend == "" {
			return
		}
		store, err := NewSQLRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run tracking: %w", err)
			return
		}

		Manager.Lock()
		Manager.runs = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStore closes the global run store manager exactly once.
func CloseStore() {
	closeOnce.Do(func() {
		Manager.Close()
	})
}
