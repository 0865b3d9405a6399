package persistence

import "github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"

// IPregenPersistence defines the interface for storing pregenerated signed
// transactions between runs. All implementations must be thread-safe: a
// generator may write while the listener reads.
//
// The interface supports:
// - Pregenerated entry management (save, load, list, delete)
// - Run state (the parameters of the last completed pregeneration)
// - Lifecycle management (close, health check)
type IPregenPersistence interface {
	// Entry Management

	// SaveEntry persists an entry indexed by its gas price.
	// Overwrites any existing entry for the same gas price.
	SaveEntry(entry *types.PregenEntry) error

	// LoadEntry retrieves the entry for a decimal wei gas price.
	// Returns nil if the entry doesn't exist, error only on storage failure
	// or a malformed gas price.
	LoadEntry(gasPriceWei string) (*types.PregenEntry, error)

	// ListEntries returns all entries sorted by gas price (ascending).
	// Returns empty slice if no entries exist, error only on storage failure.
	ListEntries() ([]*types.PregenEntry, error)

	// DeleteEntry removes the entry for a gas price.
	// Idempotent - returns nil if the entry doesn't exist.
	DeleteEntry(gasPriceWei string) error

	// Run State

	// SaveRunState records the parameters of a completed pregeneration.
	// Overwrites any existing state.
	SaveRunState(state *RunState) error

	// LoadRunState retrieves the last run state.
	// Returns nil state if none exists, error only on storage failure.
	LoadRunState() (*RunState, error)

	// DeleteRunState removes the run state, marking the stored entries as
	// not trustworthy until the next completed run.
	// Idempotent - returns nil if no state exists.
	DeleteRunState() error

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	// Returns nil if healthy, error describing the problem if not.
	HealthCheck() error
}
