package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
	"go.uber.org/zap"
)

// MemoryPersistence is an in-memory implementation of IPregenPersistence.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Copies entries to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Entries: normalized gas price key -> entry
	entries map[string]*types.PregenEntry

	runState *persistence.RunState

	closed bool
}

var _ persistence.IPregenPersistence = (*MemoryPersistence)(nil)

// NewMemoryPersistence creates a new in-memory persistence layer.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory persistence - pregenerated transactions will be lost on restart")
	}

	return &MemoryPersistence{
		entries: make(map[string]*types.PregenEntry),
	}
}

// SaveEntry persists a pregenerated entry.
func (m *MemoryPersistence) SaveEntry(entry *types.PregenEntry) error {
	if entry == nil {
		return fmt.Errorf("cannot save nil PregenEntry")
	}

	key, err := persistence.GasPriceKey(entry.GasPriceWei)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	copied := *entry
	m.entries[key] = &copied
	return nil
}

// LoadEntry retrieves the entry for a gas price.
func (m *MemoryPersistence) LoadEntry(gasPriceWei string) (*types.PregenEntry, error) {
	key, err := persistence.GasPriceKey(gasPriceWei)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	entry, exists := m.entries[key]
	if !exists {
		return nil, nil
	}

	copied := *entry
	return &copied, nil
}

// ListEntries returns all entries sorted by gas price.
func (m *MemoryPersistence) ListEntries() ([]*types.PregenEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	// fixed width hex keys sort numerically
	sort.Strings(keys)

	result := make([]*types.PregenEntry, 0, len(keys))
	for _, key := range keys {
		copied := *m.entries[key]
		result = append(result, &copied)
	}

	return result, nil
}

// DeleteEntry removes the entry for a gas price.
func (m *MemoryPersistence) DeleteEntry(gasPriceWei string) error {
	key, err := persistence.GasPriceKey(gasPriceWei)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	delete(m.entries, key)
	return nil
}

// SaveRunState stores the last run state.
func (m *MemoryPersistence) SaveRunState(state *persistence.RunState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil RunState")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	copied := *state
	m.runState = &copied
	return nil
}

// LoadRunState retrieves the last run state.
func (m *MemoryPersistence) LoadRunState() (*persistence.RunState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	if m.runState == nil {
		return nil, nil
	}
	copied := *m.runState
	return &copied, nil
}

// DeleteRunState removes the run state.
func (m *MemoryPersistence) DeleteRunState() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.runState = nil
	return nil
}

// Close marks the persistence layer as closed.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}
	return nil
}
