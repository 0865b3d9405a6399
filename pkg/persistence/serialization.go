package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
)

// MarshalPregenEntry serializes a PregenEntry to JSON bytes.
func MarshalPregenEntry(entry *types.PregenEntry) ([]byte, error) {
	if entry == nil {
		return nil, fmt.Errorf("cannot marshal nil PregenEntry")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PregenEntry to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalPregenEntry deserializes a PregenEntry from JSON bytes.
func UnmarshalPregenEntry(data []byte) (*types.PregenEntry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var entry types.PregenEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to PregenEntry: %w", err)
	}

	return &entry, nil
}

// MarshalRunState serializes RunState to JSON bytes.
func MarshalRunState(rs *RunState) ([]byte, error) {
	if rs == nil {
		return nil, fmt.Errorf("cannot marshal nil RunState")
	}

	return json.Marshal(rs)
}

// UnmarshalRunState deserializes RunState from JSON bytes.
func UnmarshalRunState(data []byte) (*RunState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var rs RunState
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to RunState: %w", err)
	}

	return &rs, nil
}
