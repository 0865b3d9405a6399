package persistence

import (
	"strings"
	"testing"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMarshalUnmarshalPregenEntry_RoundTrip tests JSON marshaling/unmarshaling
func TestMarshalUnmarshalPregenEntry_RoundTrip(t *testing.T) {
	original := &types.PregenEntry{
		GasPriceWei:    "120500000000",
		RawTransaction: "f86a8086d55698372431831e848094f0109fc8df283027b6285cc889f5aa624eac1f55843b9aca008025",
		Message:        `{"method":"blxr_tx","params":{"transaction":"f86a"}}`,
		CreatedAt:      1700000000,
	}

	data, err := MarshalPregenEntry(original)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	restored, err := UnmarshalPregenEntry(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

// TestMarshalPregenEntry_NilInput tests error handling for nil input
func TestMarshalPregenEntry_NilInput(t *testing.T) {
	_, err := MarshalPregenEntry(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil PregenEntry")
}

// TestUnmarshalPregenEntry_InvalidJSON tests error handling for invalid JSON
func TestUnmarshalPregenEntry_InvalidJSON(t *testing.T) {
	_, err := UnmarshalPregenEntry([]byte(`{"createdAt": "not a number"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")

	_, err = UnmarshalPregenEntry([]byte{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty data")
}

// TestMarshalUnmarshalRunState_RoundTrip tests RunState serialization
func TestMarshalUnmarshalRunState_RoundTrip(t *testing.T) {
	original := &RunState{
		FromGwei:      100,
		ToGwei:        200,
		Decimals:      10,
		ChainID:       1,
		SignerAddress: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
		TemplateHash:  "5c1b0e3b4f2ad0c8b7d3f9d8e3a1c2b4",
		EntryCount:    1001,
		CompletedAt:   1700000000,
	}

	data, err := MarshalRunState(original)
	require.NoError(t, err)

	restored, err := UnmarshalRunState(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
	assert.True(t, original.Matches(restored))

	restored.Decimals = 100
	assert.False(t, original.Matches(restored))

	restored.Decimals = original.Decimals
	restored.TemplateHash = "other"
	assert.False(t, original.Matches(restored))
	assert.False(t, original.Matches(nil))

	_, err = MarshalRunState(nil)
	require.Error(t, err)
}

func TestGasPriceKey(t *testing.T) {
	a, err := GasPriceKey("9")
	require.NoError(t, err)
	b, err := GasPriceKey("10")
	require.NoError(t, err)
	c, err := GasPriceKey("0010")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.True(t, strings.Compare(a, b) < 0, "keys must sort numerically")
	assert.Equal(t, b, c)

	for _, bad := range []string{"", "-1", "0x10", "1.5"} {
		_, err := GasPriceKey(bad)
		assert.Error(t, err, bad)
	}
}
