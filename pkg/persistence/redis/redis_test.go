package redis

import (
	"fmt"
	"os"
	"testing"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestRedisAddress returns the Redis address for testing.
// Uses REDIS_TEST_ADDRESS env var if set, otherwise defaults to localhost:6379.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireRedis skips the test if Redis is not available. Each test gets its
// own key prefix so runs never see each other's entries.
func requireRedis(t *testing.T) *RedisPersistence {
	t.Helper()

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	cfg := &RedisConfig{
		Address:   getTestRedisAddress(),
		DB:        15,
		KeyPrefix: "test-" + uuid.NewString() + ":",
	}

	rp, err := NewRedisPersistence(cfg, testLogger)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
		return nil
	}

	t.Cleanup(func() { cleanupRedis(t, rp) })
	return rp
}

// cleanupRedis removes every key written under the test prefix
func cleanupRedis(t *testing.T, rp *RedisPersistence) {
	t.Helper()
	if rp.closed {
		return
	}
	entries, err := rp.ListEntries()
	if err == nil {
		for _, e := range entries {
			_ = rp.DeleteEntry(e.GasPriceWei)
		}
	}
	ctx := t.Context()
	_ = rp.client.Del(ctx, rp.prefixKey(keyRunState), rp.prefixKey(keySchemaVersion), rp.prefixKey(keySetEntries)).Err()
	_ = rp.Close()
}

func testEntry(gasPriceWei string) *types.PregenEntry {
	return &types.PregenEntry{
		GasPriceWei:    gasPriceWei,
		RawTransaction: "f86a" + gasPriceWei,
		Message:        fmt.Sprintf(`{"method":"blxr_tx","params":{"transaction":"f86a%s"}}`, gasPriceWei),
		CreatedAt:      1700000000,
	}
}

func TestNewRedisPersistence_InvalidConfig(t *testing.T) {
	_, err := NewRedisPersistence(nil, nil)
	require.Error(t, err)

	_, err = NewRedisPersistence(&RedisConfig{}, nil)
	require.Error(t, err)
}

func TestRedisPersistence_Entries(t *testing.T) {
	rp := requireRedis(t)

	loaded, err := rp.LoadEntry("1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	for _, gp := range []string{"1000000000", "90000000", "200000000000"} {
		require.NoError(t, rp.SaveEntry(testEntry(gp)))
	}

	loaded, err = rp.LoadEntry("90000000")
	require.NoError(t, err)
	assert.Equal(t, testEntry("90000000"), loaded)

	entries, err := rp.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "90000000", entries[0].GasPriceWei)
	assert.Equal(t, "1000000000", entries[1].GasPriceWei)
	assert.Equal(t, "200000000000", entries[2].GasPriceWei)

	require.NoError(t, rp.DeleteEntry("90000000"))
	require.NoError(t, rp.DeleteEntry("90000000"))
	entries, err = rp.ListEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Error(t, rp.SaveEntry(nil))
	assert.Error(t, rp.SaveEntry(testEntry("x")))
}

func TestRedisPersistence_RunState(t *testing.T) {
	rp := requireRedis(t)

	state, err := rp.LoadRunState()
	require.NoError(t, err)
	assert.Nil(t, state)

	want := &persistence.RunState{FromGwei: 5, ToGwei: 6, Decimals: 100, ChainID: 1, EntryCount: 101}
	require.NoError(t, rp.SaveRunState(want))

	state, err = rp.LoadRunState()
	require.NoError(t, err)
	assert.Equal(t, want, state)

	require.NoError(t, rp.DeleteRunState())
	state, err = rp.LoadRunState()
	require.NoError(t, err)
	assert.Nil(t, state)
	require.NoError(t, rp.DeleteRunState(), "idempotent")
}

func TestRedisPersistence_HealthCheckAndClose(t *testing.T) {
	rp := requireRedis(t)

	require.NoError(t, rp.HealthCheck())
	require.NoError(t, rp.Close())
	require.NoError(t, rp.Close())

	assert.Error(t, rp.HealthCheck())
	assert.Error(t, rp.SaveEntry(testEntry("1")))
	_, err := rp.ListEntries()
	assert.Error(t, err)
}
