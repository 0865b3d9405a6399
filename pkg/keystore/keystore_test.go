package keystore

import (
	"testing"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress       = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	otherKeyHex       = "0x0000000000000000000000000000000000000000000000000000000000000001"
)

func Test_ParsePrivateKey(t *testing.T) {
	t.Run("Should accept a key with or without prefix", func(t *testing.T) {
		a, err := ParsePrivateKey(testPrivateKeyHex)
		require.NoError(t, err)
		b, err := ParsePrivateKey("0x" + testPrivateKeyHex)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, 32)
	})

	t.Run("Should reject bad keys", func(t *testing.T) {
		for _, k := range []string{
			"",
			"4c08",
			"0x0000000000000000000000000000000000000000000000000000000000000000",
			"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
			"xx0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		} {
			_, err := ParsePrivateKey(k)
			assert.True(t, fault.IsErrInvalid(err), k)
		}
	})
}

func Test_KeyStore(t *testing.T) {
	ks, err := NewKeyStoreFromHex(testPrivateKeyHex)
	require.NoError(t, err)

	addr, err := ks.Address()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddress), addr)

	key, err := ks.GetActivePrivateKey()
	require.NoError(t, err)
	key[0] = 0
	again, err := ks.GetActivePrivateKey()
	require.NoError(t, err)
	assert.Equal(t, byte(0x4c), again[0], "returned key must be a copy")

	t.Run("Should rotate through a pending version", func(t *testing.T) {
		raw, err := ParsePrivateKey(otherKeyHex)
		require.NoError(t, err)
		next, err := NewKeyVersion(raw)
		require.NoError(t, err)

		previous := ks.GetActiveVersion()
		ks.SetPendingVersion(next)
		assert.Equal(t, previous, ks.GetActiveVersion(), "pending key is not used until activated")

		require.NoError(t, ks.ActivatePendingVersion())
		assert.Equal(t, next, ks.GetActiveVersion())
		assert.True(t, next.IsActive)
		assert.False(t, previous.IsActive)
		assert.Error(t, ks.ActivatePendingVersion(), "pending version is consumed")

		addr, err := ks.Address()
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"), addr)
	})

	t.Run("Should drop a cleared pending version", func(t *testing.T) {
		raw, err := ParsePrivateKey(testPrivateKeyHex)
		require.NoError(t, err)
		next, err := NewKeyVersion(raw)
		require.NoError(t, err)

		ks.SetPendingVersion(next)
		ks.ClearPendingVersion()
		assert.Error(t, ks.ActivatePendingVersion())
		assert.NotEqual(t, next, ks.GetActiveVersion())
	})
}

func Test_EmptyKeyStore(t *testing.T) {
	ks := NewKeyStore()
	_, err := ks.Address()
	assert.Error(t, err)
	_, err = ks.GetActivePrivateKey()
	assert.Error(t, err)
	assert.Nil(t, ks.GetActiveVersion())
}
