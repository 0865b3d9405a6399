package crypto

import (
	"bytes"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/logger"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func testPrivateKey(t *testing.T) []byte {
	t.Helper()
	key, err := hex.DecodeString(testPrivateKeyHex)
	require.NoError(t, err)
	return key
}

func newTestContext(t *testing.T, backend Backend) *SigningContext {
	t.Helper()
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	ctx, err := NewSigningContext(backend, l)
	require.NoError(t, err)
	return ctx
}

func TestKeccak256(t *testing.T) {
	k := NewKeccak256()

	empty := k.Hash(nil)
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(empty[:]))

	// the sponge is reset between calls
	first := k.Hash([]byte("hello"))
	second := k.Hash([]byte("hello"))
	assert.Equal(t, first, second)
	assert.Equal(t, ethcrypto.Keccak256([]byte("hello")), first[:])
}

func TestNewSigningContext(t *testing.T) {
	t.Run("Should default to the geth backend", func(t *testing.T) {
		ctx, err := NewSigningContext("", nil)
		require.NoError(t, err)
		assert.Equal(t, BackendGeth, ctx.Backend())
	})

	t.Run("Should reject unknown backends", func(t *testing.T) {
		_, err := NewSigningContext("openssl", nil)
		require.Error(t, err)
	})
}

func TestSigningContext_Sign(t *testing.T) {
	key := testPrivateKey(t)
	ecdsaKey, err := ethcrypto.ToECDSA(key)
	require.NoError(t, err)
	expectedAddress := ethcrypto.PubkeyToAddress(ecdsaKey.PublicKey)

	for _, backend := range []Backend{BackendGeth, BackendDecred} {
		t.Run(string(backend), func(t *testing.T) {
			ctx := newTestContext(t, backend)
			digest := ctx.Keccak256([]byte("transaction preimage"))

			sig, err := ctx.Sign(digest[:], key)
			require.NoError(t, err)
			assert.LessOrEqual(t, sig.RecoveryID, byte(1))
			assert.Len(t, sig.Bytes(), SignatureLength)
			assert.Len(t, sig.RecoverableBytes(), SignatureLength+1)

			addr, err := RecoverAddress(digest[:], sig)
			require.NoError(t, err)
			assert.Equal(t, expectedAddress, addr)

			again, err := ctx.Sign(digest[:], key)
			require.NoError(t, err)
			assert.Equal(t, sig, again, "signatures must be deterministic")
		})
	}
}

func TestSigningContext_BackendsAgree(t *testing.T) {
	key := testPrivateKey(t)
	geth := newTestContext(t, BackendGeth)
	decred := newTestContext(t, BackendDecred)

	for i := 0; i < 16; i++ {
		digest := geth.Keccak256([]byte{byte(i)})

		a, err := geth.Sign(digest[:], key)
		require.NoError(t, err)
		b, err := decred.Sign(digest[:], key)
		require.NoError(t, err)
		require.Equal(t, a, b, "digest %d", i)
	}
}

func TestSigningContext_SignErrors(t *testing.T) {
	for _, backend := range []Backend{BackendGeth, BackendDecred} {
		t.Run(string(backend), func(t *testing.T) {
			ctx := newTestContext(t, backend)
			digest := ctx.Keccak256(nil)

			_, err := ctx.Sign(digest[:], []byte{1, 2, 3})
			assert.True(t, fault.IsErrInvalid(err))

			_, err = ctx.Sign(digest[:], make([]byte, PrivateKeyLength))
			assert.True(t, fault.IsErrInvalid(err))

			_, err = ctx.Sign(digest[:], bytes.Repeat([]byte{0xff}, PrivateKeyLength))
			assert.True(t, fault.IsErrInvalid(err))

			_, err = ctx.Sign(digest[:16], testPrivateKey(t))
			assert.Error(t, err)
		})
	}
}

func TestSigningContext_ConcurrentUse(t *testing.T) {
	key := testPrivateKey(t)
	ctx := newTestContext(t, BackendGeth)
	digest := ctx.Keccak256([]byte("shared"))
	want, err := ctx.Sign(digest[:], key)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := ctx.Keccak256([]byte("shared"))
			got, err := ctx.Sign(d[:], key)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
