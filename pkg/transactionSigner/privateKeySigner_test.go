package transactionSigner

import (
	"math/big"
	"testing"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transaction"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress       = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

func newTestTransaction(t *testing.T, chainID uint64) *transaction.Transaction {
	t.Helper()
	tx := transaction.New(transaction.WithChainID(chainID))
	require.NoError(t, tx.SetFields(&transaction.Values{
		Nonce:    "0",
		GasPrice: "D55698372431",
		GasLimit: "1E8480",
		To:       "F0109fC8DF283027b6285cc889F5aA624EaC1F55",
		Value:    "3B9ACA00",
	}))
	return tx
}

func Test_NewTransactionSigner(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: true})
	require.NoError(t, err)

	t.Run("Should reject an empty key", func(t *testing.T) {
		_, err := NewTransactionSigner(&SignerConfig{}, l)
		require.Error(t, err)
	})

	t.Run("Should reject a malformed key", func(t *testing.T) {
		_, err := NewTransactionSigner(&SignerConfig{PrivateKey: "0x1234"}, l)
		require.Error(t, err)
	})

	for _, backend := range []crypto.Backend{crypto.BackendGeth, crypto.BackendDecred} {
		t.Run("Should sign with "+string(backend), func(t *testing.T) {
			signer, err := NewTransactionSigner(&SignerConfig{PrivateKey: testPrivateKeyHex, Backend: backend}, l)
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress(testAddress), signer.GetFromAddress())

			for _, chainID := range []uint64{1, 31337} {
				signed, err := signer.SignTransaction(newTestTransaction(t, chainID))
				require.NoError(t, err)

				var decoded types.Transaction
				require.NoError(t, decoded.UnmarshalBinary(signed))
				sender, err := types.Sender(types.NewEIP155Signer(new(big.Int).SetUint64(chainID)), &decoded)
				require.NoError(t, err)
				assert.Equal(t, signer.GetFromAddress(), sender)
			}
		})
	}
}

func Test_RotateKey(t *testing.T) {
	signer, err := NewPrivateKeySigner(testPrivateKeyHex, crypto.BackendGeth, nil)
	require.NoError(t, err)

	t.Run("Should keep the active key on a bad key", func(t *testing.T) {
		require.Error(t, signer.RotateKey("0x1234"))
		assert.Equal(t, common.HexToAddress(testAddress), signer.GetFromAddress())
	})

	t.Run("Should sign with the rotated key", func(t *testing.T) {
		next := common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
		require.NoError(t, signer.RotateKey("0x0000000000000000000000000000000000000000000000000000000000000001"))
		assert.Equal(t, next, signer.GetFromAddress())

		signed, err := signer.SignTransaction(newTestTransaction(t, 1))
		require.NoError(t, err)

		var decoded types.Transaction
		require.NoError(t, decoded.UnmarshalBinary(signed))
		sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(1)), &decoded)
		require.NoError(t, err)
		assert.Equal(t, next, sender)
	})
}
