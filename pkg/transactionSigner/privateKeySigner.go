package transactionSigner

import (
	"fmt"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/keystore"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transaction"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// PrivateKeySigner implements ITransactionSigner with a locally held key
type PrivateKeySigner struct {
	keyStore    *keystore.KeyStore
	signingCtx  *crypto.SigningContext
	fromAddress common.Address
	logger      *zap.Logger
}

// NewPrivateKeySigner creates a signer for a hex encoded private key
func NewPrivateKeySigner(privateKey string, backend crypto.Backend, logger *zap.Logger) (*PrivateKeySigner, error) {
	ks, err := keystore.NewKeyStoreFromHex(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	return NewKeyStoreSigner(ks, backend, logger)
}

// NewKeyStoreSigner creates a signer that always signs with the active key of ks
func NewKeyStoreSigner(ks *keystore.KeyStore, backend crypto.Backend, logger *zap.Logger) (*PrivateKeySigner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	signingCtx, err := crypto.NewSigningContext(backend, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create signing context: %w", err)
	}

	fromAddress, err := ks.Address()
	if err != nil {
		return nil, err
	}

	logger.Sugar().Infow("Created private key signer",
		zap.String("address", fromAddress.Hex()),
		zap.String("backend", string(signingCtx.Backend())),
	)

	return &PrivateKeySigner{
		keyStore:    ks,
		signingCtx:  signingCtx,
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SignTransaction signs tx with the active key
func (pks *PrivateKeySigner) SignTransaction(tx *transaction.Transaction) ([]byte, error) {
	key, err := pks.keyStore.GetActivePrivateKey()
	if err != nil {
		return nil, err
	}

	signed, err := tx.Sign(pks.signingCtx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	pks.logger.Sugar().Debugw("Signed transaction",
		zap.Uint64("chainId", tx.ChainID()),
		zap.Int("length", len(signed)),
	)
	return signed, nil
}

// GetFromAddress returns the address that will be used for signing
func (pks *PrivateKeySigner) GetFromAddress() common.Address {
	addr, err := pks.keyStore.Address()
	if err != nil {
		return pks.fromAddress
	}
	return addr
}

// RotateKey stages hexKey in the key store and activates it. Later
// signatures use the new key; on failure the active key is unchanged.
func (pks *PrivateKeySigner) RotateKey(hexKey string) error {
	raw, err := keystore.ParsePrivateKey(hexKey)
	if err != nil {
		return err
	}
	next, err := keystore.NewKeyVersion(raw)
	if err != nil {
		return err
	}

	previous := pks.GetFromAddress()
	pks.keyStore.SetPendingVersion(next)
	if err := pks.keyStore.ActivatePendingVersion(); err != nil {
		pks.keyStore.ClearPendingVersion()
		return fmt.Errorf("failed to activate key: %w", err)
	}

	pks.logger.Sugar().Infow("Rotated signing key",
		zap.String("previous", previous.Hex()),
		zap.String("address", next.Address.Hex()),
	)
	return nil
}
