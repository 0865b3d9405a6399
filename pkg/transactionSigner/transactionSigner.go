package transactionSigner

import (
	"fmt"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transaction"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ITransactionSigner provides methods for signing raw legacy transactions
type ITransactionSigner interface {
	// SignTransaction signs tx and returns its signed RLP encoding
	SignTransaction(tx *transaction.Transaction) ([]byte, error)

	// GetFromAddress returns the address that will be used for signing
	GetFromAddress() common.Address
}

type SignerConfig struct {
	PrivateKey string         `json:"privateKey" toml:"private_key"`
	Backend    crypto.Backend `json:"backend" toml:"backend"`
}

func NewTransactionSigner(cfg *SignerConfig, logger *zap.Logger) (ITransactionSigner, error) {
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	return NewPrivateKeySigner(cfg.PrivateKey, cfg.Backend, logger)
}
