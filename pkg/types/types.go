package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// SigningKeyVersion is one signing key known to the bot
type SigningKeyVersion struct {
	Version    int64          // Unix timestamp of when this key was loaded
	PrivateKey []byte         // Raw 32-byte secp256k1 key
	Address    common.Address // Address derived from PrivateKey
	IsActive   bool           // Whether transactions are signed with this key
}

// PregenEntry is a signed transaction prepared ahead of time for one gas price
type PregenEntry struct {
	GasPriceWei    string `json:"gasPriceWei"`    // decimal wei
	RawTransaction string `json:"rawTransaction"` // signed RLP encoding, lowercase hex without 0x
	Message        string `json:"message"`        // relay message carrying RawTransaction
	CreatedAt      int64  `json:"createdAt"`      // Unix seconds
}
