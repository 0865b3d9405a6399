package keystore

import (
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ParsePrivateKey decodes a 64 character hex key, with or without 0x, and
// checks that it is a valid secp256k1 scalar.
func ParsePrivateKey(hexKey string) ([]byte, error) {
	raw, err := util.HexStringToBuffer(hexKey, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode private key")
	}
	if len(raw) != crypto.PrivateKeyLength {
		return nil, errors.Wrapf(fault.ErrInvalidPrivateKey, "expected %d bytes, got %d", crypto.PrivateKeyLength, len(raw))
	}
	if _, err := ethcrypto.ToECDSA(raw); err != nil {
		return nil, errors.Wrapf(fault.ErrInvalidPrivateKey, "%v", err)
	}
	return raw, nil
}

// NewKeyVersion builds a key version from a raw private key
func NewKeyVersion(privateKey []byte) (*types.SigningKeyVersion, error) {
	key, err := ethcrypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrapf(fault.ErrInvalidPrivateKey, "%v", err)
	}
	return &types.SigningKeyVersion{
		Version:    time.Now().Unix(),
		PrivateKey: append([]byte{}, privateKey...),
		Address:    addressOf(key),
	}, nil
}

func addressOf(key *ecdsa.PrivateKey) common.Address {
	return ethcrypto.PubkeyToAddress(key.PublicKey)
}

// KeyStore manages signing keys and provides thread-safe access
type KeyStore struct {
	mu sync.RWMutex

	keyVersions    []*types.SigningKeyVersion
	activeVersion  *types.SigningKeyVersion
	pendingVersion *types.SigningKeyVersion
}

// NewKeyStore creates a new key store
func NewKeyStore() *KeyStore {
	return &KeyStore{
		keyVersions: make([]*types.SigningKeyVersion, 0),
	}
}

// NewKeyStoreFromHex creates a key store whose active key is hexKey
func NewKeyStoreFromHex(hexKey string) (*KeyStore, error) {
	raw, err := ParsePrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	version, err := NewKeyVersion(raw)
	if err != nil {
		return nil, err
	}
	version.IsActive = true

	ks := NewKeyStore()
	ks.AddVersion(version)
	return ks, nil
}

// AddVersion adds a new key version
func (ks *KeyStore) AddVersion(version *types.SigningKeyVersion) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.keyVersions = append(ks.keyVersions, version)
	if version.IsActive {
		if ks.activeVersion != nil {
			ks.activeVersion.IsActive = false
		}
		ks.activeVersion = version
	}
}

// GetActiveVersion returns the currently active key version
func (ks *KeyStore) GetActiveVersion() *types.SigningKeyVersion {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	return ks.activeVersion
}

// GetActivePrivateKey returns a copy of the active private key
func (ks *KeyStore) GetActivePrivateKey() ([]byte, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if ks.activeVersion == nil {
		return nil, fmt.Errorf("no active key version")
	}
	return append([]byte{}, ks.activeVersion.PrivateKey...), nil
}

// Address returns the address of the active key
func (ks *KeyStore) Address() (common.Address, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if ks.activeVersion == nil {
		return common.Address{}, fmt.Errorf("no active key version")
	}
	return ks.activeVersion.Address, nil
}

// SetPendingVersion stages a key to replace the active one
func (ks *KeyStore) SetPendingVersion(version *types.SigningKeyVersion) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.pendingVersion = version
}

// ActivatePendingVersion activates the pending version
func (ks *KeyStore) ActivatePendingVersion() error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.pendingVersion == nil {
		return fmt.Errorf("no pending version to activate")
	}

	ks.pendingVersion.IsActive = true
	if ks.activeVersion != nil {
		ks.activeVersion.IsActive = false
	}
	ks.activeVersion = ks.pendingVersion
	ks.keyVersions = append(ks.keyVersions, ks.pendingVersion)
	ks.pendingVersion = nil

	return nil
}

// ClearPendingVersion clears the pending version
func (ks *KeyStore) ClearPendingVersion() {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.pendingVersion = nil
}
