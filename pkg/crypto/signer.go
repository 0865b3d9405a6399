package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// PrivateKeyLength is the size of a raw secp256k1 private key.
	PrivateKeyLength = 32

	// SignatureLength is the size of r || s.
	SignatureLength = 64
)

type Backend string

const (
	// BackendGeth signs through go-ethereum, i.e. libsecp256k1 when built with cgo.
	BackendGeth Backend = "geth"

	// BackendDecred signs with the pure Go decred implementation.
	BackendDecred Backend = "decred"
)

// Signature is a recoverable secp256k1 signature.
type Signature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

// Bytes returns r || s.
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureLength)
	out = append(out, s.R[:]...)
	return append(out, s.S[:]...)
}

// RecoverableBytes returns r || s || recoveryId, the layout go-ethereum uses.
func (s Signature) RecoverableBytes() []byte {
	return append(s.Bytes(), s.RecoveryID)
}

// RecoverableSigner produces deterministic (RFC6979) recoverable signatures
// over 32-byte digests.
type RecoverableSigner interface {
	SignRecoverable(digest []byte, privateKey []byte) (Signature, error)
}

// NewRecoverableSigner returns the signer for backend.
func NewRecoverableSigner(backend Backend) (RecoverableSigner, error) {
	switch backend {
	case BackendGeth, "":
		return &gethSigner{}, nil
	case BackendDecred:
		return &decredSigner{}, nil
	default:
		return nil, fmt.Errorf("unsupported signing backend: %s", backend)
	}
}

func checkSignInput(digest []byte, privateKey []byte) error {
	if len(digest) != DigestLength {
		return fmt.Errorf("digest must be %d bytes, got %d", DigestLength, len(digest))
	}
	if len(privateKey) != PrivateKeyLength {
		return fault.ErrInvalidPrivateKey
	}
	return nil
}

// gethSigner caches the last parsed key, the bot signs with one key for its
// whole lifetime.
type gethSigner struct {
	rawKey []byte
	key    *ecdsa.PrivateKey
}

func (g *gethSigner) SignRecoverable(digest []byte, privateKey []byte) (Signature, error) {
	if err := checkSignInput(digest, privateKey); err != nil {
		return Signature{}, err
	}

	if g.key == nil || !bytes.Equal(g.rawKey, privateKey) {
		key, err := ethcrypto.ToECDSA(privateKey)
		if err != nil {
			return Signature{}, fmt.Errorf("%w: %v", fault.ErrInvalidPrivateKey, err)
		}
		g.key = key
		g.rawKey = append(g.rawKey[:0], privateKey...)
	}

	sig, err := ethcrypto.Sign(digest, g.key)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to sign digest: %w", err)
	}

	var out Signature
	copy(out.R[:], sig[:32])
	copy(out.S[:], sig[32:64])
	out.RecoveryID = sig[64]
	return out, nil
}

type decredSigner struct{}

func (d *decredSigner) SignRecoverable(digest []byte, privateKey []byte) (Signature, error) {
	if err := checkSignInput(digest, privateKey); err != nil {
		return Signature{}, err
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(privateKey); overflow || scalar.IsZero() {
		return Signature{}, fault.ErrInvalidPrivateKey
	}
	key := secp256k1.NewPrivateKey(&scalar)

	// compact layout: [27 + recoveryId] || r || s, uncompressed public key
	compact := decredecdsa.SignCompact(key, digest, false)

	var out Signature
	out.RecoveryID = compact[0] - 27
	copy(out.R[:], compact[1:33])
	copy(out.S[:], compact[33:65])
	return out, nil
}

// RecoverAddress returns the address whose key produced sig over digest.
func RecoverAddress(digest []byte, sig Signature) (common.Address, error) {
	pub, err := ethcrypto.SigToPub(digest, sig.RecoverableBytes())
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}
