package crypto

import (
	"sync"

	"go.uber.org/zap"
)

// SigningContext owns the state that is expensive to build and is reused by
// every signature a process makes: the signing backend with its parsed key
// cache, and a keccak256 sponge.
//
// Create one per process and pass it to every Sign call. Calls are
// serialized by an internal mutex; give each goroutine its own context when
// signing throughput matters.
type SigningContext struct {
	mu      sync.Mutex
	backend Backend
	hasher  *Keccak256
	signer  RecoverableSigner
	logger  *zap.Logger
}

func NewSigningContext(backend Backend, logger *zap.Logger) (*SigningContext, error) {
	if backend == "" {
		backend = BackendGeth
	}
	signer, err := NewRecoverableSigner(backend)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Sugar().Debugw("Created signing context", "backend", backend)

	return &SigningContext{
		backend: backend,
		hasher:  NewKeccak256(),
		signer:  signer,
		logger:  logger,
	}, nil
}

func (c *SigningContext) Backend() Backend {
	return c.backend
}

// Keccak256 hashes data with the context's sponge.
func (c *SigningContext) Keccak256(data []byte) [DigestLength]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hasher.Hash(data)
}

// Sign produces a recoverable signature over a 32-byte digest.
func (c *SigningContext) Sign(digest []byte, privateKey []byte) (Signature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sig, err := c.signer.SignRecoverable(digest, privateKey)
	if err != nil {
		c.logger.Sugar().Debugw("Failed to sign digest", "backend", c.backend, "error", err)
		return Signature{}, err
	}
	return sig, nil
}
