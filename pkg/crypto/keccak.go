package crypto

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// DigestLength is the size of a keccak256 digest.
const DigestLength = 32

// Keccak256 is a reusable legacy (pre-NIST padding) keccak256 sponge, the
// hash Ethereum signs transactions over. It is not safe for concurrent use.
type Keccak256 struct {
	state hash.Hash
}

func NewKeccak256() *Keccak256 {
	return &Keccak256{state: sha3.NewLegacyKeccak256()}
}

// Hash returns the keccak256 digest of data, resetting the sponge first.
func (k *Keccak256) Hash(data []byte) [DigestLength]byte {
	var out [DigestLength]byte
	k.state.Reset()
	_, _ = k.state.Write(data)
	k.state.Sum(out[:0])
	return out
}
