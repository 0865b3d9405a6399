package util

import (
	"math/bits"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/pkg/errors"
)

// MaxUint64Bytes is the longest minimal big-endian form of a uint64.
const MaxUint64Bytes = 8

// IntByteLength returns how many bytes IntToBuffer writes for x.
func IntByteLength(x uint64) int {
	if x == 0 {
		return 1
	}
	return (bits.Len64(x) + 7) / 8
}

// IntToBuffer writes the minimal big-endian representation of x to the
// start of out and returns the number of bytes written. Zero is written as
// a single zero byte.
func IntToBuffer(x uint64, out []byte) (int, error) {
	n := IntByteLength(x)
	if len(out) < n {
		return 0, errors.Wrapf(fault.ErrBufferOverflow, "integer needs %d bytes, have %d", n, len(out))
	}
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(x)
		x >>= 8
	}
	return n, nil
}

// UintToQuantity returns x as a quantity: big-endian with no leading zero
// bytes, and the empty slice for zero.
func UintToQuantity(x uint64) []byte {
	if x == 0 {
		return []byte{}
	}
	var buf [MaxUint64Bytes]byte
	n, _ := IntToBuffer(x, buf[:])
	return append([]byte{}, buf[:n]...)
}

// MostSignificantNonZeroByte returns the highest non-zero byte of x, or 0 for x == 0.
func MostSignificantNonZeroByte(x uint64) byte {
	if x == 0 {
		return 0
	}
	return byte(x >> (8 * uint(IntByteLength(x)-1)))
}

// TrimLeadingZeroes returns b without its leading zero bytes. The result
// shares b's backing array.
func TrimLeadingZeroes(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}
