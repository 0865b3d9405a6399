package util

import (
	"strings"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/pkg/errors"
)

const hexDigits = "0123456789abcdef"

// HexCharToByte converts a single hex digit, case-insensitively, to its value.
func HexCharToByte(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, errors.Wrapf(fault.ErrMalformedHex, "invalid hex character %q", c)
}

// ByteToHexChar converts a nibble to a lowercase hex digit. Values above 15 map to '0'.
func ByteToHexChar(b byte) byte {
	if b > 15 {
		return '0'
	}
	return hexDigits[b]
}

// HexStringToBuffer decodes a hex string with an optional 0x prefix.
//
// An odd number of digits is read as if the string had a leading zero, so
// "abc" decodes to {0x0a, 0xbc}. When stripLeadingZeroes is set the result
// has quantity semantics: leading zero bytes are dropped and zero becomes the
// empty buffer.
func HexStringToBuffer(s string, stripLeadingZeroes bool) ([]byte, error) {
	s = TrimHexPrefix(s)
	out := make([]byte, (len(s)+1)/2)

	i, o := 0, 0
	if len(s)%2 == 1 {
		lo, err := HexCharToByte(s[0])
		if err != nil {
			return nil, err
		}
		out[o] = lo
		i, o = 1, 1
	}
	for ; i < len(s); i, o = i+2, o+1 {
		hi, err := HexCharToByte(s[i])
		if err != nil {
			return nil, err
		}
		lo, err := HexCharToByte(s[i+1])
		if err != nil {
			return nil, err
		}
		out[o] = hi<<4 | lo
	}

	if stripLeadingZeroes {
		return TrimLeadingZeroes(out), nil
	}
	return out, nil
}

// TrimHexPrefix removes a single leading "0x" or "0X".
func TrimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// WriteHexString writes two lowercase hex characters per byte of b into out,
// followed by a NUL when nullTerminate is set. It returns the number of
// characters written, including the terminator.
func WriteHexString(b []byte, out []byte, nullTerminate bool) (int, error) {
	n := len(b) * 2
	if nullTerminate {
		n++
	}
	if len(out) < n {
		return 0, errors.Wrapf(fault.ErrHexOutputOverflow, "need %d bytes, have %d", n, len(out))
	}

	for i, v := range b {
		out[2*i] = ByteToHexChar(v >> 4)
		out[2*i+1] = ByteToHexChar(v & 0x0f)
	}
	if nullTerminate {
		out[n-1] = 0
	}
	return n, nil
}

// BufferToHexString returns the lowercase, even-length hex form of b.
func BufferToHexString(b []byte, nullTerminate bool) string {
	n := len(b) * 2
	if nullTerminate {
		n++
	}
	out := make([]byte, n)
	// out is sized for the worst case, so the write cannot fail
	_, _ = WriteHexString(b, out, nullTerminate)
	return string(out)
}
