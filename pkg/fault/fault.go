// Package fault holds the error classes shared by the codec, the transaction
// builder and the signing layer.
//
// Errors are compared by class rather than by value so callers can wrap them
// with extra context and still classify them with IsErrPrecondition,
// IsErrInvalid and IsErrOverflow.
package fault

import "errors"

// PreconditionError is returned when an operation is attempted in a state
// that does not allow it, e.g. encoding before all fields are populated.
type PreconditionError string

// InvalidError is returned for malformed caller input, e.g. non-hex characters.
type InvalidError string

// OverflowError is returned when a write would exceed a buffer's capacity.
type OverflowError string

// common errors - keep in alphabetic order within a class
var (
	ErrFieldOutOfRange    = PreconditionError("field index out of range")
	ErrFieldsNotFilled    = PreconditionError("previous fields have not been filled")
	ErrNilSigningContext  = PreconditionError("signing context is required")
	ErrNotSigned          = PreconditionError("transaction has not been signed")
	ErrSignatureField     = PreconditionError("signature fields are set by signing only")
	ErrStaleEncoding      = PreconditionError("transaction modified since last signing")
	ErrInvalidAddressLen  = InvalidError("address must be 20 bytes")
	ErrInvalidChainID     = InvalidError("chain id must be positive")
	ErrInvalidFieldName   = InvalidError("unknown field name")
	ErrInvalidPrivateKey  = InvalidError("private key must be 32 bytes")
	ErrInvalidRecoveryID  = InvalidError("recovery id out of range")
	ErrMalformedHex       = InvalidError("malformed hex string")
	ErrNotQuantityField   = InvalidError("field does not hold a quantity")
	ErrQuantityTooLong    = InvalidError("quantity exceeds 32 bytes")
	ErrBufferOverflow     = OverflowError("buffer capacity exceeded")
	ErrHexOutputOverflow  = OverflowError("hex output buffer too small")
	ErrNegativeBufferSize = OverflowError("buffer size must not be negative")
)

func (e PreconditionError) Error() string { return string(e) }
func (e InvalidError) Error() string      { return string(e) }
func (e OverflowError) Error() string     { return string(e) }

// IsErrPrecondition reports whether err, or anything it wraps, is a PreconditionError.
func IsErrPrecondition(err error) bool {
	var e PreconditionError
	return errors.As(err, &e)
}

// IsErrInvalid reports whether err, or anything it wraps, is an InvalidError.
func IsErrInvalid(err error) bool {
	var e InvalidError
	return errors.As(err, &e)
}

// IsErrOverflow reports whether err, or anything it wraps, is an OverflowError.
func IsErrOverflow(err error) bool {
	var e OverflowError
	return errors.As(err, &e)
}
