package transaction

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/pkg/errors"
)

// Field identifies one of the nine slots of a legacy transaction, in
// encoding order. Valid fields are 1 through 9.
type Field int

const (
	Nonce Field = iota + 1
	GasPrice
	GasLimit
	To
	Value
	Data
	V
	R
	S
)

// FieldCount is the number of slots in a transaction.
const FieldCount = 9

// Kind tells how a field's bytes are interpreted.
type Kind int

const (
	// KindQuantity is a big-endian integer without leading zero bytes; zero
	// is the empty string.
	KindQuantity Kind = iota
	// KindData is an opaque byte string whose leading zeroes are significant.
	KindData
)

const (
	// AddressLength is the size of the To field when present.
	AddressLength = 20

	// MaxQuantityLength is the size of an EVM word.
	MaxQuantityLength = 32
)

var fieldNames = [FieldCount]string{"nonce", "gasPrice", "gasLimit", "to", "value", "data", "v", "r", "s"}

// Valid reports whether f is one of the nine slots.
func (f Field) Valid() bool {
	return f >= Nonce && f <= S
}

// Kind returns KindData for To and Data and KindQuantity for the rest.
func (f Field) Kind() Kind {
	if f == To || f == Data {
		return KindData
	}
	return KindQuantity
}

// IsSignature reports whether f is written by signing only.
func (f Field) IsSignature() bool {
	return f == V || f == R || f == S
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f-1]
}

func (f Field) index() int {
	return int(f) - 1
}

func checkField(f Field) error {
	if !f.Valid() {
		return errors.Wrapf(fault.ErrFieldOutOfRange, "field %d", int(f))
	}
	return nil
}

// ParseField looks a field up by name, case-insensitively. "gas" is
// accepted as an alias for gasLimit.
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "gas" {
		return GasLimit, nil
	}
	for i, fieldName := range fieldNames {
		if strings.ToLower(fieldName) == n {
			return Field(i + 1), nil
		}
	}
	return 0, errors.Wrapf(fault.ErrInvalidFieldName, "%q", name)
}
