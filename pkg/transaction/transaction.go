// Package transaction builds and signs legacy (pre-typed) Ethereum
// transactions: a fixed list of nine fields encoded with RLP.
//
// Signing is two-pass. The record is first encoded with v set to the chain
// id and empty r and s; the keccak256 digest of that encoding is signed;
// v, r and s are then replaced by the signature values and the record is
// encoded again. A Transaction can be re-signed any number of times, for
// instance once per candidate gas price.
package transaction

import (
	"math"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/rlp"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/util"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// MainnetChainID is used when no chain id option is given.
const MainnetChainID uint64 = 1

// MaxChainID keeps recoveryId + chainId*2 + 35 inside a uint64.
const MaxChainID uint64 = (math.MaxUint64 - 38) / 2

// Values holds the caller-provided fields as hex strings, the form they
// arrive in from configuration.
type Values struct {
	Nonce    string // QUANTITY
	GasPrice string // QUANTITY
	GasLimit string // QUANTITY
	To       string // DATA
	Value    string // QUANTITY
	Data     string // DATA
}

// Transaction is a mutable legacy transaction record. It is not safe for
// concurrent use.
type Transaction struct {
	chainID uint64

	slots  [FieldCount][]byte
	filled [FieldCount]bool

	buf *rlp.Buffer

	unsigned []byte
	digest   [crypto.DigestLength]byte
	signed   []byte
	dirty    bool
}

type Option func(*Transaction)

// WithChainID sets the EIP-155 chain id mixed into v.
func WithChainID(chainID uint64) Option {
	return func(t *Transaction) {
		t.chainID = chainID
	}
}

func New(opts ...Option) *Transaction {
	t := &Transaction{chainID: MainnetChainID}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transaction) ChainID() uint64 {
	return t.chainID
}

// SetField sets a field from a hex string with an optional 0x prefix.
// Quantities lose their leading zero bytes; data keeps them.
func (t *Transaction) SetField(field Field, hexValue string) error {
	if err := checkField(field); err != nil {
		return err
	}
	value, err := util.HexStringToBuffer(hexValue, field.Kind() == KindQuantity)
	if err != nil {
		return errors.Wrapf(err, "field %s", field)
	}
	return t.set(field, value)
}

// SetFieldBytes sets a field from raw bytes. The bytes are copied.
func (t *Transaction) SetFieldBytes(field Field, value []byte) error {
	if err := checkField(field); err != nil {
		return err
	}
	if field.Kind() == KindQuantity {
		value = util.TrimLeadingZeroes(value)
	}
	return t.set(field, append([]byte{}, value...))
}

// SetFieldUint64 sets a quantity field from a native integer.
func (t *Transaction) SetFieldUint64(field Field, value uint64) error {
	if err := checkField(field); err != nil {
		return err
	}
	if field.Kind() != KindQuantity {
		return errors.Wrapf(fault.ErrNotQuantityField, "field %s", field)
	}
	return t.set(field, util.UintToQuantity(value))
}

// SetFieldUint256 sets a quantity field from a 256-bit integer.
func (t *Transaction) SetFieldUint256(field Field, value *uint256.Int) error {
	if err := checkField(field); err != nil {
		return err
	}
	if field.Kind() != KindQuantity {
		return errors.Wrapf(fault.ErrNotQuantityField, "field %s", field)
	}
	if value == nil {
		value = new(uint256.Int)
	}
	return t.set(field, value.Bytes())
}

// SetFields sets the six caller-owned fields in order.
func (t *Transaction) SetFields(v *Values) error {
	fields := []struct {
		field Field
		value string
	}{
		{Nonce, v.Nonce},
		{GasPrice, v.GasPrice},
		{GasLimit, v.GasLimit},
		{To, v.To},
		{Value, v.Value},
		{Data, v.Data},
	}
	for _, f := range fields {
		if err := t.SetField(f.field, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transaction) set(field Field, value []byte) error {
	if field.IsSignature() {
		return errors.Wrapf(fault.ErrSignatureField, "field %s", field)
	}
	if err := validate(field, value); err != nil {
		return err
	}

	t.slots[field.index()] = value
	t.filled[field.index()] = true
	t.dirty = true
	return nil
}

func validate(field Field, value []byte) error {
	switch {
	case field == To && len(value) != 0 && len(value) != AddressLength:
		return errors.Wrapf(fault.ErrInvalidAddressLen, "got %d bytes", len(value))
	case field.Kind() == KindQuantity && len(value) > MaxQuantityLength:
		return errors.Wrapf(fault.ErrQuantityTooLong, "field %s has %d bytes", field, len(value))
	}
	return nil
}

// Field returns a copy of a field's current bytes.
func (t *Transaction) Field(field Field) ([]byte, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	if !t.filled[field.index()] {
		return nil, errors.Wrapf(fault.ErrFieldsNotFilled, "field %s", field)
	}
	return append([]byte{}, t.slots[field.index()]...), nil
}

// Sign signs the transaction with a raw 32-byte private key and returns the
// signed encoding. The unsigned encoding and its digest stay available
// through UnsignedBytes and SigningHash.
func (t *Transaction) Sign(ctx *crypto.SigningContext, privateKey []byte) ([]byte, error) {
	if ctx == nil {
		return nil, fault.ErrNilSigningContext
	}
	if t.chainID == 0 || t.chainID > MaxChainID {
		return nil, errors.Wrapf(fault.ErrInvalidChainID, "chain id %d", t.chainID)
	}
	for f := Nonce; f <= Data; f++ {
		if !t.filled[f.index()] {
			return nil, errors.Wrapf(fault.ErrFieldsNotFilled, "field %s is not set", f)
		}
	}

	// EIP-155 preimage: v = chainId, r = s = empty
	t.setSignature(util.UintToQuantity(t.chainID), nil, nil)

	unsigned, err := t.encode()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode unsigned transaction")
	}
	digest := ctx.Keccak256(unsigned)

	sig, err := ctx.Sign(digest[:], privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	if sig.RecoveryID > 3 {
		return nil, errors.Wrapf(fault.ErrInvalidRecoveryID, "recovery id %d", sig.RecoveryID)
	}

	v := uint64(sig.RecoveryID) + t.chainID*2 + 35
	t.setSignature(
		util.UintToQuantity(v),
		append([]byte{}, util.TrimLeadingZeroes(sig.R[:])...),
		append([]byte{}, util.TrimLeadingZeroes(sig.S[:])...),
	)

	signed, err := t.encode()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode signed transaction")
	}

	t.unsigned = unsigned
	t.digest = digest
	t.signed = signed
	t.dirty = false

	return append([]byte{}, signed...), nil
}

// SignHex signs with a private key given as 64 hex characters.
func (t *Transaction) SignHex(ctx *crypto.SigningContext, privateKeyHex string) ([]byte, error) {
	key, err := util.HexStringToBuffer(privateKeyHex, false)
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	if len(key) != crypto.PrivateKeyLength {
		return nil, errors.Wrapf(fault.ErrInvalidPrivateKey, "got %d bytes", len(key))
	}
	return t.Sign(ctx, key)
}

func (t *Transaction) setSignature(v, r, s []byte) {
	t.slots[V.index()] = v
	t.slots[R.index()] = r
	t.slots[S.index()] = s
	t.filled[V.index()] = true
	t.filled[R.index()] = true
	t.filled[S.index()] = true
}

// Encode returns the RLP encoding of the current nine fields. All fields,
// signature included, must be set.
func (t *Transaction) Encode() ([]byte, error) {
	for f := Nonce; f <= S; f++ {
		if !t.filled[f.index()] {
			return nil, errors.Wrapf(fault.ErrFieldsNotFilled, "field %s is not set", f)
		}
	}
	return t.encode()
}

// encode serializes all nine slots through the reusable buffer.
func (t *Transaction) encode() ([]byte, error) {
	items := make([]rlp.Item, FieldCount)
	for i := range t.slots {
		items[i] = t.slots[i]
	}

	need := rlp.ListCapacity(items)
	if t.buf == nil || t.buf.Cap() < need {
		buf, err := rlp.NewBuffer(need)
		if err != nil {
			return nil, err
		}
		t.buf = buf
	}
	t.buf.Reset()

	if _, err := rlp.EncodeList(items, t.buf); err != nil {
		return nil, err
	}
	return append([]byte{}, t.buf.Bytes()...), nil
}

// TemplateHash is the keccak256 digest of the chain id and every
// caller-owned field except the gas price. Two transactions with the same
// hash differ at most in gas price and signature.
func (t *Transaction) TemplateHash() ([crypto.DigestLength]byte, error) {
	items := []rlp.Item{util.UintToQuantity(t.chainID)}
	for _, f := range []Field{Nonce, GasLimit, To, Value, Data} {
		if !t.filled[f.index()] {
			return [crypto.DigestLength]byte{}, errors.Wrapf(fault.ErrFieldsNotFilled, "field %s is not set", f)
		}
		items = append(items, t.slots[f.index()])
	}

	encoded, err := rlp.EncodeListToBytes(items)
	if err != nil {
		return [crypto.DigestLength]byte{}, err
	}
	return crypto.NewKeccak256().Hash(encoded), nil
}

// Signed reports whether the last Sign output still reflects the fields.
func (t *Transaction) Signed() bool {
	return t.signed != nil && !t.dirty
}

func (t *Transaction) checkSigned() error {
	if t.signed == nil {
		return fault.ErrNotSigned
	}
	if t.dirty {
		return fault.ErrStaleEncoding
	}
	return nil
}

// Bytes returns the signed encoding.
func (t *Transaction) Bytes() ([]byte, error) {
	if err := t.checkSigned(); err != nil {
		return nil, err
	}
	return append([]byte{}, t.signed...), nil
}

// UnsignedBytes returns the preimage encoding of the last signature.
func (t *Transaction) UnsignedBytes() ([]byte, error) {
	if err := t.checkSigned(); err != nil {
		return nil, err
	}
	return append([]byte{}, t.unsigned...), nil
}

// SigningHash returns the keccak256 digest that was signed.
func (t *Transaction) SigningHash() ([crypto.DigestLength]byte, error) {
	if err := t.checkSigned(); err != nil {
		return [crypto.DigestLength]byte{}, err
	}
	return t.digest, nil
}

// Hex returns the signed encoding as lowercase hex without a 0x prefix.
func (t *Transaction) Hex(nullTerminate bool) (string, error) {
	if err := t.checkSigned(); err != nil {
		return "", err
	}
	return util.BufferToHexString(t.signed, nullTerminate), nil
}

// WriteHex writes the signed encoding as hex into out and returns the
// number of characters written.
func (t *Transaction) WriteHex(out []byte, nullTerminate bool) (int, error) {
	if err := t.checkSigned(); err != nil {
		return 0, err
	}
	return util.WriteHexString(t.signed, out, nullTerminate)
}
