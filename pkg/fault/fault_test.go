package fault

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFault_Classes(t *testing.T) {
	assert.True(t, IsErrPrecondition(ErrFieldOutOfRange))
	assert.False(t, IsErrInvalid(ErrFieldOutOfRange))
	assert.False(t, IsErrOverflow(ErrFieldOutOfRange))

	assert.True(t, IsErrInvalid(ErrMalformedHex))
	assert.False(t, IsErrPrecondition(ErrMalformedHex))

	assert.True(t, IsErrOverflow(ErrBufferOverflow))
	assert.False(t, IsErrInvalid(ErrBufferOverflow))
}

func TestFault_WrappedErrorsKeepClass(t *testing.T) {
	wrapped := errors.Wrapf(ErrMalformedHex, "field %s", "gasPrice")
	assert.True(t, IsErrInvalid(wrapped))
	assert.Equal(t, "field gasPrice: malformed hex string", wrapped.Error())

	stdWrapped := fmt.Errorf("encode list: %w", ErrBufferOverflow)
	assert.True(t, IsErrOverflow(stdWrapped))
	assert.ErrorIs(t, stdWrapped, ErrBufferOverflow)
}

func TestFault_NilIsNoClass(t *testing.T) {
	assert.False(t, IsErrPrecondition(nil))
	assert.False(t, IsErrInvalid(nil))
	assert.False(t, IsErrOverflow(nil))
}
