package rlp

import (
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/pkg/errors"
)

// Buffer is a fixed-capacity output region with a write cursor. Writes past
// the capacity fail with fault.ErrBufferOverflow and leave the buffer as it
// was before the failing write.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer allocates a buffer able to hold size bytes.
func NewBuffer(size int) (*Buffer, error) {
	if size < 0 {
		return nil, fault.ErrNegativeBufferSize
	}
	return &Buffer{data: make([]byte, size)}, nil
}

// WrapBuffer uses the full length of p as the buffer's capacity.
func WrapBuffer(p []byte) *Buffer {
	return &Buffer{data: p}
}

// Bytes returns the bytes written so far. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.pos]
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return b.pos
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Available returns the bytes left before the buffer overflows.
func (b *Buffer) Available() int {
	return len(b.data) - b.pos
}

// Reset rewinds the cursor without releasing the underlying storage.
func (b *Buffer) Reset() {
	b.pos = 0
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	if b.Available() < 1 {
		return b.overflow(1)
	}
	b.data[b.pos] = c
	b.pos++
	return nil
}

// Write appends p in full or not at all.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.Available() < len(p) {
		return 0, b.overflow(len(p))
	}
	n := copy(b.data[b.pos:], p)
	b.pos += n
	return n, nil
}

// skip advances the cursor over n bytes without writing them.
func (b *Buffer) skip(n int) error {
	if b.Available() < n {
		return b.overflow(n)
	}
	b.pos += n
	return nil
}

func (b *Buffer) overflow(need int) error {
	return errors.Wrapf(fault.ErrBufferOverflow, "need %d bytes at offset %d, capacity %d", need, b.pos, len(b.data))
}
