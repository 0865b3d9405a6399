// Package rlp implements the encoding half of Recursive Length Prefix, the
// serialization Ethereum uses for transactions.
//
// Strings and lists share one length-prefix rule and differ only in the
// offset added to the prefix: 0x80 for strings and 0xc0 for lists. Lengths
// below 56 fit in the prefix byte itself; longer lengths are written as a
// minimal big-endian integer after a prefix byte that carries its size.
//
// All encoders write into a caller-owned Buffer and return the number of
// bytes written.
package rlp

import (
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/util"
)

const (
	// StringOffset is the prefix base for byte strings.
	StringOffset byte = 0x80

	// ListOffset is the prefix base for lists.
	ListOffset byte = 0xc0

	// MaxLengthPrefixSize is the longest possible prefix: one header byte and
	// an eight byte length.
	MaxLengthPrefixSize = 1 + util.MaxUint64Bytes

	// shortLimit is the first length that needs a length-of-length prefix.
	shortLimit = 56
)

// Item is a single byte string to encode. It is borrowed for the duration of
// an encode call.
type Item []byte

// EncodeLength writes the prefix announcing a payload of length bytes.
//
// Lengths below 56 produce the single byte offset+length. Longer lengths
// produce offset+55+n followed by the n-byte big-endian length.
func EncodeLength(length uint64, offset byte, out *Buffer) (int, error) {
	if length < shortLimit {
		if err := out.WriteByte(offset + byte(length)); err != nil {
			return 0, err
		}
		return 1, nil
	}

	var lengthBytes [util.MaxUint64Bytes]byte
	n, err := util.IntToBuffer(length, lengthBytes[:])
	if err != nil {
		return 0, err
	}
	if out.Available() < 1+n {
		return 0, out.overflow(1 + n)
	}

	// 0xb7 for strings, 0xf7 for lists, plus the size of the length
	_ = out.WriteByte(offset + shortLimit - 1 + byte(n))
	_, _ = out.Write(lengthBytes[:n])
	return 1 + n, nil
}

// EncodeItem writes the encoding of a single byte string.
//
// The empty string is 0x80 and a single byte below 0x80 is its own encoding;
// everything else is a string prefix followed by the raw bytes.
func EncodeItem(item Item, out *Buffer) (int, error) {
	if len(item) == 0 {
		if err := out.WriteByte(StringOffset); err != nil {
			return 0, err
		}
		return 1, nil
	}

	if len(item) == 1 && item[0] < StringOffset {
		if err := out.WriteByte(item[0]); err != nil {
			return 0, err
		}
		return 1, nil
	}

	start := out.Len()
	n, err := EncodeLength(uint64(len(item)), StringOffset, out)
	if err != nil {
		return 0, err
	}
	if _, err := out.Write(item); err != nil {
		out.pos = start
		return 0, err
	}
	return n + len(item), nil
}

// EncodeList writes the encoding of a flat list of byte strings.
//
// The list prefix depends on the payload length, which is only known once
// every item has been encoded. The first MaxLengthPrefixSize bytes are
// therefore reserved as scratch, the items are encoded after them, the
// prefix is written at the start and the payload is shifted left to close
// the gap. The buffer must have room for the scratch region even though the
// final encoding may be shorter; see ListCapacity.
func EncodeList(items []Item, out *Buffer) (int, error) {
	start := out.Len()
	if err := out.skip(MaxLengthPrefixSize); err != nil {
		return 0, err
	}

	payloadStart := out.Len()
	for _, item := range items {
		if _, err := EncodeItem(item, out); err != nil {
			out.pos = start
			return 0, err
		}
	}
	payloadLength := out.Len() - payloadStart

	// the prefix is at most MaxLengthPrefixSize bytes so it never reaches the payload
	out.pos = start
	prefixLength, err := EncodeLength(uint64(payloadLength), ListOffset, out)
	if err != nil {
		out.pos = start
		return 0, err
	}

	copy(out.data[start+prefixLength:], out.data[payloadStart:payloadStart+payloadLength])
	out.pos = start + prefixLength + payloadLength

	return prefixLength + payloadLength, nil
}

// ItemCapacity returns the worst-case encoded size of item.
func ItemCapacity(item Item) int {
	return MaxLengthPrefixSize + len(item)
}

// ListCapacity returns the buffer size EncodeList needs for items, scratch
// region included.
func ListCapacity(items []Item) int {
	size := MaxLengthPrefixSize
	for _, item := range items {
		size += ItemCapacity(item)
	}
	return size
}

// EncodeListToBytes encodes items into a freshly sized buffer and returns
// a copy of the encoding.
func EncodeListToBytes(items []Item) ([]byte, error) {
	out, err := NewBuffer(ListCapacity(items))
	if err != nil {
		return nil, err
	}
	if _, err := EncodeList(items, out); err != nil {
		return nil, err
	}
	return append([]byte{}, out.Bytes()...), nil
}

// EncodeItemToBytes encodes a single item into a freshly sized buffer.
func EncodeItemToBytes(item Item) ([]byte, error) {
	out, err := NewBuffer(ItemCapacity(item))
	if err != nil {
		return nil, err
	}
	if _, err := EncodeItem(item, out); err != nil {
		return nil, err
	}
	return append([]byte{}, out.Bytes()...), nil
}
