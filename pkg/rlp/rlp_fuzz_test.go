package rlp

import (
	"bytes"
	"testing"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

// splitItems cuts data into items using sizes as a stream of item lengths.
func splitItems(data []byte, sizes []byte) []Item {
	items := make([]Item, 0, len(sizes))
	for _, s := range sizes {
		n := int(s)
		if n > len(data) {
			n = len(data)
		}
		items = append(items, Item(data[:n]))
		data = data[n:]
	}
	return items
}

func FuzzEncodeListRoundTrip(f *testing.F) {
	f.Add([]byte{}, []byte{})
	f.Add([]byte{0x00}, []byte{1})
	f.Add(bytes.Repeat([]byte{0xff}, 120), []byte{54, 0, 56, 10})

	f.Fuzz(func(t *testing.T, data []byte, sizes []byte) {
		if len(sizes) > 64 {
			sizes = sizes[:64]
		}
		items := splitItems(data, sizes)

		encoded, err := EncodeListToBytes(items)
		require.NoError(t, err)

		var decoded [][]byte
		require.NoError(t, gethrlp.DecodeBytes(encoded, &decoded))
		require.Len(t, decoded, len(items))
		for i := range items {
			require.True(t, bytes.Equal(items[i], decoded[i]))
		}

		want, err := gethrlp.EncodeToBytes(toByteSlices(items))
		require.NoError(t, err)
		require.Equal(t, want, encoded)
	})
}

func FuzzEncodeItem(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x7f})
	f.Add([]byte{0x80})

	f.Fuzz(func(t *testing.T, data []byte) {
		got, err := EncodeItemToBytes(data)
		require.NoError(t, err)

		want, err := gethrlp.EncodeToBytes(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func toByteSlices(items []Item) [][]byte {
	out := make([][]byte, len(items))
	for i, item := range items {
		out[i] = []byte(item)
	}
	return out
}
