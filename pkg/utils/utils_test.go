package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64BytesRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 255, 1 << 40, ^uint64(0)} {
		got, err := BytesToUint64(Uint64ToBytes(v))
		require.Nil(t, err)
		assert.Equal(t, v, got)
	}

	_, err := BytesToUint64([]byte{1, 2, 3})
	assert.NotNil(t, err)
}

func TestHexRoundTrip(t *testing.T) {
	b := []byte{0xde, 0xad, 0xbe, 0xef}
	s := BytesToHex(b)
	assert.Equal(t, "0xdeadbeef", s)
	assert.Equal(t, b, HexToBytes(s))
	assert.Equal(t, b, HexToBytes("deadbeef"))
}

func TestJournalKeyOrderMatchesRoundOrder(t *testing.T) {
	earlier := JournalKey(1, 1, 5)
	later := JournalKey(1, 2, 0)
	assert.Negative(t, bytes.Compare(earlier, later))

	sameRound := JournalKey(1, 2, 1)
	assert.Negative(t, bytes.Compare(later, sameRound))
}
