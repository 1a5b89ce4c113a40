package utils

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Uint64ToBytes converts a uint64 to a big-endian byte array.
func Uint64ToBytes(value uint64) []byte {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, value)
	return bytes
}

// BytesToUint64 converts a byte array to a uint64.
func BytesToUint64(bytes []byte) (uint64, error) {
	if len(bytes) != 8 {
		return 0, fmt.Errorf("byte array must be 8 bytes long")
	}
	return binary.BigEndian.Uint64(bytes), nil
}

// HexToBytes decodes a hex string, with or without the 0x prefix.
func HexToBytes(s string) []byte {
	return common.FromHex(s)
}

// BytesToHex encodes bytes as a 0x-prefixed hex string.
func BytesToHex(b []byte) string {
	return hexutil.Encode(b)
}

// JournalKey builds the storage key for one journal record:
// node/<id>/round/<k>/<seq>, with the numeric parts big-endian encoded so
// lexicographic key order matches round order.
func JournalKey(nodeID int32, round uint64, seq uint64) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("node/%d/round/", nodeID))
	key := []byte(sb.String())
	key = append(key, Uint64ToBytes(round)...)
	key = append(key, '/')
	key = append(key, Uint64ToBytes(seq)...)
	return key
}
