package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
)

func TestJournalAppendAndReadBack(t *testing.T) {
	j := NewJournal(NewMemoryDb())

	first := RoundEntry{NodeID: 1, Round: 0, Estimate: "0", VoteCount: 3, UnixNano: 10}
	second := RoundEntry{NodeID: 1, Round: 1, Estimate: "0", Decided: true, UnixNano: 20}
	require.Nil(t, j.Append(first))
	require.Nil(t, j.Append(second))

	entries, err := j.Entries()
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, second, entries[1])
}

func TestJournalKeysPreserveAppendOrderWithinRound(t *testing.T) {
	j := NewJournal(NewMemoryDb())

	// Two transitions at the same round must not collide and must read back
	// in the order they were appended.
	require.Nil(t, j.Append(RoundEntry{NodeID: 2, Round: 4, Estimate: "1", UnixNano: 1}))
	require.Nil(t, j.Append(RoundEntry{NodeID: 2, Round: 4, Estimate: "0", UnixNano: 2}))

	entries, err := j.Entries()
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].Estimate)
	assert.Equal(t, "0", entries[1].Estimate)
}

func TestJournalObservesRoundEvents(t *testing.T) {
	j := NewJournal(NewMemoryDb())

	j.RoundChanged(benor.RoundEvent{NodeID: 3, Round: 1, Estimate: benor.One, Votes: 2})
	j.RoundChanged(benor.RoundEvent{NodeID: 3, Round: 2, Estimate: benor.One, Decided: true})

	entries, err := j.Entries()
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(1), entries[0].Round)
	assert.Equal(t, uint32(2), entries[0].VoteCount)
	assert.True(t, entries[1].Decided)
	assert.NotZero(t, entries[1].UnixNano)
}
