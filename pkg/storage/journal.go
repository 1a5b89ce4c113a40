package storage

import (
	"sync"
	"time"

	"github.com/near/borsh-go"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
	"github.com/meta-node-blockchain/benor-node/pkg/utils"
)

// RoundEntry is one journalled state transition. Entries are write-only
// telemetry of a run; nothing reads them back to recover protocol state.
type RoundEntry struct {
	NodeID    int32
	Round     uint64
	Estimate  string
	Decided   bool
	VoteCount uint32
	UnixNano  int64
}

// Journal appends borsh-serialized round entries to a Storage backend. It
// implements benor.RoundObserver; write failures are logged and swallowed so
// a broken disk never stalls consensus.
type Journal struct {
	store Storage
	mu    sync.Mutex
	seq   uint64
}

// NewJournal wraps a storage backend.
func NewJournal(store Storage) *Journal {
	return &Journal{store: store}
}

// RoundChanged implements benor.RoundObserver.
func (j *Journal) RoundChanged(ev benor.RoundEvent) {
	entry := RoundEntry{
		NodeID:    ev.NodeID,
		Round:     uint64(ev.Round),
		Estimate:  ev.Estimate.String(),
		Decided:   ev.Decided,
		VoteCount: uint32(ev.Votes),
		UnixNano:  time.Now().UnixNano(),
	}
	if err := j.Append(entry); err != nil {
		logger.Warn("node %d: journal append failed: %v", ev.NodeID, err)
	}
}

// Append writes one entry under a monotonically increasing sequence key.
func (j *Journal) Append(entry RoundEntry) error {
	data, err := borsh.Serialize(entry)
	if err != nil {
		return err
	}
	j.mu.Lock()
	seq := j.seq
	j.seq++
	j.mu.Unlock()
	key := utils.JournalKey(entry.NodeID, entry.Round, seq)
	return j.store.Put(key, data)
}

// Entries reads every journalled entry back in key order. Diagnostic use
// only.
func (j *Journal) Entries() ([]RoundEntry, error) {
	keys, err := j.store.GetAllKeys()
	if err != nil {
		return nil, err
	}
	entries := make([]RoundEntry, 0, len(keys))
	for _, key := range keys {
		data, err := j.store.Get(key)
		if err != nil {
			return nil, err
		}
		var entry RoundEntry
		if err := borsh.Deserialize(&entry, data); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
