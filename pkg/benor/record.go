package benor

// NodeRecord is the live mutable protocol state of one node. A faulty node
// never initializes Estimate, Decided or Round; they stay nil for the
// process's lifetime and guard every consensus-affecting operation.
type NodeRecord struct {
	Killed   bool
	Estimate *Value
	Decided  *bool
	Round    *int
}

func newNodeRecord(initial Value, faulty bool) *NodeRecord {
	if faulty {
		return &NodeRecord{}
	}
	estimate := initial
	decided := false
	round := 0
	return &NodeRecord{
		Estimate: &estimate,
		Decided:  &decided,
		Round:    &round,
	}
}

// StateSnapshot is the read-only view of a node's configuration captured once
// at construction. The state query serves this snapshot and never the live
// record, so it does not reflect progress. Kept as a distinct type on purpose.
type StateSnapshot struct {
	Killed  bool    `json:"killed"`
	X       *string `json:"x"`
	Decided *bool   `json:"decided"`
	K       *int    `json:"k"`
}

func newStateSnapshot(record *NodeRecord) StateSnapshot {
	snap := StateSnapshot{Killed: record.Killed}
	if record.Estimate != nil {
		x := record.Estimate.String()
		snap.X = &x
	}
	if record.Decided != nil {
		d := *record.Decided
		snap.Decided = &d
	}
	if record.Round != nil {
		k := *record.Round
		snap.K = &k
	}
	return snap
}
