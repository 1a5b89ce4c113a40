package benor

import (
	"sync"

	"github.com/meta-node-blockchain/benor-node/pkg/logger"
)

// Broadcaster delivers a vote to every node identity in the cluster, the
// sender included: the round-0 self-vote arrives through normal message
// delivery, never by local injection. Implementations must be fire-and-forget
// and non-blocking; a delivery failure to one peer must not surface here.
type Broadcaster interface {
	Broadcast(v Value)
}

// Readiness is the cluster-wide readiness predicate consulted by Start.
type Readiness interface {
	AllReady() bool
}

// RoundEvent describes one completed state transition, for diagnostics.
type RoundEvent struct {
	NodeID   int32
	Round    int
	Estimate Value
	Decided  bool
	Votes    int
}

// RoundObserver is notified after each transition of a non-faulty machine.
// Observers must not block and must not call back into the machine.
type RoundObserver interface {
	RoundChanged(ev RoundEvent)
}

// Machine is the per-node consensus state machine. It owns the NodeRecord
// and the vote buffer; both the inbound message handler and the start-round
// handler can be invoked concurrently by the transport, so every transition
// runs under one mutex. The killed flag, once set, is visible to all
// subsequent operations.
//
// Round cadence: round 0 broadcasts the initial estimate, even rounds adopt
// the quorum majority, odd rounds lock in a decision when the estimate is a
// binary value. There is no randomized fallback when a decision round finds
// no usable majority; the estimate then simply stays as it is, so termination
// is not guaranteed under adversarial vote orderings. The simulation accepts
// that, there is no coin flip to force progress.
type Machine struct {
	id     int32
	n      int
	f      int
	faulty bool

	record   *NodeRecord
	snapshot StateSnapshot
	votes    *VoteCollector

	broadcaster Broadcaster
	ready       Readiness
	observers   []RoundObserver

	mu sync.Mutex
}

// NewMachine builds the state machine for one node. broadcaster and ready are
// the node shell collaborators; either may be nil for a machine that is only
// queried (tests use this for the leaf components).
func NewMachine(id int32, n, f int, initial Value, faulty bool, broadcaster Broadcaster, ready Readiness) *Machine {
	record := newNodeRecord(initial, faulty)
	return &Machine{
		id:          id,
		n:           n,
		f:           f,
		faulty:      faulty,
		record:      record,
		snapshot:    newStateSnapshot(record),
		votes:       NewVoteCollector(n),
		broadcaster: broadcaster,
		ready:       ready,
	}
}

// AddObserver registers a transition observer. Not safe to call once the
// machine is receiving traffic.
func (m *Machine) AddObserver(obs RoundObserver) {
	if obs != nil {
		m.observers = append(m.observers, obs)
	}
}

// Start advances the machine by one round. Round 0 broadcasts the current
// estimate; an even round adopts the quorum majority when one has been
// collected; an odd round marks the node decided when its estimate is
// binary. The round counter increments unconditionally afterwards.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record.Killed {
		return ErrNodeKilled
	}
	if m.ready != nil && !m.ready.AllReady() {
		return ErrClusterNotReady
	}
	if m.faulty {
		// Unset round: a faulty node never participates.
		return nil
	}

	k := *m.record.Round
	switch {
	case k == 0:
		m.broadcastLocked(*m.record.Estimate)
	case k%2 == 0:
		if m.votes.HasQuorum() {
			m.resolveQuorumLocked()
		}
	default:
		if m.record.Estimate.Binary() && !*m.record.Decided {
			*m.record.Decided = true
			logger.Info("node %d decided %s at round %d", m.id, *m.record.Estimate, k)
		}
	}

	*m.record.Round = k + 1
	m.notifyLocked()
	return nil
}

// HandleMessage records one inbound vote. It returns true when the vote
// completed a quorum that was resolved into a new estimate (the "Phase 1
// completed" acknowledgement). The vote buffer is cleared whenever a quorum
// is consumed, regardless of round parity.
func (m *Machine) HandleMessage(raw string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record.Killed {
		return false, ErrNodeKilled
	}
	v, err := ParseValue(raw)
	if err != nil {
		return false, err
	}
	if m.faulty {
		// Accepted at the boundary but never recorded.
		return false, nil
	}

	m.votes.Record(v)
	if !m.votes.HasQuorum() {
		return false, nil
	}

	resolved := false
	if *m.record.Round%2 == 0 {
		resolved = m.resolveQuorumLocked()
	} else {
		m.votes.Drain()
	}
	m.notifyLocked()
	return resolved, nil
}

// Stop kills the node. Unconditional, idempotent and terminal: no state
// mutation or outbound send happens afterwards.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.record.Killed {
		m.record.Killed = true
		logger.Info("node %d stopped", m.id)
	}
}

// Status returns ErrNodeFaulty for a node configured as faulty, nil otherwise.
func (m *Machine) Status() error {
	if m.faulty {
		return ErrNodeFaulty
	}
	return nil
}

// InitialState returns the construction-time snapshot. This is a read-only
// diagnostic; it never reflects the live record.
func (m *Machine) InitialState() StateSnapshot {
	return m.snapshot
}

// resolveQuorumLocked drains the buffer, resolves the majority and adopts it
// as the new estimate, rebroadcasting the result. An empty usable vote set is
// logged and treated as a round that produced no new information.
func (m *Machine) resolveQuorumLocked() bool {
	drained := m.votes.Drain()
	maj, err := Majority(drained)
	if err != nil {
		logger.Warn("node %d: quorum of %d votes had no usable values", m.id, len(drained))
		return false
	}
	*m.record.Estimate = maj
	m.broadcastLocked(maj)
	return true
}

func (m *Machine) broadcastLocked(v Value) {
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(v)
	}
}

func (m *Machine) notifyLocked() {
	if len(m.observers) == 0 || m.record.Round == nil {
		return
	}
	ev := RoundEvent{
		NodeID:   m.id,
		Round:    *m.record.Round,
		Estimate: *m.record.Estimate,
		Decided:  *m.record.Decided,
		Votes:    m.votes.Len(),
	}
	for _, obs := range m.observers {
		obs.RoundChanged(ev)
	}
}

// --- Accessors for the shell and tests ---

// ID returns the node id.
func (m *Machine) ID() int32 { return m.id }

// Round returns the live round counter; ok is false for a faulty node.
func (m *Machine) Round() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record.Round == nil {
		return 0, false
	}
	return *m.record.Round, true
}

// Estimate returns the live estimate; ok is false for a faulty node.
func (m *Machine) Estimate() (Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record.Estimate == nil {
		return "", false
	}
	return *m.record.Estimate, true
}

// Decided reports whether the node has irrevocably decided.
func (m *Machine) Decided() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.Decided != nil && *m.record.Decided
}

// Killed reports whether Stop has been invoked.
func (m *Machine) Killed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.Killed
}

// PendingVotes returns the size of the in-flight vote buffer.
func (m *Machine) PendingVotes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.votes.Len()
}
