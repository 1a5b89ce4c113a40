package benor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingBroadcaster captures outbound votes without delivering them.
type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []Value
}

func (b *recordingBroadcaster) Broadcast(v Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, v)
}

func (b *recordingBroadcaster) values() []Value {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Value, len(b.sent))
	copy(out, b.sent)
	return out
}

type fixedReadiness bool

func (r fixedReadiness) AllReady() bool { return bool(r) }

func newTestMachine(id int32, n int, initial Value) (*Machine, *recordingBroadcaster) {
	b := &recordingBroadcaster{}
	return NewMachine(id, n, 0, initial, false, b, fixedReadiness(true)), b
}

func TestStartRoundZeroBroadcastsEstimate(t *testing.T) {
	m, b := newTestMachine(1, 4, Zero)

	assert.Nil(t, m.Start())
	assert.Equal(t, []Value{Zero}, b.values())

	k, ok := m.Round()
	assert.True(t, ok)
	assert.Equal(t, 1, k)
}

func TestStartRejectedWhenClusterNotReady(t *testing.T) {
	b := &recordingBroadcaster{}
	m := NewMachine(1, 4, 0, Zero, false, b, fixedReadiness(false))

	err := m.Start()
	assert.ErrorIs(t, err, ErrClusterNotReady)

	k, _ := m.Round()
	assert.Equal(t, 0, k)
	assert.Empty(t, b.values())
}

func TestMessageQuorumResolvesOnEvenRound(t *testing.T) {
	m, b := newTestMachine(3, 4, One)

	resolved, err := m.HandleMessage("0")
	assert.Nil(t, err)
	assert.False(t, resolved)

	resolved, err = m.HandleMessage("0")
	assert.Nil(t, err)
	assert.False(t, resolved)

	// Third vote completes the quorum at round 0.
	resolved, err = m.HandleMessage("1")
	assert.Nil(t, err)
	assert.True(t, resolved)

	estimate, _ := m.Estimate()
	assert.Equal(t, Zero, estimate)
	assert.Equal(t, []Value{Zero}, b.values())
	assert.Equal(t, 0, m.PendingVotes())
}

func TestMessageQuorumDrainsWithoutResolvingOnOddRound(t *testing.T) {
	m, _ := newTestMachine(2, 3, Zero)
	assert.Nil(t, m.Start()) // k: 0 -> 1

	resolved, err := m.HandleMessage("1")
	assert.Nil(t, err)
	assert.False(t, resolved)

	resolved, err = m.HandleMessage("1")
	assert.Nil(t, err)
	assert.False(t, resolved)

	estimate, _ := m.Estimate()
	assert.Equal(t, Zero, estimate)
	assert.Equal(t, 0, m.PendingVotes())
}

func TestMalformedMessageLeavesStateUnchanged(t *testing.T) {
	m, b := newTestMachine(1, 4, One)

	_, err := m.HandleMessage("")
	assert.ErrorIs(t, err, ErrMalformedMessage)
	_, err = m.HandleMessage("2")
	assert.ErrorIs(t, err, ErrMalformedMessage)

	estimate, _ := m.Estimate()
	k, _ := m.Round()
	assert.Equal(t, One, estimate)
	assert.Equal(t, 0, k)
	assert.Equal(t, 0, m.PendingVotes())
	assert.Empty(t, b.values())
}

func TestKilledTerminality(t *testing.T) {
	m, b := newTestMachine(1, 4, Zero)
	assert.Nil(t, m.Start())
	m.Stop()
	m.Stop() // idempotent
	assert.True(t, m.Killed())

	sentBefore := len(b.values())
	for i := 0; i < 3; i++ {
		_, err := m.HandleMessage("1")
		assert.ErrorIs(t, err, ErrNodeKilled)
		assert.ErrorIs(t, m.Start(), ErrNodeKilled)
	}

	k, _ := m.Round()
	assert.Equal(t, 1, k)
	assert.Equal(t, sentBefore, len(b.values()))
}

func TestRoundMonotonicAndDecisionIrrevocable(t *testing.T) {
	m, _ := newTestMachine(1, 3, One)

	previous := -1
	for i := 0; i < 6; i++ {
		k, _ := m.Round()
		assert.Greater(t, k, previous)
		previous = k
		assert.Nil(t, m.Start())
	}
	// Odd rounds locked the binary estimate in; it must stay locked.
	assert.True(t, m.Decided())
	assert.Nil(t, m.Start())
	assert.True(t, m.Decided())
}

func TestFaultyNodeNeverParticipates(t *testing.T) {
	b := &recordingBroadcaster{}
	m := NewMachine(2, 4, 1, Undecided, true, b, fixedReadiness(true))

	assert.ErrorIs(t, m.Status(), ErrNodeFaulty)

	assert.Nil(t, m.Start())
	resolved, err := m.HandleMessage("1")
	assert.Nil(t, err)
	assert.False(t, resolved)

	_, ok := m.Round()
	assert.False(t, ok)
	_, ok = m.Estimate()
	assert.False(t, ok)
	assert.False(t, m.Decided())
	assert.Empty(t, b.values())

	snap := m.InitialState()
	assert.Nil(t, snap.X)
	assert.Nil(t, snap.Decided)
	assert.Nil(t, snap.K)
}

func TestSnapshotFrozenAtConstruction(t *testing.T) {
	m, _ := newTestMachine(1, 3, Zero)
	snap := m.InitialState()

	assert.Nil(t, m.Start())
	assert.Nil(t, m.Start())

	assert.Equal(t, "0", *snap.X)
	assert.False(t, *snap.Decided)
	assert.Equal(t, 0, *snap.K)

	// The live record moved on; the snapshot served now must not have.
	again := m.InitialState()
	assert.Equal(t, 0, *again.K)
}

// TestSplitClusterConverges runs the four-node 0,0,0,1 scenario with a
// deterministic schedule: every round-0 vote is delivered before any node
// starts, so quorum resolution happens on the even round.
func TestSplitClusterConverges(t *testing.T) {
	initial := []Value{Zero, Zero, Zero, One}
	machines := make([]*Machine, 4)
	for i := range machines {
		machines[i], _ = newTestMachine(int32(i), 4, initial[i])
	}

	// Round-0 broadcast: everyone's initial value reaches everyone.
	for _, m := range machines {
		for _, v := range initial {
			_, err := m.HandleMessage(v.String())
			assert.Nil(t, err)
		}
		estimate, _ := m.Estimate()
		assert.Equal(t, Zero, estimate)
	}

	// Three driver rounds: broadcast, decision check, spare round.
	for round := 0; round < 3; round++ {
		for _, m := range machines {
			assert.Nil(t, m.Start())
		}
	}

	for _, m := range machines {
		assert.True(t, m.Decided())
		estimate, _ := m.Estimate()
		assert.Equal(t, Zero, estimate)
		k, _ := m.Round()
		assert.Equal(t, 3, k)
	}
}

// TestValidity: when every node starts with the same value, any decision is
// that value.
func TestValidity(t *testing.T) {
	machines := make([]*Machine, 3)
	for i := range machines {
		machines[i], _ = newTestMachine(int32(i), 3, One)
	}

	for _, m := range machines {
		for range machines {
			_, err := m.HandleMessage("1")
			assert.Nil(t, err)
		}
	}
	for round := 0; round < 2; round++ {
		for _, m := range machines {
			assert.Nil(t, m.Start())
		}
	}

	for _, m := range machines {
		assert.True(t, m.Decided())
		estimate, _ := m.Estimate()
		assert.Equal(t, One, estimate)
	}
}

func TestObserverSeesTransitions(t *testing.T) {
	m, _ := newTestMachine(1, 3, Zero)
	var events []RoundEvent
	m.AddObserver(observerFunc(func(ev RoundEvent) { events = append(events, ev) }))

	assert.Nil(t, m.Start())
	assert.Nil(t, m.Start())

	assert.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Round)
	assert.Equal(t, 2, events[1].Round)
	assert.True(t, events[1].Decided)
}

type observerFunc func(RoundEvent)

func (f observerFunc) RoundChanged(ev RoundEvent) { f(ev) }
