package network

import (
	"sync"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
	"github.com/meta-node-blockchain/benor-node/pkg/common"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
)

// ChannelNetwork is the in-memory transport used by simulations and tests.
// Every registered node gets a buffered inbox; a broadcast copies the
// envelope into every inbox, the sender's own included. When an inbox is
// full the envelope is dropped with a warning — the same swallowed delivery
// failure an unreachable HTTP peer would produce.
type ChannelNetwork struct {
	mu      sync.RWMutex
	inboxes map[int32]chan *Envelope
	buffer  int
}

// NewChannelNetwork creates a network with the given per-node inbox size.
func NewChannelNetwork(buffer int) *ChannelNetwork {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelNetwork{
		inboxes: make(map[int32]chan *Envelope),
		buffer:  buffer,
	}
}

// Register creates the inbox for one node and returns its receive side.
func (n *ChannelNetwork) Register(id int32) <-chan *Envelope {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch, ok := n.inboxes[id]
	if !ok {
		ch = make(chan *Envelope, n.buffer)
		n.inboxes[id] = ch
	}
	return ch
}

// Broadcaster returns the fire-and-forget broadcaster for one sender.
func (n *ChannelNetwork) Broadcaster(sender int32) benor.Broadcaster {
	return &channelBroadcaster{net: n, sender: sender}
}

// Send delivers one envelope to a single node, dropping it when the inbox is
// full.
func (n *ChannelNetwork) Send(target int32, env *Envelope) {
	n.mu.RLock()
	ch, ok := n.inboxes[target]
	n.mu.RUnlock()
	if !ok {
		logger.Warn("in-memory delivery to unknown node %d dropped", target)
		return
	}
	select {
	case ch <- env:
	default:
		logger.Warn("inbox of node %d full, envelope %s dropped", target, env.ID)
	}
}

type channelBroadcaster struct {
	net    *ChannelNetwork
	sender int32
}

func (b *channelBroadcaster) Broadcast(v benor.Value) {
	env := NewEnvelope(common.MessageCommand, b.sender, v.String())
	b.net.mu.RLock()
	targets := make([]int32, 0, len(b.net.inboxes))
	for id := range b.net.inboxes {
		targets = append(targets, id)
	}
	b.net.mu.RUnlock()
	for _, id := range targets {
		b.net.Send(id, env)
	}
}
