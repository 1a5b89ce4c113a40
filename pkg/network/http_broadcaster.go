package network

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
	"github.com/meta-node-blockchain/benor-node/pkg/common"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
)

// HTTPBroadcaster delivers votes as POST /message calls to every peer,
// the sender's own address included. Each delivery is attempted exactly once
// in its own goroutine; failures are logged and never surface to the caller,
// and no peer is waited on for acknowledgement.
type HTTPBroadcaster struct {
	sender int32
	peers  map[int32]string
	client *http.Client
}

// NewHTTPBroadcaster creates a broadcaster for the given peer address map
// (id -> host:port). The map must include the sender itself so the round-0
// self-vote travels the same path as every other vote.
func NewHTTPBroadcaster(sender int32, peers map[int32]string) *HTTPBroadcaster {
	return &HTTPBroadcaster{
		sender: sender,
		peers:  peers,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Broadcast implements benor.Broadcaster.
func (b *HTTPBroadcaster) Broadcast(v benor.Value) {
	env := NewEnvelope(common.MessageCommand, b.sender, v.String())
	body, err := env.Marshal()
	if err != nil {
		logger.Error("node %d: could not marshal vote envelope: %v", b.sender, err)
		return
	}
	for id, addr := range b.peers {
		go b.post(id, addr, body)
	}
}

func (b *HTTPBroadcaster) post(target int32, addr string, body []byte) {
	url := fmt.Sprintf("http://%s/message", addr)
	resp, err := b.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Warn("node %d: vote delivery to node %d failed: %v", b.sender, target, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// A killed or faulty peer rejects deliveries; that is its business.
		logger.Debug("node %d: node %d rejected vote with status %d", b.sender, target, resp.StatusCode)
	}
}
