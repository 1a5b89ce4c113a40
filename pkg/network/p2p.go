package network

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	p2pnetwork "github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/near/borsh-go"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
	"github.com/meta-node-blockchain/benor-node/pkg/common"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
	t_network "github.com/meta-node-blockchain/benor-node/types/network"
)

// ProtocolVote is the libp2p stream protocol carrying one vote per stream.
const ProtocolVote protocol.ID = "/benor/vote/1.0.0"

const voteStreamTimeout = 30 * time.Second

// VotePayload is the borsh-serialized request body of a vote stream.
type VotePayload struct {
	Sender int32
	Value  string
}

// VoteAck is the borsh-serialized response body.
type VoteAck struct {
	Body  string
	Error string
}

// NewP2PHost creates a libp2p host listening on the given multiaddrs.
func NewP2PHost(listenAddrs ...string) (host.Host, error) {
	return libp2p.New(libp2p.ListenAddrStrings(listenAddrs...))
}

// VoteService serves inbound votes over libp2p streams, feeding them into
// the same command handler the HTTP surface uses.
type VoteService struct {
	handler *Handler
}

// NewVoteService wraps a command handler for stream serving.
func NewVoteService(handler *Handler) (*VoteService, error) {
	if handler == nil {
		return nil, errors.New("vote service needs a handler")
	}
	return &VoteService{handler: handler}, nil
}

// RegisterHandlers mounts the vote protocol on a host.
func (vs *VoteService) RegisterHandlers(h host.Host) {
	h.SetStreamHandler(ProtocolVote, vs.handleVote)
}

func (vs *VoteService) handleVote(s p2pnetwork.Stream) {
	defer s.Close()

	requestBytes, err := io.ReadAll(s)
	if err != nil && err != io.EOF {
		logger.Warn("vote stream read failed: %v", err)
		_ = s.Reset()
		return
	}
	if len(requestBytes) == 0 {
		logger.Warn("vote stream carried no payload")
		_ = s.Reset()
		return
	}

	var payload VotePayload
	if err := borsh.Deserialize(&payload, requestBytes); err != nil {
		logger.Warn("could not deserialize vote payload: %v", err)
		_ = s.Reset()
		return
	}

	var ack VoteAck
	body, err := vs.handler.HandleRequest(&t_network.Request{
		Command: common.MessageCommand,
		Sender:  payload.Sender,
		Value:   payload.Value,
	})
	if err != nil {
		ack.Error = err.Error()
	} else {
		ack.Body = body
	}

	respBytes, err := borsh.Serialize(ack)
	if err != nil {
		logger.Warn("could not serialize vote ack: %v", err)
		_ = s.Reset()
		return
	}
	if _, err := s.Write(respBytes); err != nil {
		logger.Warn("could not write vote ack: %v", err)
		_ = s.Reset()
	}
}

// Libp2pBroadcaster delivers votes over libp2p streams, one attempt per
// peer in its own goroutine. The sender's own vote is fed straight into the
// local handler so it still travels the normal delivery path.
type Libp2pBroadcaster struct {
	host    host.Host
	sender  int32
	peers   map[int32]peer.ID
	handler *Handler
}

// NewLibp2pBroadcaster creates a broadcaster over an existing host.
func NewLibp2pBroadcaster(h host.Host, sender int32, peers map[int32]peer.ID, handler *Handler) *Libp2pBroadcaster {
	return &Libp2pBroadcaster{host: h, sender: sender, peers: peers, handler: handler}
}

// Broadcast implements benor.Broadcaster.
func (b *Libp2pBroadcaster) Broadcast(v benor.Value) {
	payload := VotePayload{Sender: b.sender, Value: v.String()}
	for id, pid := range b.peers {
		if id == b.sender {
			go b.deliverLocal(payload)
			continue
		}
		go b.send(id, pid, payload)
	}
}

func (b *Libp2pBroadcaster) deliverLocal(payload VotePayload) {
	if b.handler == nil {
		return
	}
	if _, err := b.handler.HandleRequest(&t_network.Request{
		Command: common.MessageCommand,
		Sender:  payload.Sender,
		Value:   payload.Value,
	}); err != nil {
		logger.Debug("node %d: local vote delivery rejected: %v", b.sender, err)
	}
}

func (b *Libp2pBroadcaster) send(target int32, pid peer.ID, payload VotePayload) {
	ctx, cancel := context.WithTimeout(context.Background(), voteStreamTimeout)
	defer cancel()

	stream, err := b.host.NewStream(ctx, pid, ProtocolVote)
	if err != nil {
		logger.Warn("node %d: could not open vote stream to node %d: %v", b.sender, target, err)
		return
	}
	defer stream.Close()

	requestBytes, err := borsh.Serialize(payload)
	if err != nil {
		_ = stream.Reset()
		logger.Error("node %d: could not serialize vote payload: %v", b.sender, err)
		return
	}
	if _, err := stream.Write(requestBytes); err != nil {
		_ = stream.Reset()
		logger.Warn("node %d: vote delivery to node %d failed: %v", b.sender, target, err)
		return
	}
	if err := stream.CloseWrite(); err != nil {
		logger.Debug("node %d: close write to node %d: %v", b.sender, target, err)
	}

	responseBytes, err := io.ReadAll(stream)
	if err != nil && err != io.EOF {
		_ = stream.Reset()
		logger.Warn("node %d: vote ack read from node %d failed: %v", b.sender, target, err)
		return
	}
	if len(responseBytes) == 0 {
		return
	}
	var ack VoteAck
	if err := borsh.Deserialize(&ack, responseBytes); err != nil {
		logger.Debug("node %d: bad vote ack from node %d: %v", b.sender, target, err)
		return
	}
	if ack.Error != "" {
		logger.Debug("node %d: node %d rejected vote: %s", b.sender, target, ack.Error)
	}
}
