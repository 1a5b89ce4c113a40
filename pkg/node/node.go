package node

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
	"github.com/meta-node-blockchain/benor-node/pkg/cluster"
	"github.com/meta-node-blockchain/benor-node/pkg/common"
	"github.com/meta-node-blockchain/benor-node/pkg/config"
	"github.com/meta-node-blockchain/benor-node/pkg/core"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
	"github.com/meta-node-blockchain/benor-node/pkg/loggerfile"
	"github.com/meta-node-blockchain/benor-node/pkg/network"
	"github.com/meta-node-blockchain/benor-node/pkg/storage"
)

var _ core.Host = (*Node)(nil)

// Node binds a consensus machine to its transport, journal and readiness
// latch. One Node per process; the constructor wires everything from the
// config and the shared registry.
type Node struct {
	config   *config.NodeConfig
	id       int32
	peers    map[int32]string
	machine  *benor.Machine
	process  *benor.Process
	handler  *network.Handler
	server   *network.HTTPServer
	registry *cluster.Registry
	store    storage.Storage
	journal  *storage.Journal
	flog     *loggerfile.FileLogger
	announce func(id int32)
	client   *http.Client
}

// NewNode builds a node from its configuration. registry is the cluster-wide
// readiness latch; the default readiness announcement marks this node on it.
func NewNode(cfg *config.NodeConfig, registry *cluster.Registry) (*Node, error) {
	id := int32(cfg.ID)

	// The peer map includes this node's own address: the round-0 self-vote
	// travels the same delivery path as every other vote.
	peers := make(map[int32]string, len(cfg.Peers)+1)
	for _, peerConf := range cfg.Peers {
		peers[int32(peerConf.Id)] = peerConf.ConnectionAddress
	}
	peers[id] = cfg.ConnectionAddress

	initial := benor.Undecided
	if !cfg.Faulty {
		v, err := benor.ParseValue(cfg.InitialValue)
		if err != nil {
			return nil, fmt.Errorf("node %d: bad initial value %q", id, cfg.InitialValue)
		}
		initial = v
	}

	broadcaster := network.NewHTTPBroadcaster(id, peers)
	machine := benor.NewMachine(id, cfg.TotalNodes, cfg.FaultTolerance, initial, cfg.Faulty, broadcaster, registry)

	store, err := storage.LoadStorage(cfg.StorageType, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", id, err)
	}
	journal := storage.NewJournal(store)
	machine.AddObserver(journal)

	var flog *loggerfile.FileLogger
	if cfg.LogDir != "" {
		loggerfile.SetGlobalLogDir(cfg.LogDir)
	}
	flog, err = loggerfile.NewFileLogger(fmt.Sprintf("node_%d.log", id))
	if err != nil {
		logger.Warn("node %d: file logging disabled: %v", id, err)
		flog = nil
	}

	node := &Node{
		config:   cfg,
		id:       id,
		peers:    peers,
		machine:  machine,
		process:  benor.NewProcess(machine),
		registry: registry,
		store:    store,
		journal:  journal,
		flog:     flog,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	node.announce = registry.MarkReady
	if flog != nil {
		machine.AddObserver(node)
	}

	limits := map[string]int{}
	if cfg.MessageRateLimit > 0 {
		limits[common.MessageCommand] = cfg.MessageRateLimit
	}
	node.handler = network.NewHandler(node.process.CommandHandlers(), limits)
	node.server = network.NewHTTPServer(cfg.ConnectionAddress, node.handler)
	return node, nil
}

// SetAnnounce overrides the readiness-announce callback. Must be called
// before Start.
func (n *Node) SetAnnounce(announce func(id int32)) {
	if announce != nil {
		n.announce = announce
	}
}

// Start launches the HTTP listener and announces readiness once it is up.
func (n *Node) Start() error {
	n.process.Start()
	go func() {
		if err := n.server.Listen(); err != nil {
			logger.Error("node %d: listener error: %v", n.id, err)
		}
	}()

	// Give the listener a moment before announcing; peers begin delivering
	// as soon as the whole cluster has reported.
	time.Sleep(200 * time.Millisecond)
	n.announce(n.id)
	logger.Info("node %d announced ready on %s", n.id, n.config.ConnectionAddress)
	return nil
}

// Stop kills the machine, flushes the trace file and shuts everything down.
func (n *Node) Stop() {
	n.process.Stop()
	n.server.Stop()
	if n.flog != nil {
		n.flog.Flush()
		n.flog.Close()
	}
	if err := n.store.Close(); err != nil {
		logger.Warn("node %d: storage close: %v", n.id, err)
	}
}

// RoundChanged mirrors journalled transitions into the per-node trace file.
func (n *Node) RoundChanged(ev benor.RoundEvent) {
	n.flog.Append(loggerfile.LogEntry{
		Timestamp: time.Now(),
		NodeID:    ev.NodeID,
		Round:     ev.Round,
		Estimate:  ev.Estimate.String(),
		Decided:   ev.Decided,
		VoteCount: ev.Votes,
	})
	if ev.Decided {
		n.flog.Flush()
	}
}

// Machine exposes the consensus state machine.
func (n *Node) Machine() *benor.Machine {
	return n.machine
}

// Journal exposes the round journal.
func (n *Node) Journal() *storage.Journal {
	return n.journal
}

// Handler exposes the command handler, for transports mounted outside the
// built-in HTTP server.
func (n *Node) Handler() *network.Handler {
	return n.handler
}

// ID implements core.Host.
func (n *Node) ID() int32 {
	return n.id
}

// Config implements core.Host.
func (n *Node) Config() *config.NodeConfig {
	return n.config
}

// Broadcast implements core.Host by sending to every peer, self included.
func (n *Node) Broadcast(command string, value string) {
	for peerID := range n.peers {
		go func(target int32) {
			if err := n.Send(target, command, value); err != nil {
				logger.Warn("node %d: broadcast to node %d failed: %v", n.id, target, err)
			}
		}(peerID)
	}
}

// Send implements core.Host with a single delivery attempt.
func (n *Node) Send(targetID int32, command string, value string) error {
	addr, ok := n.peers[targetID]
	if !ok {
		return fmt.Errorf("node %d not connected to target %d", n.id, targetID)
	}
	env := network.NewEnvelope(command, n.id, value)
	body, err := env.Marshal()
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://%s/%s", addr, command)
	var resp *http.Response
	if command == common.MessageCommand {
		resp, err = n.client.Post(url, "application/json", bytes.NewReader(body))
	} else {
		resp, err = n.client.Get(url)
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node %d rejected %s with status %d", targetID, command, resp.StatusCode)
	}
	return nil
}
