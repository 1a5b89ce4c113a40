package core

import (
	"github.com/meta-node-blockchain/benor-node/pkg/config"
)

// Host defines what a running node provides to the logic modules mounted on
// it. Modules depend on this interface instead of a concrete node.
type Host interface {
	// ID returns the node's id.
	ID() int32
	// Config returns the node's configuration.
	Config() *config.NodeConfig
	// Broadcast sends a value to every node identity in the cluster,
	// the sender included. Delivery is fire-and-forget.
	Broadcast(command string, value string)
	// Send sends a value to one peer.
	Send(targetID int32, command string, value string) error
}
