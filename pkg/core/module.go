package core

import (
	t_network "github.com/meta-node-blockchain/benor-node/types/network"
)

// Module is a logic component that can be mounted on a Node. The node wires
// the module's command handlers into its message surface.
type Module interface {
	// CommandHandlers returns the commands the module serves.
	CommandHandlers() map[string]t_network.HandlerFunc
	// Start launches the module's background work, if any.
	Start()
	// Stop halts the module.
	Stop()
}
