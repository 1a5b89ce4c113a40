package benor

import (
	"encoding/json"

	"github.com/meta-node-blockchain/benor-node/pkg/common"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
	t_network "github.com/meta-node-blockchain/benor-node/types/network"
)

// Process mounts a Machine on a node's message surface. It owns no state of
// its own; it only translates commands into machine transitions and machine
// results into response bodies.
type Process struct {
	machine *Machine
}

// NewProcess wraps a machine for command routing.
func NewProcess(machine *Machine) *Process {
	return &Process{machine: machine}
}

// Machine exposes the wrapped state machine.
func (p *Process) Machine() *Machine {
	return p.machine
}

// CommandHandlers returns the per-node message surface.
func (p *Process) CommandHandlers() map[string]t_network.HandlerFunc {
	return map[string]t_network.HandlerFunc{
		common.StatusCommand:   p.handleStatus,
		common.MessageCommand:  p.handleMessage,
		common.StartCommand:    p.handleStart,
		common.StopCommand:     p.handleStop,
		common.GetStateCommand: p.handleGetState,
	}
}

// Start implements the module interface.
func (p *Process) Start() {
	logger.Info("consensus process started for node %d", p.machine.ID())
}

// Stop implements the module interface by killing the machine.
func (p *Process) Stop() {
	p.machine.Stop()
}

func (p *Process) handleStatus(_ *t_network.Request) (string, error) {
	if err := p.machine.Status(); err != nil {
		return "", err
	}
	return common.ResponseLive, nil
}

func (p *Process) handleMessage(req *t_network.Request) (string, error) {
	resolved, err := p.machine.HandleMessage(req.Value)
	if err != nil {
		return "", err
	}
	if resolved {
		return common.ResponsePhaseComplete, nil
	}
	return common.ResponseMessageOK, nil
}

func (p *Process) handleStart(_ *t_network.Request) (string, error) {
	if err := p.machine.Start(); err != nil {
		return "", err
	}
	return common.ResponseRoundAdvanced, nil
}

func (p *Process) handleStop(_ *t_network.Request) (string, error) {
	p.machine.Stop()
	return common.ResponseStopped, nil
}

func (p *Process) handleGetState(_ *t_network.Request) (string, error) {
	data, err := json.Marshal(p.machine.InitialState())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
