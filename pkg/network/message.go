package network

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/meta-node-blockchain/benor-node/pkg/common"
	t_network "github.com/meta-node-blockchain/benor-node/types/network"
)

// Envelope is the wire form of one inter-node message. It doubles as the
// POST /message body: the driver may send just {"value": "..."}, peers send
// the full envelope. The sender field is opaque to the consensus core.
type Envelope struct {
	ID      string `json:"id,omitempty"`
	Command string `json:"command,omitempty"`
	Sender  int32  `json:"sender,omitempty"`
	Value   string `json:"value,omitempty"`
}

// NewEnvelope builds an envelope with a fresh message id.
func NewEnvelope(command string, sender int32, value string) *Envelope {
	return &Envelope{
		ID:      uuid.NewString(),
		Command: command,
		Sender:  sender,
		Value:   value,
	}
}

// Marshal encodes the envelope as JSON.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEnvelope decodes an envelope from JSON. An empty or syntactically
// broken body is an error; a missing value field is not, the core rejects it.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("could not unmarshal envelope: %w", err)
	}
	return &env, nil
}

// Request converts the envelope into a routable request.
func (e *Envelope) Request() *t_network.Request {
	command := e.Command
	if command == "" {
		command = common.MessageCommand
	}
	return &t_network.Request{
		Command: command,
		Sender:  e.Sender,
		Value:   e.Value,
	}
}
