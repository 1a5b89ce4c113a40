package network

import (
	"testing"

	"github.com/stretchr/testify/assert"

	t_network "github.com/meta-node-blockchain/benor-node/types/network"
)

func TestHandlerDispatchesByCommand(t *testing.T) {
	h := NewHandler(map[string]t_network.HandlerFunc{
		"ping": func(r *t_network.Request) (string, error) {
			return "pong:" + r.Value, nil
		},
	}, nil)

	body, err := h.HandleRequest(&t_network.Request{Command: "ping", Value: "x"})
	assert.Nil(t, err)
	assert.Equal(t, "pong:x", body)
}

func TestHandlerRejectsUnknownOrEmptyCommand(t *testing.T) {
	h := NewHandler(nil, nil)

	_, err := h.HandleRequest(&t_network.Request{Command: "nope"})
	assert.ErrorContains(t, err, "unknown command")

	_, err = h.HandleRequest(&t_network.Request{})
	assert.ErrorContains(t, err, "command must not be empty")

	_, err = h.HandleRequest(nil)
	assert.NotNil(t, err)
}

func TestHandlerRateLimitsPerCommand(t *testing.T) {
	calls := 0
	h := NewHandler(map[string]t_network.HandlerFunc{
		"message": func(*t_network.Request) (string, error) {
			calls++
			return "ok", nil
		},
		"status": func(*t_network.Request) (string, error) {
			return "live", nil
		},
	}, map[string]int{"message": 2})

	for i := 0; i < 2; i++ {
		_, err := h.HandleRequest(&t_network.Request{Command: "message"})
		assert.Nil(t, err)
	}

	// Token bucket of 2 is exhausted; the third burst request is rejected
	// before it reaches the route.
	_, err := h.HandleRequest(&t_network.Request{Command: "message"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 2, calls)

	// Other commands are not throttled by the message limiter.
	body, err := h.HandleRequest(&t_network.Request{Command: "status"})
	assert.Nil(t, err)
	assert.Equal(t, "live", body)
}

func TestHandlerZeroLimitMeansUnlimited(t *testing.T) {
	h := NewHandler(map[string]t_network.HandlerFunc{
		"message": func(*t_network.Request) (string, error) { return "ok", nil },
	}, map[string]int{"message": 0})

	for i := 0; i < 50; i++ {
		_, err := h.HandleRequest(&t_network.Request{Command: "message"})
		assert.Nil(t, err)
	}
}
