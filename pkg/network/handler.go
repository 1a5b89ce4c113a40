package network

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	t_network "github.com/meta-node-blockchain/benor-node/types/network"
)

// Handler routes inbound requests to the registered command handlers. It
// supports per-command rate limiting with a token bucket, so a flooding peer
// cannot starve the node of start/stop handling.
type Handler struct {
	routes   map[string]t_network.HandlerFunc
	limiters map[string]*rate.Limiter
	mutex    sync.Mutex
}

// NewHandler creates a handler from a route map and an optional map of
// per-command requests-per-second limits. A nil or zero limit means
// unlimited.
func NewHandler(
	routes map[string]t_network.HandlerFunc,
	limits map[string]int,
) *Handler {
	if routes == nil {
		routes = make(map[string]t_network.HandlerFunc)
	}

	h := &Handler{
		routes:   routes,
		limiters: make(map[string]*rate.Limiter),
	}

	if limits != nil {
		for command, limitPerSecond := range limits {
			if limitPerSecond > 0 {
				h.limiters[command] = rate.NewLimiter(rate.Limit(limitPerSecond), limitPerSecond)
			}
		}
	}

	return h
}

// ErrRateLimited rejects a request that exceeded its command's token bucket.
var ErrRateLimited = errors.New("rate limit exceeded")

// HandleRequest checks the rate limit for the request's command, then
// dispatches it to the registered handler.
func (h *Handler) HandleRequest(r *t_network.Request) (string, error) {
	if r == nil {
		return "", errors.New("invalid request")
	}
	if r.Command == "" {
		return "", errors.New("command must not be empty")
	}

	h.mutex.Lock()
	limiter, exists := h.limiters[r.Command]
	h.mutex.Unlock()

	if exists {
		// Allow checks and consumes one token without blocking.
		if !limiter.Allow() {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, r.Command)
		}
	}

	route, routeExists := h.routes[r.Command]
	if !routeExists {
		return "", fmt.Errorf("unknown command: %s", r.Command)
	}
	if route == nil {
		return "", fmt.Errorf("internal error: route for command %q is not configured", r.Command)
	}
	return route(r)
}
