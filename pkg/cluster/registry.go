package cluster

import (
	"context"
	"sync"

	"github.com/meta-node-blockchain/benor-node/pkg/logger"
)

// Registry is the one-shot readiness latch shared by every node of a
// cluster. Each node announces itself exactly once when its shell is
// listening; Start is rejected until all of them have. The latch is an
// explicit object handed to each node at construction, never ambient state.
type Registry struct {
	mu    sync.Mutex
	total int
	ready map[int32]struct{}
	done  chan struct{}
}

// NewRegistry creates a latch waiting for total announcements.
func NewRegistry(total int) *Registry {
	return &Registry{
		total: total,
		ready: make(map[int32]struct{}, total),
		done:  make(chan struct{}),
	}
}

// MarkReady announces one node. Repeated announcements from the same id are
// ignored; the latch releases once every distinct id has reported.
func (r *Registry) MarkReady(id int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ready[id]; ok {
		return
	}
	r.ready[id] = struct{}{}
	logger.Debug("node %d ready (%d/%d)", id, len(r.ready), r.total)
	if len(r.ready) == r.total {
		close(r.done)
	}
}

// AllReady reports whether every node has announced readiness.
func (r *Registry) AllReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ready) == r.total
}

// ReadyCount returns the number of distinct nodes that have announced.
func (r *Registry) ReadyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ready)
}

// Wait blocks until the latch releases or the context is cancelled.
func (r *Registry) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
