package cluster

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meta-node-blockchain/benor-node/pkg/logger"
)

// ProbeHTTP polls every peer's /status endpoint until it answers, marking
// each peer on the registry as it comes up. A faulty node answers 500; that
// still proves its shell is listening, so it counts as ready. The call
// returns once every peer has been marked or the context is cancelled.
func ProbeHTTP(ctx context.Context, registry *Registry, peers map[int32]string, interval time.Duration) error {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	client := &http.Client{Timeout: 2 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	for id, addr := range peers {
		g.Go(func() error {
			url := fmt.Sprintf("http://%s/status", addr)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				resp, err := client.Get(url)
				if err == nil {
					resp.Body.Close()
					registry.MarkReady(id)
					return nil
				}
				logger.Debug("peer %d not reachable yet: %v", id, err)
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}
	return g.Wait()
}
