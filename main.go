package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meta-node-blockchain/benor-node/pkg/cluster"
	"github.com/meta-node-blockchain/benor-node/pkg/config"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
	"github.com/meta-node-blockchain/benor-node/pkg/node"
)

func main() {
	configFile := flag.String("config", "config.json", "Configuration file name")
	flag.Parse()

	cfg, err := config.LoadConfigFromFile(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if cfg.LogFlag > 0 {
		logger.SetFlag(cfg.LogFlag)
	}
	logger.SetIdentifier(fmt.Sprintf("node-%d", cfg.ID))
	if cfg.TelegramToken != "" {
		logger.SetTelegramInfo(cfg.TelegramToken, cfg.TelegramChatID)
	}

	registry := cluster.NewRegistry(cfg.TotalNodes)
	n, err := node.NewNode(cfg, registry)
	if err != nil {
		log.Fatalf("Error creating node: %v", err)
	}

	if err := n.Start(); err != nil {
		log.Fatalf("Error starting node: %v", err)
	}

	// The readiness latch fills as peer shells come up; until then /start
	// answers 500 and the external driver retries.
	peers := make(map[int32]string, len(cfg.Peers))
	for _, peerConf := range cfg.Peers {
		peers[int32(peerConf.Id)] = peerConf.ConnectionAddress
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := cluster.ProbeHTTP(ctx, registry, peers, time.Second); err != nil && ctx.Err() == nil {
			logger.Warn("peer probing stopped: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down node %d", cfg.ID)
	n.Stop()
}
