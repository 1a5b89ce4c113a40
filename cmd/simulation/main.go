package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
	"github.com/meta-node-blockchain/benor-node/pkg/cluster"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
	"github.com/meta-node-blockchain/benor-node/pkg/network"
	"github.com/meta-node-blockchain/benor-node/pkg/storage"
)

const (
	maxRounds     = 20
	settleTime    = 100 * time.Millisecond
	inboxCapacity = 256
)

// runSimulation drives one full in-process scenario over the channel
// transport: every machine gets an inbox goroutine, the driver calls Start
// on each node per round and waits for deliveries to settle in between.
func runSimulation(
	scenarioTitle string,
	initialValues map[int32]benor.Value,
	faultyNodes map[int32]struct{},
	killAfterRound map[int32]int,
) {
	logger.Info("==============================================================")
	logger.Info("SCENARIO: %s", scenarioTitle)
	logger.Info("==============================================================")

	n := len(initialValues)
	f := len(faultyNodes)
	net := network.NewChannelNetwork(inboxCapacity)
	registry := cluster.NewRegistry(n)
	journal := storage.NewJournal(storage.NewMemoryDb())

	machines := make(map[int32]*benor.Machine, n)
	inboxes := make(map[int32]<-chan *network.Envelope, n)
	for id, initial := range initialValues {
		_, faulty := faultyNodes[id]
		m := benor.NewMachine(id, n, f, initial, faulty, net.Broadcaster(id), registry)
		m.AddObserver(journal)
		machines[id] = m
		inboxes[id] = net.Register(id)
		registry.MarkReady(id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(ctx)
	for id, m := range machines {
		inbox := inboxes[id]
		g.Go(func() error {
			for {
				select {
				case env := <-inbox:
					if _, err := m.HandleMessage(env.Value); err != nil {
						logger.Debug("node %d dropped delivery: %v", m.ID(), err)
					}
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	for round := 0; round < maxRounds && !allDecided(machines, faultyNodes); round++ {
		for id, m := range machines {
			if killAt, ok := killAfterRound[id]; ok && round == killAt {
				m.Stop()
				logger.Info("node %d killed before round %d", id, round)
			}
			if err := m.Start(); err != nil {
				logger.Debug("node %d start rejected: %v", id, err)
			}
		}
		time.Sleep(settleTime)
	}

	cancel()
	if err := g.Wait(); err != nil {
		logger.Warn("simulation workers: %v", err)
	}

	logger.Info("--- FINAL STATE ---")
	for id, m := range machines {
		if _, faulty := faultyNodes[id]; faulty {
			logger.Info("node %d: faulty, never participated", id)
			continue
		}
		estimate, _ := m.Estimate()
		round, _ := m.Round()
		logger.Info("node %d: decided=%v estimate=%s round=%d killed=%v",
			id, m.Decided(), estimate, round, m.Killed())
	}
	if entries, err := journal.Entries(); err == nil {
		logger.Info("journal recorded %d transitions", len(entries))
	}
}

func allDecided(machines map[int32]*benor.Machine, faultyNodes map[int32]struct{}) bool {
	for id, m := range machines {
		if _, faulty := faultyNodes[id]; faulty {
			continue
		}
		if m.Killed() {
			continue
		}
		if !m.Decided() {
			return false
		}
	}
	return true
}

func main() {
	runSimulation(
		"All nodes honest, unanimous input",
		map[int32]benor.Value{0: benor.Zero, 1: benor.Zero, 2: benor.Zero, 3: benor.Zero},
		nil, nil,
	)

	runSimulation(
		"Three zeros against one one",
		map[int32]benor.Value{0: benor.Zero, 1: benor.Zero, 2: benor.Zero, 3: benor.One},
		nil, nil,
	)

	runSimulation(
		"One silent faulty node",
		map[int32]benor.Value{0: benor.One, 1: benor.One, 2: benor.One, 3: benor.Undecided},
		map[int32]struct{}{3: {}}, nil,
	)

	runSimulation(
		"Node killed mid-run",
		map[int32]benor.Value{0: benor.Zero, 1: benor.Zero, 2: benor.Zero, 3: benor.Zero},
		nil,
		map[int32]int{3: 2},
	)
}
