package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// PeerConfig identifies one peer of the consensus cluster.
type PeerConfig struct {
	Id                int    `json:"id"`
	ConnectionAddress string `json:"connection_address"`
}

// NodeConfig is the full configuration of a single node process. It is read
// once at startup and never mutated afterwards.
type NodeConfig struct {
	ID                int    `json:"id"`
	ConnectionAddress string `json:"connection_address"`
	// Peers lists the other nodes of the cluster; this node's own address is
	// ConnectionAddress and is not repeated here.
	Peers             []PeerConfig `json:"peers"`
	TotalNodes        int          `json:"total_nodes"`
	FaultTolerance    int          `json:"fault_tolerance"`
	InitialValue      string       `json:"initial_value"`
	Faulty            bool         `json:"faulty"`
	StorageType       string       `json:"storage_type"`
	StoragePath       string       `json:"storage_path"`
	LogDir            string       `json:"log_dir"`
	LogFlag           int          `json:"log_flag"`
	MessageRateLimit  int          `json:"message_rate_limit"`
	TelegramToken     string       `json:"telegram_token"`
	TelegramChatID    int          `json:"telegram_chat_id"`
}

// LoadConfigFromFile reads and unmarshals a NodeConfig from a JSON file.
func LoadConfigFromFile(filename string) (*NodeConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	var config NodeConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not unmarshal json: %w", err)
	}
	if config.TotalNodes == 0 {
		// Peers excludes this node, so the cluster is one larger.
		config.TotalNodes = len(config.Peers) + 1
	}
	return &config, nil
}
