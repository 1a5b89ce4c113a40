package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `{
		"id": 2,
		"connection_address": "127.0.0.1:9002",
		"peers": [
			{"id": 0, "connection_address": "127.0.0.1:9000"},
			{"id": 1, "connection_address": "127.0.0.1:9001"},
			{"id": 3, "connection_address": "127.0.0.1:9003"}
		],
		"fault_tolerance": 1,
		"initial_value": "1",
		"faulty": false,
		"storage_type": "memorydb",
		"message_rate_limit": 100,
		"telegram_token": "tg-token",
		"telegram_chat_id": 42
	}`)

	cfg, err := LoadConfigFromFile(path)
	require.Nil(t, err)
	assert.Equal(t, 2, cfg.ID)
	assert.Equal(t, "127.0.0.1:9002", cfg.ConnectionAddress)
	assert.Len(t, cfg.Peers, 3)
	assert.Equal(t, 1, cfg.FaultTolerance)
	assert.Equal(t, "1", cfg.InitialValue)
	assert.Equal(t, 100, cfg.MessageRateLimit)
	assert.Equal(t, "tg-token", cfg.TelegramToken)
	assert.Equal(t, 42, cfg.TelegramChatID)
	// peers lists the three other nodes; the defaulted cluster size counts
	// this node too.
	assert.Equal(t, 4, cfg.TotalNodes)
}

func TestLoadConfigExplicitTotalNodesWins(t *testing.T) {
	path := writeConfig(t, `{"id": 0, "total_nodes": 7, "peers": []}`)
	cfg, err := LoadConfigFromFile(path)
	require.Nil(t, err)
	assert.Equal(t, 7, cfg.TotalNodes)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.NotNil(t, err)

	path := writeConfig(t, `{"id":`)
	_, err = LoadConfigFromFile(path)
	assert.NotNil(t, err)
}
