package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0660))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
addr: db.example.com:7687
max_chunk_size: 8192
min_chunk_size: 1024
request_queue_size: 32
max_pipelined_requests: 8
timeout: 5s
log_level: info
auth:
  principal: neo
  credentials: secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.example.com:7687", cfg.Addr)
	assert.Equal(t, 8192, cfg.MaxChunkSize)
	assert.Equal(t, 1024, cfg.MinChunkSize)
	assert.Equal(t, 32, cfg.RequestQueueSize)
	assert.Equal(t, 8, cfg.MaxPipelined)
	assert.Equal(t, Duration(5*time.Second), cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "neo", cfg.Auth.Principal)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "addr: localhost:7687\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, cfg.MinChunkSize)
	assert.Equal(t, DefaultChunkSize, cfg.MaxChunkSize)
	assert.Equal(t, DefaultQueueSize, cfg.RequestQueueSize)
	assert.Equal(t, DefaultMaxPipelined, cfg.MaxPipelined)
	assert.Equal(t, Duration(DefaultTimeout), cfg.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "addr: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.MaxChunkSize = 0x10000
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MinChunkSize = cfg.MaxChunkSize + 1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RequestQueueSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxPipelined = -1
	assert.Error(t, cfg.Validate())
}
