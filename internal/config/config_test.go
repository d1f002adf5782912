// ABOUTME: Tests for configuration loading, env var expansion, and validation.
// ABOUTME: Validates duration parsing and default timing knobs.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  grpc_addr: "localhost:50051"
  http_addr: "localhost:8080"

database:
  path: "/tmp/robot-admin.db"

registry:
  sweep_interval: "3s"
  ttl: "9s"

stream:
  interval: "500ms"
  buffer_size: 64

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:50051", cfg.Server.GRPCAddr)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/robot-admin.db", cfg.Database.Path)
	assert.Equal(t, 3*time.Second, cfg.Registry.SweepInterval)
	assert.Equal(t, 9*time.Second, cfg.Registry.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Stream.Interval)
	assert.Equal(t, 64, cfg.Stream.BufferSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  grpc_addr: "localhost:50051"
  http_addr: "localhost:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultSweepInterval, cfg.Registry.SweepInterval)
	assert.Equal(t, DefaultTTL, cfg.Registry.TTL)
	assert.Equal(t, DefaultStreamInterval, cfg.Stream.Interval)
	assert.Equal(t, DefaultStreamBufferSize, cfg.Stream.BufferSize)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_GRPC_ADDR", "localhost:9999")
	t.Setenv("TEST_DB_PATH", "/tmp/test.db")

	path := writeConfig(t, `
server:
  grpc_addr: "${TEST_GRPC_ADDR}"
  http_addr: "localhost:8080"

database:
  path: "${TEST_DB_PATH}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9999", cfg.Server.GRPCAddr)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  grpc_addr: "localhost:50051"
  http_addr: "localhost:8080"

registry:
  ttl: "six seconds"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry.ttl")
}

func TestLoad_MissingAddrs(t *testing.T) {
	path := writeConfig(t, `
server:
  grpc_addr: "localhost:50051"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_addr")
}

func TestLoad_TTLShorterThanSweepRejected(t *testing.T) {
	path := writeConfig(t, `
server:
  grpc_addr: "localhost:50051"
  http_addr: "localhost:8080"

registry:
  sweep_interval: "10s"
  ttl: "2s"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be shorter")
}
