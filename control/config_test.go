package control_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/control"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wsreactor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := control.LoadWithPrefix("", "WSREACTOR_TEST_DEFAULTS_")
	require.NoError(t, err)
	assert.Equal(t, control.DefaultConfig(), cfg)
	assert.Equal(t, "0.0.0.0:4200", cfg.ListenAddr)
	assert.Equal(t, 2048, cfg.ReadBufferSize)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
listen_addr: 127.0.0.1:9001
handshake_timeout: 5s
max_events: 64
log_format: json
`)
	t.Setenv("WSREACTOR_MAX_EVENTS", "32")
	t.Setenv("WSREACTOR_METRICS_ADDR", ":9100")

	cfg, err := control.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9001", cfg.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, 32, cfg.MaxEvents, "env wins over file")
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 1024, cfg.Backlog, "untouched default")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "listen_adr: typo\n")
	_, err := control.Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := control.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := control.LoadWithPrefix(writeFile(t, ""), "WSREACTOR_TEST_EMPTY_")
	require.NoError(t, err)
	assert.Equal(t, control.DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := control.DefaultConfig()
	cfg.MaxEvents = 0
	cfg.PollTimeout = 0
	err := cfg.Validate()
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "max_events")
	assert.Contains(t, err.Error(), "poll_timeout")

	t.Setenv("WSREACTOR_TEST_BAD_BACKLOG", "-1")
	_, err = control.LoadWithPrefix("", "WSREACTOR_TEST_BAD_")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}
