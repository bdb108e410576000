// File: cmd/wsreactor/main_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/momentics/wsreactor/control"
)

func runConfig(t *testing.T, args ...string) (control.Config, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"config", "--env-file", ""}, args...))
	if err := cmd.Execute(); err != nil {
		return control.Config{}, err
	}
	var cfg control.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &cfg))
	return cfg, nil
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := runConfig(t)
	require.NoError(t, err)
	assert.Equal(t, control.DefaultConfig(), cfg)
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wsreactor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: 127.0.0.1:9000\nlog_level: debug\n"), 0o600))
	t.Setenv("WSREACTOR_LOG_FORMAT", "json")

	cfg, err := runConfig(t, "--config", path, "--log-level", "warn", "--handshake-timeout", "3s")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.HandshakeTimeout)
}

func TestEnvFileLoaded(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("WSREACTOR_METRICS_ADDR=127.0.0.1:9100\n"), 0o600))
	// godotenv never overrides variables that are already set
	t.Setenv("WSREACTOR_METRICS_ADDR", "")
	os.Unsetenv("WSREACTOR_METRICS_ADDR")

	cfg, err := runConfig(t, "--env-file", envFile)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
}

func TestInvalidFlagRejected(t *testing.T) {
	_, err := runConfig(t, "--handshake-timeout=-1s")
	assert.ErrorContains(t, err, "handshake_timeout")
}
