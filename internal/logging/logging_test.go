package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/wsreactor/internal/logging"
)

func TestParse(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("bogus"))
	assert.Equal(t, logging.FormatJSON, logging.ParseFormat("JSON"))
	assert.Equal(t, logging.FormatText, logging.ParseFormat(""))
}

func TestJSONOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: slog.LevelInfo, Format: logging.FormatJSON, Output: &buf})
	log.Debug("hidden")
	log.Info("handshake complete", "token", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "handshake complete", rec["msg"])
	assert.EqualValues(t, 3, rec["token"])
}
