package control_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/wsreactor/control"
)

func TestMetricsCounting(t *testing.T) {
	m := control.NewMetrics("")
	m.ConnAccepted()
	m.ConnAccepted()
	m.ConnAccepted()
	m.HandshakeCompleted()
	m.ConnFailed("malformed")
	m.ConnClosed()

	problems, err := testutil.GatherAndLint(m.Registry())
	require.NoError(t, err)
	assert.Empty(t, problems)

	count, err := testutil.GatherAndCount(m.Registry(), "wsreactor_accepted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "wsreactor_accepted_total 3")
	assert.Contains(t, string(body), "wsreactor_handshakes_total 1")
	assert.Contains(t, string(body), `wsreactor_connection_failures_total{reason="malformed"} 1`)
	assert.Contains(t, string(body), "wsreactor_live_connections 1")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *control.Metrics
	assert.NotPanics(t, func() {
		m.ConnAccepted()
		m.HandshakeCompleted()
		m.ConnFailed("transport")
		m.ConnClosed()
	})
}
