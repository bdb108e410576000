// File: server/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"log/slog"
	"time"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/control"
	"github.com/momentics/wsreactor/internal/session"
)

// Config holds the dispatcher's tuning parameters.
type Config struct {
	ReadBufferSize   int           // bytes per read call on client sockets
	MaxHeaderBytes   int           // request head limit
	MaxBuffered      int           // post-head bytes kept per connection
	MaxEvents        int           // events per poll batch
	HandshakeTimeout time.Duration // 0 disables the sweep
	PollTimeout      time.Duration // upper bound on one Wait in Run
}

// DefaultConfig derives the dispatcher defaults from control.DefaultConfig.
func DefaultConfig() Config {
	c := Config{MaxBuffered: session.DefaultMaxBuffered}
	c.apply(control.DefaultConfig())
	return c
}

// apply copies the reactor-related fields of a loaded control.Config.
func (c *Config) apply(cc control.Config) {
	c.ReadBufferSize = cc.ReadBufferSize
	c.MaxHeaderBytes = cc.MaxHeaderBytes
	c.MaxEvents = cc.MaxEvents
	c.HandshakeTimeout = cc.HandshakeTimeout
	c.PollTimeout = cc.PollTimeout
}

// Dispatcher owns the listening socket, the poller registration of every
// client and the registry of live connections. It is single-threaded: every
// method must be called from the goroutine running Run (or driving Poll).
type Dispatcher struct {
	cfg     Config
	ln      api.Listener
	poller  api.Poller
	conns   *session.Registry
	log     *slog.Logger
	metrics *control.Metrics
	events  []api.Event
	now     func() time.Time
	closed  bool
}
