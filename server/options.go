// File: server/options.go
// Package server defines functional options for the Dispatcher.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"log/slog"
	"time"

	"github.com/momentics/wsreactor/control"
)

// Option customizes dispatcher initialization.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *control.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithConfig copies the reactor-related fields of a loaded control.Config.
func WithConfig(c control.Config) Option {
	return func(d *Dispatcher) {
		d.cfg.apply(c)
	}
}

// WithReadBufferSize overrides the per-read buffer size.
func WithReadBufferSize(n int) Option {
	return func(d *Dispatcher) {
		d.cfg.ReadBufferSize = n
	}
}

// WithMaxHeaderBytes overrides the request head limit.
func WithMaxHeaderBytes(n int) Option {
	return func(d *Dispatcher) {
		d.cfg.MaxHeaderBytes = n
	}
}

// WithMaxBuffered bounds the bytes kept after the request head.
func WithMaxBuffered(n int) Option {
	return func(d *Dispatcher) {
		d.cfg.MaxBuffered = n
	}
}

// WithMaxEvents overrides the poll batch size.
func WithMaxEvents(n int) Option {
	return func(d *Dispatcher) {
		d.cfg.MaxEvents = n
	}
}

// WithHandshakeTimeout reaps connections that have not finished the
// handshake within d. Zero disables it.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.cfg.HandshakeTimeout = timeout
	}
}

// WithPollTimeout bounds how long Run waits before re-checking its context.
func WithPollTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.cfg.PollTimeout = timeout
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}
