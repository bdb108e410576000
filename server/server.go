// File: server/server.go
// Package server implements the readiness-driven Dispatcher: the accept loop,
// routing of client events to their handshake state machine and one-shot
// re-registration after every event.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/internal/logging"
	"github.com/momentics/wsreactor/internal/session"
)

// clientOpts is used for every client registration: a missed re-arm stalls
// the connection for good, so each handled event ends with Reregister.
const clientOpts = api.Edge | api.Oneshot

// New builds a Dispatcher and registers ln under api.ListenerToken.
func New(ln api.Listener, p api.Poller, opts ...Option) (*Dispatcher, error) {
	if ln == nil || p == nil {
		return nil, fmt.Errorf("server: listener and poller are required: %w", api.ErrInvalidArgument)
	}
	d := &Dispatcher{
		cfg:    DefaultConfig(),
		ln:     ln,
		poller: p,
		conns:  session.NewRegistry(),
		log:    logging.Nop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	if d.cfg.MaxEvents <= 0 {
		d.cfg.MaxEvents = DefaultConfig().MaxEvents
	}
	if d.cfg.PollTimeout <= 0 {
		d.cfg.PollTimeout = DefaultConfig().PollTimeout
	}
	d.events = make([]api.Event, d.cfg.MaxEvents)

	if err := p.Register(ln, api.ListenerToken, api.Readable, api.Edge); err != nil {
		return nil, fmt.Errorf("register listener: %w", err)
	}
	return d, nil
}

// Dispatch routes one readiness event.
func (d *Dispatcher) Dispatch(ev api.Event) {
	if ev.Token == api.ListenerToken {
		if ev.Ready.IsReadable() || ev.Hangup {
			d.acceptAll()
		}
		return
	}

	c, ok := d.conns.Get(ev.Token)
	if !ok {
		d.log.Warn("event for unknown token", "token", ev.Token, "ready", ev.Ready.String())
		return
	}

	before := c.State()
	if ev.Ready.IsReadable() || ev.Hangup {
		if err := c.Read(); err != nil {
			d.terminate(c, err)
			return
		}
	}
	// a hang-up while a response is pending must surface through the write
	if ev.Ready.IsWritable() || (ev.Hangup && c.Interest().IsWritable()) {
		if err := c.Write(); err != nil {
			d.terminate(c, err)
			return
		}
	}
	d.observe(c, before)

	if err := d.poller.Reregister(c, c.Token(), c.Interest(), clientOpts); err != nil {
		d.terminate(c, api.WrapError(api.ErrCodeRegistration, "reregister", err))
	}
}

// acceptAll drains the listener's accept queue.
func (d *Dispatcher) acceptAll() {
	for {
		tr, err := d.ln.Accept()
		if errors.Is(err, api.ErrWouldBlock) {
			return
		}
		if err != nil {
			d.log.Error("accept failed", "error", err)
			// Pending connections would otherwise wait for the next edge.
			if rerr := d.poller.Reregister(d.ln, api.ListenerToken, api.Readable, api.Edge); rerr != nil {
				d.log.Error("listener re-arm failed", "error", rerr)
			}
			return
		}
		d.admit(tr)
	}
}

func (d *Dispatcher) admit(tr api.Transport) {
	tok := d.conns.Allocate()
	c := session.NewConn(tok, tr, session.Config{
		ReadBufferSize: d.cfg.ReadBufferSize,
		MaxHeaderBytes: d.cfg.MaxHeaderBytes,
		MaxBuffered:    d.cfg.MaxBuffered,
	}, d.now())

	if err := d.conns.Insert(tok, c); err != nil {
		d.log.Error("registry insert failed", "token", tok, "error", err)
		_ = tr.Close()
		return
	}
	d.metrics.ConnAccepted()
	d.log.Debug("connection accepted", connAttrs(c)...)

	if err := d.poller.Register(c, tok, c.Interest(), clientOpts); err != nil {
		d.terminate(c, api.WrapError(api.ErrCodeRegistration, "register", err))
	}
}

func (d *Dispatcher) observe(c *session.Conn, before session.State) {
	after := c.State()
	if after == before {
		return
	}
	switch after {
	case session.HandshakeResponseReady:
		d.log.Debug("upgrade request received", connAttrs(c)...)
	case session.Connected:
		d.metrics.HandshakeCompleted()
		d.log.Info("handshake complete", connAttrs(c)...)
	}
}

// terminate closes the transport, then drops the connection from the registry.
func (d *Dispatcher) terminate(c *session.Conn, cause error) {
	ferr := failure(cause).
		WithContext("token", c.Token()).
		WithContext("state", c.State().String())

	_ = d.poller.Deregister(c)
	if err := c.Close(); err != nil {
		d.log.Debug("close failed", "token", c.Token(), "error", err)
	}
	d.conns.Remove(c.Token())
	d.metrics.ConnFailed(ferr.Code.String())

	attrs := append(connAttrs(c), "reason", ferr.Code.String(), "error", cause)
	if errors.Is(cause, io.EOF) {
		d.log.Debug("peer closed connection", attrs...)
		return
	}
	d.log.Warn("connection terminated", attrs...)
}

// Expire terminates connections still handshaking after HandshakeTimeout.
func (d *Dispatcher) Expire(now time.Time) {
	if d.cfg.HandshakeTimeout <= 0 {
		return
	}
	var expired []*session.Conn
	d.conns.Range(func(c *session.Conn) bool {
		if c.State() != session.Connected && now.Sub(c.AcceptedAt()) >= d.cfg.HandshakeTimeout {
			expired = append(expired, c)
		}
		return true
	})
	for _, c := range expired {
		d.terminate(c, api.WrapError(api.ErrCodeTimeout, "handshake not completed", api.ErrHandshakeTimeout))
	}
}

// Len reports the number of live connections.
func (d *Dispatcher) Len() int {
	return d.conns.Len()
}

// Conn returns the live connection for tok.
func (d *Dispatcher) Conn(tok api.Token) (*session.Conn, bool) {
	return d.conns.Get(tok)
}

// Addr is the listener's bound address.
func (d *Dispatcher) Addr() string {
	return d.ln.Addr().String()
}

func failure(err error) *api.Error {
	var se *api.Error
	if errors.As(err, &se) {
		return se
	}
	return api.WrapError(api.Classify(err), "connection terminated", err)
}

func connAttrs(c *session.Conn) []any {
	return []any{
		slog.String("token", c.Token().String()),
		slog.String("conn_id", c.ID()),
		slog.String("remote", c.Transport().RemoteAddr()),
		slog.String("state", c.State().String()),
	}
}
