// File: internal/session/session.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-connection opening-handshake state machine driven by readiness events.

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/core/parser"
	"github.com/momentics/wsreactor/core/protocol"
)

// ErrMissingKey is returned when an upgrade request carries no Sec-WebSocket-Key.
var ErrMissingKey = fmt.Errorf("%w: missing %s header", api.ErrMalformedHandshake, protocol.HeaderSecWebSocketKey)

// State is the handshake phase of a connection.
type State uint8

const (
	AwaitingHandshake State = iota
	HandshakeResponseReady
	Connected
)

func (s State) String() string {
	switch s {
	case AwaitingHandshake:
		return "awaiting_handshake"
	case HandshakeResponseReady:
		return "response_ready"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Defaults applied by NewConn for zero Config fields.
const (
	DefaultReadBufferSize = 2048
	DefaultMaxBuffered    = 64 << 10
)

// Config tunes a connection's buffers.
type Config struct {
	ReadBufferSize int // bytes per TryRead
	MaxHeaderBytes int // request head limit, see parser.New
	MaxBuffered    int // bytes kept for downstream after the head
}

// Conn wraps one accepted transport through the opening handshake.
type Conn struct {
	token      api.Token
	id         string
	transport  api.Transport
	acceptedAt time.Time

	state    State
	interest api.Interest

	parser  *parser.Parser
	request *parser.Request
	buf     []byte

	response []byte
	written  int

	buffered    []byte
	maxBuffered int
	dropped     int

	closed bool
}

// NewConn starts tr in AwaitingHandshake with read interest.
func NewConn(tok api.Token, tr api.Transport, cfg Config, acceptedAt time.Time) *Conn {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultReadBufferSize
	}
	if cfg.MaxBuffered <= 0 {
		cfg.MaxBuffered = DefaultMaxBuffered
	}
	return &Conn{
		token:       tok,
		id:          uuid.NewString(),
		transport:   tr,
		acceptedAt:  acceptedAt,
		state:       AwaitingHandshake,
		interest:    api.Readable,
		parser:      parser.New(cfg.MaxHeaderBytes),
		buf:         make([]byte, cfg.ReadBufferSize),
		maxBuffered: cfg.MaxBuffered,
	}
}

func (c *Conn) Token() api.Token         { return c.token }
func (c *Conn) ID() string               { return c.id }
func (c *Conn) Transport() api.Transport { return c.transport }
func (c *Conn) State() State             { return c.state }
func (c *Conn) AcceptedAt() time.Time    { return c.acceptedAt }

// Interest is the readiness the dispatcher must re-arm after every event.
func (c *Conn) Interest() api.Interest { return c.interest }

// Fd lets a Conn be registered directly with a poller.
func (c *Conn) Fd() int { return c.transport.Fd() }

// Request returns the parsed request head, or nil before the head completed.
func (c *Conn) Request() *parser.Request { return c.request }

// Buffered returns bytes received after the request head.
func (c *Conn) Buffered() []byte { return c.buffered }

// Dropped counts post-head bytes discarded once Buffered reached its cap.
func (c *Conn) Dropped() int { return c.dropped }

// Read drains the transport until it would block.
func (c *Conn) Read() error {
	switch c.state {
	case AwaitingHandshake:
		return c.readHandshake()
	case Connected:
		return c.readConnected()
	default:
		return nil
	}
}

func (c *Conn) readHandshake() error {
	for {
		n, err := c.transport.TryRead(c.buf)
		if err != nil {
			if errors.Is(err, api.ErrWouldBlock) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			return nil
		}
		chunk := c.buf[:n]

		// A finished non-upgrade request: nothing more to parse, never answered.
		if c.parser == nil {
			continue
		}
		used, err := c.parser.Feed(chunk)
		if err != nil {
			return err
		}
		if !c.parser.Done() {
			continue
		}
		req, err := c.parser.Result()
		if err != nil {
			return err
		}
		upgrade := c.parser.Upgrade()
		c.request = req
		c.parser = nil
		if !upgrade {
			continue
		}

		c.stash(chunk[used:])
		c.state = HandshakeResponseReady
		c.interest = api.Writable
		return nil
	}
}

func (c *Conn) readConnected() error {
	for {
		n, err := c.transport.TryRead(c.buf)
		if err != nil {
			if errors.Is(err, api.ErrWouldBlock) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			return nil
		}
		c.stash(c.buf[:n])
	}
}

// Write flushes the 101 response, resuming after short writes.
func (c *Conn) Write() error {
	if c.state != HandshakeResponseReady {
		return nil
	}
	if c.response == nil {
		key, ok := c.request.Header.Lookup(protocol.HeaderSecWebSocketKey)
		if !ok || key == "" {
			return ErrMissingKey
		}
		c.response = protocol.Response(key)
	}
	for c.written < len(c.response) {
		n, err := c.transport.TryWrite(c.response[c.written:])
		c.written += n
		if err != nil {
			if errors.Is(err, api.ErrWouldBlock) {
				return nil
			}
			return fmt.Errorf("write: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
	c.response = nil
	c.state = Connected
	c.interest = api.Readable
	return nil
}

// Close closes the transport once; later calls are no-ops.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.interest = api.None
	return c.transport.Close()
}

// Closed reports whether Close has run.
func (c *Conn) Closed() bool { return c.closed }

// stash keeps up to maxBuffered post-head bytes and counts the rest as dropped.
func (c *Conn) stash(p []byte) {
	room := c.maxBuffered - len(c.buffered)
	if room < len(p) {
		c.dropped += len(p) - max(room, 0)
		p = p[:max(room, 0)]
	}
	c.buffered = append(c.buffered, p...)
}
