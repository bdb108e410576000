// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the non-blocking transport abstractions consumed by the reactor.

package api

import "net"

// Transport is a non-blocking, full-duplex byte stream.
//
// TryRead and TryWrite never block: when the descriptor is not ready they
// return ErrWouldBlock. TryRead returns io.EOF once the peer has closed.
type Transport interface {
	Source

	// TryRead reads what is immediately available into p.
	TryRead(p []byte) (n int, err error)

	// TryWrite writes as much of p as the socket accepts right now.
	TryWrite(p []byte) (n int, err error)

	// Close shuts down the stream.
	Close() error

	// RemoteAddr describes the peer for diagnostics.
	RemoteAddr() string
}

// Listener is a non-blocking listening socket.
type Listener interface {
	Source

	// Accept returns the next pending transport or ErrWouldBlock.
	Accept() (Transport, error)

	// Addr is the bound local address.
	Addr() net.Addr

	// Close stops listening.
	Close() error
}
