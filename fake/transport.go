// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the reactor's interfaces.

package fake

import (
	"bytes"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/momentics/wsreactor/api"
)

var fdSeq atomic.Int64

func nextFd() int {
	return int(fdSeq.Add(1)) + 1000
}

// Transport is a scripted, non-blocking api.Transport.
type Transport struct {
	mu       sync.Mutex
	fd       int
	remote   string
	in       [][]byte
	eof      bool
	recvErr  error
	sendErr  error
	limits   []int
	out      bytes.Buffer
	closes   int
	closeErr error
}

// NewTransport creates a transport with nothing to read.
func NewTransport() *Transport {
	fd := nextFd()
	return &Transport{
		fd:     fd,
		remote: "192.0.2.1:" + strconv.Itoa(fd),
	}
}

func (t *Transport) Fd() int { return t.fd }

func (t *Transport) RemoteAddr() string { return t.remote }

// TryRead implements api.Transport.TryRead. Queued chunks are returned in
// order, split when p is smaller than the chunk.
func (t *Transport) TryRead(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closes > 0 {
		return 0, api.ErrTransportClosed
	}
	if len(t.in) > 0 {
		n := copy(p, t.in[0])
		if n < len(t.in[0]) {
			t.in[0] = t.in[0][n:]
		} else {
			t.in = t.in[1:]
		}
		return n, nil
	}
	if t.recvErr != nil {
		return 0, t.recvErr
	}
	if t.eof {
		return 0, io.EOF
	}
	return 0, api.ErrWouldBlock
}

// TryWrite implements api.Transport.TryWrite, honoring LimitWrites.
func (t *Transport) TryWrite(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closes > 0 {
		return 0, api.ErrTransportClosed
	}
	if t.sendErr != nil {
		return 0, t.sendErr
	}
	if len(t.limits) > 0 {
		lim := t.limits[0]
		t.limits = t.limits[1:]
		if lim == 0 {
			return 0, api.ErrWouldBlock
		}
		if lim < len(p) {
			p = p[:lim]
		}
	}
	t.out.Write(p)
	return len(p), nil
}

// Close implements api.Transport.Close and counts invocations.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closes++
	return t.closeErr
}

// AddRecvData queues data to be returned by TryRead.
func (t *Transport) AddRecvData(chunks ...[]byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range chunks {
		t.in = append(t.in, bytes.Clone(c))
	}
}

// SetEOF makes TryRead report io.EOF once queued data is consumed.
func (t *Transport) SetEOF() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eof = true
}

// SetRecvError configures the transport to fail TryRead once drained.
func (t *Transport) SetRecvError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recvErr = err
}

// SetSendError configures the transport to fail TryWrite.
func (t *Transport) SetSendError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

// SetCloseError configures the error returned by Close.
func (t *Transport) SetCloseError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeErr = err
}

// LimitWrites caps successive TryWrite calls; 0 means "would block".
// Calls beyond the script accept everything.
func (t *Transport) LimitWrites(limits ...int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.limits = append(t.limits, limits...)
}

// Sent returns everything accepted by TryWrite so far.
func (t *Transport) Sent() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return bytes.Clone(t.out.Bytes())
}

// CloseCount reports how many times Close ran.
func (t *Transport) CloseCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closes
}

// Listener is a scripted, non-blocking api.Listener.
type Listener struct {
	mu        sync.Mutex
	fd        int
	pending   []api.Transport
	acceptErr error
	closed    bool
}

// NewListener creates a listener with no pending connections.
func NewListener() *Listener {
	return &Listener{fd: nextFd()}
}

func (l *Listener) Fd() int { return l.fd }

func (l *Listener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4200}
}

// Enqueue makes transports available to Accept.
func (l *Listener) Enqueue(ts ...api.Transport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, ts...)
}

// FailNextAccept makes the next Accept return err.
func (l *Listener) FailNextAccept(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acceptErr = err
}

// Accept implements api.Listener.Accept.
func (l *Listener) Accept() (api.Transport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, api.ErrTransportClosed
	}
	if err := l.acceptErr; err != nil {
		l.acceptErr = nil
		return nil, err
	}
	if len(l.pending) == 0 {
		return nil, api.ErrWouldBlock
	}
	tr := l.pending[0]
	l.pending = l.pending[1:]
	return tr, nil
}

// Pending reports how many transports wait to be accepted.
func (l *Listener) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Closed reports whether Close ran.
func (l *Listener) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
