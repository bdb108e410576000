//go:build linux
// +build linux

// File: transport/tcp/conn_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-blocking accepted stream.

package tcp

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/momentics/wsreactor/api"
)

type conn struct {
	fd     int
	remote string
}

func (c *conn) Fd() int { return c.fd }

func (c *conn) RemoteAddr() string { return c.remote }

// TryRead reads what the socket holds right now. A zero-length read on a
// non-empty buffer means the peer closed its side.
func (c *conn) TryRead(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(c.fd, p)
		if err != nil {
			switch {
			case errors.Is(err, unix.EINTR):
				continue
			case errors.Is(err, unix.EAGAIN):
				return 0, api.ErrWouldBlock
			}
			return 0, fmt.Errorf("recv fd %d: %w", c.fd, err)
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// TryWrite writes as much of p as the send buffer takes.
func (c *conn) TryWrite(p []byte) (int, error) {
	for {
		n, err := unix.Write(c.fd, p)
		if err != nil {
			switch {
			case errors.Is(err, unix.EINTR):
				continue
			case errors.Is(err, unix.EAGAIN):
				return 0, api.ErrWouldBlock
			}
			return 0, fmt.Errorf("send fd %d: %w", c.fd, err)
		}
		return n, nil
	}
}

func (c *conn) Close() error {
	return unix.Close(c.fd)
}
