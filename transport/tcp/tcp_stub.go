//go:build !linux
// +build !linux

// File: transport/tcp/tcp_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package tcp

import (
	"fmt"
	"runtime"

	"github.com/momentics/wsreactor/api"
)

// Listen returns an error for unsupported platforms.
func Listen(address string, backlog int) (api.Listener, error) {
	return nil, fmt.Errorf("tcp: non-blocking listener on %s: %w", runtime.GOOS, api.ErrNotSupported)
}
