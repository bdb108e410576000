//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"fmt"
	"runtime"

	"github.com/momentics/wsreactor/api"
)

// New returns an error for unsupported platforms.
func New(maxEvents int) (api.Poller, error) {
	return nil, fmt.Errorf("reactor: epoll on %s: %w", runtime.GOOS, api.ErrNotSupported)
}
