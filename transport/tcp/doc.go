// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp implements the non-blocking TCP listening socket and byte
// streams consumed by the reactor. Sockets are raw descriptors opened with
// SOCK_NONBLOCK so that reads, writes and accepts report api.ErrWouldBlock
// instead of parking a goroutine.
package tcp
