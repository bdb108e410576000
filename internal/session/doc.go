// Package session
// Author: momentics <momentics@gmail.com>
//
// Package session holds per-connection handshake state and the registry that
// owns live connections by token. Nothing here is safe for concurrent use:
// both types belong to the single goroutine driving the dispatcher.
package session
