// File: internal/session/store.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Token allocation and ownership of live connections.

package session

import (
	"fmt"

	"github.com/momentics/wsreactor/api"
)

// Registry owns live connections keyed by token. Tokens come from a
// monotonically increasing counter starting above api.ListenerToken, so a
// token is never handed out twice during the registry's lifetime.
type Registry struct {
	conns map[api.Token]*Conn
	next  api.Token
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[api.Token]*Conn),
		next:  api.ListenerToken,
	}
}

// Allocate returns a fresh token.
func (r *Registry) Allocate() api.Token {
	r.next++
	return r.next
}

// Insert stores c under tok.
func (r *Registry) Insert(tok api.Token, c *Conn) error {
	if tok == api.ListenerToken || c == nil || c.Token() != tok {
		return fmt.Errorf("insert token %s: %w", tok, api.ErrInvalidArgument)
	}
	if _, ok := r.conns[tok]; ok {
		return fmt.Errorf("insert token %s: %w", tok, api.ErrAlreadyExists)
	}
	r.conns[tok] = c
	return nil
}

// Get fetches a live connection.
func (r *Registry) Get(tok api.Token) (*Conn, bool) {
	c, ok := r.conns[tok]
	return c, ok
}

// Remove drops tok and returns what was stored there.
func (r *Registry) Remove(tok api.Token) (*Conn, bool) {
	c, ok := r.conns[tok]
	if ok {
		delete(r.conns, tok)
	}
	return c, ok
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	return len(r.conns)
}

// Range calls fn for each connection until fn returns false. fn may remove
// the connection it is given.
func (r *Registry) Range(fn func(*Conn) bool) {
	for _, c := range r.conns {
		if !fn(c) {
			return
		}
	}
}
