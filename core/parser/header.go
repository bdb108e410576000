// File: core/parser/header.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package parser

import "net/textproto"

// Header maps canonical header-field names to their values. Repeated fields
// are folded into one comma-separated value.
type Header map[string]string

// Get returns the value for name, matched case-insensitively.
func (h Header) Get(name string) string {
	return h[textproto.CanonicalMIMEHeaderKey(name)]
}

// Lookup is Get with a presence flag.
func (h Header) Lookup(name string) (string, bool) {
	v, ok := h[textproto.CanonicalMIMEHeaderKey(name)]
	return v, ok
}

func (h Header) add(name, value string) {
	if prev, ok := h[name]; ok {
		h[name] = prev + ", " + value
		return
	}
	h[name] = value
}

func (h Header) fold(name, cont string) {
	if h[name] == "" {
		h[name] = cont
		return
	}
	h[name] += " " + cont
}

// Request is the parsed request head.
type Request struct {
	Method string
	URI    string
	Major  int
	Minor  int
	Header Header
}
