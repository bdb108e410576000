// File: core/protocol/handshake.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server-side opening handshake primitives: Sec-WebSocket-Accept derivation,
// upgrade detection and the fixed 101 response.

package protocol

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"

	"github.com/gobwas/httphead"
)

// HeaderGetter is satisfied by any header mapping with case-insensitive lookup.
type HeaderGetter interface {
	Get(name string) string
}

const (
	responsePrefix = "HTTP/1.1 101 Switching Protocols\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: "
	responseSuffix = "\r\nUpgrade: websocket\r\n\r\n"
)

// AcceptKey computes the Sec-WebSocket-Accept value for a client key:
// base64(SHA-1(key + GUID)).
func AcceptKey(clientKey string) string {
	h := sha1.New()
	h.Write([]byte(clientKey))
	h.Write([]byte(WebSocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Response returns the complete 101 Switching Protocols response for clientKey.
func Response(clientKey string) []byte {
	accept := AcceptKey(clientKey)
	buf := make([]byte, 0, len(responsePrefix)+len(accept)+len(responseSuffix))
	buf = append(buf, responsePrefix...)
	buf = append(buf, accept...)
	buf = append(buf, responseSuffix...)
	return buf
}

// IsUpgrade reports whether a parsed request head asks for a WebSocket upgrade:
// a GET over HTTP/1.1 or later whose Connection tokens include "upgrade" and
// whose Upgrade tokens include "websocket".
func IsUpgrade(method string, major, minor int, h HeaderGetter) bool {
	if method != "GET" {
		return false
	}
	if major < 1 || (major == 1 && minor < 1) {
		return false
	}
	return hasToken(h.Get(HeaderConnection), "upgrade") &&
		hasToken(h.Get(HeaderUpgrade), "websocket")
}

// hasToken scans a comma-separated token list for token, case-insensitively.
func hasToken(value, token string) bool {
	if value == "" {
		return false
	}
	want := []byte(token)
	found := false
	httphead.ScanTokens([]byte(value), func(v []byte) bool {
		if bytes.EqualFold(v, want) {
			found = true
			return false
		}
		return true
	})
	return found
}
