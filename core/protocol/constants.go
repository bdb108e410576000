// Package protocol
// Author: momentics <momentics@gmail.com>
//
// WebSocket opening-handshake constants (RFC 6455 §1.3, §4.2).

package protocol

const (
	// WebSocketGUID is appended to the client key before hashing.
	WebSocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

	HeaderConnection         = "Connection"
	HeaderUpgrade            = "Upgrade"
	HeaderSecWebSocketKey    = "Sec-WebSocket-Key"
	HeaderSecWebSocketAccept = "Sec-WebSocket-Accept"
	HeaderSecWebSocketVer    = "Sec-WebSocket-Version"

	// MaxHandshakeHeadersSize caps the request head accepted by the parser.
	MaxHandshakeHeadersSize = 8192
)
