// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Package protocol implements the RFC 6455 opening-handshake pieces that do
// not depend on I/O: accept-key derivation, upgrade detection and the exact
// 101 Switching Protocols response written by the reactor.
package protocol
