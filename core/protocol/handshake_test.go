package protocol_test

import (
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/wsreactor/core/protocol"
)

type mimeHeader textproto.MIMEHeader

func (h mimeHeader) Get(name string) string { return textproto.MIMEHeader(h).Get(name) }

func TestAcceptKeyRFCVector(t *testing.T) {
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", protocol.AcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestAcceptKeyDeterministic(t *testing.T) {
	a := protocol.AcceptKey("x3JJHMbDL1EzLkh9GBhXDw==")
	b := protocol.AcceptKey("x3JJHMbDL1EzLkh9GBhXDw==")
	assert.Equal(t, a, b)
	assert.Equal(t, "HSmrc0sMlYUkAGmm5OPpG2HaGWk=", a)
	assert.NotEqual(t, a, protocol.AcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestAcceptKeyNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() { protocol.AcceptKey("") })
	assert.NotPanics(t, func() { protocol.AcceptKey("\xff\xfe") })
}

func TestResponseBytes(t *testing.T) {
	want := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n" +
		"Upgrade: websocket\r\n\r\n"
	assert.Equal(t, want, string(protocol.Response("dGhlIHNhbXBsZSBub25jZQ==")))
}

func TestIsUpgrade(t *testing.T) {
	ok := mimeHeader{
		"Connection": {"keep-alive, Upgrade"},
		"Upgrade":    {"WebSocket"},
	}
	assert.True(t, protocol.IsUpgrade("GET", 1, 1, ok))
	assert.False(t, protocol.IsUpgrade("POST", 1, 1, ok))
	assert.False(t, protocol.IsUpgrade("GET", 1, 0, ok))
	assert.True(t, protocol.IsUpgrade("GET", 2, 0, ok))

	assert.False(t, protocol.IsUpgrade("GET", 1, 1, mimeHeader{"Upgrade": {"websocket"}}))
	assert.False(t, protocol.IsUpgrade("GET", 1, 1, mimeHeader{"Connection": {"Upgrade"}}))
	assert.False(t, protocol.IsUpgrade("GET", 1, 1, mimeHeader{
		"Connection": {"Upgrade"},
		"Upgrade":    {"h2c"},
	}))
}
