// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for wsreactor components.

package benchmarks

import (
	"testing"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/core/parser"
	"github.com/momentics/wsreactor/core/protocol"
	"github.com/momentics/wsreactor/fake"
	"github.com/momentics/wsreactor/server"
)

var request = []byte("GET /chat HTTP/1.1\r\n" +
	"Host: server.example.com\r\n" +
	"Upgrade: websocket\r\n" +
	"Connection: Upgrade\r\n" +
	"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
	"Origin: http://example.com\r\n" +
	"Sec-WebSocket-Protocol: chat, superchat\r\n" +
	"Sec-WebSocket-Version: 13\r\n\r\n")

// BenchmarkAcceptKey measures Sec-WebSocket-Accept derivation.
func BenchmarkAcceptKey(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		protocol.AcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	}
}

// BenchmarkParserSingleChunk parses a request delivered in one read.
func BenchmarkParserSingleChunk(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(request)))
	for i := 0; i < b.N; i++ {
		p := parser.New(0)
		if _, err := p.Feed(request); err != nil || !p.Done() {
			b.Fatalf("feed: done=%v err=%v", p.Done(), err)
		}
	}
}

// BenchmarkParserBytewise is the worst case: one byte per read.
func BenchmarkParserBytewise(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(request)))
	for i := 0; i < b.N; i++ {
		p := parser.New(0)
		for j := 0; j < len(request) && !p.Done(); j++ {
			if _, err := p.Feed(request[j : j+1]); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// BenchmarkDispatchHandshake drives accept, read and write events for one
// connection per iteration through the dispatcher.
func BenchmarkDispatchHandshake(b *testing.B) {
	ln, p := fake.NewListener(), fake.NewPoller()
	d, err := server.New(ln, p)
	if err != nil {
		b.Fatal(err)
	}
	defer d.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := fake.NewTransport()
		tr.AddRecvData(request)
		ln.Enqueue(tr)
		tok := api.Token(i + 1)

		d.Dispatch(api.Event{Token: api.ListenerToken, Ready: api.Readable})
		d.Dispatch(api.Event{Token: tok, Ready: api.Readable})
		d.Dispatch(api.Event{Token: tok, Ready: api.Writable})
		tr.SetEOF()
		d.Dispatch(api.Event{Token: tok, Ready: api.Readable})
	}
}
