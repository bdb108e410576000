// File: core/parser/parser.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Incremental request-head parser. Lines are reassembled across chunk
// boundaries; each complete line is tokenized with gobwas/httphead and fed
// through field/value callbacks that build the header mapping.

package parser

import (
	"bytes"
	"errors"
	"fmt"
	"net/textproto"

	"github.com/gobwas/httphead"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/core/protocol"
)

// Parse errors. All of them wrap api.ErrMalformedHandshake.
var (
	ErrBadRequestLine    = fmt.Errorf("%w: bad request line", api.ErrMalformedHandshake)
	ErrValueWithoutField = fmt.Errorf("%w: header value without field name", api.ErrMalformedHandshake)
	ErrFieldWithoutValue = fmt.Errorf("%w: header field name without value", api.ErrMalformedHandshake)
	ErrBadHeaderLine     = fmt.Errorf("%w: bad header line", api.ErrMalformedHandshake)
	ErrHeadersTooLarge   = fmt.Errorf("%w: request head too large", api.ErrMalformedHandshake)
)

// ErrNoRequest is returned by Result when no completed request is held.
var ErrNoRequest = errors.New("parser: no completed request")

type phase uint8

const (
	phaseRequestLine phase = iota
	phaseHeaders
	phaseDone
)

// Parser consumes one request head. It is not safe for concurrent use.
type Parser struct {
	limit int
	size  int
	line  []byte
	phase phase
	err   error

	req *Request

	current string // field name awaiting its value
	pending bool
	last    string // most recent completed field, target of obs-fold lines

	upgrade bool
}

// New returns a parser that rejects request heads longer than limit bytes.
// A non-positive limit selects protocol.MaxHandshakeHeadersSize.
func New(limit int) *Parser {
	if limit <= 0 {
		limit = protocol.MaxHandshakeHeadersSize
	}
	return &Parser{limit: limit}
}

// Feed consumes bytes from chunk up to and including the blank line that ends
// the header block and returns how many were consumed. Once the head is
// complete further calls consume nothing. After an error the parser is dead
// and keeps returning that error.
func (p *Parser) Feed(chunk []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	consumed := 0
	for consumed < len(chunk) && p.phase != phaseDone {
		rest := chunk[consumed:]
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			if err := p.account(len(rest)); err != nil {
				return consumed, err
			}
			p.line = append(p.line, rest...)
			consumed += len(rest)
			break
		}
		if err := p.account(i + 1); err != nil {
			return consumed, err
		}
		p.line = append(p.line, rest[:i+1]...)
		consumed += i + 1

		err := p.processLine(trimEOL(p.line))
		p.line = p.line[:0]
		if err != nil {
			p.err = err
			return consumed, err
		}
	}
	return consumed, nil
}

// Done reports whether the header block has ended.
func (p *Parser) Done() bool { return p.phase == phaseDone }

// Upgrade reports whether the completed request asks for a WebSocket upgrade.
func (p *Parser) Upgrade() bool { return p.upgrade }

// Result hands the completed request to the caller. The parser drops its own
// reference, so a second call returns ErrNoRequest.
func (p *Parser) Result() (*Request, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.phase != phaseDone || p.req == nil {
		return nil, ErrNoRequest
	}
	req := p.req
	p.req = nil
	return req, nil
}

func (p *Parser) account(n int) error {
	p.size += n
	if p.size > p.limit {
		p.err = ErrHeadersTooLarge
		return p.err
	}
	return nil
}

func (p *Parser) processLine(line []byte) error {
	switch p.phase {
	case phaseRequestLine:
		// RFC 7230 §3.5: ignore empty lines ahead of the request line.
		if len(line) == 0 {
			return nil
		}
		rl, ok := httphead.ParseRequestLine(line)
		if !ok {
			return ErrBadRequestLine
		}
		p.req = &Request{
			Method: string(rl.Method),
			URI:    string(rl.URI),
			Major:  rl.Version.Major,
			Minor:  rl.Version.Minor,
			Header: make(Header),
		}
		p.phase = phaseHeaders
		return nil

	case phaseHeaders:
		if len(line) == 0 {
			return p.onHeadersComplete()
		}
		if line[0] == ' ' || line[0] == '\t' {
			return p.onContinuation(bytes.TrimSpace(line))
		}
		colon := bytes.IndexByte(line, ':')
		switch {
		case colon < 0:
			return p.onField(string(bytes.TrimSpace(line)))
		case colon == 0:
			return p.onValue(string(bytes.TrimSpace(line[1:])))
		}
		k, v, ok := httphead.ParseHeaderLine(line)
		if !ok {
			return ErrBadHeaderLine
		}
		if err := p.onField(textproto.CanonicalMIMEHeaderKey(string(k))); err != nil {
			return err
		}
		return p.onValue(string(v))
	}
	return nil
}

func (p *Parser) onField(name string) error {
	if p.pending {
		return ErrFieldWithoutValue
	}
	p.current = name
	p.pending = true
	return nil
}

func (p *Parser) onValue(value string) error {
	if !p.pending {
		return ErrValueWithoutField
	}
	p.req.Header.add(p.current, value)
	p.last = p.current
	p.current = ""
	p.pending = false
	return nil
}

func (p *Parser) onContinuation(value []byte) error {
	if p.pending {
		return ErrFieldWithoutValue
	}
	if p.last == "" {
		return ErrValueWithoutField
	}
	p.req.Header.fold(p.last, string(value))
	return nil
}

func (p *Parser) onHeadersComplete() error {
	if p.pending {
		return ErrFieldWithoutValue
	}
	p.upgrade = protocol.IsUpgrade(p.req.Method, p.req.Major, p.req.Minor, p.req.Header)
	p.phase = phaseDone
	return nil
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
