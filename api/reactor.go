// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract interface for readiness-driven pollers used to
// multiplex connections over a single event loop (epoll and test doubles).

package api

import (
	"strconv"
	"strings"
	"time"
)

// Token is the opaque identifier routing readiness events to their owner.
type Token uint64

// ListenerToken is reserved for the listening socket; client tokens start above it.
const ListenerToken Token = 0

// String renders the token for logs.
func (t Token) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// Interest is a readiness set: what a registration asks for, or what an event reports.
type Interest uint8

const (
	Readable Interest = 1 << iota
	Writable
)

// None requests no readiness at all.
const None Interest = 0

// IsReadable reports whether read readiness is set.
func (i Interest) IsReadable() bool { return i&Readable != 0 }

// IsWritable reports whether write readiness is set.
func (i Interest) IsWritable() bool { return i&Writable != 0 }

func (i Interest) String() string {
	if i == None {
		return "none"
	}
	var parts []string
	if i.IsReadable() {
		parts = append(parts, "read")
	}
	if i.IsWritable() {
		parts = append(parts, "write")
	}
	return strings.Join(parts, "|")
}

// PollOpt selects the triggering mode of a registration.
type PollOpt uint8

const (
	// Edge reports only transitions to ready.
	Edge PollOpt = 1 << iota
	// Oneshot disables the registration after it fires once; it must be re-armed.
	Oneshot
)

// Event encapsulates the result of an OS-level readiness notification.
type Event struct {
	Token  Token
	Ready  Interest
	Hangup bool // peer hang-up or socket error reported by the poller
}

// Source is anything backed by a pollable descriptor.
type Source interface {
	Fd() int
}

// Poller defines the readiness substrate the dispatcher runs on.
type Poller interface {
	// Register associates src with tok for the given interest.
	Register(src Source, tok Token, interest Interest, opts PollOpt) error

	// Reregister replaces the interest of an existing registration and re-arms it.
	Reregister(src Source, tok Token, interest Interest, opts PollOpt) error

	// Deregister removes src from the poller.
	Deregister(src Source) error

	// Wait blocks up to timeout (negative: forever) and fills events.
	// An interrupted wait returns zero events and no error.
	Wait(events []Event, timeout time.Duration) (int, error)

	// Close releases the poller backend.
	Close() error
}
