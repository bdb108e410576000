//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based poller.

package reactor

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/wsreactor/api"
)

// linuxReactor is an epoll-based api.Poller.
type linuxReactor struct {
	epfd   int
	events []unix.EpollEvent
}

// New constructs the epoll poller. maxEvents bounds one Wait batch.
func New(maxEvents int) (api.Poller, error) {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &linuxReactor{
		epfd:   epfd,
		events: make([]unix.EpollEvent, maxEvents),
	}, nil
}

// Register adds src to epoll.
func (r *linuxReactor) Register(src api.Source, tok api.Token, interest api.Interest, opts api.PollOpt) error {
	ev := toEpoll(tok, interest, opts)
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, src.Fd(), &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd %d: %w", src.Fd(), err)
	}
	return nil
}

// Reregister modifies the registration of src, re-arming one-shot interest.
func (r *linuxReactor) Reregister(src api.Source, tok api.Token, interest api.Interest, opts api.PollOpt) error {
	ev := toEpoll(tok, interest, opts)
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, src.Fd(), &ev); err != nil {
		return fmt.Errorf("epoll ctl mod fd %d: %w", src.Fd(), err)
	}
	return nil
}

// Deregister removes src from epoll.
func (r *linuxReactor) Deregister(src api.Source) error {
	// pre-2.6.9 kernels reject a nil event on EPOLL_CTL_DEL
	var ev unix.EpollEvent
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, src.Fd(), &ev); err != nil {
		return fmt.Errorf("epoll ctl del fd %d: %w", src.Fd(), err)
	}
	return nil
}

// Wait blocks up to timeout and translates ready epoll events.
func (r *linuxReactor) Wait(events []api.Event, timeout time.Duration) (int, error) {
	max := len(events)
	if max > len(r.events) {
		max = len(r.events)
	}
	if max == 0 {
		return 0, fmt.Errorf("epoll wait: empty event buffer: %w", api.ErrInvalidArgument)
	}

	n, err := unix.EpollWait(r.epfd, r.events[:max], timeoutMillis(timeout))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	for i := 0; i < n; i++ {
		raw := &r.events[i]
		ev := api.Event{Token: fromEpoll(raw)}
		if raw.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
			ev.Ready |= api.Readable
		}
		if raw.Events&unix.EPOLLOUT != 0 {
			ev.Ready |= api.Writable
		}
		if raw.Events&(unix.EPOLLERR|unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
			ev.Hangup = true
		}
		events[i] = ev
	}
	return n, nil
}

// Close closes the epoll instance.
func (r *linuxReactor) Close() error {
	return unix.Close(r.epfd)
}

func toEpoll(tok api.Token, interest api.Interest, opts api.PollOpt) unix.EpollEvent {
	var ev unix.EpollEvent
	if interest.IsReadable() {
		ev.Events |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if interest.IsWritable() {
		ev.Events |= unix.EPOLLOUT
	}
	if opts&api.Edge != 0 {
		ev.Events |= unix.EPOLLET
	}
	if opts&api.Oneshot != 0 {
		ev.Events |= unix.EPOLLONESHOT
	}
	// epoll_data is 64 bits spanning the Fd and Pad fields.
	ev.Fd = int32(uint32(tok))
	ev.Pad = int32(uint32(tok >> 32))
	return ev
}

func fromEpoll(ev *unix.EpollEvent) api.Token {
	return api.Token(uint64(uint32(ev.Pad))<<32 | uint64(uint32(ev.Fd)))
}
