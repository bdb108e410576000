// Package fake
// Author: momentics <momentics@gmail.com>
//
// In-memory api.Poller with one-shot re-arm bookkeeping.

package fake

import (
	"fmt"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/wsreactor/api"
)

type registration struct {
	fd       int
	interest api.Interest
	opts     api.PollOpt
	armed    bool
	rearms   int
}

// Poller is a deterministic api.Poller. Readiness is injected with Trigger;
// a one-shot registration delivers at most one event until Reregister runs.
type Poller struct {
	mu            sync.Mutex
	regs          map[api.Token]*registration
	byFd          map[int]api.Token
	ready         *queue.Queue // of api.Event
	registerErr   error
	reregisterErr error
	closed        bool
}

// NewPoller returns an empty poller.
func NewPoller() *Poller {
	return &Poller{
		regs:  make(map[api.Token]*registration),
		byFd:  make(map[int]api.Token),
		ready: queue.New(),
	}
}

// Register implements api.Poller.Register.
func (p *Poller) Register(src api.Source, tok api.Token, interest api.Interest, opts api.PollOpt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.registerErr != nil {
		return p.registerErr
	}
	if _, ok := p.byFd[src.Fd()]; ok {
		return fmt.Errorf("register fd %d: %w", src.Fd(), api.ErrAlreadyExists)
	}
	p.regs[tok] = &registration{fd: src.Fd(), interest: interest, opts: opts, armed: true}
	p.byFd[src.Fd()] = tok
	return nil
}

// Reregister implements api.Poller.Reregister.
func (p *Poller) Reregister(src api.Source, tok api.Token, interest api.Interest, opts api.PollOpt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reregisterErr != nil {
		return p.reregisterErr
	}
	reg, ok := p.regs[tok]
	if !ok || reg.fd != src.Fd() {
		return fmt.Errorf("reregister token %s: %w", tok, api.ErrNotFound)
	}
	reg.interest = interest
	reg.opts = opts
	reg.armed = true
	reg.rearms++
	return nil
}

// Deregister implements api.Poller.Deregister.
func (p *Poller) Deregister(src api.Source) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	tok, ok := p.byFd[src.Fd()]
	if !ok {
		return fmt.Errorf("deregister fd %d: %w", src.Fd(), api.ErrNotFound)
	}
	delete(p.byFd, src.Fd())
	delete(p.regs, tok)
	return nil
}

// Trigger reports readiness for tok. The event is queued only when the
// registration is armed and asks for some of ready; it reports whether an
// event was queued.
func (p *Poller) Trigger(tok api.Token, ready api.Interest) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	reg, ok := p.regs[tok]
	if !ok || !reg.armed || reg.interest&ready == 0 {
		return false
	}
	p.fire(reg, api.Event{Token: tok, Ready: reg.interest & ready})
	return true
}

// Hangup queues a hang-up for an armed registration.
func (p *Poller) Hangup(tok api.Token) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	reg, ok := p.regs[tok]
	if !ok || !reg.armed {
		return false
	}
	p.fire(reg, api.Event{Token: tok, Hangup: true})
	return true
}

func (p *Poller) fire(reg *registration, ev api.Event) {
	if reg.opts&api.Oneshot != 0 {
		reg.armed = false
	}
	p.ready.Add(ev)
}

// Inject queues ev without any registration checks.
func (p *Poller) Inject(ev api.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready.Add(ev)
}

// Wait implements api.Poller.Wait. It never blocks.
func (p *Poller) Wait(events []api.Event, _ time.Duration) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, api.ErrTransportClosed
	}
	n := 0
	for n < len(events) && p.ready.Length() > 0 {
		events[n] = p.ready.Remove().(api.Event)
		n++
	}
	return n, nil
}

// Close implements api.Poller.Close.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Closed reports whether Close ran.
func (p *Poller) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Registration returns the current interest of tok and whether it is armed.
func (p *Poller) Registration(tok api.Token) (interest api.Interest, armed, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	reg, ok := p.regs[tok]
	if !ok {
		return api.None, false, false
	}
	return reg.interest, reg.armed, true
}

// Rearms counts Reregister calls for tok.
func (p *Poller) Rearms(tok api.Token) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if reg, ok := p.regs[tok]; ok {
		return reg.rearms
	}
	return 0
}

// Options returns the poll options tok was last registered with.
func (p *Poller) Options(tok api.Token) api.PollOpt {
	p.mu.Lock()
	defer p.mu.Unlock()
	if reg, ok := p.regs[tok]; ok {
		return reg.opts
	}
	return 0
}

// SetRegisterError makes Register fail with err.
func (p *Poller) SetRegisterError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registerErr = err
}

// SetReregisterError makes Reregister fail with err.
func (p *Poller) SetReregisterError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reregisterErr = err
}

// Pending reports queued, undelivered events.
func (p *Poller) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready.Length()
}
