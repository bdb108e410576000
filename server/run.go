// File: server/run.go
// Package server implements the reactor loop and teardown of the Dispatcher.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momentics/wsreactor/internal/session"
)

// Poll waits once for readiness, dispatches the whole batch and then sweeps
// handshake timeouts. It returns the number of events handled.
func (d *Dispatcher) Poll(timeout time.Duration) (int, error) {
	n, err := d.poller.Wait(d.events, timeout)
	if err != nil {
		return 0, err
	}
	for _, ev := range d.events[:n] {
		d.Dispatch(ev)
	}
	d.Expire(d.now())
	return n, nil
}

// Run drives Poll until ctx is cancelled, then closes the dispatcher.
// Cancellation is observed at least once per PollTimeout.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.Close()
	d.log.Info("dispatcher started", "addr", d.Addr())
	for {
		if ctx.Err() != nil {
			d.log.Info("dispatcher stopping", "live", d.conns.Len())
			return nil
		}
		if _, err := d.Poll(d.cfg.PollTimeout); err != nil {
			return fmt.Errorf("poll: %w", err)
		}
	}
}

// Close closes every live connection, the listener and the poller. It is
// safe to call more than once.
func (d *Dispatcher) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, c := range d.snapshot() {
		_ = d.poller.Deregister(c)
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
		d.conns.Remove(c.Token())
		d.metrics.ConnClosed()
	}
	if err := d.ln.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close listener: %w", err))
	}
	if err := d.poller.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close poller: %w", err))
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) snapshot() []*session.Conn {
	out := make([]*session.Conn, 0, d.conns.Len())
	d.conns.Range(func(c *session.Conn) bool {
		out = append(out, c)
		return true
	})
	return out
}
