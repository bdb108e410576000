// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness poller the dispatcher runs on:
// epoll on Linux with edge-triggered, one-shot registrations, and a stub
// reporting api.ErrNotSupported elsewhere.
package reactor
