// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral pieces shared by the poller implementations.

package reactor

import "time"

// DefaultMaxEvents is the batch size used when New is given a non-positive value.
const DefaultMaxEvents = 128

// timeoutMillis converts a Wait timeout to the poller's millisecond argument:
// negative blocks forever, sub-millisecond positive values round up.
func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := int(d / time.Millisecond)
	if ms == 0 && d > 0 {
		ms = 1
	}
	return ms
}
