// File: transport/tcp/tcp.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcp

// DefaultBacklog is the listen(2) backlog used for non-positive values.
const DefaultBacklog = 1024
