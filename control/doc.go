// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration loading and runtime metrics for wsreactor.
//
// Provides:
//   - Config with defaults, YAML file loading and WSREACTOR_* environment overrides
//   - Metrics: Prometheus counters and gauges for accepts, handshakes and failures
package control
