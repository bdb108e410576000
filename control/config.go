// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Server configuration: defaults, YAML file, then environment overrides.

package control

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/core/protocol"
	"github.com/momentics/wsreactor/internal/session"
	"github.com/momentics/wsreactor/reactor"
	"github.com/momentics/wsreactor/transport/tcp"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "WSREACTOR_"

// Config holds all server-side configuration parameters.
type Config struct {
	ListenAddr       string        `yaml:"listen_addr" env:"LISTEN_ADDR"`             // TCP bind address
	Backlog          int           `yaml:"backlog" env:"BACKLOG"`                     // listen(2) backlog
	MaxEvents        int           `yaml:"max_events" env:"MAX_EVENTS"`               // events per poll batch
	ReadBufferSize   int           `yaml:"read_buffer_size" env:"READ_BUFFER_SIZE"`   // bytes per read call
	MaxHeaderBytes   int           `yaml:"max_header_bytes" env:"MAX_HEADER_BYTES"`   // request head limit
	HandshakeTimeout time.Duration `yaml:"handshake_timeout" env:"HANDSHAKE_TIMEOUT"` // 0 disables
	PollTimeout      time.Duration `yaml:"poll_timeout" env:"POLL_TIMEOUT"`           // max wait per poll
	MetricsAddr      string        `yaml:"metrics_addr" env:"METRICS_ADDR"`           // empty disables /metrics
	LogLevel         string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat        string        `yaml:"log_format" env:"LOG_FORMAT"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:       "0.0.0.0:4200",
		Backlog:          tcp.DefaultBacklog,
		MaxEvents:        reactor.DefaultMaxEvents,
		ReadBufferSize:   session.DefaultReadBufferSize,
		MaxHeaderBytes:   protocol.MaxHandshakeHeadersSize,
		HandshakeTimeout: 0,
		PollTimeout:      250 * time.Millisecond,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty) and WSREACTOR_* environment variables, in that order.
func Load(path string) (Config, error) {
	return LoadWithPrefix(path, EnvPrefix)
}

// LoadWithPrefix is Load with a custom environment prefix.
func LoadWithPrefix(path, prefix string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the reactor cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, errors.New("listen_addr is empty"))
	}
	if c.Backlog <= 0 {
		errs = append(errs, errors.New("backlog must be positive"))
	}
	if c.MaxEvents <= 0 {
		errs = append(errs, errors.New("max_events must be positive"))
	}
	if c.ReadBufferSize <= 0 {
		errs = append(errs, errors.New("read_buffer_size must be positive"))
	}
	if c.MaxHeaderBytes <= 0 {
		errs = append(errs, errors.New("max_header_bytes must be positive"))
	}
	if c.HandshakeTimeout < 0 {
		errs = append(errs, errors.New("handshake_timeout must not be negative"))
	}
	if c.PollTimeout <= 0 {
		errs = append(errs, errors.New("poll_timeout must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w: %w", api.ErrInvalidArgument, errors.Join(errs...))
	}
	return nil
}
