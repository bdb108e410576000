// File: cmd/wsreactor/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// wsreactor accepts TCP connections on an epoll reactor and completes the
// WebSocket opening handshake for each of them.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/momentics/wsreactor/control"
)

type flags struct {
	configPath       string
	envFile          string
	listen           string
	metricsAddr      string
	logLevel         string
	logFormat        string
	handshakeTimeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wsreactor:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "wsreactor",
		Short:         "Readiness-driven WebSocket handshake server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	pf.StringVarP(&f.listen, "listen", "l", "", "TCP listen address (host:port)")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "address serving /metrics; empty disables it")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "", "text or json")
	pf.DurationVar(&f.handshakeTimeout, "handshake-timeout", 0, "close connections still handshaking after this long (0 disables)")

	root.AddCommand(newConfigCmd(f))
	return root
}

// loadConfig layers defaults, the config file, the environment (after the
// dotenv file) and finally explicitly set flags.
func loadConfig(cmd *cobra.Command, f *flags) (control.Config, error) {
	if f.envFile != "" {
		if err := godotenv.Load(f.envFile); err != nil && !os.IsNotExist(err) {
			return control.Config{}, fmt.Errorf("env file: %w", err)
		}
	}
	cfg, err := control.Load(f.configPath)
	if err != nil {
		return control.Config{}, err
	}

	set := cmd.Flags().Changed
	if set("listen") {
		cfg.ListenAddr = f.listen
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if set("handshake-timeout") {
		cfg.HandshakeTimeout = f.handshakeTimeout
	}
	if err := cfg.Validate(); err != nil {
		return control.Config{}, err
	}
	return cfg, nil
}
