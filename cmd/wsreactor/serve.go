// File: cmd/wsreactor/serve.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/wsreactor/control"
	"github.com/momentics/wsreactor/internal/logging"
	"github.com/momentics/wsreactor/reactor"
	"github.com/momentics/wsreactor/server"
	"github.com/momentics/wsreactor/transport/tcp"
)

const shutdownTimeout = 5 * time.Second

func serve(parent context.Context, cfg control.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: os.Stderr,
	})

	ln, err := tcp.Listen(cfg.ListenAddr, cfg.Backlog)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	poller, err := reactor.New(cfg.MaxEvents)
	if err != nil {
		ln.Close()
		return fmt.Errorf("reactor: %w", err)
	}

	metrics := control.NewMetrics("")
	d, err := server.New(ln, poller,
		server.WithConfig(cfg),
		server.WithLogger(logger),
		server.WithMetrics(metrics),
	)
	if err != nil {
		ln.Close()
		poller.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// The dispatcher is single-threaded and owns its own goroutine.
	g.Go(func() error {
		return d.Run(ctx)
	})

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			logger.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("wsreactor terminated", "error", err)
		return err
	}
	logger.Info("wsreactor stopped")
	return nil
}
