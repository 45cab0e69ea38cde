// Package main runs the belnav server: it loads node-link network files from
// a data directory and serves filtered subgraph queries, path finding, and
// live exploration sessions over HTTP and WebSocket.
//
// Usage:
//
//	DATA_DIR=./data PORT=5000 belnav
//
// Configuration is environment-driven; see internal/config for the full set
// of variables and their defaults.
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

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/belnav/belnav/internal/api"
	"github.com/belnav/belnav/internal/config"
	"github.com/belnav/belnav/internal/explore"
	"github.com/belnav/belnav/internal/service"
	"github.com/belnav/belnav/internal/store"
	"github.com/belnav/belnav/internal/ws"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	// Level already validated by config.Load.
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	if err := run(log, cfg); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(log)
	if err := st.LoadDir(cfg.DataDir); err != nil {
		return fmt.Errorf("loading networks from %s: %w", cfg.DataDir, err)
	}

	svc, err := service.NewGraphService(st, cfg.QueryCacheSize, log)
	if err != nil {
		return fmt.Errorf("creating graph service: %w", err)
	}

	hub := ws.NewHub(log)
	registry := explore.NewRegistry(svc, hub, log, cfg.SimTick, cfg.SessionIdleTimeout)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Graph:       svc,
		Sessions:    registry,
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		registry.Run(ctx)
		return nil
	})

	if cfg.WatchData {
		g.Go(func() error {
			// A dead watcher degrades hot reload but never kills the server.
			if err := st.Watch(ctx); err != nil {
				log.WithError(err).Error("data directory watcher stopped")
			}
			return nil
		})
	}

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":     cfg.Addr(),
			"version":  config.Version,
			"networks": len(svc.Networks()),
			"data_dir": cfg.DataDir,
		}).Info("belnav listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		// Stop accepting requests first. WebSocket connections are hijacked,
		// so srv.Shutdown does not wait for them; the hub drains those itself
		// once ctx is cancelled, and hub.Shutdown blocks until that drain
		// completes.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http shutdown incomplete")
		}

		hub.Shutdown()
		return nil
	})

	return g.Wait()
}
