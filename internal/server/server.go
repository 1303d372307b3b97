// Package server boots DineHub: config, database, cache, audit trail, routes,
// and a graceful HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsharan/dinehub/app/routes"
	"github.com/rsharan/dinehub/app/services"
	"github.com/rsharan/dinehub/config"
	"github.com/rsharan/dinehub/pkg/audit"
	"github.com/rsharan/dinehub/pkg/cache"
	"github.com/rsharan/dinehub/pkg/database"
	"github.com/rsharan/dinehub/pkg/logger"
	"github.com/rsharan/dinehub/pkg/router"
)

// Build constructs the fully wired router. Split out from Start so tests and
// the route:list command can inspect routes without binding a socket.
func Build() (*router.Router, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	if err := cache.Connect(); err != nil {
		// Cache is a read-side optimisation; the engine runs without it.
		logger.Warn("redis unavailable, catalog cache disabled", "error", err)
	}

	if uri := config.AuditMongoURI(); uri != "" {
		if err := audit.Open(uri, config.AuditMongoDB()); err != nil {
			// The trail is optional; orders must flow without it.
			logger.Warn("audit trail disabled", "error", err)
		}
	}

	services.RegisterEventHandlers()

	r := router.New()
	routes.RegisterAPI(r)
	return r, nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the audit trail.
func Start() error {
	r, err := Build()
	if err != nil {
		return err
	}

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dinehub listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	audit.Close()
	logger.Info("shutdown complete")
	return nil
}
