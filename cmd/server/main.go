// Package main is the entry point for the stock report API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"stockcard/internal/app"
	"stockcard/internal/domain/auth"
	v1 "stockcard/internal/infrastructure/http/v1"
	"stockcard/internal/infrastructure/http/v1/middleware"
	"stockcard/pkg/config"
	"stockcard/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "config file (default: config.yaml search path)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting stockcard server", "env", cfg.App.Env, "version", cfg.App.Version)

	// --- Reference store ---
	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open reference store", "source", cfg.Source.Kind, "error", err)
	}
	defer backend.Close()

	if err := backend.Ping(ctx); err != nil {
		log.Warnw("reference store not reachable yet", "source", cfg.Source.Kind, "error", err)
	}

	reportService, err := app.NewReportService(ctx, cfg, backend)
	if err != nil {
		log.Fatalw("failed to build report service", "error", err)
	}

	// --- Auth ---
	var validator middleware.JWTValidator
	if cfg.Auth.Enabled() {
		validator = auth.NewJWTService(auth.DefaultJWTConfig(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
		log.Info("jwt authentication enabled")
	} else {
		log.Warn("jwt authentication disabled: auth.jwt_secret is empty")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		Reports:      reportService,
		Source:       backend,
		SourceKind:   backend.Kind,
		Version:      cfg.App.Version,
		JWTValidator: validator,
		ServiceName:  "stockcard",
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      gzhttp.GzipHandler(router),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr, "source", backend.Kind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
