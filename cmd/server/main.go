/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the paycheck budget server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (file, then environment, then flags)
  2. Open the configured store
  3. Create the budget service and API handler
  4. Start the dashboard refresh scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config path (default: ~/.config/paycheck/config.toml)
  -port    HTTP server port, overrides config
  -db      SQLite database path, overrides config
           Use ":memory:" for in-memory database
  -log-format  json (default) or text

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the refresh scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/paycheck.db"

  # Run with encrypted JSON documents
  PAYCHECK_STORE=jsonfile PAYCHECK_PASSPHRASE=... ./server

  # Run with auth enabled
  PAYCHECK_JWT_SECRET=... ./server -port=3000

ENVIRONMENT:
  PAYCHECK_PORT, PAYCHECK_STORE, PAYCHECK_DB, PAYCHECK_DATA_DIR,
  PAYCHECK_PASSPHRASE, PAYCHECK_JWT_SECRET, PAYCHECK_LOG_LEVEL

SEE ALSO:
  - config/config.go: Settings
  - api/server.go: Router configuration
  - store/open.go: Store drivers
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/paycheck/api"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/config"
	"github.com/warp/paycheck/identity"
	"github.com/warp/paycheck/store"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "TOML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.Path = *dbPath
	}

	cfg.Log.Format = *logFormat
	log, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	// Initialize store
	if cfg.Store.Driver == config.DriverSQLite && cfg.Store.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Auth is optional
	var verifier *identity.Verifier
	if cfg.Auth.JWTSecret != "" {
		verifier, err = identity.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			log.Fatalf("Failed to configure auth: %v", err)
		}
	} else {
		log.Warn("No JWT secret configured, every request uses the anonymous budget")
	}

	// Initialize handler
	svc := budget.NewService(st, cfg.Projector(), log)
	handler := api.NewHandler(svc, log)
	defer handler.Cache.Close()

	scheduler, err := api.NewRefreshScheduler(handler.Cache, cfg.Refresh.Schedule, log)
	if err != nil {
		log.Fatalf("Failed to create refresh scheduler: %v", err)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins: cfg.Server.CORSOrigins,
		Verifier:    verifier,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"port":  cfg.Server.Port,
			"store": cfg.Store.Driver,
		}).Infof("Server starting on http://localhost:%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
