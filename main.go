// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pqtoolkit/pq-toolkit-api/auth"
	"github.com/pqtoolkit/pq-toolkit-api/blobstore"
	"github.com/pqtoolkit/pq-toolkit-api/cliparse"
	"github.com/pqtoolkit/pq-toolkit-api/db"
	"github.com/pqtoolkit/pq-toolkit-api/middleware"
	"github.com/pqtoolkit/pq-toolkit-api/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database (opens and pings)
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store, err := blobstore.NewFSStore(cfg.SamplesDir)
	if err != nil {
		slog.Error("sample store setup failed", "dir", cfg.SamplesDir, "error", err)
		os.Exit(1)
	}

	// Bootstrap the configured admin account
	if cfg.AdminUsername != "" {
		created, err := auth.NewAuthenticator(dbConn).EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
		if created {
			slog.Info("admin account created", "username", cfg.AdminUsername)
		}
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg, store)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight requests finish
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "samples", cfg.SamplesDir)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
