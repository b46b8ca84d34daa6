// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

// Package main is the entry point for the WikiScope server.
//
// WikiScope serves edit-history statistics for wiki users, pages and
// projects on top of the wiki replica databases.
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog global logger per the logging config
//  3. Replica: MySQL connection pool wrapped with a circuit breaker
//  4. Pipeline: entity resolver, gates and statistics services
//  5. HTTP server: chi router with graceful shutdown on SIGINT/SIGTERM
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/wikiscope/wikiscope/internal/api"
	"github.com/wikiscope/wikiscope/internal/config"
	"github.com/wikiscope/wikiscope/internal/logging"
	"github.com/wikiscope/wikiscope/internal/pipeline"
	"github.com/wikiscope/wikiscope/internal/repository"
	"github.com/wikiscope/wikiscope/internal/stats"
)

func main() {
	if err := run(); err != nil {
		logging.Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	db, err := openReplica(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	replica := repository.NewReplica(db)
	users := repository.NewUserRepository(replica, cfg.Pipeline.OptInPage)
	resolver := pipeline.NewResolver(
		repository.NewProjectRepository(replica),
		users,
		repository.NewPageRepository(replica),
		pipeline.ResolverConfig{
			SupportedProjects: cfg.Pipeline.SupportedProjects,
			MaxIPv4CIDR:       cfg.Pipeline.MaxIPv4CIDR,
			MaxIPv6CIDR:       cfg.Pipeline.MaxIPv6CIDR,
		})
	statsSvc := stats.NewService(repository.NewRevisionRepository(replica))

	handlers := api.NewHandlers(cfg, resolver, users, statsSvc)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, handlers),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logging.Info().Msg("server stopped")
	return nil
}

// openReplica opens and verifies the replica connection pool.
func openReplica(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening replica connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpen)
	db.SetMaxIdleConns(cfg.Database.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging replica: %w", err)
	}
	return db, nil
}
