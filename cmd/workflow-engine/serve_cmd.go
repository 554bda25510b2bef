package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/workflow-engine/internal/advancer"
	"github.com/cuemby/workflow-engine/internal/authz"
	"github.com/cuemby/workflow-engine/internal/casestore"
	"github.com/cuemby/workflow-engine/internal/catalog"
	"github.com/cuemby/workflow-engine/internal/config"
	"github.com/cuemby/workflow-engine/internal/dbconn"
	"github.com/cuemby/workflow-engine/internal/httpapi"
	"github.com/cuemby/workflow-engine/internal/schema"
	"github.com/cuemby/workflow-engine/internal/stepledger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workflow engine HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbconn.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("serve: open database: %w", err)
	}
	defer db.Close()

	if err := schema.Bootstrap(ctx, db.SQL); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	cat := catalog.NewStore(db.SQL)
	cases := casestore.NewStore(db.SQL, cat)
	steps := stepledger.NewStore(db.SQL)
	adv := advancer.New(db.SQL, steps, cat, cases)
	users := authz.NewUserStore(db.SQL)
	tokens := authz.NewTokenIssuer([]byte(cfg.JWTSigningKey), cfg.JWTAccessTTL)

	server := httpapi.New(log, cat, cases, steps, adv, users, tokens)

	log.Info("starting workflow engine", "addr", cfg.HTTPAddr)
	start := time.Now()
	if err := server.Run(ctx, cfg.HTTPAddr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("workflow engine stopped", "uptime", time.Since(start))
	return nil
}
