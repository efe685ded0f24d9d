package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/armazem/internal/api"
	"github.com/erazemk/armazem/internal/config"
	"github.com/erazemk/armazem/internal/db"
	"github.com/erazemk/armazem/internal/files"
	"github.com/erazemk/armazem/internal/store"
	"github.com/erazemk/armazem/internal/sweeper"
)

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	var common commonFlags
	common.register(fs)

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var adminUser string
	fs.StringVar(&adminUser, "user", "admin", "")
	fs.StringVar(&adminUser, "u", "admin", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: armazem serve [flags]

Flags:
  -a, -addr <host:port>   listen address (default: :3001)
  -u, -user <name>        boss username created on first run (default: admin)
`+commonUsage)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	overrides := common.overrides(fs)
	if addr != "" {
		overrides["server.addr"] = addr
	}
	cfg, err := config.Load(common.config, overrides)
	if err != nil {
		return err
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	closeLog, err := setupLogger(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}

	// The first start against an empty user table creates the boss account.
	ctx := context.Background()
	password, err := createFirstBoss(ctx, database, adminUser)
	if err != nil {
		return err
	}
	if password != "" {
		printInitResult(cfg.Database.Driver, adminUser, password)
	}
	slog.Info("database ready", "driver", cfg.Database.Driver)

	// Load JWT secret from config, or from the database (auto-generated on first run).
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(ctx, database)
		if err != nil {
			return fmt.Errorf("getting JWT secret: %w", err)
		}
	}

	uploads, err := files.New(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	sweep := sweeper.New(database, uploads, cfg.Uploads.SweepGrace)
	if cfg.Uploads.SweepSchedule != "" {
		if err := sweep.Start(cfg.Uploads.SweepSchedule); err != nil {
			return err
		}
		defer sweep.Stop()
		slog.Info("upload sweeper scheduled", "schedule", cfg.Uploads.SweepSchedule)
	}

	handler := api.NewRouter(database, api.Options{
		JWTSecret:      jwtSecret,
		TokenTTL:       cfg.Auth.TokenTTL,
		Files:          uploads,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		Limiter:        api.NewLoginLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
		CORSOrigins:    cfg.Server.CORSOrigins,
		Metrics:        cfg.Metrics.Enabled,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

