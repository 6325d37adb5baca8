package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/vimleague/hub/internal/config"
	"github.com/vimleague/hub/internal/database"
	"github.com/vimleague/hub/internal/migrations"
	"github.com/vimleague/hub/internal/server"
	"github.com/vimleague/hub/internal/session"
	"github.com/vimleague/hub/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Document store ---
	docs, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer docs.Close()

	g, gctx := errgroup.WithContext(ctx)

	// --- Sessions ---
	var sessions session.Store
	switch cfg.SessionDriver {
	case "redis":
		rdb, err := session.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		logger.Info("sessions in redis")
	default:
		mem := session.NewMemoryStore(cfg.SessionTTL)
		sessions = mem
		g.Go(func() error {
			return mem.RunSweeper(gctx, logger, cfg.SweepInterval)
		})
		logger.Info("sessions in memory", "ttl", cfg.SessionTTL)
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminKey), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin key: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Docs:         docs,
		Sessions:     sessions,
		AdminHash:    adminHash,
		CookieSecure: cfg.CookieSecure,
		PublicDir:    cfg.PublicDir,
	})

	// --- Run ---
	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.StoreDriver != "sqlite" {
		logger.Info("using document file", "path", cfg.DataFile)
		return store.NewFileStore(cfg.DataFile, logger), nil
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	applied, err := migrations.Run(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", len(applied))
	return store.NewSQLStore(db, logger), nil
}
