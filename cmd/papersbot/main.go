package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/codecrafter02/papersbot/internal/bot"
	"github.com/codecrafter02/papersbot/internal/catalog"
	"github.com/codecrafter02/papersbot/internal/config"
	"github.com/codecrafter02/papersbot/internal/database"
	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/payment"
	"github.com/codecrafter02/papersbot/internal/razorpay"
	"github.com/codecrafter02/papersbot/internal/store"
	"github.com/codecrafter02/papersbot/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("papersbot: %v", err)
	}
}

func run() error {
	startedAt := time.Now()

	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	cat, err := catalog.Load(cfg.Content.CatalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	st, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	gateway := razorpay.NewClient(cfg.Payments.KeyID, cfg.Payments.KeySecret)
	payments := payment.NewService(gateway, st, cfg.Payments.PriceRupees, cfg.Payments.BaseURL)

	b, err := bot.New(cfg, cat, st, payments)
	if err != nil {
		return fmt.Errorf("init bot: %w", err)
	}
	payments.SetNotifier(b)

	srv := web.New(cfg.Server, cfg.Payments, payments)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errc := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errc <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		b.Start()
		errc <- nil
	}()

	logger.L.With("component", "app").Info("app ready",
		slog.String("event", "ready"),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			logger.L.With("component", "app").Error("runtime failure",
				slog.String("event", "error"),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.L.With("component", "app").Info("shutting down...",
		slog.String("event", "shutdown"),
	)

	b.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Web.Warn("http shutdown error",
			slog.String("event", "shutdown"),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// buildStore wires the configured storage backend. Postgres gets migrations
// applied before the pool opens; memory needs nothing.
func buildStore(cfg *config.Config) (*store.Store, func(), error) {
	if cfg.Storage.Backend == config.StorageMemory {
		logger.DB.Info("using in-memory storage",
			slog.String("event", "store.init"),
		)
		return store.NewMemory(), func() {}, nil
	}

	if err := database.RunMigrations(cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closer := func() {
		if err := db.Close(); err != nil {
			logger.DB.Warn("db close error",
				slog.String("event", "close"),
				slog.String("err", err.Error()),
			)
		}
	}
	return store.NewPostgres(db), closer, nil
}
