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

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/config"
	"github.com/dukerupert/chorequest/internal/database"
	"github.com/dukerupert/chorequest/internal/logging"
	"github.com/dukerupert/chorequest/internal/server"
	"github.com/dukerupert/chorequest/internal/shop"
	"github.com/dukerupert/chorequest/internal/store"
	"github.com/dukerupert/chorequest/internal/ticker"
	ws "github.com/dukerupert/chorequest/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chorequest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	catalog, err := shop.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("load accessory catalog: %w", err)
	}

	clk := clock.Real{Location: cfg.Location}
	svc := server.NewServices(store.New(db), catalog, clk, logger)
	hub := ws.NewHub(logger.With("component", "websocket"))
	srv := server.New(svc, hub, cfg.SessionTTL, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tk := ticker.New(svc.Family, hub, clk, logger.With("component", "ticker"), cfg.TickInterval, cfg.ArchiveAfterDays)
	tk.Start(ctx)
	defer tk.Stop()
	go srv.RateLimiter().RunCleanup(ctx, 10*time.Minute)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chorequest running", "addr", cfg.Addr(), "db", cfg.DBPath, "timezone", cfg.Location.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
