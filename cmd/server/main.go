package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Simplici0/roasplan/internal/benchmark"
	"github.com/Simplici0/roasplan/internal/config"
	"github.com/Simplici0/roasplan/internal/db"
	"github.com/Simplici0/roasplan/internal/httpx"
	"github.com/Simplici0/roasplan/internal/metrics"
	"github.com/Simplici0/roasplan/internal/migrations"
	"github.com/Simplici0/roasplan/internal/roas"
	"github.com/Simplici0/roasplan/internal/seed"
	"github.com/Simplici0/roasplan/internal/simulation"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// newLogger writes text lines in development and JSON everywhere else.
func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func run(cfg config.Config, logger *slog.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(database, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}

	catalog, err := loadCatalog(database, cfg.BenchmarksFile, logger)
	if err != nil {
		return err
	}

	engine := roas.NewEngine(catalog, roas.WithMaxContractMonths(cfg.MaxContractMonths))
	logger.Info("engine ready", "segments", len(catalog.List()), "max_contract_months", engine.MaxContractMonths())
	handler := httpx.NewRouter(httpx.Deps{
		Logger:      logger,
		DB:          database,
		Engine:      engine,
		Segments:    catalog,
		Simulations: simulation.NewRepository(database),
		Metrics:     metrics.New(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// loadCatalog seeds the segment table from the built-in catalog plus optional file overrides,
// then reads the stored catalog back.
func loadCatalog(database *sql.DB, benchmarksFile string, logger *slog.Logger) (*benchmark.Catalog, error) {
	catalog := benchmark.Default()
	if benchmarksFile != "" {
		overrides, err := benchmark.LoadFile(benchmarksFile)
		if err != nil {
			return nil, fmt.Errorf("load benchmark overrides: %w", err)
		}
		if catalog, err = catalog.Merge(overrides); err != nil {
			return nil, fmt.Errorf("merge benchmark overrides: %w", err)
		}
	}

	stats, err := seed.Run(database, seed.Config{Segments: catalog.List()})
	if err != nil {
		return nil, fmt.Errorf("seed market segments: %w", err)
	}
	logger.Info("market segments seeded", "inserts", stats.Inserts, "updates", stats.Updates)

	stored, err := benchmark.NewRepository(database).Catalog(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load market segments: %w", err)
	}
	return stored, nil
}
