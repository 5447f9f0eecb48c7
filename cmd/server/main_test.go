package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Simplici0/roasplan/internal/config"
	"github.com/Simplici0/roasplan/internal/db"
	"github.com/Simplici0/roasplan/internal/migrations"
)

func TestLoadCatalogAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	overrides := filepath.Join(dir, "benchmarks.yaml")
	content := []byte(`
segments:
  - id: ecommerce
    name: E-commerce
    average_order_value: 240
    cost_per_contact: 7
    conversion_rate_percent: 3
    good_return_multiple: 4.5
    excellent_return_multiple: 7
    average_return_multiple: 3.5
  - id: saas
    name: SaaS
    average_order_value: 1200
    cost_per_contact: 40
    conversion_rate_percent: 2
`)
	if err := os.WriteFile(overrides, content, 0o600); err != nil {
		t.Fatalf("write overrides: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog, err := loadCatalog(database, overrides, logger)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}

	if n := len(catalog.List()); n != 8 {
		t.Fatalf("expected 8 segments, got %d", n)
	}
	if s, ok := catalog.Segment("ecommerce"); !ok || s.AverageOrderValue != 240 {
		t.Fatalf("ecommerce override not applied: %+v", s)
	}
	if _, ok := catalog.Segment("saas"); !ok {
		t.Fatalf("saas segment not loaded")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := loadCatalog(database, filepath.Join(dir, "absent.yaml"), logger); err == nil {
		t.Fatalf("expected error for missing benchmarks file")
	}
}

func TestNewLoggerFormatByEnvironment(t *testing.T) {
	var dev strings.Builder
	newLogger(config.Config{Env: "development", LogLevel: slog.LevelInfo}, &dev).Info("hello")
	if !strings.Contains(dev.String(), "msg=hello") {
		t.Fatalf("expected text output in development, got %q", dev.String())
	}

	var prod strings.Builder
	newLogger(config.Config{Env: "production", LogLevel: slog.LevelInfo}, &prod).Info("hello")
	if !strings.Contains(prod.String(), `"msg":"hello"`) {
		t.Fatalf("expected JSON output in production, got %q", prod.String())
	}

	var quiet strings.Builder
	newLogger(config.Config{Env: "production", LogLevel: slog.LevelWarn}, &quiet).Info("hello")
	if quiet.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", quiet.String())
	}
}
