package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/roasplan/internal/benchmark"
	"github.com/Simplici0/roasplan/internal/db"
	"github.com/Simplici0/roasplan/internal/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	database := openTestDB(t)
	cfg := Config{Segments: benchmark.Defaults()}

	for i := 0; i < 10; i++ {
		stats, err := Run(database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != len(cfg.Segments) {
				t.Fatalf("expected %d inserts in first run, got %d", len(cfg.Segments), stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 || stats.Updates != 0 {
			t.Fatalf("expected no writes in iteration %d, got %+v", i, stats)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM market_segments`, nil, len(cfg.Segments))
	assertCount(t, database, `SELECT COUNT(*) FROM market_segments WHERE custom = ?`, true, 1)
}

func TestRunUpdatesChangedSegments(t *testing.T) {
	database := openTestDB(t)
	segments := benchmark.Defaults()
	if _, err := Run(database, Config{Segments: segments}); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	segments[0].AverageOrderValue = 3100
	stats, err := Run(database, Config{Segments: segments})
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if stats.Inserts != 0 || stats.Updates != 1 {
		t.Fatalf("expected exactly one update, got %+v", stats)
	}

	var aov float64
	if err := database.QueryRow(`SELECT average_order_value FROM market_segments WHERE id = ?`, segments[0].ID).Scan(&aov); err != nil {
		t.Fatalf("query updated segment: %v", err)
	}
	if aov != 3100 {
		t.Fatalf("average_order_value = %v, want 3100", aov)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
