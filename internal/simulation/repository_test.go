package simulation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Simplici0/roasplan/internal/db"
	"github.com/Simplici0/roasplan/internal/migrations"
	"github.com/Simplici0/roasplan/internal/roas"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "simulations-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

// newTestRepository returns a repository with a clock that advances one minute per call and
// sequential ids.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo := NewRepository(openTestDB(t))
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	repo.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	ids := 0
	repo.newID = func() string {
		ids++
		return fmt.Sprintf("sim-%03d", ids)
	}
	return repo
}

func sampleSimulation(title, notes string) Simulation {
	req := roas.Request{
		Spend:                 1000,
		Period:                roas.PeriodMonthly,
		AverageOrderValue:     roas.Float(200),
		CostPerContact:        roas.Float(10),
		ConversionRatePercent: roas.Float(5),
		MarketSegmentID:       "ecommerce",
	}
	return Simulation{
		Title:   title,
		Notes:   notes,
		Request: req,
		Result: roas.Result{
			Mode:           roas.ModeExplicitMetrics,
			Spend:          1000,
			Contacts:       100,
			Conversions:    5,
			GrossRevenue:   1000,
			NetRevenue:     1000,
			ReturnMultiple: 1,
		},
	}
}

func TestCreateAndGetRoundTripsSnapshot(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	in := sampleSimulation("Spring campaign", "first draft")
	in.Projection = &roas.Projection{
		Periods: []roas.PeriodEntry{{Period: 1, Spend: 1000, GrossRevenue: 1000, CumulativeRevenue: 1000}},
		Totals:  roas.Totals{TotalSpend: 1000, TotalRevenue: 1000},
	}

	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "sim-001" {
		t.Fatalf("id = %q, want sim-001", created.ID)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Spring campaign" || got.Notes != "first draft" {
		t.Fatalf("unexpected title/notes: %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
	if got.Request.CostPerContact == nil || *got.Request.CostPerContact != 10 {
		t.Fatalf("request not restored: %+v", got.Request)
	}
	if got.Result.Mode != created.Result.Mode {
		t.Fatalf("mode = %v, want %v", got.Result.Mode, created.Result.Mode)
	}
	if got.Result.GrossRevenue != 1000 {
		t.Fatalf("gross revenue = %v, want 1000", got.Result.GrossRevenue)
	}
	if got.Projection == nil || len(got.Projection.Periods) != 1 {
		t.Fatalf("projection not restored: %+v", got.Projection)
	}
}

func TestGetWithoutProjection(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleSimulation("No projection", ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Projection != nil {
		t.Fatalf("expected nil projection, got %+v", got.Projection)
	}
}

func TestGetUnknownID(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstAndFiltered(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, s := range []Simulation{
		sampleSimulation("Legal retainer", "law firm pitch"),
		sampleSimulation("Shop launch", "black friday"),
		sampleSimulation("Clinic", "follow up with law partner"),
	} {
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	if all[0].Title != "Clinic" || all[2].Title != "Legal retainer" {
		t.Fatalf("unexpected order: %q, %q, %q", all[0].Title, all[1].Title, all[2].Title)
	}
	if all[0].ReturnMultiple != 1 || all[0].Spend != 1000 || all[0].MarketSegmentID != "ecommerce" {
		t.Fatalf("unexpected summary: %+v", all[0])
	}

	filtered, err := repo.List(ctx, "law")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "law", len(filtered))
	}
	if filtered[0].Title != "Clinic" || filtered[1].Title != "Legal retainer" {
		t.Fatalf("unexpected filtered order: %+v", filtered)
	}
}

func TestListCapsResults(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < ListLimit+5; i++ {
		if _, err := repo.Create(ctx, sampleSimulation(fmt.Sprintf("run %d", i), "")); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	items, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != ListLimit {
		t.Fatalf("expected %d items, got %d", ListLimit, len(items))
	}
	if items[0].Title != fmt.Sprintf("run %d", ListLimit+4) {
		t.Fatalf("newest item = %q", items[0].Title)
	}
}
