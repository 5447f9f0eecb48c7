package benchmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/roasplan/internal/roas"
)

// ErrNotFound is returned when a segment id has no row.
var ErrNotFound = errors.New("market segment not found")

// Repository reads market segments from the market_segments table.
type Repository struct {
	db *sql.DB
}

// NewRepository returns a repository over db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const segmentColumns = `
	id,
	name,
	description,
	average_order_value,
	cost_per_contact,
	conversion_rate_percent,
	good_return_multiple,
	excellent_return_multiple,
	average_return_multiple,
	custom`

// List returns all stored segments ordered by position, then id.
func (r *Repository) List(ctx context.Context) ([]roas.Segment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+segmentColumns+` FROM market_segments ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query market segments: %w", err)
	}
	defer rows.Close()

	segments := make([]roas.Segment, 0)
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan market segment: %w", err)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market segments: %w", err)
	}
	return segments, nil
}

// Get returns one segment.
func (r *Repository) Get(ctx context.Context, id string) (roas.Segment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+segmentColumns+` FROM market_segments WHERE id = ?`, id)
	s, err := scanSegment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roas.Segment{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return roas.Segment{}, fmt.Errorf("query market segment: %w", err)
	}
	return s, nil
}

// Catalog loads every stored segment into an in-memory catalog.
func (r *Repository) Catalog(ctx context.Context) (*Catalog, error) {
	segments, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(segments)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSegment(sc scanner) (roas.Segment, error) {
	var s roas.Segment
	err := sc.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.AverageOrderValue,
		&s.CostPerContact,
		&s.ConversionRatePercent,
		&s.GoodReturnMultiple,
		&s.ExcellentReturnMultiple,
		&s.AverageReturnMultiple,
		&s.Custom,
	)
	return s, err
}
