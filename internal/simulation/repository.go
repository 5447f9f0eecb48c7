package simulation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/roasplan/internal/roas"
)

// ListLimit caps how many simulations List returns.
const ListLimit = 50

const timeLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned when a simulation id has no row.
var ErrNotFound = errors.New("simulation not found")

// Simulation is a stored snapshot of a calculation's inputs and outputs. Stored snapshots are
// never recalculated on read.
type Simulation struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	Title      string           `json:"title"`
	Notes      string           `json:"notes"`
	Request    roas.Request     `json:"request"`
	Result     roas.Result      `json:"result"`
	Projection *roas.Projection `json:"projection,omitempty"`
}

// ListItem is the summary row returned by List.
type ListItem struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Title           string    `json:"title"`
	MarketSegmentID string    `json:"market_segment_id,omitempty"`
	Spend           float64   `json:"spend"`
	GrossRevenue    float64   `json:"gross_revenue"`
	ReturnMultiple  float64   `json:"return_multiple"`
}

// Repository persists simulations in the simulations table.
type Repository struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// NewRepository returns a repository over db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now, newID: uuid.NewString}
}

// Create stores s, assigning its id and creation time.
func (r *Repository) Create(ctx context.Context, s Simulation) (Simulation, error) {
	s.ID = r.newID()
	s.CreatedAt = r.now().UTC().Truncate(time.Second)

	inputJSON, err := json.Marshal(s.Request)
	if err != nil {
		return Simulation{}, fmt.Errorf("marshal simulation request: %w", err)
	}
	resultJSON, err := json.Marshal(s.Result)
	if err != nil {
		return Simulation{}, fmt.Errorf("marshal simulation result: %w", err)
	}
	var projectionJSON sql.NullString
	if s.Projection != nil {
		b, err := json.Marshal(s.Projection)
		if err != nil {
			return Simulation{}, fmt.Errorf("marshal simulation projection: %w", err)
		}
		projectionJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO simulations (id, created_at, title, notes, market_segment_id, input_json, result_json, projection_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.CreatedAt.Format(timeLayout), s.Title, s.Notes, s.Request.MarketSegmentID,
		string(inputJSON), string(resultJSON), projectionJSON)
	if err != nil {
		return Simulation{}, fmt.Errorf("insert simulation: %w", err)
	}
	return s, nil
}

// Get returns the stored snapshot for id.
func (r *Repository) Get(ctx context.Context, id string) (Simulation, error) {
	var (
		s              Simulation
		createdAt      string
		inputJSON      string
		resultJSON     string
		projectionJSON sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, title, notes, input_json, result_json, projection_json
		FROM simulations
		WHERE id = ?
	`, id).Scan(&s.ID, &createdAt, &s.Title, &s.Notes, &inputJSON, &resultJSON, &projectionJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Simulation{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return Simulation{}, fmt.Errorf("query simulation: %w", err)
	}

	if s.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Simulation{}, fmt.Errorf("parse simulation created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(inputJSON), &s.Request); err != nil {
		return Simulation{}, fmt.Errorf("decode simulation request: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &s.Result); err != nil {
		return Simulation{}, fmt.Errorf("decode simulation result: %w", err)
	}
	if projectionJSON.Valid {
		var p roas.Projection
		if err := json.Unmarshal([]byte(projectionJSON.String), &p); err != nil {
			return Simulation{}, fmt.Errorf("decode simulation projection: %w", err)
		}
		s.Projection = &p
	}
	return s, nil
}

// List returns the newest simulations first, filtered by title or notes when query is set.
func (r *Repository) List(ctx context.Context, query string) ([]ListItem, error) {
	search := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, title, market_segment_id, result_json
		FROM simulations
		WHERE (? = '' OR title LIKE ? OR notes LIKE ?)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, query, search, search, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("query simulations: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		var (
			item       ListItem
			createdAt  string
			resultJSON string
		)
		if err := rows.Scan(&item.ID, &createdAt, &item.Title, &item.MarketSegmentID, &resultJSON); err != nil {
			return nil, fmt.Errorf("scan simulation: %w", err)
		}
		if item.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse simulation created_at: %w", err)
		}
		item.Spend, item.GrossRevenue, item.ReturnMultiple = summarize(resultJSON)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulations: %w", err)
	}
	return items, nil
}

// summarize reads headline figures from a stored result. Unreadable snapshots summarize as zero.
func summarize(resultJSON string) (spend, gross, returnMultiple float64) {
	var res roas.Result
	if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
		return 0, 0, 0
	}
	return res.Spend, res.GrossRevenue, res.ReturnMultiple
}
