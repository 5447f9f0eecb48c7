package seed

import (
	"database/sql"
	"fmt"

	"github.com/Simplici0/roasplan/internal/roas"
)

// Config contains the values required by startup seed.
type Config struct {
	Segments []roas.Segment
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run writes the configured segments in an idempotent way: missing rows are inserted and
// rows whose values differ are updated.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for i, s := range cfg.Segments {
		if err := ensureSegment(tx, s, i, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSegment(tx *sql.Tx, s roas.Segment, position int, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM market_segments WHERE id = ? LIMIT 1)`, s.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check segment %q existence: %w", s.ID, err)
	}

	if !exists {
		if _, err := tx.Exec(`
			INSERT INTO market_segments (
				id,
				name,
				description,
				average_order_value,
				cost_per_contact,
				conversion_rate_percent,
				good_return_multiple,
				excellent_return_multiple,
				average_return_multiple,
				custom,
				position
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.Name, s.Description,
			s.AverageOrderValue, s.CostPerContact, s.ConversionRatePercent,
			s.GoodReturnMultiple, s.ExcellentReturnMultiple, s.AverageReturnMultiple,
			s.Custom, position); err != nil {
			return fmt.Errorf("insert segment %q: %w", s.ID, err)
		}
		stats.Inserts++
		return nil
	}

	result, err := tx.Exec(`
		UPDATE market_segments
		SET
			name = ?,
			description = ?,
			average_order_value = ?,
			cost_per_contact = ?,
			conversion_rate_percent = ?,
			good_return_multiple = ?,
			excellent_return_multiple = ?,
			average_return_multiple = ?,
			custom = ?,
			position = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
			AND (
				name != ?
				OR description != ?
				OR average_order_value != ?
				OR cost_per_contact != ?
				OR conversion_rate_percent != ?
				OR good_return_multiple != ?
				OR excellent_return_multiple != ?
				OR average_return_multiple != ?
				OR custom != ?
				OR position != ?
			)
	`,
		s.Name, s.Description,
		s.AverageOrderValue, s.CostPerContact, s.ConversionRatePercent,
		s.GoodReturnMultiple, s.ExcellentReturnMultiple, s.AverageReturnMultiple,
		s.Custom, position,
		s.ID,
		s.Name, s.Description,
		s.AverageOrderValue, s.CostPerContact, s.ConversionRatePercent,
		s.GoodReturnMultiple, s.ExcellentReturnMultiple, s.AverageReturnMultiple,
		s.Custom, position,
	)
	if err != nil {
		return fmt.Errorf("update segment %q: %w", s.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update segment %q: %w", s.ID, err)
	}
	stats.Updates += int(affected)
	return nil
}
