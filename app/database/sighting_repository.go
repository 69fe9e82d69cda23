package database

import (
	"fmt"
	"time"
)

type sightingRepository struct {
	db *DB
}

func NewSightingRepository(db *DB) SightingRepository {
	return &sightingRepository{db: db}
}

func (r *sightingRepository) TruncateAll() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM sightings`)
	if err != nil {
		return 0, fmt.Errorf("failed to truncate sightings: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count truncated sightings: %w", err)
	}

	return affected, nil
}

func (r *sightingRepository) DeleteStale(boundary time.Time) (int64, error) {
	cutoff := boundary.Format(recordTimeLayout)

	res, err := r.db.Exec(`
		DELETE FROM sightings
		WHERE last_seen < ? AND expires_at > ?
	`, cutoff, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sightings: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sightings: %w", err)
	}

	return affected, nil
}

func (r *sightingRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM sightings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sightings: %w", err)
	}
	return count, nil
}
