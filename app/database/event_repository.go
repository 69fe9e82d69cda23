package database

import (
	"fmt"
	"time"
)

// recordTimeLayout is the storage format for event boundary timestamps.
// Times are stored in the watcher's local zone, matching the feed.
const recordTimeLayout = "2006-01-02 15:04:05"

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetAll() ([]EventRecord, error) {
	rows, err := r.db.Query(`
		SELECT event_name, event_start, event_end, event_lure_duration
		FROM events
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get event records: %w", err)
	}
	defer rows.Close()

	var recs []EventRecord
	for rows.Next() {
		var rec EventRecord
		var start, end string
		if err := rows.Scan(&rec.Name, &start, &end, &rec.LureDuration); err != nil {
			return nil, fmt.Errorf("failed to scan event record: %w", err)
		}
		if rec.Start, err = time.ParseInLocation(recordTimeLayout, start, time.Local); err != nil {
			return nil, fmt.Errorf("failed to parse event start: %w", err)
		}
		if rec.End, err = time.ParseInLocation(recordTimeLayout, end, time.Local); err != nil {
			return nil, fmt.Errorf("failed to parse event end: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event records: %w", err)
	}

	return recs, nil
}

func (r *eventRepository) Insert(rec EventRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO events (event_name, event_start, event_end, event_lure_duration)
		VALUES (?, ?, ?, ?)
	`, rec.Name, rec.Start.Format(recordTimeLayout), rec.End.Format(recordTimeLayout), rec.LureDuration)

	if err != nil {
		return fmt.Errorf("failed to insert event record: %w", err)
	}

	return nil
}

func (r *eventRepository) Update(rec EventRecord) error {
	_, err := r.db.Exec(`
		UPDATE events
		SET event_start = ?, event_end = ?, event_lure_duration = ?
		WHERE event_name = ?
	`, rec.Start.Format(recordTimeLayout), rec.End.Format(recordTimeLayout), rec.LureDuration, rec.Name)

	if err != nil {
		return fmt.Errorf("failed to update event record: %w", err)
	}

	return nil
}

func (r *eventRepository) Delete(name string) error {
	_, err := r.db.Exec(`DELETE FROM events WHERE event_name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete event record: %w", err)
	}

	return nil
}
