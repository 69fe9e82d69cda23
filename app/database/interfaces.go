package database

import (
	"time"
)

type EventRepository interface {
	GetAll() ([]EventRecord, error)
	Insert(rec EventRecord) error
	Update(rec EventRecord) error
	Delete(name string) error
}

type SightingRepository interface {
	TruncateAll() (int64, error)

	// DeleteStale removes sightings last seen before the boundary whose
	// expiry is still in the future at the boundary.
	DeleteStale(boundary time.Time) (int64, error)

	Count() (int, error)
}

type QuestRepository interface {
	TruncateAll() (int64, error)
	Count() (int, error)
}
