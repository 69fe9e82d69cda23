package database

import (
	"time"
)

// EventRecord is one persisted row per event category, keyed by the
// category's display name.
type EventRecord struct {
	Name         string
	Start        time.Time
	End          time.Time
	LureDuration int // minutes
}
