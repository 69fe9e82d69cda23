package feed

import (
	"time"

	"github.com/scannerd/eventwatch/app/events"
)

// Snapshot holds one classified view of the remote feed. Each set is ordered
// ascending by start time with unknown-start events first. Snapshots are
// wholesale-replaced on every refresh and never mutated afterwards.
type Snapshot struct {
	All     []events.Event
	Spawn   []events.Event
	Quest   []events.Event
	Monster []events.Event

	FetchedAt time.Time
}
