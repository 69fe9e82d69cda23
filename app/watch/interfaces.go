package watch

import (
	"context"

	"github.com/scannerd/eventwatch/app/events"
)

// DeviceController enumerates and restarts registered scanning devices.
type DeviceController interface {
	ListDevices(ctx context.Context) ([]string, error)
	RestartDevice(ctx context.Context, id string) error
}

// MappingRefresher recomputes the derived scan mapping after quest data
// changed.
type MappingRefresher interface {
	RefreshMapping(ctx context.Context) error
}

// Notifier announces a quest boundary to the configured transports.
// Best-effort: errors are logged by the caller, never acted upon.
type Notifier interface {
	QuestBoundary(ctx context.Context, ev events.Event, edge events.Edge) error
}
