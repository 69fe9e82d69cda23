package watch

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/scannerd/eventwatch/app/database"
	"github.com/scannerd/eventwatch/app/events"
)

// Dispatcher runs the category-specific side effects for a detected boundary
// crossing. Every effect is best-effort: failures are logged and isolated,
// never propagated to the polling loop.
type Dispatcher struct {
	sightings database.SightingRepository
	quests    database.QuestRepository
	devices   DeviceController
	mapping   MappingRefresher
	notifier  Notifier

	truncateSightings bool
	restartDevices    bool
	tzOffset          time.Duration
}

func NewDispatcher(sightings database.SightingRepository, quests database.QuestRepository,
	devices DeviceController, mapping MappingRefresher, notifier Notifier,
	truncateSightings, restartDevices bool) *Dispatcher {
	return &Dispatcher{
		sightings:         sightings,
		quests:            quests,
		devices:           devices,
		mapping:           mapping,
		notifier:          notifier,
		truncateSightings: truncateSightings,
		restartDevices:    restartDevices,
		tzOffset:          utcOffset(),
	}
}

// utcOffset is the local zone's offset from UTC, rounded to whole hours.
// Feed timestamps are local; the sighting store keeps UTC.
func utcOffset() time.Duration {
	_, seconds := time.Now().Zone()
	hours := math.Round(float64(seconds) / 3600)
	return time.Duration(hours) * time.Hour
}

// MonsterBoundary resets the sighting store and optionally restarts the
// scanning devices so the changed monster pool is rescanned.
func (d *Dispatcher) MonsterBoundary(ctx context.Context, c events.Crossing) {
	if d.truncateSightings {
		deleted, err := d.sightings.TruncateAll()
		if err != nil {
			slog.Error("Failed to truncate sightings", "event", c.Event.Name, "error", err)
		} else {
			slog.Info("Truncated sightings", "event", c.Event.Name, "edge", c.Edge, "deleted", deleted)
		}
	} else {
		boundaryUTC := c.At().Add(-d.tzOffset)
		deleted, err := d.sightings.DeleteStale(boundaryUTC)
		if err != nil {
			slog.Error("Failed to delete stale sightings", "event", c.Event.Name, "error", err)
		} else {
			slog.Info("Deleted stale sightings", "event", c.Event.Name, "edge", c.Edge,
				"boundary_utc", boundaryUTC, "deleted", deleted)
		}
	}

	if d.restartDevices && d.devices != nil {
		d.restartAllDevices(ctx)
	}
}

// restartAllDevices fans out a restart command to every registered device.
// A failure on one device never blocks the others.
func (d *Dispatcher) restartAllDevices(ctx context.Context) {
	ids, err := d.devices.ListDevices(ctx)
	if err != nil {
		slog.Error("Failed to list devices", "error", err)
		return
	}

	for _, id := range ids {
		if err := d.devices.RestartDevice(ctx, id); err != nil {
			slog.Error("Failed to restart device", "device", id, "error", err)
			continue
		}
		slog.Info("Restarted device", "device", id)
	}
}

// QuestBoundary truncates the quest store, triggers the mapping refresh and
// optionally fans out notifications. Notification failures never roll back
// the truncate.
func (d *Dispatcher) QuestBoundary(ctx context.Context, c events.Crossing) {
	deleted, err := d.quests.TruncateAll()
	if err != nil {
		slog.Error("Failed to truncate quests", "event", c.Event.Name, "error", err)
	} else {
		slog.Info("Truncated quests", "event", c.Event.Name, "edge", c.Edge, "deleted", deleted)
	}

	if d.mapping != nil {
		if err := d.mapping.RefreshMapping(ctx); err != nil {
			slog.Error("Failed to refresh mapping", "error", err)
		}
	}

	if d.notifier != nil {
		if err := d.notifier.QuestBoundary(ctx, c.Event, c.Edge); err != nil {
			slog.Error("Failed to send quest boundary notification", "event", c.Event.Name, "error", err)
		}
	}
}
