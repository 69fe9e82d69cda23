package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/scannerd/eventwatch/app/database"
	"github.com/scannerd/eventwatch/app/events"
)

// DefaultLureDuration is written when an event carries no lure bonus (minutes).
const DefaultLureDuration = 30

// sentinelTime marks a category record with no currently-effective event.
func sentinelTime() time.Time {
	return time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local)
}

// Reconciler converges the persisted event records to the latest
// spawn-affecting event set, emitting the minimal write set.
type Reconciler struct {
	repo          database.EventRepository
	deleteRemoved bool
}

func NewReconciler(repo database.EventRepository, deleteRemoved bool) *Reconciler {
	return &Reconciler{
		repo:          repo,
		deleteRemoved: deleteRemoved,
	}
}

// Run diffs the sorted spawn-affecting events against the persisted records.
// Only the first event per category is applied per pass; events with an
// unknown start are skipped (nothing to reconcile against).
func (r *Reconciler) Run(spawn []events.Event) error {
	recs, err := r.repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load event records: %w", err)
	}

	byName := make(map[string]database.EventRecord, len(recs))
	for _, rec := range recs {
		byName[rec.Name] = rec
	}

	// Every category always has a record; create missing ones with
	// sentinel defaults so the diff below never handles absence.
	for _, category := range events.Categories() {
		name := category.DisplayName()
		if _, ok := byName[name]; ok {
			continue
		}
		rec := database.EventRecord{
			Name:         name,
			Start:        sentinelTime(),
			End:          sentinelTime(),
			LureDuration: DefaultLureDuration,
		}
		if err := r.repo.Insert(rec); err != nil {
			return fmt.Errorf("failed to create event record: %w", err)
		}
		byName[name] = rec
		slog.Info("Created event record", "name", name)
	}

	applied := make(map[events.Category]bool)
	for _, ev := range spawn {
		if applied[ev.Category] {
			continue
		}
		applied[ev.Category] = true

		if ev.Start == nil {
			slog.Debug("Skipping event with unknown start", "name", ev.Name)
			continue
		}

		rec := byName[ev.Category.DisplayName()]
		if rec.Start.Equal(*ev.Start) && rec.End.Equal(ev.End) {
			continue
		}

		rec.Start = *ev.Start
		rec.End = ev.End
		rec.LureDuration = DefaultLureDuration
		if ev.BonusLureDuration != nil {
			rec.LureDuration = *ev.BonusLureDuration
		}

		if err := r.repo.Update(rec); err != nil {
			return fmt.Errorf("failed to update event record: %w", err)
		}
		slog.Info("Updated event record", "name", rec.Name, "event", ev.Name,
			"start", rec.Start, "end", rec.End, "lure_duration", rec.LureDuration)
	}

	if r.deleteRemoved {
		if err := r.deleteUnmanaged(byName); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reconciler) deleteUnmanaged(byName map[string]database.EventRecord) error {
	managed := make(map[string]bool)
	for _, category := range events.Categories() {
		managed[category.DisplayName()] = true
	}

	for name := range byName {
		if managed[name] {
			continue
		}
		if err := r.repo.Delete(name); err != nil {
			return fmt.Errorf("failed to delete event record: %w", err)
		}
		slog.Info("Deleted unmanaged event record", "name", name)
	}

	return nil
}
