package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/scannerd/eventwatch/app/database"
	"github.com/scannerd/eventwatch/app/events"
)

type fakeEventRepo struct {
	recs    map[string]database.EventRecord
	inserts int
	updates int
	deletes int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{recs: make(map[string]database.EventRecord)}
}

func (f *fakeEventRepo) GetAll() ([]database.EventRecord, error) {
	recs := make([]database.EventRecord, 0, len(f.recs))
	for _, rec := range f.recs {
		recs = append(recs, rec)
	}
	return recs, nil
}

func (f *fakeEventRepo) Insert(rec database.EventRecord) error {
	f.inserts++
	f.recs[rec.Name] = rec
	return nil
}

func (f *fakeEventRepo) Update(rec database.EventRecord) error {
	f.updates++
	f.recs[rec.Name] = rec
	return nil
}

func (f *fakeEventRepo) Delete(name string) error {
	f.deletes++
	delete(f.recs, name)
	return nil
}

type fakeSightingRepo struct {
	truncates   int
	staleAt     []time.Time
	failDeletes bool
}

func (f *fakeSightingRepo) TruncateAll() (int64, error) {
	f.truncates++
	return 10, nil
}

func (f *fakeSightingRepo) DeleteStale(boundary time.Time) (int64, error) {
	if f.failDeletes {
		return 0, fmt.Errorf("store unavailable")
	}
	f.staleAt = append(f.staleAt, boundary)
	return 5, nil
}

func (f *fakeSightingRepo) Count() (int, error) { return 0, nil }

type fakeQuestRepo struct {
	truncates int
	fail      bool
}

func (f *fakeQuestRepo) TruncateAll() (int64, error) {
	if f.fail {
		return 0, fmt.Errorf("store unavailable")
	}
	f.truncates++
	return 7, nil
}

func (f *fakeQuestRepo) Count() (int, error) { return 0, nil }

type fakeDeviceController struct {
	devices   []string
	failFor   map[string]bool
	restarted []string
	listErr   error
}

func (f *fakeDeviceController) ListDevices(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.devices, nil
}

func (f *fakeDeviceController) RestartDevice(ctx context.Context, id string) error {
	if f.failFor[id] {
		return fmt.Errorf("device %s unreachable", id)
	}
	f.restarted = append(f.restarted, id)
	return nil
}

type fakeMappingRefresher struct {
	refreshes int
}

func (f *fakeMappingRefresher) RefreshMapping(ctx context.Context) error {
	f.refreshes++
	return nil
}

type fakeNotifier struct {
	notified []events.Edge
	fail     bool
}

func (f *fakeNotifier) QuestBoundary(ctx context.Context, ev events.Event, edge events.Edge) error {
	if f.fail {
		return fmt.Errorf("webhook unreachable")
	}
	f.notified = append(f.notified, edge)
	return nil
}
