package watch

import (
	"context"
	"testing"
	"time"

	"github.com/scannerd/eventwatch/app/events"
)

func monsterCrossing(edge events.Edge) events.Crossing {
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local)
	return events.Crossing{
		Event: events.Event{
			Name:               "Community Day",
			Category:           events.CategoryCommunityDay,
			Start:              &start,
			End:                time.Date(2030, 1, 1, 13, 0, 0, 0, time.Local),
			AffectsMonsterPool: true,
		},
		Edge: edge,
	}
}

func TestDispatcher_MonsterBoundary_DeleteStale(t *testing.T) {
	sightings := &fakeSightingRepo{}
	d := NewDispatcher(sightings, &fakeQuestRepo{}, nil, nil, nil, false, false)

	d.MonsterBoundary(context.Background(), monsterCrossing(events.EdgeStart))

	if sightings.truncates != 0 {
		t.Errorf("Expected no truncate in delete mode, got %d", sightings.truncates)
	}
	if len(sightings.staleAt) != 1 {
		t.Fatalf("Expected 1 stale delete, got %d", len(sightings.staleAt))
	}

	// The boundary timestamp is shifted from local to UTC.
	expected := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local).Add(-utcOffset())
	if !sightings.staleAt[0].Equal(expected) {
		t.Errorf("Expected boundary %v, got %v", expected, sightings.staleAt[0])
	}
}

func TestDispatcher_MonsterBoundary_TruncateMode(t *testing.T) {
	sightings := &fakeSightingRepo{}
	d := NewDispatcher(sightings, &fakeQuestRepo{}, nil, nil, nil, true, false)

	d.MonsterBoundary(context.Background(), monsterCrossing(events.EdgeEnd))

	if sightings.truncates != 1 {
		t.Errorf("Expected 1 truncate, got %d", sightings.truncates)
	}
	if len(sightings.staleAt) != 0 {
		t.Errorf("Expected no stale deletes in truncate mode, got %d", len(sightings.staleAt))
	}
}

func TestDispatcher_MonsterBoundary_DeviceFailureIsolation(t *testing.T) {
	devices := &fakeDeviceController{
		devices: []string{"atv-1", "atv-2", "atv-3"},
		failFor: map[string]bool{"atv-2": true},
	}
	d := NewDispatcher(&fakeSightingRepo{}, &fakeQuestRepo{}, devices, nil, nil, true, true)

	d.MonsterBoundary(context.Background(), monsterCrossing(events.EdgeStart))

	if len(devices.restarted) != 2 {
		t.Fatalf("Expected 2 restarted devices, got %d", len(devices.restarted))
	}
	if devices.restarted[0] != "atv-1" || devices.restarted[1] != "atv-3" {
		t.Errorf("Expected atv-1 and atv-3 restarted, got %v", devices.restarted)
	}
}

func TestDispatcher_MonsterBoundary_RestartDisabled(t *testing.T) {
	devices := &fakeDeviceController{devices: []string{"atv-1"}}
	d := NewDispatcher(&fakeSightingRepo{}, &fakeQuestRepo{}, devices, nil, nil, true, false)

	d.MonsterBoundary(context.Background(), monsterCrossing(events.EdgeStart))

	if len(devices.restarted) != 0 {
		t.Errorf("Expected no restarts when disabled, got %d", len(devices.restarted))
	}
}

func TestDispatcher_MonsterBoundary_StoreFailureStillRestartsDevices(t *testing.T) {
	devices := &fakeDeviceController{devices: []string{"atv-1"}}
	sightings := &fakeSightingRepo{failDeletes: true}
	d := NewDispatcher(sightings, &fakeQuestRepo{}, devices, nil, nil, false, true)

	d.MonsterBoundary(context.Background(), monsterCrossing(events.EdgeStart))

	if len(devices.restarted) != 1 {
		t.Errorf("Expected restart fan-out despite store failure, got %d restarts", len(devices.restarted))
	}
}

func TestDispatcher_QuestBoundary(t *testing.T) {
	quests := &fakeQuestRepo{}
	mapping := &fakeMappingRefresher{}
	notifier := &fakeNotifier{}
	d := NewDispatcher(&fakeSightingRepo{}, quests, nil, mapping, notifier, false, false)

	d.QuestBoundary(context.Background(), monsterCrossing(events.EdgeStart))

	if quests.truncates != 1 {
		t.Errorf("Expected 1 quest truncate, got %d", quests.truncates)
	}
	if mapping.refreshes != 1 {
		t.Errorf("Expected 1 mapping refresh, got %d", mapping.refreshes)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != events.EdgeStart {
		t.Errorf("Expected start notification, got %v", notifier.notified)
	}
}

func TestDispatcher_QuestBoundary_NotifierFailureIgnored(t *testing.T) {
	quests := &fakeQuestRepo{}
	notifier := &fakeNotifier{fail: true}
	d := NewDispatcher(&fakeSightingRepo{}, quests, nil, nil, notifier, false, false)

	d.QuestBoundary(context.Background(), monsterCrossing(events.EdgeEnd))

	if quests.truncates != 1 {
		t.Errorf("Expected quest truncate despite notifier failure, got %d", quests.truncates)
	}
}

func TestDispatcher_QuestBoundary_NoNotifierConfigured(t *testing.T) {
	quests := &fakeQuestRepo{}
	d := NewDispatcher(&fakeSightingRepo{}, quests, nil, nil, nil, false, false)

	d.QuestBoundary(context.Background(), monsterCrossing(events.EdgeEnd))

	if quests.truncates != 1 {
		t.Errorf("Expected quest truncate without notifier, got %d", quests.truncates)
	}
}
