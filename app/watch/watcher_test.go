package watch

import (
	"context"
	"testing"
	"time"

	"github.com/scannerd/eventwatch/app/events"
	"github.com/scannerd/eventwatch/app/feed"
)

func newTestWatcher(dispatcher *Dispatcher, snap *feed.Snapshot, cooldown time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		dispatcher:      dispatcher,
		monstersEnabled: true,
		questsEnabled:   true,
		questEdges:      ParseQuestReactions("event community-day spotlight-hour"),
		cooldown:        cooldown,
		snapshot:        snap,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func testSnapshot() *feed.Snapshot {
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local)
	ev := events.Event{
		Name:               "Community Day",
		Category:           events.CategoryCommunityDay,
		Start:              &start,
		End:                time.Date(2030, 1, 1, 13, 0, 0, 0, time.Local),
		AffectsMonsterPool: true,
	}
	return &feed.Snapshot{Monster: []events.Event{ev}}
}

func TestWatcher_MonsterBoundaryFiresOnce(t *testing.T) {
	sightings := &fakeSightingRepo{}
	dispatcher := NewDispatcher(sightings, &fakeQuestRepo{}, nil, nil, nil, true, false)
	w := newTestWatcher(dispatcher, testSnapshot(), 0)

	w.lastMonsterCheck = time.Date(2030, 1, 1, 9, 59, 0, 0, time.Local)

	w.checkMonsterBoundaries(time.Date(2030, 1, 1, 10, 1, 0, 0, time.Local))
	if sightings.truncates != 1 {
		t.Fatalf("Expected 1 reset after the start boundary, got %d", sightings.truncates)
	}

	// The watermark advanced; the same boundary is never re-reported.
	w.checkMonsterBoundaries(time.Date(2030, 1, 1, 10, 2, 0, 0, time.Local))
	if sightings.truncates != 1 {
		t.Errorf("Expected no second reset, got %d", sightings.truncates)
	}
}

func TestWatcher_WatermarkAdvancesWithoutCrossing(t *testing.T) {
	dispatcher := NewDispatcher(&fakeSightingRepo{}, &fakeQuestRepo{}, nil, nil, nil, true, false)
	w := newTestWatcher(dispatcher, testSnapshot(), 0)

	w.lastMonsterCheck = time.Date(2030, 1, 1, 8, 0, 0, 0, time.Local)
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.Local)

	w.checkMonsterBoundaries(now)
	if !w.lastMonsterCheck.Equal(now) {
		t.Errorf("Expected watermark at %v, got %v", now, w.lastMonsterCheck)
	}
}

func TestWatcher_CooldownSkipsCheckAndKeepsWatermark(t *testing.T) {
	sightings := &fakeSightingRepo{}
	dispatcher := NewDispatcher(sightings, &fakeQuestRepo{}, nil, nil, nil, true, false)
	w := newTestWatcher(dispatcher, testSnapshot(), 30*time.Minute)

	w.lastMonsterCheck = time.Date(2030, 1, 1, 9, 59, 0, 0, time.Local)
	w.lastMonsterReset = time.Date(2030, 1, 1, 9, 45, 0, 0, time.Local)

	now := time.Date(2030, 1, 1, 10, 1, 0, 0, time.Local)
	w.checkMonsterBoundaries(now)

	if sightings.truncates != 0 {
		t.Errorf("Expected no reset during cooldown, got %d", sightings.truncates)
	}
	if !w.lastMonsterCheck.Equal(time.Date(2030, 1, 1, 9, 59, 0, 0, time.Local)) {
		t.Error("Expected watermark untouched during cooldown")
	}

	// After the cooldown the unscanned interval still covers the boundary.
	w.checkMonsterBoundaries(time.Date(2030, 1, 1, 10, 16, 0, 0, time.Local))
	if sightings.truncates != 1 {
		t.Errorf("Expected reset after cooldown elapsed, got %d", sightings.truncates)
	}
}

func TestWatcher_NoSnapshotAdvancesWatermark(t *testing.T) {
	dispatcher := NewDispatcher(&fakeSightingRepo{}, &fakeQuestRepo{}, nil, nil, nil, true, false)
	w := newTestWatcher(dispatcher, nil, 0)

	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.Local)
	w.checkMonsterBoundaries(now)
	if !w.lastMonsterCheck.Equal(now) {
		t.Errorf("Expected watermark at %v without a snapshot, got %v", now, w.lastMonsterCheck)
	}
}

func TestWatcher_QuestBoundaryGatedByReactions(t *testing.T) {
	quests := &fakeQuestRepo{}
	dispatcher := NewDispatcher(&fakeSightingRepo{}, quests, nil, nil, nil, true, false)

	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local)
	snap := &feed.Snapshot{Quest: []events.Event{{
		Name:          "Quest Event",
		Category:      events.CategoryRegular,
		Start:         &start,
		End:           time.Date(2030, 1, 10, 0, 0, 0, 0, time.Local),
		AffectsQuests: true,
	}}}

	w := newTestWatcher(dispatcher, snap, 0)
	w.questEdges = ParseQuestReactions("event:end")
	w.lastQuestCheck = time.Date(2030, 1, 1, 9, 59, 0, 0, time.Local)

	// Start boundary is gated out.
	w.checkQuestBoundaries(time.Date(2030, 1, 1, 10, 1, 0, 0, time.Local))
	if quests.truncates != 0 {
		t.Errorf("Expected no quest reset for gated start boundary, got %d", quests.truncates)
	}

	// End boundary passes the gate.
	w.lastQuestCheck = time.Date(2030, 1, 9, 23, 59, 0, 0, time.Local)
	w.checkQuestBoundaries(time.Date(2030, 1, 10, 0, 1, 0, 0, time.Local))
	if quests.truncates != 1 {
		t.Errorf("Expected quest reset for end boundary, got %d", quests.truncates)
	}
}

func TestWatcher_SnapshotIsPublishedCopy(t *testing.T) {
	dispatcher := NewDispatcher(&fakeSightingRepo{}, &fakeQuestRepo{}, nil, nil, nil, true, false)
	snap := testSnapshot()
	w := newTestWatcher(dispatcher, snap, 0)

	if w.Snapshot() != snap {
		t.Error("Expected the published snapshot to be returned")
	}

	w.mu.Lock()
	w.snapshot = nil
	w.mu.Unlock()

	if w.Snapshot() != nil {
		t.Error("Expected nil after unpublishing")
	}
}
