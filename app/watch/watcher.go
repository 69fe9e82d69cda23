package watch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scannerd/eventwatch/app/cfg"
	"github.com/scannerd/eventwatch/app/events"
	"github.com/scannerd/eventwatch/app/feed"
)

// Watcher drives the whole synchronization loop: a fixed-period tick runs
// boundary detection for both category types, and on a slower cadence the
// feed is re-fetched and reconciled. All steady-state work happens on one
// goroutine; the only shared data is the published snapshot.
type Watcher struct {
	fetcher    *feed.Fetcher
	reconciler *Reconciler
	dispatcher *Dispatcher

	tickInterval    time.Duration
	refreshInterval time.Duration
	cooldown        time.Duration
	monstersEnabled bool
	questsEnabled   bool
	questEdges      map[events.Category][]events.Edge

	// Watermarks: exclusive lower bound of the next detection window.
	lastMonsterCheck time.Time
	lastQuestCheck   time.Time
	lastMonsterReset time.Time
	lastQuestReset   time.Time
	nextRefresh      time.Time

	forceRefresh atomic.Bool

	mu       sync.RWMutex
	snapshot *feed.Snapshot

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatcher(fetcher *feed.Fetcher, reconciler *Reconciler, dispatcher *Dispatcher,
	questEdges map[events.Category][]events.Edge) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Watcher{
		fetcher:         fetcher,
		reconciler:      reconciler,
		dispatcher:      dispatcher,
		tickInterval:    time.Duration(c.TickInterval) * time.Second,
		refreshInterval: time.Duration(c.FeedRefreshInterval) * time.Second,
		cooldown:        time.Duration(c.ResetCooldown) * time.Second,
		monstersEnabled: c.ResetMonstersEnable,
		questsEnabled:   c.ResetQuestsEnable,
		questEdges:      questEdges,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func (w *Watcher) Start() {
	now := time.Now()
	w.lastMonsterCheck = now
	w.lastQuestCheck = now
	w.nextRefresh = now

	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}

// ForceRefresh schedules a feed refresh for the next tick.
func (w *Watcher) ForceRefresh() {
	w.forceRefresh.Store(true)
}

// Snapshot returns the last published feed snapshot, or nil before the
// first successful refresh. Snapshots are immutable once published.
func (w *Watcher) Snapshot() *feed.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}

func (w *Watcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.tick(time.Now())

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.tick(time.Now())
		}
	}
}

// tick runs one iteration: boundary checks first, then the feed refresh
// when due. Ordering matters: a boundary already due must fire against the
// snapshot it was detected in, not against a freshly replaced one.
func (w *Watcher) tick(now time.Time) {
	if w.monstersEnabled {
		w.checkMonsterBoundaries(now)
	}
	if w.questsEnabled {
		w.checkQuestBoundaries(now)
	}

	if w.forceRefresh.Swap(false) || !now.Before(w.nextRefresh) {
		w.refresh(now)
	}
}

func (w *Watcher) checkMonsterBoundaries(now time.Time) {
	if now.Before(w.lastMonsterReset.Add(w.cooldown)) {
		slog.Debug("Skipping monster boundary check during cooldown", "last_reset", w.lastMonsterReset)
		return
	}

	snap := w.Snapshot()
	if snap == nil {
		w.lastMonsterCheck = now
		return
	}

	crossing := events.Detect(snap.Monster, w.lastMonsterCheck, now)
	w.lastMonsterCheck = now
	if crossing == nil {
		return
	}

	slog.Info("Monster pool boundary detected", "event", crossing.Event.Name,
		"category", crossing.Event.Category, "edge", crossing.Edge, "at", crossing.At())
	w.dispatcher.MonsterBoundary(w.ctx, *crossing)
	w.lastMonsterReset = now
}

func (w *Watcher) checkQuestBoundaries(now time.Time) {
	if now.Before(w.lastQuestReset.Add(w.cooldown)) {
		slog.Debug("Skipping quest boundary check during cooldown", "last_reset", w.lastQuestReset)
		return
	}

	snap := w.Snapshot()
	if snap == nil {
		w.lastQuestCheck = now
		return
	}

	crossing := events.DetectGated(snap.Quest, w.lastQuestCheck, now, w.questEdges)
	w.lastQuestCheck = now
	if crossing == nil {
		return
	}

	slog.Info("Quest boundary detected", "event", crossing.Event.Name,
		"category", crossing.Event.Category, "edge", crossing.Edge, "at", crossing.At())
	w.dispatcher.QuestBoundary(w.ctx, *crossing)
	w.lastQuestReset = now
}

// refresh fetches and reconciles the feed. The next due time advances
// whether or not the fetch succeeded; a failed fetch keeps the previous
// snapshot untouched.
func (w *Watcher) refresh(now time.Time) {
	w.nextRefresh = now.Add(w.refreshInterval)

	snap, err := w.fetcher.Run(w.ctx)
	if err != nil {
		slog.Error("Feed refresh failed, keeping previous snapshot", "error", err)
		return
	}

	w.mu.Lock()
	w.snapshot = snap
	w.mu.Unlock()

	slog.Info("Feed refreshed", "total", len(snap.All), "spawn", len(snap.Spawn),
		"quest", len(snap.Quest), "monster", len(snap.Monster))

	if len(snap.Spawn) > 0 {
		if err := w.reconciler.Run(snap.Spawn); err != nil {
			slog.Error("Reconciliation failed", "error", err)
		}
	}
}
