package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scannerd/eventwatch/app/database"
	"github.com/scannerd/eventwatch/app/events"
)

func NewHandler(watcher WatcherInterface, eventRepo database.EventRepository,
	sightingRepo database.SightingRepository, questRepo database.QuestRepository) *Handler {
	return &Handler{
		watcher:      watcher,
		eventRepo:    eventRepo,
		sightingRepo: sightingRepo,
		questRepo:    questRepo,
	}
}

type eventResponse struct {
	Name               string `json:"name"`
	Category           string `json:"category"`
	CategoryName       string `json:"category_name"`
	Start              string `json:"start,omitempty"`
	End                string `json:"end"`
	AffectsSpawnpoints bool   `json:"affects_spawnpoints"`
	AffectsQuests      bool   `json:"affects_quests"`
	AffectsMonsterPool bool   `json:"affects_monster_pool"`
	LureDuration       int    `json:"lure_duration_minutes,omitempty"`
}

func toEventResponse(ev events.Event) eventResponse {
	resp := eventResponse{
		Name:               ev.Name,
		Category:           string(ev.Category),
		CategoryName:       ev.Category.DisplayName(),
		End:                ev.End.Format(events.TimeLayout),
		AffectsSpawnpoints: ev.AffectsSpawnpoints,
		AffectsQuests:      ev.AffectsQuests,
		AffectsMonsterPool: ev.AffectsMonsterPool,
	}
	if ev.Start != nil {
		resp.Start = ev.Start.Format(events.TimeLayout)
	}
	if ev.BonusLureDuration != nil {
		resp.LureDuration = *ev.BonusLureDuration
	}
	return resp
}

// GetEvents serves the last published snapshot. The optional "set" query
// parameter narrows the list to one classification set.
func (h *Handler) GetEvents(c *gin.Context) {
	snap := h.watcher.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No feed snapshot available yet"})
		return
	}

	var set []events.Event
	switch c.Query("set") {
	case "", "all":
		set = snap.All
	case "spawn":
		set = snap.Spawn
	case "quest":
		set = snap.Quest
	case "monster":
		set = snap.Monster
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown set, use all, spawn, quest or monster"})
		return
	}

	resp := make([]eventResponse, 0, len(set))
	for _, ev := range set {
		resp = append(resp, toEventResponse(ev))
	}

	c.JSON(http.StatusOK, gin.H{
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		"events":     resp,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if snap := h.watcher.Snapshot(); snap != nil {
		health["snapshot_fetched_at"] = snap.FetchedAt.Format(time.RFC3339)
		health["events"] = len(snap.All)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	if snap := h.watcher.Snapshot(); snap != nil {
		stats["events_total"] = len(snap.All)
		stats["events_spawn"] = len(snap.Spawn)
		stats["events_quest"] = len(snap.Quest)
		stats["events_monster"] = len(snap.Monster)
	}

	if count, err := h.sightingRepo.Count(); err == nil {
		stats["sightings"] = count
	}
	if count, err := h.questRepo.Count(); err == nil {
		stats["quests"] = count
	}

	c.JSON(http.StatusOK, stats)
}

// APIListEventRecords lists the persisted per-category records the spawn
// reconciler maintains.
func (h *Handler) APIListEventRecords(c *gin.Context) {
	recs, err := h.eventRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event records"})
		return
	}

	records := make([]map[string]interface{}, 0, len(recs))
	for _, rec := range recs {
		records = append(records, map[string]interface{}{
			"name":          rec.Name,
			"start":         rec.Start.Format(events.TimeLayout),
			"end":           rec.End.Format(events.TimeLayout),
			"lure_duration": rec.LureDuration,
		})
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// APIRefreshFeed schedules a feed refresh for the next watcher tick.
func (h *Handler) APIRefreshFeed(c *gin.Context) {
	h.watcher.ForceRefresh()
	c.JSON(http.StatusAccepted, gin.H{"message": "Feed refresh scheduled"})
}
