package api

import (
	"github.com/scannerd/eventwatch/app/database"
	"github.com/scannerd/eventwatch/app/feed"
	"github.com/scannerd/eventwatch/app/watch"
)

type WatcherInterface interface {
	Snapshot() *feed.Snapshot
	ForceRefresh()
}

var _ WatcherInterface = (*watch.Watcher)(nil)

type Handler struct {
	watcher      WatcherInterface
	eventRepo    database.EventRepository
	sightingRepo database.SightingRepository
	questRepo    database.QuestRepository
}
