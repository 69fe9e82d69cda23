package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/scannerd/eventwatch/app/events"
)

// Fetcher retrieves the remote event feed and classifies it into category
// sets. Fetch and decode failures are returned to the caller so the previous
// snapshot can be kept; individual malformed records are dropped and logged.
type Fetcher struct {
	httpClient      *http.Client
	url             string
	userAgent       string
	timeout         time.Duration
	maxDurationDays int
}

func NewFetcher(httpClient *http.Client, url, userAgent string, timeout time.Duration, maxDurationDays int) *Fetcher {
	return &Fetcher{
		httpClient:      httpClient,
		url:             url,
		userAgent:       userAgent,
		timeout:         timeout,
		maxDurationDays: maxDurationDays,
	}
}

// Run fetches the feed and returns a fresh snapshot.
func (f *Fetcher) Run(ctx context.Context) (*Snapshot, error) {
	data, err := f.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	var raws []events.Raw
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	return f.classify(raws, time.Now()), nil
}

func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (f *Fetcher) classify(raws []events.Raw, now time.Time) *Snapshot {
	snap := &Snapshot{FetchedAt: now}

	for _, raw := range raws {
		ev, err := events.Classify(raw, now, f.maxDurationDays)
		if err != nil {
			slog.Info("Skipping feed record", "name", raw.Name, "reason", err)
			continue
		}
		if ev.End.Before(now) {
			slog.Debug("Skipping expired event", "name", ev.Name, "end", ev.End)
			continue
		}

		snap.All = append(snap.All, *ev)
		if ev.AffectsSpawnpoints {
			snap.Spawn = append(snap.Spawn, *ev)
		}
		if ev.AffectsQuests {
			snap.Quest = append(snap.Quest, *ev)
		}
		if ev.AffectsMonsterPool {
			snap.Monster = append(snap.Monster, *ev)
		}
	}

	events.SortByStart(snap.All)
	events.SortByStart(snap.Spawn)
	events.SortByStart(snap.Quest)
	events.SortByStart(snap.Monster)

	return snap
}
