package events

import (
	"fmt"
	"time"
)

// TimeLayout is the timestamp format used by the remote feed. Feed times
// carry no zone and are interpreted in the watcher's local time.
const TimeLayout = "2006-01-02 15:04"

// lureBonusTemplate tags the bonus entry carrying an extended lure duration.
const lureBonusTemplate = "longer-lure"

// defaultLureBonusMinutes applies when the lure bonus template is present
// but carries no value (3 hours).
const defaultLureBonusMinutes = 3 * 60

// Classify validates one raw feed record and produces an Event.
//
// A record is rejected when its type is absent, its end timestamp is absent
// or unparsable, or its duration exceeds maxDurationDays (guards against
// season-scale entries). A missing start is accepted as an in-progress event
// with an unknown start.
func Classify(raw Raw, now time.Time, maxDurationDays int) (*Event, error) {
	if raw.Type == nil {
		return nil, fmt.Errorf("event %q has no type", raw.Name)
	}
	if raw.End == nil {
		return nil, fmt.Errorf("event %q has no end time", raw.Name)
	}

	end, err := time.ParseInLocation(TimeLayout, *raw.End, time.Local)
	if err != nil {
		return nil, fmt.Errorf("event %q has unparsable end time: %w", raw.Name, err)
	}

	var start *time.Time
	if raw.Start != nil {
		parsed, err := time.ParseInLocation(TimeLayout, *raw.Start, time.Local)
		if err != nil {
			return nil, fmt.Errorf("event %q has unparsable start time: %w", raw.Name, err)
		}
		start = &parsed
	}

	category := CategoryFromFeedType(*raw.Type)

	ev := &Event{
		Name:               raw.Name,
		Category:           category,
		Start:              start,
		End:                end,
		AffectsSpawnpoints: raw.HasSpawnpoints,
		AffectsQuests:      raw.HasQuests,
		BonusLureDuration:  extractLureBonus(raw.Bonuses),
	}

	// Community days and spotlight hours always change the monster pool,
	// regardless of the feed's own spawn flag.
	ev.AffectsMonsterPool = category == CategoryCommunityDay ||
		category == CategorySpotlightHour || raw.Spawns

	if ev.DurationDays(now) > float64(maxDurationDays) {
		return nil, fmt.Errorf("event %q exceeds maximum duration of %d days", raw.Name, maxDurationDays)
	}

	return ev, nil
}

func extractLureBonus(bonuses []RawBonus) *int {
	for _, bonus := range bonuses {
		if bonus.Template != lureBonusTemplate {
			continue
		}
		minutes := defaultLureBonusMinutes
		if bonus.Value != nil {
			minutes = int(*bonus.Value * 60)
		}
		return &minutes
	}
	return nil
}
