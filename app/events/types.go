package events

import (
	"sort"
	"time"
)

// Category is the fixed classification bucket for events. It keys both the
// persisted event records and the effect routing.
type Category string

const (
	CategoryCommunityDay  Category = "community-day"
	CategorySpotlightHour Category = "spotlight-hour"
	CategoryRegular       Category = "regular-event"
	CategoryDefault       Category = "default"
	CategoryOther         Category = "other"
)

// Categories returns every category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryCommunityDay,
		CategorySpotlightHour,
		CategoryRegular,
		CategoryDefault,
		CategoryOther,
	}
}

// DisplayName returns the name used for the persisted record of this category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryCommunityDay:
		return "Community Days"
	case CategorySpotlightHour:
		return "Spotlight Hours"
	case CategoryRegular:
		return "Regular Events"
	case CategoryDefault:
		return "DEFAULT"
	default:
		return "Others"
	}
}

// CategoryFromFeedType maps a remote feed type string to a category.
// Unrecognized types map to CategoryOther.
func CategoryFromFeedType(feedType string) Category {
	switch feedType {
	case "community-day":
		return CategoryCommunityDay
	case "spotlight-hour":
		return CategorySpotlightHour
	case "event":
		return CategoryRegular
	case "default":
		return CategoryDefault
	default:
		return CategoryOther
	}
}

// Edge identifies which boundary of an event fired.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// Event is one remote event occurrence. Immutable after classification.
type Event struct {
	Name     string
	Category Category

	// Start is nil for events already in progress with an unknown start.
	Start *time.Time
	End   time.Time

	AffectsSpawnpoints bool
	AffectsQuests      bool
	AffectsMonsterPool bool

	// BonusLureDuration is in minutes; nil when the feed carries no lure bonus.
	BonusLureDuration *int
}

// DurationDays computes the event length in days, substituting now for an
// unknown start.
func (e Event) DurationDays(now time.Time) float64 {
	start := now
	if e.Start != nil {
		start = *e.Start
	}
	return e.End.Sub(start).Hours() / 24
}

// SortByStart orders events ascending by start time. Events with an unknown
// start sort before all others so that in-progress events are considered
// first by any pending boundary check. The sort is stable to keep boundary
// tie-breaks deterministic.
func SortByStart(evs []Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		si, sj := evs[i].Start, evs[j].Start
		if si == nil {
			return sj != nil
		}
		if sj == nil {
			return false
		}
		return si.Before(*sj)
	})
}
