package watch

import (
	"strings"

	"github.com/scannerd/eventwatch/app/events"
)

// ParseQuestReactions parses the quest reaction configuration string:
// space-separated feed type tokens, each optionally suffixed with ":start"
// or ":end". A bare token reacts to both edges. Categories absent from the
// result react to neither edge.
//
//	"event:start community-day spotlight-hour:end"
func ParseQuestReactions(spec string) map[events.Category][]events.Edge {
	reactions := make(map[events.Category][]events.Edge)

	for _, token := range strings.Fields(spec) {
		name, edgeSpec, found := strings.Cut(token, ":")

		edges := []events.Edge{events.EdgeStart, events.EdgeEnd}
		if found {
			switch {
			case strings.Contains(edgeSpec, "start"):
				edges = []events.Edge{events.EdgeStart}
			case strings.Contains(edgeSpec, "end"):
				edges = []events.Edge{events.EdgeEnd}
			}
		}

		reactions[events.CategoryFromFeedType(name)] = edges
	}

	return reactions
}
