package events

import (
	"time"
)

// Crossing reports that an event's start or end fell inside a detection
// window.
type Crossing struct {
	Event Event
	Edge  Edge
}

// inWindow tests membership in the open-closed interval (windowStart, windowEnd].
func inWindow(t, windowStart, windowEnd time.Time) bool {
	return t.After(windowStart) && !t.After(windowEnd)
}

// Detect scans events in sorted order and reports the first boundary falling
// inside (windowStart, windowEnd], or nil when none crossed. At most one
// crossing is reported per invocation: when several boundaries share a
// window, only the earliest-sorted event's boundary is acted on.
func Detect(evs []Event, windowStart, windowEnd time.Time) *Crossing {
	return detect(evs, windowStart, windowEnd, nil)
}

// DetectGated behaves like Detect but only considers the edges configured
// for each event's category. A category absent from the map reacts to
// neither edge.
func DetectGated(evs []Event, windowStart, windowEnd time.Time, edges map[Category][]Edge) *Crossing {
	return detect(evs, windowStart, windowEnd, edges)
}

func detect(evs []Event, windowStart, windowEnd time.Time, edges map[Category][]Edge) *Crossing {
	for _, ev := range evs {
		if edgeAllowed(edges, ev.Category, EdgeStart) &&
			ev.Start != nil && inWindow(*ev.Start, windowStart, windowEnd) {
			return &Crossing{Event: ev, Edge: EdgeStart}
		}
		if edgeAllowed(edges, ev.Category, EdgeEnd) &&
			inWindow(ev.End, windowStart, windowEnd) {
			return &Crossing{Event: ev, Edge: EdgeEnd}
		}
	}
	return nil
}

func edgeAllowed(edges map[Category][]Edge, category Category, edge Edge) bool {
	if edges == nil {
		return true
	}
	for _, e := range edges[category] {
		if e == edge {
			return true
		}
	}
	return false
}

// At returns the timestamp of the crossed boundary.
func (c Crossing) At() time.Time {
	if c.Edge == EdgeStart && c.Event.Start != nil {
		return *c.Event.Start
	}
	return c.Event.End
}
