package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Schedule returns the events an outcome calls for, in delivery order.
//
// FirstSeen yields one Initial event. Changed yields a StartingSoon event when
// now is within lead of the new window's start, followed by an Updated event.
// Anything else yields nothing.
func Schedule(category string, o Outcome, now time.Time, lead time.Duration) []Event {
	switch o.Kind {
	case FirstSeen:
		return []Event{newEvent(category, KindInitial, o, now)}
	case Changed:
		events := make([]Event, 0, 2)
		if o.Snapshot.StartsWithin(now, lead) {
			events = append(events, newEvent(category, KindStartingSoon, o, now))
		}
		return append(events, newEvent(category, KindUpdated, o, now))
	default:
		return nil
	}
}

func newEvent(category string, kind Kind, o Outcome, now time.Time) Event {
	return Event{
		ID:       uuid.NewString(),
		Category: category,
		Kind:     kind,
		Snapshot: o.Snapshot,
		At:       now,
	}
}
