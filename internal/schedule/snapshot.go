// Package schedule holds the per-category schedule snapshots the poll loop
// compares across cycles.
package schedule

import (
	"slices"
	"time"
)

// Snapshot is one active scheduling window for a category: the stages in
// upstream order and the window bounds. Treat as immutable.
type Snapshot struct {
	Stages []string  `json:"stages"`
	Start  time.Time `json:"start_time"`
	End    time.Time `json:"end_time"`
}

// NewSnapshot builds a Snapshot that does not alias the caller's slice.
func NewSnapshot(stages []string, start, end time.Time) *Snapshot {
	return &Snapshot{
		Stages: slices.Clone(stages),
		Start:  start,
		End:    end,
	}
}

// Equal reports whether both snapshots have the same stage sequence and the
// same window. Stage order is significant.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	return slices.Equal(s.Stages, o.Stages) &&
		s.Start.Equal(o.Start) &&
		s.End.Equal(o.End)
}

// StartsWithin reports whether now lies in [Start-lead, Start].
func (s *Snapshot) StartsWithin(now time.Time, lead time.Duration) bool {
	return !now.Before(s.Start.Add(-lead)) && !now.After(s.Start)
}

// Active reports whether now lies in [Start, End].
func (s *Snapshot) Active(now time.Time) bool {
	return !now.Before(s.Start) && !now.After(s.End)
}
