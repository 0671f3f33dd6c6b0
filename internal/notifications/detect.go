package notifications

import "github.com/albapepper/stagewatch/internal/schedule"

// Detect compares the current snapshot of a category with the previous one.
// A nil current means the category had no data this cycle.
func Detect(previous, current *schedule.Snapshot) Outcome {
	switch {
	case current == nil:
		return Outcome{Kind: NoData}
	case previous == nil:
		return Outcome{Kind: FirstSeen, Snapshot: current}
	case previous.Equal(current):
		return Outcome{Kind: Unchanged}
	default:
		return Outcome{Kind: Changed, Snapshot: current}
	}
}
