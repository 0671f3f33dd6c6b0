package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/stagewatch/internal/notifications"
)

const lead = 10 * time.Minute

func kinds(events []notifications.Event) []notifications.Kind {
	out := make([]notifications.Kind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestScheduleFirstSeen(t *testing.T) {
	s := snap("Alpha")
	events := notifications.Schedule("Regular", notifications.Outcome{Kind: notifications.FirstSeen, Snapshot: s},
		start.Add(-5*time.Minute), lead)

	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, notifications.KindInitial, e.Kind)
	assert.Equal(t, "Regular", e.Category)
	assert.Same(t, s, e.Snapshot)
	assert.NotEmpty(t, e.ID)
}

func TestScheduleChangedLeadWindow(t *testing.T) {
	changed := notifications.Outcome{Kind: notifications.Changed, Snapshot: snap("Alpha")}

	cases := []struct {
		name string
		now  time.Time
		want []notifications.Kind
	}{
		{"window opens", start.Add(-10 * time.Minute), []notifications.Kind{notifications.KindStartingSoon, notifications.KindUpdated}},
		{"before window", start.Add(-10*time.Minute - time.Second), []notifications.Kind{notifications.KindUpdated}},
		{"at start", start, []notifications.Kind{notifications.KindStartingSoon, notifications.KindUpdated}},
		{"after start", start.Add(time.Second), []notifications.Kind{notifications.KindUpdated}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, kinds(notifications.Schedule("Regular", changed, tc.now, lead)))
		})
	}
}

func TestScheduleNothingDue(t *testing.T) {
	assert.Empty(t, notifications.Schedule("Regular", notifications.Outcome{Kind: notifications.Unchanged}, start, lead))
	assert.Empty(t, notifications.Schedule("Regular", notifications.Outcome{Kind: notifications.NoData}, start, lead))
}

func TestScheduleEventIDsAreUnique(t *testing.T) {
	events := notifications.Schedule("Regular",
		notifications.Outcome{Kind: notifications.Changed, Snapshot: snap("Alpha")}, start, lead)

	require.Len(t, events, 2)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}
