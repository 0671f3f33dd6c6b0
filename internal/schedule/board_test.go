package schedule_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/stagewatch/internal/schedule"
)

func TestBoardKeepsOrderAndLastSnapshot(t *testing.T) {
	board := schedule.NewBoard([]string{"Regular", "X"}, 10)
	snap := schedule.NewSnapshot([]string{"Alpha"}, start, end)

	board.Publish(schedule.CategoryStatus{Category: "X", Snapshot: snap, Outcome: "first_seen", LastChange: start})
	board.Publish(schedule.CategoryStatus{Category: "X", Outcome: "no_data", LastError: "boom"})

	cats := board.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Regular", cats[0].Category)
	assert.Equal(t, "pending", cats[0].Outcome)

	x, ok := board.Category("X")
	require.True(t, ok)
	assert.Same(t, snap, x.Snapshot)
	assert.Equal(t, "no_data", x.Outcome)
	assert.Equal(t, "boom", x.LastError)
	assert.True(t, x.LastChange.Equal(start))

	_, ok = board.Category("Fest")
	assert.False(t, ok)
}

func TestBoardRecentIsBounded(t *testing.T) {
	board := schedule.NewBoard(nil, 3)
	assert.NotNil(t, board.Recent())

	for i := 0; i < 5; i++ {
		board.Record(schedule.NotificationRecord{ID: fmt.Sprint(i)})
	}

	recent := board.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "4", recent[0].ID)
	assert.Equal(t, "2", recent[2].ID)
}

func TestBoardVersionAndCycles(t *testing.T) {
	board := schedule.NewBoard([]string{"Regular"}, 5)
	v0 := board.Version()

	board.CompleteCycle(start)
	cycles, last := board.Cycles()

	assert.Equal(t, 1, cycles)
	assert.True(t, last.Equal(start))
	assert.Greater(t, board.Version(), v0)
}

func TestNilBoardIgnoresWrites(t *testing.T) {
	var board *schedule.Board
	assert.NotPanics(t, func() {
		board.Publish(schedule.CategoryStatus{Category: "Regular"})
		board.Record(schedule.NotificationRecord{})
		board.CompleteCycle(time.Now())
	})
}

func TestCategoryStatusOmitsZeroTimes(t *testing.T) {
	board := schedule.NewBoard([]string{"Regular"}, 10)
	st, ok := board.Category("Regular")
	require.True(t, ok)

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "last_change")
	assert.NotContains(t, fields, "last_fetch")
	assert.Equal(t, "pending", fields["outcome"])

	board.Publish(schedule.CategoryStatus{Category: "Regular", Outcome: "changed", LastFetch: start, LastChange: start})
	st, _ = board.Category("Regular")
	raw, err = json.Marshal(st)
	require.NoError(t, err)
	fields = nil
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "last_change")
	assert.Contains(t, fields, "last_fetch")
}
