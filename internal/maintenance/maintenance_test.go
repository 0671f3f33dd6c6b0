package maintenance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/stagewatch/internal/cache"
	"github.com/albapepper/stagewatch/internal/schedule"
)

func TestWatchdog(t *testing.T) {
	logger := slog.Default()
	board := schedule.NewBoard([]string{"Regular"}, 5)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, watchdog(board, 5*time.Minute, now, logger), "no cycle yet")

	board.CompleteCycle(now.Add(-time.Minute))
	assert.False(t, watchdog(board, 5*time.Minute, now, logger))
	assert.True(t, watchdog(board, 5*time.Minute, now.Add(5*time.Minute), logger))
}

func TestStartReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, cache.New(true), schedule.NewBoard(nil, 1), DefaultConfig(time.Minute), slog.Default())
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(time.Minute)
	assert.Equal(t, time.Minute, cfg.WatchdogInterval)
	assert.Equal(t, 5*time.Minute, cfg.StaleAfter)
}
