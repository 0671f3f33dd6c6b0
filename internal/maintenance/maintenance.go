// Package maintenance runs periodic housekeeping next to the poll loop as Go
// tickers: response cache eviction and a watchdog for stalled cycles.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/stagewatch/internal/cache"
	"github.com/albapepper/stagewatch/internal/schedule"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval  time.Duration // Expired status cache entries
	WatchdogInterval time.Duration // Check that cycles keep completing
	StaleAfter       time.Duration // Age of the last cycle that counts as stalled
}

// DefaultConfig returns defaults scaled to the poll interval.
func DefaultConfig(pollInterval time.Duration) Config {
	return Config{
		CleanupInterval:  5 * time.Minute,
		WatchdogInterval: pollInterval,
		StaleAfter:       5 * pollInterval,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, appCache *cache.Cache, board *schedule.Board, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"watchdog", cfg.WatchdogInterval,
		"stale_after", cfg.StaleAfter)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.CleanupInterval > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { cleanup(appCache, logger) })
	}

	if cfg.WatchdogInterval > 0 && cfg.StaleAfter > 0 {
		t := time.NewTicker(cfg.WatchdogInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { watchdog(board, cfg.StaleAfter, time.Now(), logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

func cleanup(appCache *cache.Cache, logger *slog.Logger) {
	if n := appCache.Evict(); n > 0 {
		logger.Debug("Cleanup: evicted cache entries", "count", n)
	}
}

// watchdog reports whether the last completed cycle is older than staleAfter.
// Before the first cycle completes nothing is reported.
func watchdog(board *schedule.Board, staleAfter time.Duration, now time.Time, logger *slog.Logger) bool {
	cycles, last := board.Cycles()
	if cycles == 0 {
		return false
	}
	if age := now.Sub(last); age > staleAfter {
		logger.Warn("Watchdog: poll loop looks stalled",
			"last_cycle", last, "age", age.Round(time.Second), "cycles", cycles)
		return true
	}
	return false
}
