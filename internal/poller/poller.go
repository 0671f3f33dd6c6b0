// Package poller drives the fetch → detect → notify cycle over every
// configured category on a fixed interval.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/stagewatch/internal/config"
	"github.com/albapepper/stagewatch/internal/notifications"
	"github.com/albapepper/stagewatch/internal/provider/spla3"
	"github.com/albapepper/stagewatch/internal/schedule"
)

// Fetcher retrieves the current snapshot of one category.
type Fetcher interface {
	Fetch(ctx context.Context, cat config.Category, now time.Time) (*schedule.Snapshot, error)
}

// Config controls the loop timing. Zero values take the config defaults.
type Config struct {
	Interval time.Duration
	LeadTime time.Duration
	Now      func() time.Time
}

// Poller owns the schedule state of every category. Run and Cycle must not
// be called concurrently.
type Poller struct {
	categories []config.Category
	fetcher    Fetcher
	dispatcher *notifications.Dispatcher
	store      *schedule.Store
	board      *schedule.Board
	interval   time.Duration
	lead       time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// New creates a poller. board may be nil when nothing reads the status.
func New(
	categories []config.Category,
	fetcher Fetcher,
	dispatcher *notifications.Dispatcher,
	board *schedule.Board,
	cfg Config,
	logger *slog.Logger,
) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = config.DefaultPollInterval
	}
	if cfg.LeadTime <= 0 {
		cfg.LeadTime = config.DefaultLeadTime
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Poller{
		categories: categories,
		fetcher:    fetcher,
		dispatcher: dispatcher,
		store:      schedule.NewStore(),
		board:      board,
		interval:   cfg.Interval,
		lead:       cfg.LeadTime,
		now:        cfg.Now,
		logger:     logger,
	}
}

// CycleResult tracks what happened to each category in one cycle.
type CycleResult struct {
	Changed   int
	Unchanged int
	Skipped   int
	Failed    int
	Notified  int
	Duration  time.Duration
}

// Summary returns a human-readable summary of the cycle.
func (r CycleResult) Summary() string {
	return fmt.Sprintf(
		"changed=%d unchanged=%d skipped=%d failed=%d notified=%d",
		r.Changed, r.Unchanged, r.Skipped, r.Failed, r.Notified,
	)
}

// Run performs a cycle immediately, which announces every schedule found,
// then one cycle per interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Poller started",
		"categories", len(p.categories), "interval", p.interval, "lead_time", p.lead)

	p.logCycle(p.Cycle(ctx))

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			p.logCycle(p.Cycle(ctx))
			timer.Reset(p.interval)
		case <-ctx.Done():
			p.logger.Info("Poller stopped")
			return
		}
	}
}

// Cycle fetches every category in configured order, dispatches the
// notifications each one calls for and updates the stored snapshots. A
// failing category never affects the others.
func (p *Poller) Cycle(ctx context.Context) CycleResult {
	start := time.Now()
	var result CycleResult

	for _, cat := range p.categories {
		if ctx.Err() != nil {
			break
		}

		outcome, notified, err := p.process(ctx, cat)
		result.Notified += notified
		switch {
		case err != nil:
			result.Failed++
		case outcome == notifications.NoData:
			result.Skipped++
		case outcome == notifications.Unchanged:
			result.Unchanged++
		default:
			result.Changed++
		}
	}

	p.board.CompleteCycle(p.now())
	result.Duration = time.Since(start)
	return result
}

func (p *Poller) process(ctx context.Context, cat config.Category) (notifications.OutcomeKind, int, error) {
	now := p.now()
	status := schedule.CategoryStatus{Category: cat.Name, LastFetch: now}

	current, err := p.fetcher.Fetch(ctx, cat, now)
	switch {
	case errors.Is(err, spla3.ErrNoActiveEvent):
		p.logger.Debug("Skipping category, no ongoing event", "category", cat.Name)
		err = nil
	case err != nil:
		p.logger.Warn("Skipping category, fetch failed",
			"category", cat.Name, "url", cat.URL, "error", err)
		status.LastError = err.Error()
		current = nil
	}

	outcome := notifications.Detect(p.store.Get(cat.Name), current)
	events := notifications.Schedule(cat.Name, outcome, now, p.lead)
	sent := p.dispatcher.Dispatch(ctx, events)

	if outcome.Kind == notifications.FirstSeen || outcome.Kind == notifications.Changed {
		p.store.Put(cat.Name, outcome.Snapshot)
		status.LastChange = now
		p.logger.Info("Schedule changed",
			"category", cat.Name, "outcome", outcome.Kind, "stages", outcome.Snapshot.Stages)
	}

	status.Snapshot = p.store.Get(cat.Name)
	status.Outcome = outcome.Kind.String()
	p.board.Publish(status)

	return outcome.Kind, sent, err
}

func (p *Poller) logCycle(r CycleResult) {
	p.logger.Info("Cycle complete",
		"duration", r.Duration.Round(time.Millisecond), "summary", r.Summary())
}
