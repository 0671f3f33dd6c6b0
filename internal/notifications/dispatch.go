package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/stagewatch/internal/schedule"
)

// Dispatcher renders events and hands them to a Sender in order. Failed
// sends are logged and never retried.
type Dispatcher struct {
	sender Sender
	loc    *time.Location
	board  *schedule.Board
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher. board may be nil.
func NewDispatcher(sender Sender, loc *time.Location, board *schedule.Board, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, loc: loc, board: board, logger: logger}
}

// Dispatch sends events in the given order and returns how many were
// accepted by the sender.
func (d *Dispatcher) Dispatch(ctx context.Context, events []Event) (sent int) {
	for _, e := range events {
		n := Render(e, d.loc)
		rec := schedule.NotificationRecord{
			ID:       e.ID,
			Category: e.Category,
			Kind:     string(e.Kind),
			Title:    n.Title,
			Message:  n.Message,
			At:       e.At,
		}

		if err := d.sender.Send(ctx, n); err != nil {
			d.logger.Warn("send failed",
				"event_id", e.ID, "category", e.Category, "kind", e.Kind, "error", err)
			rec.Error = err.Error()
		} else {
			d.logger.Info("notification sent",
				"event_id", e.ID, "category", e.Category, "kind", e.Kind)
			sent++
		}
		d.board.Record(rec)
	}
	return sent
}
