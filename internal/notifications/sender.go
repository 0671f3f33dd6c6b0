package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/spf13/afero"
)

// Sender displays a rendered notification.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// DesktopSender shows notifications through the host OS notification
// service. Nil-safe: a nil sender drops every notification.
type DesktopSender struct {
	icon    string
	timeout time.Duration
	logger  *slog.Logger
	notify  func(title, message string, icon any) error
}

// NewDesktopSender creates a desktop sender. The icon is dropped with a
// warning when it does not exist on fsys.
func NewDesktopSender(fsys afero.Fs, icon string, timeout time.Duration, logger *slog.Logger) *DesktopSender {
	if logger == nil {
		logger = slog.Default()
	}
	if icon != "" {
		if ok, err := afero.Exists(fsys, icon); err != nil || !ok {
			logger.Warn("notification icon not found, sending without icon", "icon", icon, "error", err)
			icon = ""
		}
	}
	beeep.AppName = "stagewatch"
	return &DesktopSender{
		icon:    icon,
		timeout: timeout,
		logger:  logger,
		notify:  func(title, message string, icon any) error { return beeep.Notify(title, message, icon) },
	}
}

// Send hands n to the OS and waits at most the configured timeout for it
// to be accepted. The notification may still appear after a timeout.
func (s *DesktopSender) Send(ctx context.Context, n Notification) error {
	if s == nil {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- s.notify(n.Title, n.Message, s.icon)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("desktop notify: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("desktop notify: %w", ctx.Err())
	}
}

// LogSender writes notifications to a logger. Used when desktop
// notifications are disabled.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs n at Info level. It never fails.
func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.logger.Info("notification", "title", n.Title, "message", n.Message)
	return nil
}

// WriterSender prints notifications as plain text blocks.
type WriterSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSender creates a sender that writes to w.
func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

// Send writes the title and message of n followed by a blank line. Calls
// from several goroutines are serialized.
func (s *WriterSender) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "%s\n%s\n\n", n.Title, n.Message)
	return err
}
