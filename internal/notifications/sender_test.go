package notifications

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopSenderDropsMissingIcon(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewDesktopSender(fs, "icon.ico", time.Second, nil)
	assert.Empty(t, s.icon)

	require.NoError(t, afero.WriteFile(fs, "icon.ico", []byte{0}, 0o644))
	s = NewDesktopSender(fs, "icon.ico", time.Second, nil)
	assert.Equal(t, "icon.ico", s.icon)
}

func TestDesktopSenderSend(t *testing.T) {
	s := NewDesktopSender(afero.NewMemMapFs(), "", time.Second, nil)

	var gotTitle, gotMessage string
	s.notify = func(title, message string, _ any) error {
		gotTitle, gotMessage = title, message
		return nil
	}
	require.NoError(t, s.Send(context.Background(), Notification{Title: "T", Message: "M"}))
	assert.Equal(t, "T", gotTitle)
	assert.Equal(t, "M", gotMessage)

	s.notify = func(string, string, any) error { return errors.New("no dbus") }
	assert.ErrorContains(t, s.Send(context.Background(), Notification{}), "no dbus")
}

func TestDesktopSenderTimeout(t *testing.T) {
	s := NewDesktopSender(afero.NewMemMapFs(), "", 10*time.Millisecond, nil)
	release := make(chan struct{})
	defer close(release)
	s.notify = func(string, string, any) error {
		<-release
		return nil
	}

	err := s.Send(context.Background(), Notification{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNilDesktopSender(t *testing.T) {
	var s *DesktopSender
	assert.NoError(t, s.Send(context.Background(), Notification{}))
}

func TestLogSenderSend(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.Send(context.Background(), Notification{Title: "T", Message: "M"}))
	assert.Contains(t, buf.String(), "msg=notification")
	assert.Contains(t, buf.String(), "title=T")
	assert.Contains(t, buf.String(), "message=M")
}
