// Package spla3 fetches the current schedule window of a category from the
// spla3 schedule API.
//
// Every endpoint returns {"results": [{"stages": [...], "start_time": ...,
// "end_time": ...}]}; only the first result is consulted. Requests are paced
// with a token bucket limiter and never retried.
package spla3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/stagewatch/internal/config"
	"github.com/albapepper/stagewatch/internal/schedule"
)

// UserAgent identifies stagewatch to the upstream API.
const UserAgent = "stagewatch/1.0 (+https://github.com/albapepper/stagewatch)"

// ErrNoActiveEvent is returned for windowed categories whose event is not
// running right now. It is not a failure.
var ErrNoActiveEvent = errors.New("no active event")

// Client is the shared HTTP client for all schedule endpoints.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a schedule client with rate limiting.
func NewClient(timeout time.Duration, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute < 1 {
		requestsPerMinute = config.DefaultRequestsPerMinute
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), requestsPerMinute),
		logger:     logger,
	}
}

// scheduleResponse is the common response wrapper.
type scheduleResponse struct {
	Results []struct {
		Stages []struct {
			Name string `json:"name"`
		} `json:"stages"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	} `json:"results"`
}

// Fetch performs one GET for cat and returns its current snapshot. For a
// windowed category whose window does not contain now it returns
// ErrNoActiveEvent.
func (c *Client) Fetch(ctx context.Context, cat config.Category, now time.Time) (*schedule.Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cat.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", cat.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	c.logger.Debug("schedule fetched",
		"category", cat.Name, "status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %s", cat.URL, resp.StatusCode, truncate(body, 200))
	}

	snap, err := parse(body)
	if err != nil {
		return nil, err
	}

	if cat.Windowed && !snap.Active(now) {
		return nil, ErrNoActiveEvent
	}
	return snap, nil
}

func parse(body []byte) (*schedule.Snapshot, error) {
	var result scheduleResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, fmt.Errorf("decode response: empty results")
	}

	first := result.Results[0]
	start, err := parseTimestamp(first.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	end, err := parseTimestamp(first.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}

	stages := make([]string, 0, len(first.Stages))
	for _, s := range first.Stages {
		stages = append(stages, s.Name)
	}
	return schedule.NewSnapshot(stages, start, end), nil
}

// parseTimestamp accepts RFC 3339 and, for offset-less values, local time.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
