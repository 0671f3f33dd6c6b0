// Package config provides centralized configuration loaded from environment
// variables. Shared by every stagewatch subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultPollInterval        = 60 * time.Second
	DefaultLeadTime            = 10 * time.Minute
	DefaultNotifyTimeout       = 10 * time.Second
	DefaultIconPath            = "icon.ico"
	DefaultHTTPTimeout         = 30 * time.Second
	DefaultRequestsPerMinute   = 60
	DefaultRecentNotifications = 50
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Polling
	PollInterval      time.Duration
	LeadTime          time.Duration
	CategoriesFile    string
	HTTPTimeout       time.Duration
	RequestsPerMinute int

	// Notifications
	DesktopNotifications bool
	IconPath             string
	NotifyTimeout        time.Duration
	Location             *time.Location
	RecentNotifications  int

	// Status server
	StatusEnabled    bool
	StatusHost       string
	StatusPort       int
	CORSAllowOrigins []string

	// Rate limiting (status server)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	loc := time.Local
	if tz := envOr("STAGEWATCH_TIMEZONE", ""); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("STAGEWATCH_TIMEZONE: %w", err)
		}
		loc = l
	}

	cfg := &Config{
		PollInterval:      envDuration("STAGEWATCH_POLL_INTERVAL", DefaultPollInterval),
		LeadTime:          envDuration("STAGEWATCH_LEAD_TIME", DefaultLeadTime),
		CategoriesFile:    envOr("STAGEWATCH_CATEGORIES_FILE", ""),
		HTTPTimeout:       envDuration("STAGEWATCH_HTTP_TIMEOUT", DefaultHTTPTimeout),
		RequestsPerMinute: envInt("STAGEWATCH_REQUESTS_PER_MINUTE", DefaultRequestsPerMinute),

		DesktopNotifications: envBool("DESKTOP_NOTIFICATIONS", true),
		IconPath:             envOr("STAGEWATCH_ICON", DefaultIconPath),
		NotifyTimeout:        envDuration("STAGEWATCH_NOTIFY_TIMEOUT", DefaultNotifyTimeout),
		Location:             loc,
		RecentNotifications:  envInt("STAGEWATCH_RECENT_NOTIFICATIONS", DefaultRecentNotifications),

		StatusEnabled: envBool("STATUS_ENABLED", false),
		StatusHost:    envOr("STATUS_HOST", "127.0.0.1"),
		StatusPort:    envInt("STATUS_PORT", 8089),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		Debug: envBool("DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the poll loop cannot run with.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.LeadTime <= 0 {
		return fmt.Errorf("lead time must be positive, got %s", c.LeadTime)
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.RequestsPerMinute)
	}
	return nil
}

// StatusAddr returns the listen address of the status server.
func (c *Config) StatusAddr() string {
	return fmt.Sprintf("%s:%d", c.StatusHost, c.StatusPort)
}

// ParseDuration accepts Go durations plus day/week units ("1d", "1w2h").
func ParseDuration(s string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return d, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
