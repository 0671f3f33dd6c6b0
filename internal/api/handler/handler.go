// Package handler provides HTTP handlers for the status API.
// Handlers only read the schedule board; they never touch poll state.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/stagewatch/internal/api/respond"
	"github.com/albapepper/stagewatch/internal/cache"
	"github.com/albapepper/stagewatch/internal/config"
	"github.com/albapepper/stagewatch/internal/schedule"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	board      *schedule.Board
	cache      *cache.Cache
	categories []config.Category
	cfg        *config.Config
	startedAt  time.Time
}

// New creates a Handler with shared dependencies.
func New(board *schedule.Board, c *cache.Cache, categories []config.Category, cfg *config.Config) *Handler {
	return &Handler{
		board:      board,
		cache:      c,
		categories: categories,
		cfg:        cfg,
		startedAt:  time.Now(),
	}
}

// Root serves service info at /.
// @Summary Service root info
// @Description Returns service name, status and poll settings.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":          "stagewatch",
		"status":        "running",
		"docs":          "/docs/index.html",
		"categories":    len(h.categories),
		"poll_interval": h.cfg.PollInterval.String(),
		"lead_time":     h.cfg.LeadTime.String(),
	})
}

// HealthCheck returns basic health status and poll progress.
// @Summary Health check
// @Description Returns health status, completed cycles and the last cycle time.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	cycles, last := h.board.Cycles()
	body := map[string]interface{}{
		"status":    "healthy",
		"cycles":    cycles,
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if !last.IsZero() {
		body["last_cycle"] = last.UTC().Format(time.RFC3339)
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory response cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// boardKey scopes a cache key to the current board version so entries built
// before the last publish are never served.
func (h *Handler) boardKey(name string) string {
	return fmt.Sprintf("%s:v%d", name, h.board.Version())
}

// serveCached answers from the cache under key, otherwise encodes build() and
// caches it for ttl.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() interface{}) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	data, err := json.Marshal(build())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}
