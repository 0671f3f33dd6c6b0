package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/stagewatch/internal/api/respond"
	"github.com/albapepper/stagewatch/internal/cache"
)

// GetCategories lists the configured categories in processing order. The list
// is fixed at startup, so it is cached independently of the board.
// @Summary List categories
// @Description Returns every polled category with its source URL.
// @Tags schedules
// @Produce json
// @Success 200 {array} config.Category
// @Router /api/v1/categories [get]
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "categories", cache.TTLCategories, func() interface{} {
		return h.categories
	})
}

// GetSchedules returns the last known schedule of every category.
// @Summary List schedules
// @Description Returns the latest snapshot, outcome and fetch status per category.
// @Tags schedules
// @Produce json
// @Success 200 {array} schedule.CategoryStatus
// @Router /api/v1/schedules [get]
func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, h.boardKey("schedules"), cache.TTLStatus, func() interface{} {
		return h.board.Categories()
	})
}

// GetSchedule returns the last known schedule of one category.
// @Summary Get schedule
// @Description Returns the latest snapshot, outcome and fetch status of a category.
// @Tags schedules
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} schedule.CategoryStatus
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/schedules/{category} [get]
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	st, ok := h.board.Category(name)
	if !ok {
		names := make([]string, 0, len(h.categories))
		for _, c := range h.categories {
			names = append(names, c.Name)
		}
		respond.WriteErrorDetail(w, http.StatusNotFound, "NOT_FOUND",
			"Unknown category "+name, "known: "+strings.Join(names, ", "))
		return
	}
	h.serveCached(w, r, h.boardKey("schedule:"+name), cache.TTLStatus, func() interface{} {
		return st
	})
}

// GetRecentNotifications returns recently dispatched notifications.
// @Summary Recent notifications
// @Description Returns the most recent notifications, newest first.
// @Tags notifications
// @Produce json
// @Success 200 {array} schedule.NotificationRecord
// @Router /api/v1/notifications/recent [get]
func (h *Handler) GetRecentNotifications(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, h.boardKey("recent"), cache.TTLStatus, func() interface{} {
		return h.board.Recent()
	})
}
