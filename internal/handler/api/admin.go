package api

import (
	"net/http"

	resdto "parking-booking/internal/handler/dto/response"
	"parking-booking/internal/handler/middleware"
	"parking-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	analytics     queries.AnalyticsQueries
	notifications queries.NotificationQueries
}

func NewAdminHandler(analytics queries.AnalyticsQueries, notifications queries.NotificationQueries) *AdminHandler {
	return &AdminHandler{analytics: analytics, notifications: notifications}
}

type notificationJobsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=queued sent failed"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// @Summary Analytics dashboard
// @Description Aggregates from the analytics service, passed through as returned
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 503 {object} httperr.Response
// @Router /analytics/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}
	stats, err := h.analytics.Dashboard(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", stats)
}

// @Summary Outbox jobs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "queued, sent or failed"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {array} resdto.NotificationJobResponse
// @Router /admin/notification-jobs [get]
func (h *AdminHandler) NotificationJobs(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}
	var q notificationJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, "Invalid query parameters")
		return
	}
	var status *string
	if q.Status != "" {
		status = &q.Status
	}
	jobs, err := h.notifications.ListJobs(c.Request.Context(), actor, status, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromNotificationJobs(jobs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
