package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quizforge-backend/internal/response"
	"github.com/quizforge/quizforge-backend/internal/service"
)

// AnalyticsHandler serves the admin dashboard aggregates.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Summary godoc
// GET /api/admin/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analyticsService.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// SubmissionsPerDay godoc
// GET /api/admin/analytics/submissions?days=30
func (h *AnalyticsHandler) SubmissionsPerDay(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	points, err := h.analyticsService.SubmissionsPerDay(c.Request.Context(), days)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions_per_day": points})
}

// UserActivity godoc
// GET /api/admin/analytics/user-activity?limit=50
func (h *AnalyticsHandler) UserActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	activity, err := h.analyticsService.UserActivity(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_activity": activity})
}

// TopQuizzes godoc
// GET /api/admin/analytics/top-quizzes?limit=10
func (h *AnalyticsHandler) TopQuizzes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	quizzes, err := h.analyticsService.TopQuizzes(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"top_quizzes": quizzes})
}

// TypeDistribution godoc
// GET /api/admin/analytics/type-distribution
func (h *AnalyticsHandler) TypeDistribution(c *gin.Context) {
	counts, err := h.analyticsService.TypeDistribution(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"type_distribution": counts})
}
