package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/response"
	"github.com/quizforge/quizforge-backend/internal/service"
	"github.com/quizforge/quizforge-backend/internal/validator"
)

// AdminQuizHandler handles the admin quiz lifecycle: generation, review,
// scheduling and deletion.
type AdminQuizHandler struct {
	generationService *service.GenerationService
	adminService      *service.QuizAdminService
	newsService       *service.NewsService
	recService        *service.RecommendationService
}

// NewAdminQuizHandler creates a new AdminQuizHandler.
func NewAdminQuizHandler(
	generationService *service.GenerationService,
	adminService *service.QuizAdminService,
	newsService *service.NewsService,
	recService *service.RecommendationService,
) *AdminQuizHandler {
	return &AdminQuizHandler{
		generationService: generationService,
		adminService:      adminService,
		newsService:       newsService,
		recService:        recService,
	}
}

// Generate godoc
// POST /api/quiz/generate
// Generates a draft quiz with AI and stores it for review.
func (h *AdminQuizHandler) Generate(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req model.GenerateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.generationService.Generate(c.Request.Context(), adminID, &req)
	if err != nil {
		failService(c, err)
		return
	}

	h.recService.Track(c.Request.Context(), adminID, quiz.Topic)
	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// History godoc
// GET /api/admin/quiz/history?from=YYYY-MM-DD&to=YYYY-MM-DD&status=...
// Lists quizzes created in the given range, defaulting to the last 30 days.
func (h *AdminQuizHandler) History(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		// Inclusive through the end of the given day.
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	quizzes, err := h.adminService.History(c.Request.Context(), from, to, model.QuizStatus(c.Query("status")))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t.UTC(), err
}

// Get godoc
// GET /api/admin/quiz/:quiz_id
// Returns a quiz with answers included.
func (h *AdminQuizHandler) Get(c *gin.Context) {
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.adminService.Get(c.Request.Context(), quizID)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Delete godoc
// DELETE /api/admin/quiz/:quiz_id
// Removes a quiz with its registrations and submissions.
func (h *AdminQuizHandler) Delete(c *gin.Context) {
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.adminService.Delete(c.Request.Context(), quizID); err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Review godoc
// POST /api/admin/quiz/review
// Saves edited questions and moves the quiz through its status machine.
func (h *AdminQuizHandler) Review(c *gin.Context) {
	var req model.ReviewQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.adminService.Review(c.Request.Context(), &req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Regenerate godoc
// POST /api/admin/quiz/regenerate
// Produces replacement questions for a quiz without saving them.
func (h *AdminQuizHandler) Regenerate(c *gin.Context) {
	var req model.RegenerateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quizID, err := uuid.Parse(req.QuizID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.adminService.Get(c.Request.Context(), quizID)
	if err != nil {
		failService(c, err)
		return
	}

	questions, err := h.generationService.RegenerateQuestions(c.Request.Context(), quiz, req.Count)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Schedule godoc
// POST /api/admin/quiz/schedule
// Assigns an attempt window to a quiz.
func (h *AdminQuizHandler) Schedule(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req model.ScheduleQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.adminService.Schedule(c.Request.Context(), adminID, &req)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// TrendingTopics godoc
// GET /api/admin/quiz/trending
// Suggests quiz topics mined from current headlines.
func (h *AdminQuizHandler) TrendingTopics(c *gin.Context) {
	topics := h.newsService.TrendingTopics(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"topics": topics})
}
