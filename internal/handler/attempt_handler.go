package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/response"
	"github.com/quizforge/quizforge-backend/internal/service"
	"github.com/quizforge/quizforge-backend/internal/validator"
)

// AttemptHandler handles the user-facing quiz surface: the upcoming
// lobby, registration, taking a quiz and viewing results.
type AttemptHandler struct {
	attemptService *service.AttemptService
	resultsService *service.ResultsService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, resultsService *service.ResultsService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService, resultsService: resultsService}
}

// Upcoming godoc
// GET /api/quiz/upcoming
// Lists scheduled quizzes whose window has not closed, with per-user flags.
func (h *AttemptHandler) Upcoming(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quizzes, err := h.attemptService.Upcoming(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Register godoc
// POST /api/quiz/register/:quiz_id
// Registers the user for a quiz that has not gone live yet.
func (h *AttemptHandler) Register(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	reg, err := h.attemptService.Register(c.Request.Context(), userID, quizID)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"registration": reg})
}

// CheckRegistration godoc
// GET /api/quiz/register/:quiz_id/check
// Reports whether the user is registered for the quiz.
func (h *AttemptHandler) CheckRegistration(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	registered, err := h.attemptService.IsRegistered(c.Request.Context(), userID, quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_registered": registered})
}

// RegisteredQuizzes godoc
// GET /api/quiz/registered
// Lists the ids of quizzes the user registered for.
func (h *AttemptHandler) RegisteredQuizzes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ids, err := h.attemptService.RegisteredQuizIDs(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz_ids": ids})
}

// FetchQuiz godoc
// GET /api/quiz/:quiz_id
// Serves the quiz for an attempt, answers withheld. Only inside the window.
func (h *AttemptHandler) FetchQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.attemptService.FetchForAttempt(c.Request.Context(), userID, quizID)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Submit godoc
// POST /api/quiz/submit/:quiz_id
// Scores and records the user's answers. One submission per user per quiz.
func (h *AttemptHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.attemptService.Submit(c.Request.Context(), userID, quizID, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"submission_id":    sub.ID,
		"score":            sub.Score,
		"total":            sub.Total,
		"results_detailed": sub.AnswerReview,
		"submitted_at":     sub.SubmittedAt,
	})
}

// Results godoc
// GET /api/quiz/results/:quiz_id
// Returns the user's submission with rank and the questions for review.
func (h *AttemptHandler) Results(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	results, err := h.resultsService.Results(c.Request.Context(), userID, quizID)
	if err != nil {
		failService(c, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

// Leaderboard godoc
// GET /api/quiz/leaderboard/:quiz_id
// Returns the top submissions for a quiz.
func (h *AttemptHandler) Leaderboard(c *gin.Context) {
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	entries, err := h.resultsService.Leaderboard(c.Request.Context(), quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// SubmissionHistory godoc
// GET /api/user/submissions
// Lists the user's past submissions, newest first.
func (h *AttemptHandler) SubmissionHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	subs, err := h.resultsService.History(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}
