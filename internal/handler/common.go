package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/middleware"
	"github.com/quizforge/quizforge-backend/internal/response"
	"github.com/quizforge/quizforge-backend/internal/service"
)

// currentUserID resolves the authenticated user's id from the JWT claims.
// It writes the error response itself; callers just return on !ok.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, false
	}
	id, err := claims.UserID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a uuid path parameter, failing the request on a bad id.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// failService maps service sentinel errors to response codes. Unknown
// errors become a plain internal error; details stay in the logs.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSubmissionNotFound)
	case errors.Is(err, service.ErrNotRegistered):
		response.Fail(c, http.StatusForbidden, response.ErrNotRegistered)
	case errors.Is(err, service.ErrAlreadyRegistered):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyRegistered)
	case errors.Is(err, service.ErrRegistrationClosed):
		response.Fail(c, http.StatusForbidden, response.ErrRegistrationClosed)
	case errors.Is(err, service.ErrWindowClosed):
		response.Fail(c, http.StatusForbidden, response.ErrWindowClosed)
	case errors.Is(err, service.ErrWindowNotOpen):
		response.Fail(c, http.StatusForbidden, response.ErrWindowNotOpen)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrAnswerCountMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidAnswers)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	case errors.Is(err, service.ErrQuizNotSchedulable):
		response.Fail(c, http.StatusConflict, response.ErrQuizNotSchedulable)
	case errors.Is(err, service.ErrScheduleInPast):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrScheduleInPast)
	case errors.Is(err, service.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrGenerationFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrGenerationFailed)
	case errors.Is(err, service.ErrNoNewsFound):
		response.Fail(c, http.StatusNotFound, response.ErrNoNewsFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
