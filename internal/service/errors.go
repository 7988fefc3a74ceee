package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to
// response error codes; everything else is treated as internal.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")

	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizNotSchedulable = errors.New("quiz cannot be scheduled in its current status")
	ErrScheduleInPast     = errors.New("scheduled start must be in the future")
	ErrNoQuestions        = errors.New("quiz has no questions")

	ErrNotRegistered      = errors.New("user is not registered for this quiz")
	ErrAlreadyRegistered  = errors.New("user is already registered for this quiz")
	ErrRegistrationClosed = errors.New("registration window has closed")

	ErrWindowNotOpen = errors.New("attempt window has not opened")
	ErrWindowClosed  = errors.New("attempt window has closed")

	ErrAlreadySubmitted    = errors.New("submission already exists for this quiz")
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	ErrSubmissionNotFound  = errors.New("no submission found for this quiz")

	ErrGenerationFailed = errors.New("question generation failed")
	ErrNoNewsFound      = errors.New("no news articles found")
)
