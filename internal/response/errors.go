package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	ErrNotRegistered      ErrCode = "NOT_REGISTERED"
	ErrAlreadyRegistered  ErrCode = "ALREADY_REGISTERED"
	ErrAlreadySubmitted   ErrCode = "ALREADY_SUBMITTED"
	ErrRegistrationClosed ErrCode = "REGISTRATION_CLOSED"
	ErrWindowNotOpen      ErrCode = "WINDOW_NOT_OPEN"
	ErrWindowClosed       ErrCode = "WINDOW_CLOSED"
	ErrQuizNotAvailable   ErrCode = "QUIZ_NOT_AVAILABLE"
	ErrInvalidAnswers     ErrCode = "INVALID_ANSWERS"
	ErrSubmissionNotFound ErrCode = "SUBMISSION_NOT_FOUND"

	// ─── Admin quiz lifecycle ──────────────────────────────────────────
	ErrQuizNotSchedulable ErrCode = "QUIZ_NOT_SCHEDULABLE"
	ErrScheduleInPast     ErrCode = "SCHEDULE_IN_PAST"
	ErrNoQuestions        ErrCode = "NO_QUESTIONS"
	ErrGenerationFailed   ErrCode = "GENERATION_FAILED"
	ErrNoNewsFound        ErrCode = "NO_NEWS_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or has expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	case ErrNotRegistered:
		return "You are not registered for this quiz."
	case ErrAlreadyRegistered:
		return "You are already registered for this quiz."
	case ErrAlreadySubmitted:
		return "You have already submitted answers for this quiz."
	case ErrRegistrationClosed:
		return "Registration for this quiz has closed."
	case ErrWindowNotOpen:
		return "This quiz is not currently open for attempts."
	case ErrWindowClosed:
		return "The window for this quiz has closed."
	case ErrQuizNotAvailable:
		return "This quiz is not available."
	case ErrInvalidAnswers:
		return "The submitted answers are malformed."
	case ErrSubmissionNotFound:
		return "No submission was found for this quiz."

	case ErrQuizNotSchedulable:
		return "Only draft, reviewed or scheduled quizzes can be scheduled."
	case ErrScheduleInPast:
		return "The scheduled start time must be in the future."
	case ErrNoQuestions:
		return "This quiz has no questions."
	case ErrGenerationFailed:
		return "Question generation failed. Please try again."
	case ErrNoNewsFound:
		return "No news articles were found for this topic."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
