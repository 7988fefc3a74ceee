package model

import (
	"time"

	"github.com/google/uuid"
)

// Registration records a user's intent to attempt a quiz once it goes
// live. At most one registration exists per (user, quiz) pair.
type Registration struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	QuizID       uuid.UUID `json:"quiz_id"`
	RegisteredAt time.Time `json:"registered_at"`
}
