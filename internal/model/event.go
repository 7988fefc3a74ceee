package model

import (
	"time"

	"github.com/google/uuid"
)

// Event actions recorded in quiz_events.
const (
	EventGenerated = "generated"
	EventAttempted = "attempted"
	EventScheduled = "scheduled"
)

// QuizEvent is an append-only record of a quiz lifecycle action. Events
// feed the recommendation and analytics surfaces; they are never shown
// to end users directly.
type QuizEvent struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	QuizID     *uuid.UUID `json:"quiz_id,omitempty"`
	Action     string     `json:"action"`
	QuizType   QuizType   `json:"quiz_type"`
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Language   string     `json:"language"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TopicRecommendation holds the rolling list of suggested topics for a
// user, at most ten, most relevant first.
type TopicRecommendation struct {
	UserID      uuid.UUID `json:"user_id"`
	Topics      []string  `json:"topics"`
	LastUpdated time.Time `json:"last_updated"`
}
