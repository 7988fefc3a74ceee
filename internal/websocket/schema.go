package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError       Event = "error"
	EventPong        Event = "pong"
	EventSubmission  Event = "submission"
	EventLeaderboard Event = "leaderboard"
)

// SubmissionEvent announces a freshly recorded submission on a quiz's
// monitor channel.
type SubmissionEvent struct {
	Event       Event     `json:"event"`
	QuizID      uuid.UUID `json:"quiz_id"`
	UserID      uuid.UUID `json:"user_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// LeaderboardEvent carries a refreshed leaderboard snapshot.
type LeaderboardEvent struct {
	Event   Event                    `json:"event"`
	QuizID  uuid.UUID                `json:"quiz_id"`
	Entries []model.LeaderboardEntry `json:"entries"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
