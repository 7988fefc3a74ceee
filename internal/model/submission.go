package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerReview is the per-question breakdown stored with a submission.
type AnswerReview struct {
	QuestionIndex int     `json:"question_index"`
	Submitted     *string `json:"submitted"`
	Correct       string  `json:"correct"`
	IsCorrect     bool    `json:"is_correct"`
}

// Submission is the immutable, terminal record of one quiz attempt.
// Exactly one submission may exist per (user, quiz) pair; the database
// enforces this with a unique index so concurrent submits cannot both land.
type Submission struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	QuizID           uuid.UUID      `json:"quiz_id"`
	QuizTopic        string         `json:"quiz_topic"`
	QuizType         QuizType       `json:"quiz_type"`
	SubmittedAnswers []*string      `json:"submitted_answers"`
	CorrectAnswers   []string       `json:"correct_answers"`
	AnswerReview     []AnswerReview `json:"results_detailed"`
	Score            int            `json:"score"`
	Total            int            `json:"total"`
	// CompletionTime is the client-reported elapsed seconds. Advisory for
	// ranking only; it never extends the server-side window.
	CompletionTime *float64  `json:"completion_time_seconds"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SubmitQuizRequest is the payload for submitting answers. A nil answer
// marks an unanswered question, which the auto-submit path produces when
// the client countdown expires.
type SubmitQuizRequest struct {
	Answers   []*string `json:"answers" binding:"required,dive,omitempty,oneof=a b c d A B C D"`
	TimeTaken *float64  `json:"time_taken"`
}

// LeaderboardEntry is one row of a quiz leaderboard.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserName       string    `json:"user_name"`
	Score          int       `json:"score"`
	Total          int       `json:"total"`
	CompletionTime *float64  `json:"completion_time"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// QuizResults is the payload served by the results endpoint.
type QuizResults struct {
	Submission        *Submission `json:"submission"`
	Rank              int         `json:"rank"`
	TotalParticipants int         `json:"total_participants"`
	QuizInfo          *QuizInfo   `json:"quiz_info"`
	QuizQuestions     []Question  `json:"quiz_questions"`
}

// QuizInfo is the minimal quiz context attached to results.
type QuizInfo struct {
	Topic string   `json:"topic"`
	Type  QuizType `json:"type"`
}
