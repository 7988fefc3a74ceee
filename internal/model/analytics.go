package model

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsSummary is the admin dashboard headline block.
type AnalyticsSummary struct {
	TotalUsers       int     `json:"total_users"`
	TotalQuizzes     int     `json:"total_quizzes"`
	TotalSubmissions int     `json:"total_submissions"`
	ScheduledQuizzes int     `json:"scheduled_quizzes"`
	AverageScorePct  float64 `json:"average_score_pct"`
}

// DailyCount is one point of a per-day time series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UserActivity summarizes one user's submission history for admins.
type UserActivity struct {
	UserID          uuid.UUID  `json:"user_id"`
	Name            string     `json:"name"`
	Submissions     int        `json:"submissions"`
	AverageScorePct float64    `json:"average_score_pct"`
	LastSubmission  *time.Time `json:"last_submission,omitempty"`
}

// QuizPerformance summarizes participation and scoring for one quiz.
type QuizPerformance struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	Topic        string    `json:"topic"`
	Type         QuizType  `json:"type"`
	Participants int       `json:"participants"`
	AverageScore float64   `json:"average_score"`
	TopScore     int       `json:"top_score"`
}

// TypeCount is the quiz count for one quiz type.
type TypeCount struct {
	Type  QuizType `json:"type"`
	Count int      `json:"count"`
}
