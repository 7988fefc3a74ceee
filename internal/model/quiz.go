package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizStatus enumerates the possible states of a quiz.
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusReviewed  QuizStatus = "reviewed"
	QuizStatusScheduled QuizStatus = "scheduled"
	QuizStatusActive    QuizStatus = "active"
	QuizStatusArchived  QuizStatus = "archived"
)

// Schedulable reports whether a quiz in this status may be (re)scheduled.
func (s QuizStatus) Schedulable() bool {
	switch s {
	case QuizStatusDraft, QuizStatusReviewed, QuizStatusScheduled:
		return true
	}
	return false
}

// QuizType enumerates how a quiz's questions were sourced.
type QuizType string

const (
	QuizTypeGeneral   QuizType = "General Quiz"
	QuizTypeNewsBased QuizType = "News-Based Quiz"
)

// Question is a single multiple-choice question. Questions are owned
// exclusively by one quiz and stored inline with it; they have no
// independent lifecycle.
type Question struct {
	QuestionNumber int      `json:"question_number"`
	Question       string   `json:"question" binding:"required"`
	Options        []string `json:"options" binding:"required,len=4"`
	CorrectAnswer  string   `json:"correct_answer" binding:"required,oneof=a b c d"`
}

// Quiz represents a quiz document with its embedded questions.
// ScheduledStart and DurationMinutes are either both set (timed quiz) or
// both nil (untimed); the end time is always derived, never stored.
type Quiz struct {
	ID              uuid.UUID  `json:"id"`
	Type            QuizType   `json:"type"`
	Topic           string     `json:"topic"`
	Difficulty      string     `json:"difficulty"`
	Language        string     `json:"language"`
	Questions       []Question `json:"questions"`
	Status          QuizStatus `json:"status"`
	ScheduledStart  *time.Time `json:"scheduled_datetime,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// QuestionForAttempt is a question with the correct answer withheld,
// as served to a user taking the quiz.
type QuestionForAttempt struct {
	QuestionNumber int      `json:"question_number"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
}

// QuizForAttempt is the payload served by the fetch-for-attempt endpoint:
// quiz metadata, answer-stripped questions, and the derived end time for
// the client countdown. The countdown is advisory only; the server clock
// decides window validity.
type QuizForAttempt struct {
	ID              uuid.UUID            `json:"id"`
	Type            QuizType             `json:"type"`
	Topic           string               `json:"topic"`
	Difficulty      string               `json:"difficulty"`
	Language        string               `json:"language"`
	Questions       []QuestionForAttempt `json:"questions"`
	NumMCQs         int                  `json:"num_mcqs"`
	ScheduledStart  *time.Time           `json:"scheduled_datetime,omitempty"`
	DurationMinutes *int                 `json:"duration_minutes,omitempty"`
	EndTime         *time.Time           `json:"end_datetime,omitempty"`
}

// UpcomingQuiz decorates a quiz with per-user flags for the upcoming list.
type UpcomingQuiz struct {
	Quiz
	IsLive       bool `json:"is_live"`
	IsRegistered bool `json:"is_registered"`
}

// GenerateQuizRequest is the admin payload for AI quiz generation.
type GenerateQuizRequest struct {
	QuizType   QuizType `json:"quiz_type" binding:"omitempty,oneof='General Quiz' 'News-Based Quiz'"`
	Topic      string   `json:"topic" binding:"required,min=2,max=200"`
	Difficulty string   `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	Language   string   `json:"language" binding:"omitempty,min=2,max=50"`
	NumMCQs    int      `json:"num_mcqs" binding:"omitempty,min=1,max=20"`
}

// ReviewQuizRequest is the admin payload for saving reviewed questions and
// moving the quiz through its status machine.
type ReviewQuizRequest struct {
	QuizID    string     `json:"quiz_id" binding:"required,uuid"`
	Questions []Question `json:"questions" binding:"required,min=1,dive"`
	Status    QuizStatus `json:"status" binding:"omitempty,oneof=draft reviewed active scheduled archived"`
}

// RegenerateRequest is the admin payload for generating replacement
// questions. The result is returned, never saved directly.
type RegenerateRequest struct {
	QuizID string `json:"quiz_id" binding:"required,uuid"`
	Count  int    `json:"count" binding:"required,min=1,max=10"`
}

// ScheduleQuizRequest is the admin payload for scheduling a quiz window.
type ScheduleQuizRequest struct {
	QuizID            string    `json:"quiz_id" binding:"required,uuid"`
	ScheduledDatetime time.Time `json:"scheduled_datetime" binding:"required"`
	DurationMinutes   int       `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
}
