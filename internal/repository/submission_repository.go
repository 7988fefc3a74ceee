package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quizforge-backend/internal/model"
)

// SubmissionRepository handles quiz submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create persists a submission as an atomic insert-if-absent on the
// (user, quiz) unique index. When another submission already holds the
// slot the statement inserts nothing and the RETURNING scan comes back
// pgx.ErrNoRows; callers map that to "already submitted". This is the
// only write path for submissions, so a pair can never hold two rows no
// matter how many requests race.
func (r *SubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	answers, err := json.Marshal(sub.SubmittedAnswers)
	if err != nil {
		return fmt.Errorf("encode submitted answers: %w", err)
	}
	correct, err := json.Marshal(sub.CorrectAnswers)
	if err != nil {
		return fmt.Errorf("encode correct answers: %w", err)
	}
	review, err := json.Marshal(sub.AnswerReview)
	if err != nil {
		return fmt.Errorf("encode answer review: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_submissions
		   (user_id, quiz_id, quiz_topic, quiz_type, submitted_answers,
		    correct_answers, answer_review, score, total, completion_time_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (user_id, quiz_id) DO NOTHING
		 RETURNING id, submitted_at`,
		sub.UserID, sub.QuizID, sub.QuizTopic, sub.QuizType,
		answers, correct, review, sub.Score, sub.Total, sub.CompletionTime,
	).Scan(&sub.ID, &sub.SubmittedAt)
}

const submissionColumns = `id, user_id, quiz_id, quiz_topic, quiz_type,
	submitted_answers, correct_answers, answer_review, score, total,
	completion_time_seconds, submitted_at`

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var sub model.Submission
	var answers, correct, review []byte
	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.QuizID, &sub.QuizTopic, &sub.QuizType,
		&answers, &correct, &review, &sub.Score, &sub.Total,
		&sub.CompletionTime, &sub.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &sub.SubmittedAnswers); err != nil {
		return nil, fmt.Errorf("decode submitted answers: %w", err)
	}
	if err := json.Unmarshal(correct, &sub.CorrectAnswers); err != nil {
		return nil, fmt.Errorf("decode correct answers: %w", err)
	}
	if err := json.Unmarshal(review, &sub.AnswerReview); err != nil {
		return nil, fmt.Errorf("decode answer review: %w", err)
	}
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	return &sub, nil
}

// GetByUserAndQuiz returns the user's submission for the quiz, if any.
func (r *SubmissionRepository) GetByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) (*model.Submission, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM quiz_submissions
		 WHERE user_id = $1 AND quiz_id = $2`,
		userID, quizID)
	return scanSubmission(row)
}

// ListByQuiz returns every submission for a quiz, ordered by the ranking
// key: score descending, completion time ascending with missing times
// last, then submission time and id as final tie-breakers.
func (r *SubmissionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM quiz_submissions
		 WHERE quiz_id = $1
		 ORDER BY score DESC, completion_time_seconds ASC NULLS LAST,
		          submitted_at ASC, id ASC`,
		quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// ListByUser returns the user's submissions, most recent first.
func (r *SubmissionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM quiz_submissions
		 WHERE user_id = $1
		 ORDER BY submitted_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// DeleteByUser removes all submissions for a user. Used by the admin
// history reset.
func (r *SubmissionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM quiz_submissions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectSubmissions(rows pgx.Rows) ([]*model.Submission, error) {
	var subs []*model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
