package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quizforge-backend/internal/model"
)

// QuizRepository handles quiz data access. Questions are stored inline as
// JSONB since they are owned exclusively by their quiz.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, type, topic, difficulty, language, questions, status,
	scheduled_start, duration_minutes, created_by, created_at, updated_at`

func scanQuiz(row interface{ Scan(...any) error }) (*model.Quiz, error) {
	q := &model.Quiz{}
	var questions []byte
	err := row.Scan(&q.ID, &q.Type, &q.Topic, &q.Difficulty, &q.Language,
		&questions, &q.Status, &q.ScheduledStart, &q.DurationMinutes,
		&q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	normalizeQuizTimes(q)
	return q, nil
}

// normalizeQuizTimes converts the schedule to UTC once at the read
// boundary so no downstream code re-interprets timestamps, and drops a
// dangling duration so the start/duration pairing invariant holds even
// for rows written before the schema CHECK existed.
func normalizeQuizTimes(q *model.Quiz) {
	if q.ScheduledStart == nil {
		q.DurationMinutes = nil
		return
	}
	utc := q.ScheduledStart.UTC()
	q.ScheduledStart = &utc
}

// Create inserts a new quiz and fills in its generated fields.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (type, topic, difficulty, language, questions, status, scheduled_start, duration_minutes, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		q.Type, q.Topic, q.Difficulty, q.Language, questions, q.Status,
		q.ScheduledStart, q.DurationMinutes, q.CreatedBy,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID retrieves a quiz by id.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

// ReplaceQuestions overwrites a quiz's question set and status in one
// statement. Moving away from scheduled clears the schedule.
func (r *QuizRepository) ReplaceQuestions(ctx context.Context, id uuid.UUID, questions []model.Question, status model.QuizStatus) error {
	encoded, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET questions = $1,
		     status = $2,
		     scheduled_start = CASE WHEN $2 = 'scheduled' THEN scheduled_start ELSE NULL END,
		     duration_minutes = CASE WHEN $2 = 'scheduled' THEN duration_minutes ELSE NULL END,
		     updated_at = NOW()
		 WHERE id = $3`,
		encoded, status, id)
	return err
}

// Schedule sets the attempt window and flips the quiz to scheduled.
func (r *QuizRepository) Schedule(ctx context.Context, id uuid.UUID, start time.Time, durationMinutes int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET scheduled_start = $1, duration_minutes = $2, status = $3, updated_at = NOW()
		 WHERE id = $4`,
		start, durationMinutes, model.QuizStatusScheduled, id)
	return err
}

// Delete removes a quiz. Registrations and submissions cascade with it;
// callers decide whether existing submissions should block deletion.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// ListScheduledSince returns scheduled quizzes whose start is after the
// cutoff, soonest first. The caller filters out already-ended windows
// since the end time is derived, not stored.
func (r *QuizRepository) ListScheduledSince(ctx context.Context, cutoff time.Time) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+`
		 FROM quizzes
		 WHERE status = $1 AND scheduled_start > $2
		 ORDER BY scheduled_start ASC`,
		model.QuizStatusScheduled, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}

// ListByCreatedRange returns quizzes created within [from, to], newest
// first, optionally filtered by status.
func (r *QuizRepository) ListByCreatedRange(ctx context.Context, from, to time.Time, status model.QuizStatus) ([]model.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE created_at >= $1 AND created_at <= $2`
	args := []any{from, to}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}
