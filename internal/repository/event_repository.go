package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quizforge-backend/internal/model"
)

// EventRepository records quiz lifecycle events used by recommendations
// and analytics.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create appends an event. Event writes are best-effort side effects;
// callers log failures instead of failing the request.
func (r *EventRepository) Create(ctx context.Context, ev *model.QuizEvent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_events (user_id, quiz_id, action, quiz_type, topic, difficulty, language)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		ev.UserID, ev.QuizID, ev.Action, ev.QuizType, ev.Topic, ev.Difficulty, ev.Language,
	).Scan(&ev.ID, &ev.CreatedAt)
}

// ListByUser returns the user's events newest first, capped at limit.
func (r *EventRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.QuizEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, quiz_id, action, quiz_type, topic, difficulty, language, created_at
		 FROM quiz_events
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.QuizEvent
	for rows.Next() {
		var ev model.QuizEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.QuizID, &ev.Action,
			&ev.QuizType, &ev.Topic, &ev.Difficulty, &ev.Language, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
