package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quizforge-backend/internal/model"
)

// RegistrationRepository handles quiz registration data access.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// Create inserts a registration for the (user, quiz) pair. The unique
// index makes this insert-if-absent: a concurrent duplicate scans back
// pgx.ErrNoRows, which callers translate to "already registered".
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_registrations (user_id, quiz_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, quiz_id) DO NOTHING
		 RETURNING id, registered_at`,
		reg.UserID, reg.QuizID,
	).Scan(&reg.ID, &reg.RegisteredAt)
}

// Exists reports whether the user is registered for the quiz.
func (r *RegistrationRepository) Exists(ctx context.Context, userID, quizID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM quiz_registrations WHERE user_id = $1 AND quiz_id = $2`,
		userID, quizID,
	).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// QuizIDsByUser returns the ids of all quizzes the user registered for.
func (r *RegistrationRepository) QuizIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT quiz_id FROM quiz_registrations WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
