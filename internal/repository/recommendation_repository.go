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

// RecommendationRepository stores per-user topic recommendations.
type RecommendationRepository struct {
	pool *pgxpool.Pool
}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository(pool *pgxpool.Pool) *RecommendationRepository {
	return &RecommendationRepository{pool: pool}
}

// Upsert replaces the user's recommendation list.
func (r *RecommendationRepository) Upsert(ctx context.Context, userID uuid.UUID, topics []string) error {
	encoded, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("encode topics: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO topic_recommendations (user_id, topics, last_updated)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET topics = EXCLUDED.topics, last_updated = NOW()`,
		userID, encoded)
	return err
}

// Get returns the user's stored recommendations, or nil when none exist.
func (r *RecommendationRepository) Get(ctx context.Context, userID uuid.UUID) (*model.TopicRecommendation, error) {
	rec := model.TopicRecommendation{UserID: userID}
	var encoded []byte
	err := r.pool.QueryRow(ctx,
		`SELECT topics, last_updated FROM topic_recommendations WHERE user_id = $1`,
		userID,
	).Scan(&encoded, &rec.LastUpdated)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(encoded, &rec.Topics); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	return &rec, nil
}
