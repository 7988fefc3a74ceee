package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quizforge-backend/internal/model"
)

// AnalyticsRepository runs the aggregate queries behind the admin
// analytics endpoints. All aggregation happens in SQL; the service layer
// only shapes the results.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// Summary returns the headline counts and the platform-wide average
// score percentage.
func (r *AnalyticsRepository) Summary(ctx context.Context) (*model.AnalyticsSummary, error) {
	var s model.AnalyticsSummary
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'user'),
			(SELECT COUNT(*) FROM quizzes),
			(SELECT COUNT(*) FROM quiz_submissions),
			(SELECT COUNT(*) FROM quizzes WHERE status = 'scheduled'),
			COALESCE((SELECT AVG(score::float / NULLIF(total, 0)) * 100
				FROM quiz_submissions), 0)`,
	).Scan(&s.TotalUsers, &s.TotalQuizzes, &s.TotalSubmissions,
		&s.ScheduledQuizzes, &s.AverageScorePct)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SubmissionsPerDay returns the daily submission counts since cutoff.
// Days with no submissions are absent from the result.
func (r *AnalyticsRepository) SubmissionsPerDay(ctx context.Context, cutoff time.Time) ([]model.DailyCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT TO_CHAR(submitted_at::date, 'YYYY-MM-DD'), COUNT(*)
		FROM quiz_submissions
		WHERE submitted_at >= $1
		GROUP BY submitted_at::date
		ORDER BY submitted_at::date`,
		cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.DailyCount
	for rows.Next() {
		var p model.DailyCount
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// UserActivity returns per-user submission stats ordered by submission
// count, capped at limit.
func (r *AnalyticsRepository) UserActivity(ctx context.Context, limit int) ([]model.UserActivity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, COUNT(s.id),
		       COALESCE(AVG(s.score::float / NULLIF(s.total, 0)) * 100, 0),
		       MAX(s.submitted_at)
		FROM users u
		JOIN quiz_submissions s ON s.user_id = u.id
		GROUP BY u.id, u.name
		ORDER BY COUNT(s.id) DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []model.UserActivity
	for rows.Next() {
		var a model.UserActivity
		if err := rows.Scan(&a.UserID, &a.Name, &a.Submissions,
			&a.AverageScorePct, &a.LastSubmission); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}

// TopQuizzes returns the most attempted quizzes with their scoring
// aggregates, capped at limit.
func (r *AnalyticsRepository) TopQuizzes(ctx context.Context, limit int) ([]model.QuizPerformance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.topic, q.type, COUNT(s.id),
		       COALESCE(AVG(s.score), 0), COALESCE(MAX(s.score), 0)
		FROM quizzes q
		JOIN quiz_submissions s ON s.quiz_id = q.id
		GROUP BY q.id, q.topic, q.type
		ORDER BY COUNT(s.id) DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.QuizPerformance
	for rows.Next() {
		var p model.QuizPerformance
		if err := rows.Scan(&p.QuizID, &p.Topic, &p.Type,
			&p.Participants, &p.AverageScore, &p.TopScore); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, p)
	}
	return quizzes, rows.Err()
}

// TypeDistribution returns quiz counts grouped by type.
func (r *AnalyticsRepository) TypeDistribution(ctx context.Context) ([]model.TypeCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type, COUNT(*) FROM quizzes GROUP BY type ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.TypeCount
	for rows.Next() {
		var c model.TypeCount
		if err := rows.Scan(&c.Type, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
