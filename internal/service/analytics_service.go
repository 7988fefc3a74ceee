package service

import (
	"context"
	"time"

	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/repository"
)

// AnalyticsService shapes the admin dashboard aggregates.
type AnalyticsService struct {
	repo *repository.AnalyticsRepository
	now  func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// Summary returns the headline dashboard block.
func (s *AnalyticsService) Summary(ctx context.Context) (*model.AnalyticsSummary, error) {
	return s.repo.Summary(ctx)
}

// SubmissionsPerDay returns the daily submission counts for the trailing
// number of days.
func (s *AnalyticsService) SubmissionsPerDay(ctx context.Context, days int) ([]model.DailyCount, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	return s.repo.SubmissionsPerDay(ctx, cutoff)
}

// UserActivity returns the most active users.
func (s *AnalyticsService) UserActivity(ctx context.Context, limit int) ([]model.UserActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.UserActivity(ctx, limit)
}

// TopQuizzes returns the most attempted quizzes.
func (s *AnalyticsService) TopQuizzes(ctx context.Context, limit int) ([]model.QuizPerformance, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.repo.TopQuizzes(ctx, limit)
}

// TypeDistribution returns quiz counts by type.
func (s *AnalyticsService) TypeDistribution(ctx context.Context) ([]model.TypeCount, error) {
	return s.repo.TypeDistribution(ctx)
}
