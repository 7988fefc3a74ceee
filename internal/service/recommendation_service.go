package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/repository"
	"github.com/rs/zerolog"
)

// recommendationCap limits how many topics are kept per user, newest last.
const recommendationCap = 10

// RecommendationService tracks the topics a user interacts with and
// serves them back as suggestions, padded with trending topics when the
// user has little history.
type RecommendationService struct {
	recRepo   *repository.RecommendationRepository
	eventRepo *repository.EventRepository
	news      *NewsService
	log       zerolog.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(
	recRepo *repository.RecommendationRepository,
	eventRepo *repository.EventRepository,
	news *NewsService,
	log zerolog.Logger,
) *RecommendationService {
	return &RecommendationService{recRepo: recRepo, eventRepo: eventRepo, news: news, log: log}
}

// Track records a topic interaction. The stored list is deduplicated and
// trimmed to the newest entries. Failures are logged only; tracking is a
// side effect of some other successful action.
func (s *RecommendationService) Track(ctx context.Context, userID uuid.UUID, topic string) {
	if topic == "" {
		return
	}
	rec, err := s.recRepo.Get(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("load recommendations failed")
		return
	}

	var topics []string
	if rec != nil {
		for _, t := range rec.Topics {
			if t != topic {
				topics = append(topics, t)
			}
		}
	}
	topics = append(topics, topic)
	if len(topics) > recommendationCap {
		topics = topics[len(topics)-recommendationCap:]
	}

	if err := s.recRepo.Upsert(ctx, userID, topics); err != nil {
		s.log.Warn().Err(err).Msg("save recommendations failed")
	}
}

// Suggestions returns topics for the user: tracked topics newest first,
// then topics from their recent quiz activity, topped up with trending
// topics to the cap.
func (s *RecommendationService) Suggestions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rec, err := s.recRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recommendations: %w", err)
	}

	seen := make(map[string]bool)
	var suggestions []string
	if rec != nil {
		// Stored oldest to newest; surface the most recent first.
		for i := len(rec.Topics) - 1; i >= 0; i-- {
			if !seen[rec.Topics[i]] {
				seen[rec.Topics[i]] = true
				suggestions = append(suggestions, rec.Topics[i])
			}
		}
	}

	events, err := s.eventRepo.ListByUser(ctx, userID, recommendationCap)
	if err != nil {
		s.log.Warn().Err(err).Msg("load activity for suggestions failed")
	}
	for _, ev := range events {
		if len(suggestions) >= recommendationCap {
			break
		}
		if ev.Topic != "" && !seen[ev.Topic] {
			seen[ev.Topic] = true
			suggestions = append(suggestions, ev.Topic)
		}
	}

	for _, topic := range s.news.TrendingTopics(ctx) {
		if len(suggestions) >= recommendationCap {
			break
		}
		if !seen[topic] {
			seen[topic] = true
			suggestions = append(suggestions, topic)
		}
	}
	return suggestions, nil
}
