package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizforge/quizforge-backend/internal/config"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/repository"
	"github.com/quizforge/quizforge-backend/internal/scoring"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// leaderboardTTL bounds how stale a cached leaderboard snapshot can get
// if the refresh worker falls behind.
const leaderboardTTL = 5 * time.Minute

// ResultsService serves per-user results and quiz leaderboards. The
// leaderboard is cached in Redis; the worker refreshes the snapshot after
// each submission and this service falls back to a direct computation on
// a cache miss.
type ResultsService struct {
	quizRepo *repository.QuizRepository
	subRepo  *repository.SubmissionRepository
	userRepo *repository.UserRepository
	rdb      *redis.Client
	size     int
	log      zerolog.Logger
}

// NewResultsService creates a new ResultsService.
func NewResultsService(
	quizRepo *repository.QuizRepository,
	subRepo *repository.SubmissionRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
	size int,
	log zerolog.Logger,
) *ResultsService {
	return &ResultsService{
		quizRepo: quizRepo,
		subRepo:  subRepo,
		userRepo: userRepo,
		rdb:      rdb,
		size:     size,
		log:      log,
	}
}

// Results returns the user's submission for a quiz together with their
// rank among all participants and the full questions for review.
func (s *ResultsService) Results(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizResults, error) {
	sub, err := s.subRepo.GetByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	all, err := s.subRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	results := &model.QuizResults{
		Submission:        sub,
		Rank:              scoring.Rank(sub, all),
		TotalParticipants: len(all),
		QuizInfo:          &model.QuizInfo{Topic: sub.QuizTopic, Type: sub.QuizType},
	}

	// The quiz may have been deleted since the attempt; results survive
	// on the submission's own copy of topic and type.
	if quiz, err := s.quizRepo.GetByID(ctx, quizID); err == nil {
		results.QuizQuestions = quiz.Questions
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	return results, nil
}

// Leaderboard returns the top entries for a quiz, preferring the cached
// snapshot and recomputing from the database on a miss.
func (s *ResultsService) Leaderboard(ctx context.Context, quizID uuid.UUID) ([]model.LeaderboardEntry, error) {
	key := config.CacheKey.QuizLeaderboardKey(quizID.String())

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var entries []model.LeaderboardEntry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
		s.log.Warn().Str("key", key).Msg("corrupt leaderboard snapshot, recomputing")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("leaderboard cache read failed")
	}

	entries, err := s.Compute(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(entries); err == nil {
		if err := s.rdb.Set(ctx, key, encoded, leaderboardTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache write failed")
		}
	}
	return entries, nil
}

// Compute builds the leaderboard from the database, bypassing the cache.
// The refresh worker uses this to produce snapshots.
func (s *ResultsService) Compute(ctx context.Context, quizID uuid.UUID) ([]model.LeaderboardEntry, error) {
	subs, err := s.subRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.UserID)
	}
	names, err := s.userRepo.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve names: %w", err)
	}

	return scoring.Leaderboard(subs, names, s.size), nil
}

// History returns the user's past submissions, newest first.
func (s *ResultsService) History(ctx context.Context, userID uuid.UUID) ([]*model.Submission, error) {
	return s.subRepo.ListByUser(ctx, userID)
}
