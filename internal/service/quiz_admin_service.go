package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/repository"
	"github.com/rs/zerolog"
)

// defaultDurationMinutes is applied when a schedule request omits the
// duration.
const defaultDurationMinutes = 30

// QuizAdminService owns the admin-side quiz lifecycle: review, status
// transitions, scheduling and deletion.
type QuizAdminService struct {
	quizRepo  *repository.QuizRepository
	eventRepo *repository.EventRepository
	now       func() time.Time
	log       zerolog.Logger
}

// NewQuizAdminService creates a new QuizAdminService.
func NewQuizAdminService(quizRepo *repository.QuizRepository, eventRepo *repository.EventRepository, log zerolog.Logger) *QuizAdminService {
	return &QuizAdminService{
		quizRepo:  quizRepo,
		eventRepo: eventRepo,
		now:       time.Now,
		log:       log,
	}
}

// Get returns a quiz by id, answers included. Admin surface only.
func (s *QuizAdminService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

// History lists quizzes created within [from, to], optionally filtered by
// status, newest first.
func (s *QuizAdminService) History(ctx context.Context, from, to time.Time, status model.QuizStatus) ([]model.Quiz, error) {
	return s.quizRepo.ListByCreatedRange(ctx, from, to, status)
}

// Review replaces a quiz's question set and moves it through its status
// machine. Leaving scheduled status clears the schedule so a stale window
// cannot survive a status change.
func (s *QuizAdminService) Review(ctx context.Context, req *model.ReviewQuizRequest) (*model.Quiz, error) {
	id, err := uuid.Parse(req.QuizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.QuizStatusReviewed
	}
	// Renumber sequentially; clients may reorder or drop questions.
	for i := range req.Questions {
		req.Questions[i].QuestionNumber = i + 1
	}

	if err := s.quizRepo.ReplaceQuestions(ctx, id, req.Questions, status); err != nil {
		return nil, fmt.Errorf("replace questions: %w", err)
	}

	quiz.Questions = req.Questions
	quiz.Status = status
	if status != model.QuizStatusScheduled {
		quiz.ScheduledStart = nil
		quiz.DurationMinutes = nil
	}
	return quiz, nil
}

// Schedule assigns an attempt window to a quiz. Only draft, reviewed and
// already scheduled quizzes can be scheduled, the start must lie in the
// future, and the quiz must have questions to serve.
func (s *QuizAdminService) Schedule(ctx context.Context, adminID uuid.UUID, req *model.ScheduleQuizRequest) (*model.Quiz, error) {
	id, err := uuid.Parse(req.QuizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !quiz.Status.Schedulable() {
		return nil, ErrQuizNotSchedulable
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	start := req.ScheduledDatetime.UTC()
	if !start.After(s.now()) {
		return nil, ErrScheduleInPast
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}

	if err := s.quizRepo.Schedule(ctx, id, start, duration); err != nil {
		return nil, fmt.Errorf("schedule quiz: %w", err)
	}

	quiz.Status = model.QuizStatusScheduled
	quiz.ScheduledStart = &start
	quiz.DurationMinutes = &duration

	ev := &model.QuizEvent{
		UserID:     adminID,
		QuizID:     &quiz.ID,
		Action:     model.EventScheduled,
		QuizType:   quiz.Type,
		Topic:      quiz.Topic,
		Difficulty: quiz.Difficulty,
		Language:   quiz.Language,
	}
	if err := s.eventRepo.Create(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("record schedule event failed")
	}
	return quiz, nil
}

// Delete removes a quiz along with its registrations and submissions.
func (s *QuizAdminService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.quizRepo.Delete(ctx, id)
}
