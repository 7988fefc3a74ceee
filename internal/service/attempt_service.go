package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/schedule"
	"github.com/quizforge/quizforge-backend/internal/scoring"
	"github.com/rs/zerolog"
)

// Store interfaces consumed by AttemptService. The pgx repositories
// satisfy them; tests substitute in-memory fakes.
type quizStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	ListScheduledSince(ctx context.Context, cutoff time.Time) ([]model.Quiz, error)
}

type registrationStore interface {
	Create(ctx context.Context, reg *model.Registration) error
	Exists(ctx context.Context, userID, quizID uuid.UUID) (bool, error)
	QuizIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type submissionStore interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) (*model.Submission, error)
}

type eventStore interface {
	Create(ctx context.Context, ev *model.QuizEvent) error
}

// Notifier receives submission side effects: leaderboard refresh and the
// live monitor feed. A nil Notifier disables both.
type Notifier interface {
	SubmissionRecorded(ctx context.Context, sub *model.Submission)
}

// AttemptService owns the user-facing attempt lifecycle: registration,
// fetching a quiz for an attempt, and submitting answers. Every window
// decision goes through the injected clock so the rules are testable.
type AttemptService struct {
	quizzes       quizStore
	registrations registrationStore
	submissions   submissionStore
	events        eventStore
	notifier      Notifier
	submitGrace   time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	quizzes quizStore,
	registrations registrationStore,
	submissions submissionStore,
	events eventStore,
	notifier Notifier,
	submitGrace time.Duration,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		quizzes:       quizzes,
		registrations: registrations,
		submissions:   submissions,
		events:        events,
		notifier:      notifier,
		submitGrace:   submitGrace,
		now:           time.Now,
		log:           log,
	}
}

// SetClock replaces the service clock. Test hook.
func (s *AttemptService) SetClock(now func() time.Time) {
	s.now = now
}

// attemptable returns the quiz if users may interact with it at all.
// Draft, reviewed and archived quizzes do not exist as far as users are
// concerned.
func (s *AttemptService) attemptable(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.Status != model.QuizStatusScheduled && quiz.Status != model.QuizStatusActive {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func window(q *model.Quiz) schedule.Window {
	return schedule.Window{Start: q.ScheduledStart, DurationMinutes: q.DurationMinutes}
}

// Register signs the user up for a quiz. Registration is only possible
// before a timed quiz goes live; once the window opens it is closed for
// good. Untimed active quizzes accept registrations at any time.
func (s *AttemptService) Register(ctx context.Context, userID, quizID uuid.UUID) (*model.Registration, error) {
	quiz, err := s.attemptable(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if w := window(quiz); w.Timed() && w.Live(s.now()) {
		return nil, ErrRegistrationClosed
	}

	reg := &model.Registration{UserID: userID, QuizID: quizID}
	if err := s.registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

// IsRegistered reports whether the user is registered for the quiz.
func (s *AttemptService) IsRegistered(ctx context.Context, userID, quizID uuid.UUID) (bool, error) {
	return s.registrations.Exists(ctx, userID, quizID)
}

// RegisteredQuizIDs returns the ids of all quizzes the user registered for.
func (s *AttemptService) RegisteredQuizIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.registrations.QuizIDsByUser(ctx, userID)
}

// upcomingHorizon bounds how far back the upcoming query reaches for
// quizzes that started but may still be running. Schedules cap duration
// at 8 hours, so anything older has certainly ended.
const upcomingHorizon = 8 * time.Hour

// Upcoming returns scheduled quizzes whose window has not yet closed,
// decorated with per-user live and registration flags. Questions are
// stripped; the list is a lobby, not an attempt surface.
func (s *AttemptService) Upcoming(ctx context.Context, userID uuid.UUID) ([]model.UpcomingQuiz, error) {
	now := s.now()

	quizzes, err := s.quizzes.ListScheduledSince(ctx, now.Add(-upcomingHorizon))
	if err != nil {
		return nil, fmt.Errorf("list scheduled: %w", err)
	}

	registeredIDs, err := s.registrations.QuizIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	registered := make(map[uuid.UUID]bool, len(registeredIDs))
	for _, id := range registeredIDs {
		registered[id] = true
	}

	upcoming := make([]model.UpcomingQuiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		w := window(&quiz)
		if end := w.End(); end != nil && schedule.IsClosed(now, *end) {
			continue
		}
		quiz.Questions = nil
		upcoming = append(upcoming, model.UpcomingQuiz{
			Quiz:         quiz,
			IsLive:       w.Live(now),
			IsRegistered: registered[quiz.ID],
		})
	}
	return upcoming, nil
}

// FetchForAttempt returns the quiz as served to a user about to take it:
// questions with answers withheld plus the derived end time. It fails
// before the window opens and the instant the window closes; the submit
// grace period does not apply to fetching.
func (s *AttemptService) FetchForAttempt(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizForAttempt, error) {
	quiz, err := s.attemptable(ctx, quizID)
	if err != nil {
		return nil, err
	}

	ok, err := s.registrations.Exists(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if !ok {
		return nil, ErrNotRegistered
	}

	if sub, err := s.submissions.GetByUserAndQuiz(ctx, userID, quizID); err == nil && sub != nil {
		return nil, ErrAlreadySubmitted
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check submission: %w", err)
	}

	now := s.now()
	w := window(quiz)
	if !w.Live(now) {
		return nil, ErrWindowNotOpen
	}
	if !w.Open(now, 0) {
		return nil, ErrWindowClosed
	}

	questions := make([]model.QuestionForAttempt, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = model.QuestionForAttempt{
			QuestionNumber: q.QuestionNumber,
			Question:       q.Question,
			Options:        q.Options,
		}
	}

	return &model.QuizForAttempt{
		ID:              quiz.ID,
		Type:            quiz.Type,
		Topic:           quiz.Topic,
		Difficulty:      quiz.Difficulty,
		Language:        quiz.Language,
		Questions:       questions,
		NumMCQs:         len(questions),
		ScheduledStart:  quiz.ScheduledStart,
		DurationMinutes: quiz.DurationMinutes,
		EndTime:         w.End(),
	}, nil
}

// Submit scores and records the user's answers. The submission window
// extends past the quiz end by the configured grace so in-flight
// auto-submits still land. Creation is a single atomic insert keyed on
// (user, quiz): of any number of concurrent submits exactly one wins and
// the rest get ErrAlreadySubmitted.
func (s *AttemptService) Submit(ctx context.Context, userID, quizID uuid.UUID, req *model.SubmitQuizRequest) (*model.Submission, error) {
	quiz, err := s.attemptable(ctx, quizID)
	if err != nil {
		return nil, err
	}

	ok, err := s.registrations.Exists(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if !ok {
		return nil, ErrNotRegistered
	}

	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(req.Answers) != len(quiz.Questions) {
		return nil, ErrAnswerCountMismatch
	}

	now := s.now()
	w := window(quiz)
	if !w.Live(now) {
		return nil, ErrWindowNotOpen
	}
	if !w.Open(now, s.submitGrace) {
		return nil, ErrWindowClosed
	}

	correct := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		correct[i] = scoring.Normalize(q.CorrectAnswer)
	}

	sub := &model.Submission{
		UserID:           userID,
		QuizID:           quizID,
		QuizTopic:        quiz.Topic,
		QuizType:         quiz.Type,
		SubmittedAnswers: req.Answers,
		CorrectAnswers:   correct,
		AnswerReview:     scoring.Review(req.Answers, correct),
		Score:            scoring.Score(req.Answers, correct),
		Total:            len(correct),
		CompletionTime:   req.TimeTaken,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.recordEvent(ctx, userID, quiz)
	if s.notifier != nil {
		s.notifier.SubmissionRecorded(ctx, sub)
	}
	return sub, nil
}

// recordEvent appends an attempt event. Failures are logged, never
// surfaced: the submission already landed.
func (s *AttemptService) recordEvent(ctx context.Context, userID uuid.UUID, quiz *model.Quiz) {
	if s.events == nil {
		return
	}
	ev := &model.QuizEvent{
		UserID:     userID,
		QuizID:     &quiz.ID,
		Action:     model.EventAttempted,
		QuizType:   quiz.Type,
		Topic:      quiz.Topic,
		Difficulty: quiz.Difficulty,
		Language:   quiz.Language,
	}
	if err := s.events.Create(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("record attempt event failed")
	}
}
