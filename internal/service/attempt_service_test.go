package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/rs/zerolog"
)

type fakeQuizStore struct {
	quizzes map[uuid.UUID]*model.Quiz
}

func newFakeQuizStore(quizzes ...*model.Quiz) *fakeQuizStore {
	f := &fakeQuizStore{quizzes: make(map[uuid.UUID]*model.Quiz)}
	for _, q := range quizzes {
		f.quizzes[q.ID] = q
	}
	return f
}

func (f *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *q
	return &copied, nil
}

func (f *fakeQuizStore) ListScheduledSince(_ context.Context, cutoff time.Time) ([]model.Quiz, error) {
	var out []model.Quiz
	for _, q := range f.quizzes {
		if q.Status == model.QuizStatusScheduled && q.ScheduledStart != nil && q.ScheduledStart.After(cutoff) {
			out = append(out, *q)
		}
	}
	return out, nil
}

type fakeRegistrationStore struct {
	mu   sync.Mutex
	regs map[uuid.UUID]map[uuid.UUID]bool // userID -> quizID
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{regs: make(map[uuid.UUID]map[uuid.UUID]bool)}
}

func (f *fakeRegistrationStore) Create(_ context.Context, reg *model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.regs[reg.UserID] == nil {
		f.regs[reg.UserID] = make(map[uuid.UUID]bool)
	}
	if f.regs[reg.UserID][reg.QuizID] {
		return pgx.ErrNoRows
	}
	f.regs[reg.UserID][reg.QuizID] = true
	reg.ID = uuid.New()
	reg.RegisteredAt = time.Now()
	return nil
}

func (f *fakeRegistrationStore) Exists(_ context.Context, userID, quizID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[userID][quizID], nil
}

func (f *fakeRegistrationStore) QuizIDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for id := range f.regs[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

type submissionKey struct {
	user, quiz uuid.UUID
}

type fakeSubmissionStore struct {
	mu   sync.Mutex
	subs map[submissionKey]*model.Submission
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{subs: make(map[submissionKey]*model.Submission)}
}

func (f *fakeSubmissionStore) Create(_ context.Context, sub *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := submissionKey{user: sub.UserID, quiz: sub.QuizID}
	if _, exists := f.subs[key]; exists {
		return pgx.ErrNoRows
	}
	sub.ID = uuid.New()
	sub.SubmittedAt = time.Now()
	copied := *sub
	f.subs[key] = &copied
	return nil
}

func (f *fakeSubmissionStore) GetByUserAndQuiz(_ context.Context, userID, quizID uuid.UUID) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[submissionKey{user: userID, quiz: quizID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return sub, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) SubmissionRecorded(_ context.Context, _ *model.Submission) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func timedQuiz(start time.Time, durationMinutes int) *model.Quiz {
	return &model.Quiz{
		ID:              uuid.New(),
		Type:            model.QuizTypeGeneral,
		Topic:           "Astronomy",
		Difficulty:      "Medium",
		Language:        "English",
		Status:          model.QuizStatusScheduled,
		ScheduledStart:  timePtr(start),
		DurationMinutes: intPtr(durationMinutes),
		Questions: []model.Question{
			{QuestionNumber: 1, Question: "Closest star?", Options: []string{"a) Sun", "b) Sirius", "c) Vega", "d) Rigel"}, CorrectAnswer: "a"},
			{QuestionNumber: 2, Question: "Red planet?", Options: []string{"a) Venus", "b) Mars", "c) Pluto", "d) Io"}, CorrectAnswer: "b"},
			{QuestionNumber: 3, Question: "Largest planet?", Options: []string{"a) Earth", "b) Saturn", "c) Jupiter", "d) Neptune"}, CorrectAnswer: "c"},
			{QuestionNumber: 4, Question: "Earth's satellite?", Options: []string{"a) Titan", "b) Europa", "c) Phobos", "d) Moon"}, CorrectAnswer: "d"},
		},
	}
}

type attemptFixture struct {
	svc      *AttemptService
	quizzes  *fakeQuizStore
	regs     *fakeRegistrationStore
	subs     *fakeSubmissionStore
	notifier *fakeNotifier
}

func newAttemptFixture(t *testing.T, grace time.Duration, quizzes ...*model.Quiz) *attemptFixture {
	t.Helper()
	f := &attemptFixture{
		quizzes:  newFakeQuizStore(quizzes...),
		regs:     newFakeRegistrationStore(),
		subs:     newFakeSubmissionStore(),
		notifier: &fakeNotifier{},
	}
	f.svc = NewAttemptService(f.quizzes, f.regs, f.subs, nil, f.notifier, grace, zerolog.Nop())
	return f
}

func (f *attemptFixture) clockAt(t time.Time) {
	f.svc.SetClock(func() time.Time { return t })
}

func (f *attemptFixture) register(t *testing.T, userID, quizID uuid.UUID) {
	t.Helper()
	f.regs.regs[userID] = map[uuid.UUID]bool{quizID: true}
}

func TestRegisterBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	f := newAttemptFixture(t, 0, quiz)
	f.clockAt(start.Add(-time.Hour))

	reg, err := f.svc.Register(context.Background(), uuid.New(), quiz.ID)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.ID == uuid.Nil {
		t.Error("registration id not assigned")
	}
}

func TestRegisterClosedOnceLive(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	f := newAttemptFixture(t, 0, quiz)

	// The closing edge is exact: registration is allowed right up to the
	// start instant and refused from it onward.
	f.clockAt(start.Add(-time.Second))
	if _, err := f.svc.Register(context.Background(), uuid.New(), quiz.ID); err != nil {
		t.Fatalf("Register just before start: %v", err)
	}

	f.clockAt(start)
	if _, err := f.svc.Register(context.Background(), uuid.New(), quiz.ID); !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("Register at start: got %v, want ErrRegistrationClosed", err)
	}
}

func TestRegisterTwice(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	f := newAttemptFixture(t, 0, quiz)
	f.clockAt(start.Add(-time.Hour))

	userID := uuid.New()
	if _, err := f.svc.Register(context.Background(), userID, quiz.ID); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := f.svc.Register(context.Background(), userID, quiz.ID); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second Register: got %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegisterUntimedActiveQuiz(t *testing.T) {
	quiz := timedQuiz(time.Now(), 30)
	quiz.Status = model.QuizStatusActive
	quiz.ScheduledStart = nil
	quiz.DurationMinutes = nil
	f := newAttemptFixture(t, 0, quiz)
	f.clockAt(time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC))

	if _, err := f.svc.Register(context.Background(), uuid.New(), quiz.ID); err != nil {
		t.Fatalf("Register on untimed quiz: %v", err)
	}
}

func TestRegisterDraftQuizHidden(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	quiz.Status = model.QuizStatusDraft
	f := newAttemptFixture(t, 0, quiz)
	f.clockAt(start.Add(-time.Hour))

	if _, err := f.svc.Register(context.Background(), uuid.New(), quiz.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("Register on draft quiz: got %v, want ErrQuizNotFound", err)
	}
}

func TestFetchWindowEdges(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	end := start.Add(30 * time.Minute)
	userID := uuid.New()

	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"before start", start.Add(-time.Minute), ErrWindowNotOpen},
		{"at start", start, nil},
		{"mid window", start.Add(10 * time.Minute), nil},
		{"just before end", end.Add(-time.Second), nil},
		{"at end", end, ErrWindowClosed},
		{"after end", end.Add(time.Minute), ErrWindowClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAttemptFixture(t, 15*time.Second, quiz)
			f.register(t, userID, quiz.ID)
			f.clockAt(tc.now)

			_, err := f.svc.FetchForAttempt(context.Background(), userID, quiz.ID)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestFetchRequiresRegistration(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	f := newAttemptFixture(t, 0, quiz)
	f.clockAt(start.Add(time.Minute))

	if _, err := f.svc.FetchForAttempt(context.Background(), uuid.New(), quiz.ID); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("got %v, want ErrNotRegistered", err)
	}
}

func TestFetchWithholdsAnswers(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	userID := uuid.New()
	f := newAttemptFixture(t, 0, quiz)
	f.register(t, userID, quiz.ID)
	f.clockAt(start.Add(time.Minute))

	got, err := f.svc.FetchForAttempt(context.Background(), userID, quiz.ID)
	if err != nil {
		t.Fatalf("FetchForAttempt: %v", err)
	}
	if got.NumMCQs != len(quiz.Questions) {
		t.Errorf("NumMCQs = %d, want %d", got.NumMCQs, len(quiz.Questions))
	}
	if got.EndTime == nil || !got.EndTime.Equal(start.Add(30*time.Minute)) {
		t.Errorf("EndTime = %v, want %v", got.EndTime, start.Add(30*time.Minute))
	}
	for i, q := range got.Questions {
		if q.Question == "" || len(q.Options) != 4 {
			t.Errorf("question %d incomplete: %+v", i, q)
		}
	}
}

func TestSubmitScoring(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	userID := uuid.New()
	f := newAttemptFixture(t, 15*time.Second, quiz)
	f.register(t, userID, quiz.ID)
	f.clockAt(start.Add(5 * time.Minute))

	// Correct, wrong, unanswered, correct (case-insensitive).
	sub, err := f.svc.Submit(context.Background(), userID, quiz.ID, &model.SubmitQuizRequest{
		Answers:   []*string{strPtr("a"), strPtr("d"), nil, strPtr("D")},
		TimeTaken: float64Ptr(92.5),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Score != 2 || sub.Total != 4 {
		t.Errorf("score = %d/%d, want 2/4", sub.Score, sub.Total)
	}
	if len(sub.AnswerReview) != 4 {
		t.Fatalf("review length = %d, want 4", len(sub.AnswerReview))
	}
	if !sub.AnswerReview[0].IsCorrect || sub.AnswerReview[1].IsCorrect ||
		sub.AnswerReview[2].IsCorrect || !sub.AnswerReview[3].IsCorrect {
		t.Errorf("unexpected review flags: %+v", sub.AnswerReview)
	}
	if f.notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", f.notifier.calls)
	}
}

func float64Ptr(v float64) *float64 { return &v }

func TestSubmitAnswerCountMismatch(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	userID := uuid.New()
	f := newAttemptFixture(t, 0, quiz)
	f.register(t, userID, quiz.ID)
	f.clockAt(start.Add(time.Minute))

	_, err := f.svc.Submit(context.Background(), userID, quiz.ID, &model.SubmitQuizRequest{
		Answers: []*string{strPtr("a"), strPtr("b")},
	})
	if !errors.Is(err, ErrAnswerCountMismatch) {
		t.Errorf("got %v, want ErrAnswerCountMismatch", err)
	}
}

func TestSubmitGraceWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	end := start.Add(30 * time.Minute)
	grace := 15 * time.Second
	answers := []*string{strPtr("a"), strPtr("b"), strPtr("c"), strPtr("d")}

	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"inside grace", end.Add(10 * time.Second), nil},
		{"grace exhausted", end.Add(grace), ErrWindowClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userID := uuid.New()
			f := newAttemptFixture(t, grace, quiz)
			f.register(t, userID, quiz.ID)
			f.clockAt(tc.now)

			_, err := f.svc.Submit(context.Background(), userID, quiz.ID, &model.SubmitQuizRequest{Answers: answers})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSubmitTwice(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	userID := uuid.New()
	f := newAttemptFixture(t, 0, quiz)
	f.register(t, userID, quiz.ID)
	f.clockAt(start.Add(time.Minute))

	answers := []*string{strPtr("a"), strPtr("b"), strPtr("c"), strPtr("d")}
	if _, err := f.svc.Submit(context.Background(), userID, quiz.ID, &model.SubmitQuizRequest{Answers: answers}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), userID, quiz.ID, &model.SubmitQuizRequest{Answers: answers}); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second Submit: got %v, want ErrAlreadySubmitted", err)
	}
}

func TestConcurrentSubmitsSingleWinner(t *testing.T) {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	quiz := timedQuiz(start, 30)
	userID := uuid.New()
	f := newAttemptFixture(t, 0, quiz)
	f.register(t, userID, quiz.ID)
	f.clockAt(start.Add(time.Minute))

	const workers = 32
	answers := []*string{strPtr("a"), strPtr("b"), strPtr("c"), strPtr("d")}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var wins, duplicates int
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(context.Background(), userID, quiz.ID, &model.SubmitQuizRequest{Answers: answers})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrAlreadySubmitted):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if duplicates != workers-1 {
		t.Errorf("duplicates = %d, want %d", duplicates, workers-1)
	}
}

func TestUpcomingFlags(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	future := timedQuiz(now.Add(time.Hour), 30)
	live := timedQuiz(now.Add(-5*time.Minute), 30)
	ended := timedQuiz(now.Add(-2*time.Hour), 30)
	userID := uuid.New()

	f := newAttemptFixture(t, 0, future, live, ended)
	f.register(t, userID, future.ID)
	f.clockAt(now)

	upcoming, err := f.svc.Upcoming(context.Background(), userID)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}

	byID := make(map[uuid.UUID]model.UpcomingQuiz, len(upcoming))
	for _, q := range upcoming {
		byID[q.ID] = q
	}

	if _, ok := byID[ended.ID]; ok {
		t.Error("ended quiz should be excluded")
	}
	if q, ok := byID[future.ID]; !ok {
		t.Error("future quiz missing")
	} else {
		if q.IsLive {
			t.Error("future quiz flagged live")
		}
		if !q.IsRegistered {
			t.Error("future quiz should be flagged registered")
		}
		if q.Questions != nil {
			t.Error("upcoming list must not leak questions")
		}
	}
	if q, ok := byID[live.ID]; !ok {
		t.Error("live quiz missing")
	} else if !q.IsLive {
		t.Error("live quiz not flagged live")
	}
}
