package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/repository"
	"github.com/rs/zerolog"
)

// textGenerator abstracts the LLM call so generation logic and parsing
// can be tested without the Gemini API.
type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// newsContextProvider supplies scraped article text used as grounding for
// news-based quizzes.
type newsContextProvider interface {
	ArticleContext(ctx context.Context, topic string) (string, error)
}

// GenerationService turns admin requests into AI-generated draft quizzes.
type GenerationService struct {
	quizRepo  *repository.QuizRepository
	eventRepo *repository.EventRepository
	generator textGenerator
	news      newsContextProvider
	log       zerolog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	quizRepo *repository.QuizRepository,
	eventRepo *repository.EventRepository,
	generator textGenerator,
	news newsContextProvider,
	log zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		quizRepo:  quizRepo,
		eventRepo: eventRepo,
		generator: generator,
		news:      news,
		log:       log,
	}
}

// Defaults applied when the request leaves fields empty.
const (
	defaultDifficulty = "Medium"
	defaultLanguage   = "English"
	defaultNumMCQs    = 10
)

func applyDefaults(req *model.GenerateQuizRequest) {
	if req.QuizType == "" {
		req.QuizType = model.QuizTypeGeneral
	}
	if req.Difficulty == "" {
		req.Difficulty = defaultDifficulty
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}
	if req.NumMCQs == 0 {
		req.NumMCQs = defaultNumMCQs
	}
}

const promptFormat = `Format the response exactly like this:
Question: ...
a) Option 1
b) Option 2
c) Option 3
d) Option 4
Answer: option

Ensure the questions are concise, only one correct answer, and no explanations are given.`

func generalPrompt(topic, difficulty, language string, count int) string {
	return fmt.Sprintf(
		"Generate a %d multiple choice questions on the topic '%s' with '%s' difficulty in %s.\n%s",
		count, topic, difficulty, language, promptFormat)
}

func newsPrompt(newsContext, topic, difficulty, language string, count int) string {
	return fmt.Sprintf(
		"Using the following news content:\n\n%s\n\n%s",
		newsContext, generalPrompt(topic, difficulty, language, count))
}

// Generate produces a new draft quiz from the request. News-based quizzes
// are grounded in freshly scraped article content. The parse must recover
// at least 70 percent of the requested questions or the generation is
// rejected outright rather than saving a thin quiz.
func (s *GenerationService) Generate(ctx context.Context, adminID uuid.UUID, req *model.GenerateQuizRequest) (*model.Quiz, error) {
	applyDefaults(req)

	questions, err := s.generateQuestions(ctx, req.QuizType, req.Topic, req.Difficulty, req.Language, req.NumMCQs)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Type:       req.QuizType,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Language:   req.Language,
		Questions:  questions,
		Status:     model.QuizStatusDraft,
		CreatedBy:  adminID,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.recordGenerated(ctx, adminID, quiz)
	return quiz, nil
}

// RegenerateQuestions produces count fresh questions in a quiz's style
// without touching the quiz. The caller merges them during review.
func (s *GenerationService) RegenerateQuestions(ctx context.Context, quiz *model.Quiz, count int) ([]model.Question, error) {
	return s.generateQuestions(ctx, quiz.Type, quiz.Topic, quiz.Difficulty, quiz.Language, count)
}

func (s *GenerationService) generateQuestions(ctx context.Context, quizType model.QuizType, topic, difficulty, language string, count int) ([]model.Question, error) {
	var prompt string
	if quizType == model.QuizTypeNewsBased {
		newsContext, err := s.news.ArticleContext(ctx, topic)
		if err != nil {
			return nil, err
		}
		prompt = newsPrompt(newsContext, topic, difficulty, language, count)
	} else {
		prompt = generalPrompt(topic, difficulty, language, count)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Str("topic", topic).Msg("generation request failed")
		return nil, ErrGenerationFailed
	}

	questions := parseQuestions(raw, count)
	if len(questions)*10 < count*7 {
		s.log.Warn().
			Int("parsed", len(questions)).
			Int("requested", count).
			Str("topic", topic).
			Msg("parsed too few questions from model output")
		return nil, ErrGenerationFailed
	}
	return questions, nil
}

func (s *GenerationService) recordGenerated(ctx context.Context, adminID uuid.UUID, quiz *model.Quiz) {
	ev := &model.QuizEvent{
		UserID:     adminID,
		QuizID:     &quiz.ID,
		Action:     model.EventGenerated,
		QuizType:   quiz.Type,
		Topic:      quiz.Topic,
		Difficulty: quiz.Difficulty,
		Language:   quiz.Language,
	}
	if err := s.eventRepo.Create(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("record generation event failed")
	}
}
