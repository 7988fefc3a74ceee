package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/rs/zerolog"
)

const wellFormedOutput = `Question: What is the chemical symbol for gold?
a) Au
b) Ag
c) Gd
d) Go
Answer: a

Question: Which gas do plants absorb during photosynthesis?
a) Oxygen
b) Nitrogen
c) Carbon dioxide
d) Hydrogen
Answer: c

Question: What is the smallest prime number?
a) 0
b) 1
c) 2
d) 3
Answer: c`

func TestParseQuestionsWellFormed(t *testing.T) {
	questions := parseQuestions(wellFormedOutput, 3)
	if len(questions) != 3 {
		t.Fatalf("parsed %d questions, want 3", len(questions))
	}

	first := questions[0]
	if first.QuestionNumber != 1 {
		t.Errorf("QuestionNumber = %d, want 1", first.QuestionNumber)
	}
	if first.Question != "What is the chemical symbol for gold?" {
		t.Errorf("unexpected question text: %q", first.Question)
	}
	if first.CorrectAnswer != "a" {
		t.Errorf("CorrectAnswer = %q, want a", first.CorrectAnswer)
	}
	// Options keep the letter prefix; clients render them verbatim.
	want := []string{"a) Au", "b) Ag", "c) Gd", "d) Go"}
	for i, opt := range first.Options {
		if opt != want[i] {
			t.Errorf("option %d = %q, want %q", i, opt, want[i])
		}
	}

	if questions[2].CorrectAnswer != "c" {
		t.Errorf("third answer = %q, want c", questions[2].CorrectAnswer)
	}
	for i, q := range questions {
		if q.QuestionNumber != i+1 {
			t.Errorf("question %d numbered %d", i, q.QuestionNumber)
		}
	}
}

func TestParseQuestionsUppercaseAnswerNormalized(t *testing.T) {
	raw := "Question: Capital of France?\na) Lyon\nb) Paris\nc) Nice\nd) Lille\nAnswer: B"
	questions := parseQuestions(raw, 1)
	if len(questions) != 1 {
		t.Fatalf("parsed %d questions, want 1", len(questions))
	}
	if questions[0].CorrectAnswer != "b" {
		t.Errorf("CorrectAnswer = %q, want b", questions[0].CorrectAnswer)
	}
}

// Models drift from the requested format; a numbered list without the
// Question keyword should still parse via the block scanner.
const driftedOutput = `1. Which planet has the most moons?
a) Mars
b) Saturn
c) Mercury
d) Venus
Answer: b

2. What year did the first moon landing happen?
a) 1965
b) 1972
c) 1969
d) 1958
Answer: c`

func TestParseQuestionsBlockFallback(t *testing.T) {
	questions := parseQuestions(driftedOutput, 2)
	if len(questions) != 2 {
		t.Fatalf("parsed %d questions, want 2", len(questions))
	}
	if !strings.Contains(questions[0].Question, "Which planet has the most moons?") {
		t.Errorf("unexpected question text: %q", questions[0].Question)
	}
	if questions[0].CorrectAnswer != "b" || questions[1].CorrectAnswer != "c" {
		t.Errorf("answers = %q, %q; want b, c", questions[0].CorrectAnswer, questions[1].CorrectAnswer)
	}
	if questions[0].Options[1] != "b) Saturn" {
		t.Errorf("option = %q, want %q", questions[0].Options[1], "b) Saturn")
	}
}

func TestParseQuestionsDedupe(t *testing.T) {
	raw := strings.Join([]string{wellFormedOutput, wellFormedOutput}, "\n\n")
	questions := parseQuestions(raw, 10)
	if len(questions) != 3 {
		t.Errorf("parsed %d questions, want 3 after dedupe", len(questions))
	}
}

func TestParseQuestionsCapsAtRequested(t *testing.T) {
	questions := parseQuestions(wellFormedOutput, 2)
	if len(questions) != 2 {
		t.Errorf("parsed %d questions, want cap of 2", len(questions))
	}
}

func TestParseQuestionsRejectsIncompleteBlocks(t *testing.T) {
	raw := `Question: Missing an option
a) One
b) Two
c) Three
Answer: a`
	if questions := parseQuestions(raw, 1); len(questions) != 0 {
		t.Errorf("parsed %d questions from incomplete block, want 0", len(questions))
	}
	if questions := parseQuestions("", 5); len(questions) != 0 {
		t.Errorf("parsed %d questions from empty input, want 0", len(questions))
	}
}

type fakeTextGenerator struct {
	output string
	err    error
}

func (f *fakeTextGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.output, f.err
}

func TestRegenerateRejectsThinOutput(t *testing.T) {
	svc := NewGenerationService(nil, nil, &fakeTextGenerator{output: wellFormedOutput}, nil, zerolog.Nop())
	quiz := &model.Quiz{Type: model.QuizTypeGeneral, Topic: "Science", Difficulty: "Medium", Language: "English"}

	// 3 parseable questions out of 10 requested is under the 70 percent
	// floor and must fail rather than return a thin set.
	if _, err := svc.RegenerateQuestions(context.Background(), quiz, 10); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("got %v, want ErrGenerationFailed", err)
	}

	// 3 of 4 clears the floor.
	questions, err := svc.RegenerateQuestions(context.Background(), quiz, 4)
	if err != nil {
		t.Fatalf("RegenerateQuestions: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("got %d questions, want 3", len(questions))
	}
}

func TestRegenerateGeneratorFailure(t *testing.T) {
	svc := NewGenerationService(nil, nil, &fakeTextGenerator{err: errors.New("quota exceeded")}, nil, zerolog.Nop())
	quiz := &model.Quiz{Type: model.QuizTypeGeneral, Topic: "Science"}

	if _, err := svc.RegenerateQuestions(context.Background(), quiz, 5); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("got %v, want ErrGenerationFailed", err)
	}
}
