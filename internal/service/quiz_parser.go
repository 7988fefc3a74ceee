package service

import (
	"regexp"
	"strings"

	"github.com/quizforge/quizforge-backend/internal/model"
)

// Model output is requested in a rigid "Question: / a) / b) / c) / d) /
// Answer: x" shape, but the model does not always comply. questionPattern
// handles the well-formed case; the block parser below picks up the rest.
var (
	questionPattern = regexp.MustCompile(
		`(?is)Question:?\s*(.*?)\n\s*(a\).*?)\n\s*(b\).*?)\n\s*(c\).*?)\n\s*(d\).*?)\n\s*Answer:?\s*([a-d])`)
	blockSplitPattern     = regexp.MustCompile(`\n\s*\n+`)
	questionPrefixPattern = regexp.MustCompile(`(?i)^(?:Question:?\s*\d*\.?\s*)?(.*)`)
	optionPattern         = regexp.MustCompile(`(?i)^\s*([a-d])\)\s*(.*)`)
	answerPattern         = regexp.MustCompile(`(?i)Answer:?\s*([a-d])\.?\s*$`)
)

// parseQuestions extracts up to want multiple-choice questions from raw
// model output. It runs the strict pattern first, then falls back to a
// per-block scan for responses that drifted from the requested format.
// Questions are deduplicated on their text.
func parseQuestions(raw string, want int) []model.Question {
	var questions []model.Question
	seen := make(map[string]bool)

	add := func(text string, options []string, answer string) {
		if text == "" || len(options) != 4 || answer == "" || seen[text] {
			return
		}
		seen[text] = true
		questions = append(questions, model.Question{
			QuestionNumber: len(questions) + 1,
			Question:       text,
			Options:        options,
			CorrectAnswer:  strings.ToLower(answer),
		})
	}

	for _, m := range questionPattern.FindAllStringSubmatch(raw, -1) {
		if len(questions) >= want {
			break
		}
		add(strings.TrimSpace(m[1]), []string{
			strings.TrimSpace(m[2]),
			strings.TrimSpace(m[3]),
			strings.TrimSpace(m[4]),
			strings.TrimSpace(m[5]),
		}, strings.TrimSpace(m[6]))
	}

	if len(questions) < want {
		for _, block := range blockSplitPattern.Split(strings.TrimSpace(raw), -1) {
			if len(questions) >= want {
				break
			}
			text, options, answer := parseBlock(block)
			add(text, options, answer)
		}
	}

	if len(questions) > want {
		questions = questions[:want]
	}
	return questions
}

// parseBlock attempts to read one question out of a blank-line separated
// chunk: question on the first line, options on lines starting with a
// letter, answer searched from the last line backwards.
func parseBlock(block string) (text string, options []string, answer string) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 6 {
		return "", nil, ""
	}

	if m := questionPrefixPattern.FindStringSubmatch(lines[0]); m != nil {
		text = strings.TrimSpace(m[1])
	}

	found := make(map[string]string, 4)
	for _, line := range lines[1:] {
		if m := optionPattern.FindStringSubmatch(line); m != nil {
			letter := strings.ToLower(m[1])
			if _, ok := found[letter]; !ok {
				found[letter] = letter + ") " + strings.TrimSpace(m[2])
			}
		}
	}
	if len(found) == 4 {
		options = []string{found["a"], found["b"], found["c"], found["d"]}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if m := answerPattern.FindStringSubmatch(lines[i]); m != nil {
			answer = strings.ToLower(m[1])
			break
		}
	}
	return text, options, answer
}
