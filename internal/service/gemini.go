package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/quizforge/quizforge-backend/internal/config"
	"google.golang.org/api/option"
)

// GeminiGenerator produces text completions via the Google Gemini API.
// It satisfies the textGenerator interface used by GenerationService.
type GeminiGenerator struct {
	model *genai.GenerativeModel
}

// NewGeminiGenerator initializes the Gemini client from config.
func NewGeminiGenerator(ctx context.Context, cfg *config.Config) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("initialize gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(0.6)
	return &GeminiGenerator{model: model}, nil
}

// Generate sends the prompt and concatenates the text parts of the first
// candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	// A nil generator means startup ran without an API key; keep the
	// failure contained to the generation endpoints.
	if g == nil || g.model == nil {
		return "", errors.New("gemini client is not configured")
	}
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out += string(txt)
		}
	}
	if out == "" {
		return "", errors.New("gemini returned no text content")
	}
	return out, nil
}
