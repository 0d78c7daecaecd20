package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	applog "artisanhub/internal/log"
)

const (
	maxStoryTokens   = 200
	storyTemperature = 0.7
	promptTemplate   = "Share some historical background about %s such that the reader feels like they should buy one."
)

// ContentGenerator is the part of *genai.Models the generator calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAI asks Gemini for a story and falls back to Template on any failure.
type GenAI struct {
	models   ContentGenerator
	model    string
	timeout  time.Duration
	fallback Generator
}

func NewGenAI(ctx context.Context, apiKey, model string, timeout time.Duration) (*GenAI, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewGenAIWith(client.Models, model, timeout), nil
}

func NewGenAIWith(models ContentGenerator, model string, timeout time.Duration) *GenAI {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GenAI{models: models, model: model, timeout: timeout, fallback: Template{}}
}

func (g *GenAI) Generate(ctx context.Context, productName string) string {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model,
		genai.Text(fmt.Sprintf(promptTemplate, productName)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](storyTemperature),
			MaxOutputTokens: maxStoryTokens,
		})
	if err != nil {
		applog.Warn(nil, "story.generate.fallback", err, map[string]any{"product": productName})
		return g.fallback.Generate(ctx, productName)
	}
	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		applog.Warn(nil, "story.generate.empty", nil, map[string]any{"product": productName})
		return g.fallback.Generate(ctx, productName)
	}
	return text
}
