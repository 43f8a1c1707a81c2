package insights

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// RemoteSource produces insight text from an external model. Implementations
// make a single attempt; retries are the caller's decision (and the
// orchestrator deliberately makes none).
type RemoteSource interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiSource calls the Gemini API through the genai SDK.
type GeminiSource struct {
	apiKey string
	model  string
}

// NewGeminiSource builds a remote source for the given API key and model name.
func NewGeminiSource(apiKey, model string) *GeminiSource {
	return &GeminiSource{apiKey: apiKey, model: model}
}

// GenerateText sends the prompt and returns the raw response text.
func (g *GeminiSource) GenerateText(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}
	return text, nil
}
