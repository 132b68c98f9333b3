package content

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiMaxOutputTokens = 300

// GeminiBackend generates text through the hosted Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

var _ Backend = (*GeminiBackend)(nil)

func NewGeminiBackend(apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY in configuration")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

func (g *GeminiBackend) Name() string {
	return "gemini"
}

func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.8),
		MaxOutputTokens: geminiMaxOutputTokens,
	})
	if err != nil {
		return "", &BackendError{Backend: g.Name(), Detail: err.Error()}
	}

	return result.Text(), nil
}
