package generativeAI

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

// AIClient wraps the Gemini client with the project defaults. One instance is
// shared by the extractor, the embedding service and the function agent.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func NewAIClient(ctx context.Context, model string, temperature float32, timeout time.Duration) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &AIClient{
		client:      client,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

// GenerateCompletion runs a single text generation call and returns the
// concatenated text of the first candidate. One attempt, no retry; a failure
// of the generation capability propagates unmodified.
func (ai *AIClient) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](ai.temperature)}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}
