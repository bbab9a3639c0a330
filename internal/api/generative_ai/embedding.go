package generativeAI

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// EmbeddingService generates text embeddings through the Gemini embedding
// model. It shares the underlying client of an AIClient.
type EmbeddingService struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewEmbeddingService(ai *AIClient, model string, logger *slog.Logger) *EmbeddingService {
	return &EmbeddingService{
		client: ai.client,
		model:  model,
		logger: logger,
	}
}

// EmbedTexts embeds every text in one request and returns the vectors in
// input order.
func (es *EmbeddingService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	resp, err := es.client.Models.EmbedContent(ctx, es.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding model returned %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, embedding := range resp.Embeddings {
		vectors = append(vectors, embedding.Values)
	}
	es.logger.DebugContext(ctx, "Generated embeddings", slog.Int("count", len(vectors)))
	return vectors, nil
}

// EmbedText embeds a single text.
func (es *EmbeddingService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := es.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
