package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
)

const vectorsFile = "vectors.json"

// Embedder produces vector embeddings for text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Document is one indexed entry: the attraction's "name - description" text
// and its embedding.
type Document struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Index ranks a city's attractions by cosine similarity to a query. Vectors
// are persisted next to the collection so embedding only happens once per
// city build.
type Index struct {
	embedder Embedder
	docs     []Document
	logger   *slog.Logger
}

// NewIndex builds or loads the index for a collection. dir is the
// collection's city directory; persisted vectors are reused when they still
// match the collection size.
func NewIndex(ctx context.Context, embedder Embedder, dir string, collection *types.AttractionCollection, logger *slog.Logger) (*Index, error) {
	path := filepath.Join(dir, vectorsFile)
	if data, err := os.ReadFile(path); err == nil {
		var docs []Document
		if err := json.Unmarshal(data, &docs); err == nil && len(docs) == len(collection.Attractions) {
			logger.InfoContext(ctx, "Loaded persisted vectors",
				slog.String("city", collection.City),
				slog.Int("count", len(docs)))
			return &Index{embedder: embedder, docs: docs, logger: logger}, nil
		}
		logger.WarnContext(ctx, "Persisted vectors unusable, re-embedding", slog.String("path", path))
	}

	texts := make([]string, 0, len(collection.Attractions))
	for _, a := range collection.Attractions {
		texts = append(texts, fmt.Sprintf("%s - %s", a.Name, a.Description))
	}

	docs := make([]Document, 0, len(texts))
	if len(texts) > 0 {
		vectors, err := embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding attractions for %s: %w", collection.City, err)
		}
		for i, text := range texts {
			docs = append(docs, Document{Text: text, Vector: vectors[i]})
		}
	}

	if data, err := json.Marshal(docs); err == nil {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			// The index still works in memory, the next run just re-embeds.
			logger.WarnContext(ctx, "Failed to persist vectors",
				slog.String("path", path),
				slog.Any("error", err))
		}
	}
	return &Index{embedder: embedder, docs: docs, logger: logger}, nil
}

// Search embeds the query and returns up to k document texts ranked by
// cosine similarity, with exact duplicates removed.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]string, error) {
	if len(ix.docs) == 0 || k <= 0 {
		return nil, nil
	}

	queryVector, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	type scored struct {
		text  string
		score float64
	}
	ranked := make([]scored, 0, len(ix.docs))
	for _, doc := range ix.docs {
		ranked = append(ranked, scored{text: doc.Text, score: cosineSimilarity(queryVector, doc.Vector)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	seen := make(map[string]struct{}, k)
	results := make([]string, 0, k)
	for _, r := range ranked {
		if len(results) == k {
			break
		}
		if _, ok := seen[r.text]; ok {
			continue
		}
		seen[r.text] = struct{}{}
		results = append(results, r.text)
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
