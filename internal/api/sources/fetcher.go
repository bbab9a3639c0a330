package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
)

// Fetcher resolves a SourceRef to plain text.
type Fetcher interface {
	FetchSource(ctx context.Context, ref types.SourceRef) (string, error)
}

// Ensure implementation satisfies the interface
var _ Fetcher = (*FetcherImpl)(nil)

// FetcherImpl dispatches to the Wikipedia client or the web fetcher based on
// the source kind.
type FetcherImpl struct {
	wiki   *WikipediaClient
	web    *WebFetcher
	logger *slog.Logger
}

func NewFetcherImpl(wiki *WikipediaClient, web *WebFetcher, logger *slog.Logger) *FetcherImpl {
	return &FetcherImpl{
		wiki:   wiki,
		web:    web,
		logger: logger,
	}
}

func (f *FetcherImpl) FetchSource(ctx context.Context, ref types.SourceRef) (string, error) {
	switch ref.Kind {
	case types.SourceWiki:
		return f.wiki.FetchArticle(ctx, ref.Ref)
	case types.SourceWeb:
		return f.web.FetchPage(ctx, ref.Ref)
	default:
		return "", fmt.Errorf("%w: unknown source kind %q", types.ErrSourceFetch, ref.Kind)
	}
}
