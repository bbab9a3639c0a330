package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	readability "github.com/go-shiori/go-readability"
)

// Pages larger than this are truncated before extraction so a single source
// cannot blow past the generation model's context.
const maxContentLength = 32000

// WebFetcher downloads a web page and reduces it to readable plain text.
type WebFetcher struct {
	client *http.Client
	logger *slog.Logger
}

func NewWebFetcher(timeout time.Duration, logger *slog.Logger) *WebFetcher {
	return &WebFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NewWebFetcherWithClient creates a WebFetcher with a custom HTTP client.
func NewWebFetcherWithClient(client *http.Client, logger *slog.Logger) *WebFetcher {
	return &WebFetcher{client: client, logger: logger}
}

// FetchPage fetches the URL and extracts its readable text content. Any
// transport, status or extraction failure fails with ErrSourceFetch.
func (f *WebFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request for %s: %v", types.ErrSourceFetch, pageURL, err)
	}
	req.Header.Set("User-Agent", "city-trip-planner/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", types.ErrSourceFetch, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetching %s returned status %d", types.ErrSourceFetch, pageURL, resp.StatusCode)
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("%w: extracting content from %s: %v", types.ErrSourceFetch, pageURL, err)
	}

	content := article.TextContent
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}
	f.logger.DebugContext(ctx, "Fetched web page",
		slog.String("url", pageURL),
		slog.Int("length", len(content)))
	return content, nil
}
