package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
)

const defaultWikipediaBaseURL = "https://en.wikipedia.org/w/api.php"

// WikipediaClient fetches plain-text article extracts from the MediaWiki
// action API.
type WikipediaClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewWikipediaClient(baseURL string, timeout time.Duration, logger *slog.Logger) *WikipediaClient {
	if baseURL == "" {
		baseURL = defaultWikipediaBaseURL
	}
	return &WikipediaClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchArticle returns the plain-text content of the named article. A missing
// article, a non-200 response or a malformed payload fail with ErrSourceFetch.
func (c *WikipediaClient) FetchArticle(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: building wikipedia request for %q: %v", types.ErrSourceFetch, title, err)
	}
	req.Header.Set("User-Agent", "city-trip-planner/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching wikipedia article %q: %v", types.ErrSourceFetch, title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: wikipedia returned status %d for %q", types.ErrSourceFetch, resp.StatusCode, title)
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Title   string  `json:"title"`
				Extract string  `json:"extract"`
				Missing *string `json:"missing"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decoding wikipedia response for %q: %v", types.ErrSourceFetch, title, err)
	}

	for _, page := range payload.Query.Pages {
		if page.Missing == nil && page.Extract != "" {
			c.logger.DebugContext(ctx, "Fetched wikipedia article",
				slog.String("title", page.Title),
				slog.Int("length", len(page.Extract)))
			return page.Extract, nil
		}
	}
	return "", fmt.Errorf("%w: wikipedia article %q not found", types.ErrSourceFetch, title)
}
