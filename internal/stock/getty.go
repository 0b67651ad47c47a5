package stock

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// GettySearcher scrapes Getty Images film-preview URLs for a keyword and
// picks the first candidate not yet used in the run.
type GettySearcher struct {
	logger     zerolog.Logger
	httpClient *http.Client
	keywords   *KeywordGenerator
	userAgent  string
	maxResults int
}

// NewGettySearcher creates a stock footage provider.
func NewGettySearcher(logger zerolog.Logger, keywords *KeywordGenerator, userAgent string, maxResults int) *GettySearcher {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &GettySearcher{
		logger:     logger.With().Str("component", "stock").Logger(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		keywords:   keywords,
		userAgent:  userAgent,
		maxResults: maxResults,
	}
}

// FindFootage resolves a keyword for the scene and returns the first search
// hit whose ID is not in the exclusion set.
func (s *GettySearcher) FindFootage(ctx context.Context, sceneIndex int, title, dialogue string, excluded map[string]bool) (*Footage, error) {
	keyword := s.keywords.Keyword(ctx, title, dialogue, sceneIndex)
	if keyword == "" {
		return nil, fmt.Errorf("no keyword could be derived for %q", title)
	}

	candidates, err := s.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("footage search for %q failed: %w", keyword, err)
	}

	for _, c := range candidates {
		if excluded[c.ID] {
			continue
		}
		s.logger.Info().
			Str("keyword", keyword).
			Str("url", c.URL).
			Msg("footage selected")
		return &c, nil
	}

	return nil, fmt.Errorf("no unused footage for keyword %q (%d candidates, %d excluded)",
		keyword, len(candidates), len(excluded))
}

// Search fetches the Getty search page for keyword and extracts up to
// maxResults preview URLs.
func (s *GettySearcher) Search(ctx context.Context, keyword string) ([]Footage, error) {
	slug := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(keyword)), " ", "-")
	slug = strings.ReplaceAll(slug, ".", "")
	pageURL := fmt.Sprintf(
		"https://www.gettyimages.in/videos/%s?assettype=film&phrase=%s&sort=mostpopular",
		slug, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %d", resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read search page: %w", err)
	}

	urls := ParseFilmPreviewURLs(string(html), s.maxResults)
	out := make([]Footage, 0, len(urls))
	for _, u := range urls {
		out = append(out, Footage{URL: u, ID: u, Keyword: keyword})
	}
	return out, nil
}

// ParseFilmPreviewURLs extracts up to max filmPreviewUrl values from a Getty
// search results page.
func ParseFilmPreviewURLs(html string, max int) []string {
	const marker = `"filmPreviewUrl":"`
	var urls []string

	parts := strings.Split(html, marker)
	for i := 1; i < len(parts) && len(urls) < max; i++ {
		end := strings.IndexByte(parts[i], '"')
		if end <= 0 {
			continue
		}
		u := strings.ReplaceAll(parts[i][:end], `\u0026`, "&")
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
