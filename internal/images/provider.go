package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// SearchProvider is the primary photo search API.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// UnsplashProvider speaks the Unsplash-shaped photo search API.
type UnsplashProvider struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewUnsplashProvider creates a provider against baseURL authenticated with
// accessKey.
func NewUnsplashProvider(baseURL, accessKey string, httpClient *http.Client, logger *zap.Logger) *UnsplashProvider {
	return &UnsplashProvider{
		baseURL:    baseURL,
		accessKey:  accessKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (p *UnsplashProvider) Name() string {
	return "unsplash"
}

// searchResponse mirrors the provider's search payload; only the fields used
// for filtering and scoring are decoded.
type searchResponse struct {
	Results []struct {
		ID             string  `json:"id"`
		Description    *string `json:"description"`
		AltDescription *string `json:"alt_description"`
		Likes          int     `json:"likes"`
		Width          int     `json:"width"`
		Height         int     `json:"height"`
		Sponsorship    *struct {
			Tagline string `json:"tagline"`
		} `json:"sponsorship"`
		Tags []struct {
			Title string `json:"title"`
		} `json:"tags"`
		TopicSubmissions map[string]struct {
			Status string `json:"status"`
		} `json:"topic_submissions"`
		URLs struct {
			Raw     string `json:"raw"`
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search runs one photo search and converts results into Candidates.
func (p *UnsplashProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=10&content_filter=high",
		p.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+p.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	candidates := make([]Candidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		c := Candidate{
			ID:        r.ID,
			Likes:     r.Likes,
			Width:     r.Width,
			Height:    r.Height,
			Sponsored: r.Sponsorship != nil,
			RawURL:    r.URLs.Raw,
		}
		if c.RawURL == "" {
			c.RawURL = r.URLs.Regular
		}
		if r.Description != nil {
			c.Description = *r.Description
		}
		if r.AltDescription != nil {
			c.AltDescription = *r.AltDescription
		}
		for _, tag := range r.Tags {
			c.Tags = append(c.Tags, tag.Title)
		}
		for topic := range r.TopicSubmissions {
			c.Topics = append(c.Topics, topic)
		}
		candidates = append(candidates, c)
	}

	p.logger.Debug("provider search completed",
		zap.String("query", query),
		zap.Int("results", len(candidates)),
	)

	return candidates, nil
}
