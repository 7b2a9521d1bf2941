// Package client is a Go client for the MoodPeek API with a persisted
// image cache, so repeat lookups for the same mood context skip the network.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ImageRef is a resolved image reference returned by the server
type ImageRef struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	Key    string `json:"key"`
}

// Client talks to a MoodPeek server
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *ImageStore
	group      singleflight.Group
	logger     *zap.Logger
}

// New creates a Client. cachePath locates the persisted image cache file.
func New(baseURL, cachePath string, logger *zap.Logger) (*Client, error) {
	store, err := NewImageStore(cachePath, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
		logger:     logger,
	}, nil
}

// CoverImage resolves a cover image for a mood context, hitting the server
// only on a cache miss. Concurrent calls for the same context share one
// request.
func (c *Client) CoverImage(ctx context.Context, query, city, mood, weather string, width, height int) (ImageRef, error) {
	params := url.Values{}
	setIfPresent(params, "q", query)
	setIfPresent(params, "city", city)
	setIfPresent(params, "mood", mood)
	setIfPresent(params, "weather", weather)
	return c.image(ctx, "cover", params, width, height)
}

// HeroImage resolves a hero image for a mood context
func (c *Client) HeroImage(ctx context.Context, query, mood string, width, height int) (ImageRef, error) {
	params := url.Values{}
	setIfPresent(params, "q", query)
	setIfPresent(params, "mood", mood)
	return c.image(ctx, "hero", params, width, height)
}

func (c *Client) image(ctx context.Context, kind string, params url.Values, width, height int) (ImageRef, error) {
	if width > 0 {
		params.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		params.Set("h", strconv.Itoa(height))
	}

	cacheKey := params.Encode()

	if entry, ok := c.store.Get(kind, cacheKey); ok {
		c.logger.Debug("image cache hit",
			zap.String("kind", kind),
			zap.String("key", entry.Key),
		)
		return ImageRef{URL: entry.URL, Source: entry.Source, Key: entry.Key}, nil
	}

	// Deduplicate concurrent fetches for the same context
	result, err, _ := c.group.Do(kind+":"+cacheKey, func() (interface{}, error) {
		return c.fetchImage(ctx, kind, params)
	})
	if err != nil {
		return ImageRef{}, err
	}

	ref := result.(ImageRef)
	c.store.Put(kind, cacheKey, StoredImage{
		URL:    ref.URL,
		Source: ref.Source,
		Key:    ref.Key,
	})

	return ref, nil
}

func (c *Client) fetchImage(ctx context.Context, kind string, params url.Values) (ImageRef, error) {
	endpoint := fmt.Sprintf("%s/api/images/%s?%s", c.baseURL, kind, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ImageRef{}, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ImageRef{}, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ImageRef{}, fmt.Errorf("image request returned status %d", resp.StatusCode)
	}

	var ref ImageRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return ImageRef{}, fmt.Errorf("failed to decode image response: %w", err)
	}

	return ref, nil
}

func setIfPresent(params url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		params.Set(key, value)
	}
}
