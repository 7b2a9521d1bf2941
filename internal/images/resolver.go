package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Antirender/moodpeek1/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Kind selects the TTL bucket an image belongs to.
type Kind string

const (
	KindCover Kind = "cover"
	KindHero  Kind = "hero"
)

// ResolveRequest describes one image resolution.
type ResolveRequest struct {
	Query   string
	City    string
	Mood    string
	Weather string
	Width   int
	Height  int
	Kind    Kind
}

// Resolver orchestrates image acquisition: memory cache, then disk cache, then
// the provider chain with query expansion, writing results back to both
// caches. Resolve is total; it always returns a usable image reference and
// never surfaces an error to the caller.
type Resolver struct {
	mem         *MemoryCache
	disk        *DiskCache
	provider    SearchProvider
	seeds       *SeedLibrary
	placeholder *PlaceholderProvider
	limiter     *RateLimiter
	filter      *SafetyFilter
	httpClient  *http.Client
	coverTTL    time.Duration
	heroTTL     time.Duration
	group       singleflight.Group
	logger      *zap.Logger
}

// ResolverOptions bundles the collaborators a Resolver needs.
type ResolverOptions struct {
	Memory      *MemoryCache
	Disk        *DiskCache
	Provider    SearchProvider
	Seeds       *SeedLibrary
	Placeholder *PlaceholderProvider
	Limiter     *RateLimiter
	Filter      *SafetyFilter
	HTTPClient  *http.Client
	CoverTTL    time.Duration
	HeroTTL     time.Duration
	Logger      *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	return &Resolver{
		mem:         opts.Memory,
		disk:        opts.Disk,
		provider:    opts.Provider,
		seeds:       opts.Seeds,
		placeholder: opts.Placeholder,
		limiter:     opts.Limiter,
		filter:      opts.Filter,
		httpClient:  opts.HTTPClient,
		coverTTL:    opts.CoverTTL,
		heroTTL:     opts.HeroTTL,
		logger:      opts.Logger,
	}
}

// Resolve returns an image reference for the request, degrading through the
// cache and provider layers. Concurrent calls for the same key share a single
// in-flight resolution.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) model.CachedImage {
	key := CacheKey(r.keyQuery(req), req.Width, req.Height)

	if img, ok := r.mem.Get(key); ok {
		return img
	}

	// At most one provider fetch per key is in flight; later callers attach
	// to the pending result. The key is forgotten once settled so a failed
	// round does not poison future attempts.
	v, _, _ := r.group.Do(key, func() (interface{}, error) {
		defer r.group.Forget(key)
		return r.resolveKey(ctx, key, req), nil
	})

	return v.(model.CachedImage)
}

// keyQuery is the string hashed into the cache key: the explicit query when
// present, otherwise the context fields joined in a fixed order.
func (r *Resolver) keyQuery(req ResolveRequest) string {
	if q := strings.TrimSpace(req.Query); q != "" {
		return q
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", req.City, req.Mood, req.Weather))
}

func (r *Resolver) resolveKey(ctx context.Context, key string, req ResolveRequest) model.CachedImage {
	if img, ok := r.mem.Get(key); ok {
		return img
	}

	ttl := r.coverTTL
	if req.Kind == KindHero {
		ttl = r.heroTTL
	}

	if img, ok := r.disk.Get(key, ttl); ok {
		r.mem.Put(key, img)
		return img
	}

	if img, ok := r.tryProvider(ctx, key, req); ok {
		return img
	}

	if img, ok := r.trySeed(ctx, key, req); ok {
		return img
	}

	if img, ok := r.tryPlaceholder(ctx, key, req); ok {
		return img
	}

	// Total external unavailability: synthesize an inline graphic. Not cached,
	// so the next request retries the chain.
	r.logger.Error("all image sources failed, synthesizing placeholder",
		zap.String("key", key),
		zap.String("query", req.Query),
	)
	return model.CachedImage{
		Key:     key,
		URL:     inlinePlaceholder(req.Mood),
		Source:  model.ImageSourcePlaceholder,
		SavedAt: time.Now(),
	}
}

// tryProvider walks the expanded query list against the search provider.
func (r *Resolver) tryProvider(ctx context.Context, key string, req ResolveRequest) (model.CachedImage, bool) {
	for _, query := range buildQueries(req.Query, req.City, req.Mood, req.Weather) {
		if !r.limiter.TryConsume() {
			continue
		}

		candidates, err := r.provider.Search(ctx, query)
		if err != nil {
			r.logger.Warn("provider search failed, continuing chain",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		best, ok := r.filter.pickBest(candidates, req.Width, req.Height)
		if !ok {
			r.logger.Debug("no safe candidate for query",
				zap.String("query", query),
				zap.Int("candidates", len(candidates)),
			)
			continue
		}

		img, err := r.store(ctx, key, sizedURL(best.RawURL, req.Width, req.Height), query, model.ImageSourceProvider)
		if err != nil {
			r.logger.Warn("failed to fetch provider image, continuing chain",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		return img, true
	}
	return model.CachedImage{}, false
}

func (r *Resolver) trySeed(ctx context.Context, key string, req ResolveRequest) (model.CachedImage, bool) {
	seedURL := sizedURL(r.seeds.Pick(req.City, req.Mood), req.Width, req.Height)
	img, err := r.store(ctx, key, seedURL, req.Query, model.ImageSourceSeed)
	if err != nil {
		r.logger.Warn("seed library fetch failed, continuing chain", zap.Error(err))
		return model.CachedImage{}, false
	}
	return img, true
}

func (r *Resolver) tryPlaceholder(ctx context.Context, key string, req ResolveRequest) (model.CachedImage, bool) {
	img, err := r.store(ctx, key, r.placeholder.URL(req.City, req.Mood, req.Width, req.Height), req.Query, model.ImageSourcePlaceholder)
	if err != nil {
		r.logger.Warn("placeholder fetch failed", zap.Error(err))
		return model.CachedImage{}, false
	}
	return img, true
}

// store downloads url, persists it to the disk cache under key and backfills
// the memory cache.
func (r *Resolver) store(ctx context.Context, key, url, query string, source model.ImageSource) (model.CachedImage, error) {
	data, err := r.fetch(ctx, url)
	if err != nil {
		return model.CachedImage{}, err
	}

	meta := SidecarMetadata{Query: query, Source: source, SavedAt: time.Now()}
	if err := r.disk.Put(key, data, meta); err != nil {
		// A failed disk write only costs a future cache hit.
		r.logger.Warn("failed to persist image to disk cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	img := model.CachedImage{
		Key:     key,
		URL:     "/imgcache/" + key + ".jpg",
		Source:  source,
		SavedAt: meta.SavedAt,
	}
	r.mem.Put(key, img)
	return img, nil
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image fetch returned empty body")
	}

	return data, nil
}

// sizedURL appends crop dimensions for providers that honor them.
func sizedURL(raw string, width, height int) string {
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sw=%d&h=%d&fit=crop", raw, sep, width, height)
}

// moodGradients are the colors used for the synthesized last-resort graphic.
var moodGradients = map[string][2]string{
	"happy":    {"#fbd786", "#f7797d"},
	"calm":     {"#a8e6cf", "#56ab91"},
	"neutral":  {"#cfd9df", "#e2ebf0"},
	"sad":      {"#8e9eab", "#eef2f3"},
	"stressed": {"#42275a", "#734b6d"},
}

// inlinePlaceholder returns a data-URI SVG gradient for the mood.
func inlinePlaceholder(mood string) string {
	colors, ok := moodGradients[strings.ToLower(strings.TrimSpace(mood))]
	if !ok {
		colors = moodGradients["neutral"]
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="520">`+
		`<defs><linearGradient id="g" x1="0" y1="0" x2="1" y2="1">`+
		`<stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>`+
		`</linearGradient></defs><rect width="100%%" height="100%%" fill="url(#g)"/></svg>`,
		colors[0], colors[1])

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
