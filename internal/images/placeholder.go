package images

import "fmt"

// PlaceholderProvider builds seeded placeholder URLs (picsum-style). The seed
// is derived from the same (city, mood) hash as the seed library, so the
// placeholder shown for a given context is stable across requests.
type PlaceholderProvider struct {
	baseURL string
}

// NewPlaceholderProvider creates a PlaceholderProvider against baseURL.
func NewPlaceholderProvider(baseURL string) *PlaceholderProvider {
	return &PlaceholderProvider{baseURL: baseURL}
}

// URL returns the placeholder image URL for the context and dimensions.
func (p *PlaceholderProvider) URL(city, mood string, width, height int) string {
	return fmt.Sprintf("%s/seed/%08x/%d/%d", p.baseURL, stableHash(city, mood), width, height)
}
