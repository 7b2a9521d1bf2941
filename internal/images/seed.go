package images

import (
	"hash/fnv"
	"strings"
)

// SeedLibrary is the curated fallback used when the search provider yields
// nothing usable. Selection is a pure function of (city, mood) so repeated
// requests for the same context always land on the same image.
type SeedLibrary struct {
	byMood  map[string][]string
	generic []string
}

// NewSeedLibrary creates the built-in seed library.
func NewSeedLibrary() *SeedLibrary {
	return &SeedLibrary{
		byMood: map[string][]string{
			"happy": {
				"https://images.unsplash.com/photo-1470252649378-9c29740c9fa8",
				"https://images.unsplash.com/photo-1501973801540-537f08ccae7b",
				"https://images.unsplash.com/photo-1504567961542-e24d9439a724",
			},
			"calm": {
				"https://images.unsplash.com/photo-1439066615861-d1af74d74000",
				"https://images.unsplash.com/photo-1441974231531-c6227db76b6e",
				"https://images.unsplash.com/photo-1507525428034-b723cf961d3e",
			},
			"neutral": {
				"https://images.unsplash.com/photo-1449034446853-66c86144b0ad",
				"https://images.unsplash.com/photo-1464822759023-fed622ff2c3b",
			},
			"sad": {
				"https://images.unsplash.com/photo-1428592953211-077101b2021b",
				"https://images.unsplash.com/photo-1419833479618-c595710e6bed",
			},
			"stressed": {
				"https://images.unsplash.com/photo-1419833173245-f59e1b93f9ee",
				"https://images.unsplash.com/photo-1454391304352-2bf4678b1a7a",
			},
		},
		generic: []string{
			"https://images.unsplash.com/photo-1447752875215-b2761acb3c5d",
			"https://images.unsplash.com/photo-1433086966358-54859d0ed716",
			"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05",
		},
	}
}

// Pick returns the seed URL for (city, mood). The same inputs always return
// the same URL.
func (l *SeedLibrary) Pick(city, mood string) string {
	pool := l.generic
	if urls, ok := l.byMood[strings.ToLower(strings.TrimSpace(mood))]; ok {
		pool = urls
	}
	return pool[int(stableHash(city, mood)%uint32(len(pool)))]
}

// stableHash folds city and normalized mood into a deterministic 32-bit value.
func stableHash(city, mood string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(city))))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(mood))))
	return h.Sum32()
}
