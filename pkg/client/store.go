package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// imageTTL is how long a cached image reference stays fresh. The client
// trusts a resolved URL longer than the server's own cache does because the
// URL is a stable proxy path, not a volatile third-party URL.
const imageTTL = 24 * time.Hour

// StoredImage is one persisted image cache entry
type StoredImage struct {
	URL     string    `json:"url"`
	Source  string    `json:"source"`
	Key     string    `json:"key"`
	SavedAt time.Time `json:"saved_at"`
}

// ImageStore is a JSON-file-backed key-value cache of resolved images.
// Entries expire lazily; foreign entries pointing at direct external image
// hosts are purged on load.
type ImageStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]StoredImage
	now     func() time.Time
	logger  *zap.Logger
}

// NewImageStore loads (or initializes) the store at path
func NewImageStore(path string, logger *zap.Logger) (*ImageStore, error) {
	s := &ImageStore{
		path:    path,
		entries: make(map[string]StoredImage),
		now:     time.Now,
		logger:  logger,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	s.PurgeForeign()
	s.PurgeExpired()

	return s, nil
}

func (s *ImageStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read image store: %w", err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		// A corrupt store is discarded rather than failing startup
		s.logger.Warn("discarding corrupt image store", zap.String("path", s.path), zap.Error(err))
		s.entries = make(map[string]StoredImage)
	}

	return nil
}

// Get returns a fresh entry, lazily dropping it when expired
func (s *ImageStore) Get(scope, key string) (StoredImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	full := scope + ":" + key
	entry, ok := s.entries[full]
	if !ok {
		return StoredImage{}, false
	}

	if s.now().Sub(entry.SavedAt) >= imageTTL {
		delete(s.entries, full)
		s.persistLocked()
		return StoredImage{}, false
	}

	return entry, true
}

// Put stores an entry and persists the file
func (s *ImageStore) Put(scope, key string, entry StoredImage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.SavedAt.IsZero() {
		entry.SavedAt = s.now()
	}

	s.entries[scope+":"+key] = entry
	s.persistLocked()
}

// PurgeExpired removes every entry past its TTL
func (s *ImageStore) PurgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if s.now().Sub(entry.SavedAt) >= imageTTL {
			delete(s.entries, key)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("purged expired image cache entries", zap.Int("count", removed))
		s.persistLocked()
	}
}

// PurgeForeign removes entries whose URL points at a direct external image
// host. Entries must only ever reference the local proxy path or an inline
// data URI.
func (s *ImageStore) PurgeForeign() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if isForeignURL(entry.URL) {
			delete(s.entries, key)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("purged foreign image cache entries", zap.Int("count", removed))
		s.persistLocked()
	}
}

// Len returns the number of stored entries
func (s *ImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *ImageStore) persistLocked() {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode image store", zap.Error(err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn("failed to create image store directory", zap.Error(err))
		return
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("failed to persist image store", zap.String("path", s.path), zap.Error(err))
	}
}

func isForeignURL(url string) bool {
	if strings.HasPrefix(url, "/imgcache/") || strings.HasPrefix(url, "data:") {
		return false
	}
	return true
}
