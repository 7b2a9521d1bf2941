package images

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Antirender/moodpeek1/pkg/model"
	"go.uber.org/zap"
)

// SidecarMetadata is the small JSON document stored next to each cached image.
type SidecarMetadata struct {
	Query   string            `json:"query"`
	Source  model.ImageSource `json:"source"`
	SavedAt time.Time         `json:"saved_at"`
}

// DiskCache is a content-addressed on-disk store for resolved images. Each
// entry is `<key>.jpg` plus a `<key>.json` sidecar. Freshness is judged by the
// image file's mtime against the caller-supplied TTL. There is no size bound;
// stale files are overwritten in place on refresh but never swept.
type DiskCache struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// NewDiskCache creates a DiskCache rooted at dir, creating the directory if
// needed.
func NewDiskCache(dir string, logger *zap.Logger) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image cache dir: %w", err)
	}
	return &DiskCache{
		dir:    dir,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Dir returns the cache root directory.
func (c *DiskCache) Dir() string {
	return c.dir
}

// ImagePath returns the on-disk path for a cache key.
func (c *DiskCache) ImagePath(key string) string {
	return filepath.Join(c.dir, key+".jpg")
}

func (c *DiskCache) sidecarPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached image for key when both the image file and its
// sidecar exist and the image is younger than ttl. Any read failure or corrupt
// sidecar is treated as a miss.
func (c *DiskCache) Get(key string, ttl time.Duration) (model.CachedImage, bool) {
	info, err := os.Stat(c.ImagePath(key))
	if err != nil {
		return model.CachedImage{}, false
	}

	if c.now().Sub(info.ModTime()) >= ttl {
		return model.CachedImage{}, false
	}

	raw, err := os.ReadFile(c.sidecarPath(key))
	if err != nil {
		c.logger.Warn("image sidecar unreadable, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return model.CachedImage{}, false
	}

	var meta SidecarMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		c.logger.Warn("image sidecar corrupt, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return model.CachedImage{}, false
	}

	return model.CachedImage{
		Key:     key,
		URL:     "/imgcache/" + key + ".jpg",
		Source:  model.ImageSourceDisk,
		SavedAt: info.ModTime(),
	}, true
}

// Put stores image bytes and sidecar metadata for key. Both files are written
// to a temporary path and renamed so a crash never leaves a truncated entry,
// and concurrent writers for the same key simply overwrite the same path.
func (c *DiskCache) Put(key string, data []byte, meta SidecarMetadata) error {
	if meta.SavedAt.IsZero() {
		meta.SavedAt = c.now()
	}

	if err := c.writeAtomic(c.ImagePath(key), data); err != nil {
		return fmt.Errorf("failed to write cached image: %w", err)
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal image sidecar: %w", err)
	}

	if err := c.writeAtomic(c.sidecarPath(key), raw); err != nil {
		return fmt.Errorf("failed to write image sidecar: %w", err)
	}

	return nil
}

// Clear removes every cached image and sidecar.
func (c *DiskCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read image cache dir: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if ext != ".jpg" && ext != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			c.logger.Warn("failed to remove cached image file",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (c *DiskCache) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
