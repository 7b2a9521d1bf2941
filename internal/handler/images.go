package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/images"
	"github.com/Antirender/moodpeek1/pkg/model"
)

const (
	defaultCoverWidth  = 800
	defaultCoverHeight = 520
	defaultHeroWidth   = 1600
	defaultHeroHeight  = 900

	cacheFileMaxAge = "public, max-age=3600"
)

// ImageHandler serves resolved images and the disk cache files
type ImageHandler struct {
	resolver *images.Resolver
	cacheDir string
	logger   *zap.Logger
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(resolver *images.Resolver, cacheDir string, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		resolver: resolver,
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// ImageResponse is the JSON shape for resolved images
type ImageResponse struct {
	URL    string            `json:"url"`
	Source model.ImageSource `json:"source"`
	Key    string            `json:"key"`
}

// CoverImage handles GET /api/images/cover
func (h *ImageHandler) CoverImage(c *gin.Context) {
	resolved := h.resolver.Resolve(c.Request.Context(), images.ResolveRequest{
		Query:   c.Query("q"),
		City:    c.Query("city"),
		Mood:    c.Query("mood"),
		Weather: c.Query("weather"),
		Width:   queryInt(c, "w", defaultCoverWidth),
		Height:  queryInt(c, "h", defaultCoverHeight),
		Kind:    images.KindCover,
	})

	c.JSON(http.StatusOK, ImageResponse{
		URL:    resolved.URL,
		Source: resolved.Source,
		Key:    resolved.Key,
	})
}

// HeroImage handles GET /api/images/hero
func (h *ImageHandler) HeroImage(c *gin.Context) {
	resolved := h.resolver.Resolve(c.Request.Context(), images.ResolveRequest{
		Query:  c.Query("q"),
		Mood:   c.Query("mood"),
		Width:  queryInt(c, "w", defaultHeroWidth),
		Height: queryInt(c, "h", defaultHeroHeight),
		Kind:   images.KindHero,
	})

	c.JSON(http.StatusOK, ImageResponse{
		URL:    resolved.URL,
		Source: resolved.Source,
		Key:    resolved.Key,
	})
}

// CacheFile handles GET /imgcache/:file, serving cached image bytes
func (h *ImageHandler) CacheFile(c *gin.Context) {
	name := c.Param("file")

	// Cache keys are hex digests plus an extension; anything else is rejected
	// before touching the filesystem.
	if name != filepath.Base(name) || strings.ContainsAny(name, "/\\") || !strings.HasSuffix(name, ".jpg") {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid cache file name", nil)
		return
	}

	path := filepath.Join(h.cacheDir, name)

	c.Header("Cache-Control", cacheFileMaxAge)
	c.File(path)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
