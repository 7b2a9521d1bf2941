package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/moodpeek"},
		Images: ImagesConfig{
			HourlyQuota: 50,
			Burst:       5,
			CacheDir:    "./imgcache",
		},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moodpeek")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://api.unsplash.com", cfg.Images.ProviderBaseURL)
	assert.Equal(t, 50, cfg.Images.HourlyQuota)
	assert.Equal(t, time.Hour, cfg.Images.CoverTTL)
	assert.Equal(t, 6*time.Hour, cfg.Images.HeroTTL)
	assert.Equal(t, 20, cfg.Images.MemoryCacheSize)
	assert.Equal(t, "mood-reports", cfg.Storage.ReportContainer)
	assert.False(t, cfg.ReportArchiveEnabled())
	assert.False(t, cfg.AIEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moodpeek")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("IMAGE_HOURLY_QUOTA", "10")
	t.Setenv("IMAGE_CACHE_DIR", "/var/cache/images")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, 10, cfg.Images.HourlyQuota)
	assert.Equal(t, "/var/cache/images", cfg.Images.CacheDir)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
}

func TestValidateRejectsPartialStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.AccountName = "account"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage account")
}

func TestValidateRejectsPartialAI(t *testing.T) {
	cfg := validConfig()
	cfg.AI.Endpoint = "https://example.openai.azure.com"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai.endpoint")
}

func TestValidateRejectsNonPositiveQuota(t *testing.T) {
	cfg := validConfig()
	cfg.Images.HourlyQuota = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Images.Burst = -1
	assert.Error(t, cfg.Validate())
}

func TestNoteEncryptionKey(t *testing.T) {
	cfg := validConfig()

	key, err := cfg.NoteEncryptionKey()
	require.NoError(t, err)
	assert.Nil(t, key, "absent key disables encryption")

	cfg.Security.NoteEncryptionKey = strings.Repeat("ab", 32)
	key, err = cfg.NoteEncryptionKey()
	require.NoError(t, err)
	assert.Len(t, key, 32)

	cfg.Security.NoteEncryptionKey = "not-hex"
	_, err = cfg.NoteEncryptionKey()
	assert.Error(t, err)

	cfg.Security.NoteEncryptionKey = "abcd"
	_, err = cfg.NoteEncryptionKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestFeatureToggles(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.AccountName = "account"
	cfg.Storage.AccountKey = "key"
	assert.True(t, cfg.ReportArchiveEnabled())

	cfg.AI.Endpoint = "https://example.openai.azure.com"
	cfg.AI.APIKey = "secret"
	cfg.AI.Deployment = "gpt"
	assert.True(t, cfg.AIEnabled())
}
