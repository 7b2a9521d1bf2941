package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Images   ImagesConfig
	Weather  WeatherConfig
	Storage  StorageConfig
	AI       AIConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ImagesConfig holds the image pipeline configuration
type ImagesConfig struct {
	ProviderBaseURL    string
	ProviderAccessKey  string
	PlaceholderBaseURL string
	HourlyQuota        int
	Burst              int
	CacheDir           string
	CoverTTL           time.Duration
	HeroTTL            time.Duration
	MemoryCacheSize    int
	FetchTimeout       time.Duration
}

// WeatherConfig holds the weather lookup configuration
type WeatherConfig struct {
	GeocodeBaseURL  string
	ForecastBaseURL string
	Timeout         time.Duration
}

// StorageConfig holds the optional Azure Blob report archive configuration
type StorageConfig struct {
	AccountName     string
	AccountKey      string
	ReportContainer string
}

// AIConfig holds the optional Azure OpenAI tip generation configuration
type AIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// SecurityConfig holds the optional note-encryption key (hex, 32 bytes)
type SecurityConfig struct {
	NoteEncryptionKey string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Image pipeline defaults
	v.SetDefault("images.providerbaseurl", "https://api.unsplash.com")
	v.SetDefault("images.placeholderbaseurl", "https://picsum.photos")
	v.SetDefault("images.hourlyquota", 50)
	v.SetDefault("images.burst", 5)
	v.SetDefault("images.cachedir", "./imgcache")
	v.SetDefault("images.coverttl", time.Hour)
	v.SetDefault("images.herottl", 6*time.Hour)
	v.SetDefault("images.memorycachesize", 20)
	v.SetDefault("images.fetchtimeout", 10*time.Second)

	// Weather defaults
	v.SetDefault("weather.geocodebaseurl", "https://geocoding-api.open-meteo.com")
	v.SetDefault("weather.forecastbaseurl", "https://api.open-meteo.com")
	v.SetDefault("weather.timeout", 8*time.Second)

	// Storage defaults
	v.SetDefault("storage.reportcontainer", "mood-reports")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Image pipeline
	v.BindEnv("images.providerbaseurl", "IMAGE_PROVIDER_BASE_URL")
	v.BindEnv("images.provideraccesskey", "IMAGE_PROVIDER_ACCESS_KEY")
	v.BindEnv("images.placeholderbaseurl", "IMAGE_PLACEHOLDER_BASE_URL")
	v.BindEnv("images.hourlyquota", "IMAGE_HOURLY_QUOTA")
	v.BindEnv("images.burst", "IMAGE_BURST")
	v.BindEnv("images.cachedir", "IMAGE_CACHE_DIR")

	// Weather
	v.BindEnv("weather.geocodebaseurl", "WEATHER_GEOCODE_BASE_URL")
	v.BindEnv("weather.forecastbaseurl", "WEATHER_FORECAST_BASE_URL")

	// Report archive (optional)
	v.BindEnv("storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("storage.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	// AI tips (optional)
	v.BindEnv("ai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("ai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("ai.deployment", "AZURE_OPENAI_DEPLOYMENT")

	// Security (optional)
	v.BindEnv("security.noteencryptionkey", "NOTE_ENCRYPTION_KEY")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.Images.HourlyQuota <= 0 {
		return fmt.Errorf("images.hourlyquota must be positive")
	}

	if c.Images.Burst <= 0 {
		return fmt.Errorf("images.burst must be positive")
	}

	if c.Images.CacheDir == "" {
		return fmt.Errorf("images.cachedir is required")
	}

	if _, err := c.NoteEncryptionKey(); err != nil {
		return err
	}

	// The storage and AI sections are optional; when partially set they are
	// rejected so a typo does not silently disable a feature.
	if (c.Storage.AccountName == "") != (c.Storage.AccountKey == "") {
		return fmt.Errorf("storage account name and key must be set together")
	}

	if c.AI.Endpoint != "" || c.AI.APIKey != "" || c.AI.Deployment != "" {
		if c.AI.Endpoint == "" || c.AI.APIKey == "" || c.AI.Deployment == "" {
			return fmt.Errorf("ai.endpoint, ai.apikey and ai.deployment must be set together")
		}
	}

	return nil
}

// NoteEncryptionKey decodes the configured hex key, or returns nil when note
// encryption is disabled.
func (c *Config) NoteEncryptionKey() ([]byte, error) {
	if c.Security.NoteEncryptionKey == "" {
		return nil, nil
	}

	key, err := hex.DecodeString(c.Security.NoteEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("security.noteencryptionkey must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("security.noteencryptionkey must decode to 32 bytes, got %d", len(key))
	}

	return key, nil
}

// ReportArchiveEnabled reports whether the Azure report archive is configured.
func (c *Config) ReportArchiveEnabled() bool {
	return c.Storage.AccountName != "" && c.Storage.AccountKey != ""
}

// AIEnabled reports whether AI tip generation is configured.
func (c *Config) AIEnabled() bool {
	return c.AI.Endpoint != "" && c.AI.APIKey != "" && c.AI.Deployment != ""
}
