package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "movie-tracker/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// TMDBConfig holds settings for the TMDB movie database provider.
type TMDBConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is the TMDB v3 API key. Falls back to .secrets/tmdb-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL is the API root (default https://api.themoviedb.org/3).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// ImageBaseURL is the image CDN root (default https://image.tmdb.org/t/p).
	ImageBaseURL string `json:"image_base_url" yaml:"image_base_url" mapstructure:"image_base_url"`

	// Language is sent with every request (default en-US).
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// RequestsPerSecond caps the outbound request rate; 0 disables the limit.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxConcurrent bounds simultaneous in-flight requests (default 4).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent" mapstructure:"max_concurrent"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig holds settings for the optional provider response cache.
type CacheConfig struct {
	// RedisURL enables the cache when set (e.g. "redis://localhost:6379/0").
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" mapstructure:"redis_url"`

	// TTL is how long a cached provider response stays valid (default 6h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// LibraryConfig holds settings for the persisted collection.
type LibraryConfig struct {
	// DataDir contains the collection database (library.db).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// PosterConfig holds settings for downloading poster images of collection
// entries.
type PosterConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Dir receives <movie-id>.jpg files; empty means <data_dir>/posters.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"`

	// Size is the TMDB image width (default w342).
	Size string `json:"size" yaml:"size" mapstructure:"size"`

	// DownloadDelay is the pause between consecutive downloads.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay" mapstructure:"download_delay"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"` // "console" or "json"

	// Path is a directory for a rotating log file; empty logs to stderr only.
	Path       string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress" yaml:"compress" mapstructure:"compress"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	TMDB    TMDBConfig    `json:"tmdb" yaml:"tmdb" mapstructure:"tmdb"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
	Posters PosterConfig  `json:"posters" yaml:"posters" mapstructure:"posters"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}
