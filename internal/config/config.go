// Package config loads and validates the purchase links configuration.
// Values come from viper (environment variables and an optional config
// file); out-of-range values never prevent startup, the service falls
// back to a known-safe default set instead.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the validated snapshot of all purchase link settings.
// Durations are kept in the units the environment variables use
// (seconds) so the validation ranges read the same as the documented
// limits; use the *Duration accessors in code.
type Config struct {
	// Google Books API
	GoogleBooksAPIKey  string `mapstructure:"google_books_api_key"`
	GoogleBooksBaseURL string `mapstructure:"google_books_base_url" validate:"http_url"`

	// Amazon
	AmazonAffiliateTag string `mapstructure:"amazon_affiliate_tag"`
	AmazonAccessKey    string `mapstructure:"amazon_access_key"`
	AmazonSecretKey    string `mapstructure:"amazon_secret_key"`
	AmazonRegion       string `mapstructure:"amazon_region" validate:"oneof=US UK CA DE FR IT ES JP IN"`
	AmazonBaseURL      string `mapstructure:"amazon_base_url" validate:"http_url"`

	// Flipkart
	FlipkartAffiliateID    string `mapstructure:"flipkart_affiliate_id"`
	FlipkartAffiliateToken string `mapstructure:"flipkart_affiliate_token"`
	FlipkartBaseURL        string `mapstructure:"flipkart_base_url" validate:"http_url"`

	// Barnes & Noble
	BarnesNobleAffiliateID string `mapstructure:"barnes_noble_affiliate_id"`
	BarnesNobleBaseURL     string `mapstructure:"barnes_noble_base_url" validate:"http_url"`

	// Performance
	CacheTTL       int     `mapstructure:"cache_ttl" validate:"min=1,max=86400"`
	RequestTimeout int     `mapstructure:"request_timeout" validate:"min=1,max=60"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelay     float64 `mapstructure:"retry_delay" validate:"min=0.1,max=10"`

	// Courtesy rate limiting towards remote APIs
	RateLimitRequests int `mapstructure:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   int `mapstructure:"rate_limit_window" validate:"min=1"`

	// Concurrency
	MaxConcurrent int `mapstructure:"max_concurrent" validate:"min=1,max=20"`

	// Optional persistent cache for Google Books responses. Empty
	// disables the SQLite response cache.
	ResponseCacheFile string `mapstructure:"response_cache_file"`
	ResponseCacheTTL  string `mapstructure:"response_cache_ttl"`

	// Optional YAML file with platform display metadata overrides.
	PlatformsFile string `mapstructure:"platforms_file"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// Default returns the known-safe configuration used when validation of
// the environment-derived settings fails.
func Default() *Config {
	return &Config{
		GoogleBooksBaseURL: "https://www.googleapis.com/books/v1",
		AmazonRegion:       "US",
		AmazonBaseURL:      "https://www.amazon.com",
		FlipkartBaseURL:    "https://www.flipkart.com",
		BarnesNobleBaseURL: "https://www.barnesandnoble.com",
		CacheTTL:           3600,
		RequestTimeout:     10,
		MaxRetries:         3,
		RetryDelay:         1.0,
		RateLimitRequests:  100,
		RateLimitWindow:    60,
		MaxConcurrent:      4,
		ResponseCacheTTL:   "24h",
		LogLevel:           "INFO",
	}
}

// SetDefaults registers the default values with viper and binds the
// environment variables the service honors.
func SetDefaults() {
	def := Default()

	viper.SetDefault("google_books_base_url", def.GoogleBooksBaseURL)
	viper.SetDefault("amazon_region", def.AmazonRegion)
	viper.SetDefault("amazon_base_url", def.AmazonBaseURL)
	viper.SetDefault("flipkart_base_url", def.FlipkartBaseURL)
	viper.SetDefault("barnes_noble_base_url", def.BarnesNobleBaseURL)
	viper.SetDefault("cache_ttl", def.CacheTTL)
	viper.SetDefault("request_timeout", def.RequestTimeout)
	viper.SetDefault("max_retries", def.MaxRetries)
	viper.SetDefault("retry_delay", def.RetryDelay)
	viper.SetDefault("rate_limit_requests", def.RateLimitRequests)
	viper.SetDefault("rate_limit_window", def.RateLimitWindow)
	viper.SetDefault("max_concurrent", def.MaxConcurrent)
	viper.SetDefault("response_cache_ttl", def.ResponseCacheTTL)
	viper.SetDefault("log_level", def.LogLevel)

	bindings := map[string]string{
		"google_books_api_key":      "GOOGLE_BOOKS_API_KEY",
		"google_books_base_url":     "GOOGLE_BOOKS_BASE_URL",
		"amazon_affiliate_tag":      "AMAZON_AFFILIATE_TAG",
		"amazon_access_key":         "AMAZON_ACCESS_KEY",
		"amazon_secret_key":         "AMAZON_SECRET_KEY",
		"amazon_region":             "AMAZON_REGION",
		"amazon_base_url":           "AMAZON_BASE_URL",
		"flipkart_affiliate_id":     "FLIPKART_AFFILIATE_ID",
		"flipkart_affiliate_token":  "FLIPKART_AFFILIATE_TOKEN",
		"flipkart_base_url":         "FLIPKART_BASE_URL",
		"barnes_noble_affiliate_id": "BARNES_NOBLE_AFFILIATE_ID",
		"barnes_noble_base_url":     "BARNES_NOBLE_BASE_URL",
		"cache_ttl":                 "PURCHASE_LINKS_CACHE_TTL",
		"request_timeout":           "PURCHASE_LINKS_TIMEOUT",
		"max_retries":               "PURCHASE_LINKS_MAX_RETRIES",
		"retry_delay":               "PURCHASE_LINKS_RETRY_DELAY",
		"rate_limit_requests":       "PURCHASE_LINKS_RATE_LIMIT",
		"rate_limit_window":         "PURCHASE_LINKS_RATE_WINDOW",
		"max_concurrent":            "PURCHASE_LINKS_MAX_CONCURRENT",
		"response_cache_file":       "PURCHASE_LINKS_RESPONSE_CACHE",
		"platforms_file":            "PURCHASE_LINKS_PLATFORMS_FILE",
		"log_level":                 "PURCHASE_LINKS_LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "key", key, "error", err)
		}
	}
}

// Load builds a Config from viper and validates it. On validation
// failure it logs the problem and returns the safe default set; the
// process never refuses to start over bad settings.
func Load() *Config {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		slog.Error("Failed to unmarshal configuration, using defaults", "error", err)
		return Default()
	}

	if err := Validate(cfg); err != nil {
		slog.Error("Invalid configuration, falling back to defaults", "error", err)
		return Default()
	}

	logConfigNotes(cfg)
	return cfg
}

// Validate checks all range and format constraints on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := time.ParseDuration(cfg.ResponseCacheTTL); err != nil {
		return fmt.Errorf("invalid response_cache_ttl %q: %w", cfg.ResponseCacheTTL, err)
	}
	return nil
}

func logConfigNotes(cfg *Config) {
	if cfg.GoogleBooksAPIKey == "" {
		slog.Warn("Google Books API key not configured, requests may be rate limited")
	}
	if cfg.AmazonAffiliateTag == "" {
		slog.Info("Amazon affiliate tag not configured, no affiliate revenue")
	}
	if cfg.FlipkartAffiliateID == "" {
		slog.Info("Flipkart affiliate ID not configured, no affiliate revenue")
	}
}

// CacheTTLDuration returns the aggregate cache TTL.
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RequestTimeoutDuration returns the per-request HTTP timeout.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// RetryDelayDuration returns the base delay between retries.
func (c *Config) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay * float64(time.Second))
}

// RateLimitWindowDuration returns the courtesy throttle window.
func (c *Config) RateLimitWindowDuration() time.Duration {
	return time.Duration(c.RateLimitWindow) * time.Second
}

// ResponseCacheTTLDuration returns the TTL for the persistent response
// cache. Invalid values were rejected at Load time; the parse error here
// only occurs for hand-built configs and yields the 24h default.
func (c *Config) ResponseCacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.ResponseCacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// SlogLevel maps the configured log level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PlatformConfigured reports whether a platform has usable credentials.
func (c *Config) PlatformConfigured(platform string) bool {
	switch platform {
	case "google_books":
		return c.GoogleBooksAPIKey != ""
	case "amazon":
		return c.AmazonAffiliateTag != ""
	case "flipkart":
		return c.FlipkartAffiliateID != ""
	case "barnes_noble":
		return true
	default:
		return false
	}
}
