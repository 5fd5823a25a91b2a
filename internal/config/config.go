// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers file and environment on top of those defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"
)

// Default values shared by the server and the CLI.
const (
	DefaultJobsObjectName = "custom_objects.jobs"
	DefaultAPIBaseURL     = "https://services.leadconnectorhq.com"
	DefaultAPIVersion     = "2021-07-28"
	DefaultHiddenTag      = "dont_post_to_website"
	DefaultPlaceholder    = "https://placehold.co/1200x800?text=Job+Photo"
	DefaultImagePrefix    = "https://msgsndr-private.storage.googleapis.com/"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIKey is the CRM bearer credential. Required per request, not at load.
	APIKey string `koanf:"api_key"`

	// LocationID is the CRM sub-account the custom objects belong to.
	LocationID string `koanf:"location_id"`

	// JobsObjectName is the custom object schema key, e.g. custom_objects.jobs.
	JobsObjectName string `koanf:"jobs_object_name"`

	// APIBaseURL and APIVersion describe the CRM REST endpoint.
	APIBaseURL string `koanf:"api_base_url"`
	APIVersion string `koanf:"api_version"`

	// PageLimit is the number of records requested from the CRM.
	PageLimit int `koanf:"page_limit"`

	// MaxJobs bounds the response after service de-duplication.
	MaxJobs int `koanf:"max_jobs"`

	// RequestTimeoutMS bounds each outbound HTTP call.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// HiddenTags lists show_on_website tags that exclude a record.
	HiddenTags []string `koanf:"hidden_tags"`

	// PlaceholderPhoto is used when a record has no photos.
	PlaceholderPhoto string `koanf:"placeholder_photo"`

	// JobsCacheControl is sent with successful /api/jobs responses.
	JobsCacheControl string `koanf:"jobs_cache_control"`

	// CORSAllowedOrigin is echoed as Access-Control-Allow-Origin.
	CORSAllowedOrigin string `koanf:"cors_allowed_origin"`

	// ImageAllowedPrefix restricts /api/img sources.
	ImageAllowedPrefix string `koanf:"image_allowed_prefix"`

	// ImageMaxBytes caps the size of a fetched source image.
	ImageMaxBytes int64 `koanf:"image_max_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		JobsObjectName:     DefaultJobsObjectName,
		APIBaseURL:         DefaultAPIBaseURL,
		APIVersion:         DefaultAPIVersion,
		PageLimit:          12,
		MaxJobs:            3,
		RequestTimeoutMS:   10_000,
		HiddenTags:         []string{DefaultHiddenTag},
		PlaceholderPhoto:   DefaultPlaceholder,
		JobsCacheControl:   "public, s-maxage=60, stale-while-revalidate=300",
		CORSAllowedOrigin:  "*",
		ImageAllowedPrefix: DefaultImagePrefix,
		ImageMaxBytes:      20 << 20,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate checks process-level settings. CRM credentials are deliberately
// not checked here; their absence is reported per request.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.APIBaseURL == "":
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	case c.PageLimit <= 0:
		return fmt.Errorf("%w: page_limit must be positive", ErrInvalidConfig)
	case c.MaxJobs <= 0:
		return fmt.Errorf("%w: max_jobs must be positive", ErrInvalidConfig)
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	case c.ImageMaxBytes <= 0:
		return fmt.Errorf("%w: image_max_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
