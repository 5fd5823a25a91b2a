package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	EnvConfigFile = "JOBFEED_CONFIG"
	envPrefix     = "JOBFEED_"
	// legacyPrefix keeps GHL_API_KEY, GHL_LOCATION_ID and
	// GHL_JOBS_OBJECT_NAME working.
	legacyPrefix = "GHL_"
)

var listKeys = map[string]struct{}{
	"hidden_tags": {},
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if JOBFEED_CONFIG is set
//  3. env with prefix GHL_
//  4. env with prefix JOBFEED_
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like JOBFEED_PAGE_LIMIT -> page_limit (flat keys).
	// List keys arrive comma separated.
	for _, prefix := range []string{legacyPrefix, envPrefix} {
		lower := strings.ToLower(prefix)
		provider := env.ProviderWithValue(prefix, ".", func(key, value string) (string, any) {
			key = strings.TrimPrefix(strings.ToLower(key), lower)
			if _, ok := listKeys[key]; ok {
				return key, strings.Split(value, ",")
			}
			return key, value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("%w: env %s: %w", ErrLoadConfig, prefix, err)
		}
	}

	cfg := *base
	if k.Exists("hidden_tags") {
		cfg.HiddenTags = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Blank values behave like unset ones for the defaulted CRM fields.
	if strings.TrimSpace(cfg.JobsObjectName) == "" {
		cfg.JobsObjectName = DefaultJobsObjectName
	}
	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.LocationID = strings.TrimSpace(cfg.LocationID)
	cfg.HiddenTags = trimAll(cfg.HiddenTags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func trimAll(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
