package service

import (
	"github.com/okian/jobfeed/internal/config"
	"github.com/okian/jobfeed/internal/domain/normalize"
	"github.com/okian/jobfeed/internal/domain/ranking"
	"github.com/okian/jobfeed/internal/domain/visibility"
)

// FromConfig assembles the pipeline described by cfg around searcher. When
// the CRM settings are incomplete the returned lister is Unconfigured and the
// *ConfigError is returned alongside it, so a server can keep running and
// report the problem per request.
func FromConfig(cfg *config.Config, searcher Searcher, opts ...Option) (JobLister, error) {
	settings, err := NewSettings(cfg.APIKey, cfg.LocationID, cfg.JobsObjectName)
	if err != nil {
		return Unconfigured{Err: err}, err
	}

	filter := visibility.New(visibility.WithHiddenTags(cfg.HiddenTags...))
	base := []Option{
		WithPageLimit(cfg.PageLimit),
		WithVisibility(filter),
		WithNormalizer(normalize.New(
			normalize.WithPlaceholder(cfg.PlaceholderPhoto),
			normalize.WithVisibility(filter),
		)),
		WithPolicy(ranking.New(ranking.WithLimit(cfg.MaxJobs))),
	}
	svc, err := New(searcher, settings, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
