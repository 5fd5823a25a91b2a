// Package service drives one job-listing request end to end: a single CRM
// search, then visibility filtering, normalization and selection.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/jobfeed/internal/adapters/crm"
	"github.com/okian/jobfeed/internal/domain/model"
	"github.com/okian/jobfeed/internal/domain/normalize"
	"github.com/okian/jobfeed/internal/domain/ranking"
	"github.com/okian/jobfeed/internal/domain/visibility"
	"github.com/okian/jobfeed/pkg/logger"
	"github.com/okian/jobfeed/pkg/metrics"
)

// Pipeline defaults.
const (
	DefaultPageLimit = 12
	firstPage        = 1
)

// Searcher is the CRM collaborator.
type Searcher interface {
	SearchRecords(ctx context.Context, req crm.SearchRequest) (*crm.SearchResult, error)
}

// JobLister is what the HTTP layer needs from this package.
type JobLister interface {
	ListJobs(ctx context.Context) (Result, error)
}

// Result is the response payload of a successful request.
type Result struct {
	Jobs []model.Job `json:"jobs"`
}

// Service is immutable after New and safe for concurrent requests.
type Service struct {
	searcher   Searcher
	settings   Settings
	pageLimit  int
	filter     *visibility.Filter
	normalizer *normalize.Normalizer
	policy     *ranking.Policy
	logger     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPageLimit sets how many records are requested from the CRM.
func WithPageLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageLimit = n
		}
	}
}

// WithVisibility sets the visibility policy.
func WithVisibility(f *visibility.Filter) Option {
	return func(s *Service) {
		if f != nil {
			s.filter = f
		}
	}
}

// WithNormalizer sets the record normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithPolicy sets the selection policy.
func WithPolicy(p *ranking.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Settings must come from NewSettings; an
// incomplete Settings value is rejected with a *ConfigError.
func New(searcher Searcher, settings Settings, opts ...Option) (*Service, error) {
	if _, err := NewSettings(settings.APIKey, settings.LocationID, settings.ObjectName); err != nil {
		return nil, err
	}
	if searcher == nil {
		return nil, errors.New("service: nil searcher")
	}

	s := &Service{
		searcher:  searcher,
		settings:  settings,
		pageLimit: DefaultPageLimit,
		filter:    visibility.New(),
		policy:    ranking.New(),
		logger:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = normalize.New(normalize.WithVisibility(s.filter))
	}
	return s, nil
}

// ListJobs fetches one page of records and returns the selected jobs.
// Upstream failures are returned unchanged (*crm.UpstreamError); nothing
// partial is ever returned.
func (s *Service) ListJobs(ctx context.Context) (Result, error) {
	visible, err := s.VisibleJobs(ctx)
	if err != nil {
		return Result{}, err
	}
	jobs := s.policy.Select(visible)
	metrics.RecordJobsReturned(len(jobs))
	s.logger.Debug(ctx, "jobs selected",
		logger.Int("visible", len(visible)),
		logger.Int("selected", len(jobs)),
	)
	return Result{Jobs: jobs}, nil
}

// VisibleJobs returns every publicly visible record, normalized, in CRM
// order and before selection.
func (s *Service) VisibleJobs(ctx context.Context) ([]model.Job, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	visible, hidden := s.filter.Apply(records)
	metrics.RecordRecordsHidden(hidden)
	return s.normalizer.NormalizeAll(visible), nil
}

// Process runs the pure part of the pipeline on an already fetched snapshot.
func (s *Service) Process(records []model.RawRecord) Result {
	visible, _ := s.filter.Apply(records)
	return Result{Jobs: s.policy.Select(s.normalizer.NormalizeAll(visible))}
}

func (s *Service) fetch(ctx context.Context) ([]model.RawRecord, error) {
	start := time.Now()
	res, err := s.searcher.SearchRecords(ctx, crm.SearchRequest{
		APIKey:     s.settings.APIKey,
		ObjectKey:  s.settings.ObjectName,
		LocationID: s.settings.LocationID,
		Page:       firstPage,
		PageLimit:  s.pageLimit,
	})
	metrics.RecordCRMLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		var upstream *crm.UpstreamError
		if errors.As(err, &upstream) {
			metrics.RecordCRMSearch(metrics.OutcomeUpstreamError)
			s.logger.Error(ctx, "crm search rejected",
				logger.Int("status", upstream.Status),
				logger.String("body", upstream.Body),
				logger.String("object", s.settings.ObjectName),
			)
			return nil, err
		}
		metrics.RecordCRMSearch(metrics.OutcomeTransportError)
		s.logger.Error(ctx, "crm search failed",
			logger.String("object", s.settings.ObjectName),
			logger.Error(err),
		)
		return nil, err
	}

	metrics.RecordCRMSearch(metrics.OutcomeOK)
	metrics.RecordRecordsFetched(len(res.Records))
	s.logger.Debug(ctx, "crm search succeeded",
		logger.Int("records", len(res.Records)),
		logger.String("envelope", res.Envelope),
		logger.Duration("took", time.Since(start)),
	)
	return res.Records, nil
}

// Unconfigured is a JobLister for a process started without complete CRM
// settings. Every call fails with the construction error and no network
// call is made.
type Unconfigured struct {
	Err error
}

// ListJobs returns u.Err.
func (u Unconfigured) ListJobs(context.Context) (Result, error) {
	metrics.RecordCRMSearch(metrics.OutcomeNotConfigured)
	return Result{}, u.Err
}
