// Package ranking selects a small, service-diverse set of the newest jobs.
package ranking

import (
	"slices"
	"strings"
	"time"

	"github.com/okian/jobfeed/internal/domain/dedupe"
	"github.com/okian/jobfeed/internal/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Selection defaults.
const (
	DefaultLimit    = 3
	NoServiceBucket = "no-service"
)

// Policy orders jobs by recency and keeps at most one job per service.
type Policy struct {
	limit int
}

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithLimit sets the maximum number of selected jobs.
func WithLimit(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.limit = n
		}
	}
}

// New creates a Policy selecting DefaultLimit jobs unless configured.
func New(opts ...Option) *Policy {
	p := &Policy{limit: DefaultLimit}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Limit returns the configured maximum.
func (p *Policy) Limit() int { return p.limit }

type candidate struct {
	job model.Job
	key time.Time
}

// Select returns at most Limit jobs, newest first, no two sharing a service
// bucket. The input is not modified.
func (p *Policy) Select(jobs []model.Job) []model.Job {
	sorted := SortByRecency(jobs)

	buckets := dedupe.New(dedupe.WithKeyFunc(ServiceBucket))
	out := make([]model.Job, 0, min(p.limit, len(sorted)))
	for _, job := range sorted {
		if len(out) == p.limit {
			break
		}
		if buckets.SeenAndRecord(job.Service) {
			continue
		}
		out = append(out, job)
	}
	return out
}

// SortByRecency returns a copy of jobs ordered newest first. Jobs with equal
// recency keep their relative order.
func SortByRecency(jobs []model.Job) []model.Job {
	cands := make([]candidate, len(jobs))
	for i, j := range jobs {
		cands[i] = candidate{job: j, key: RecencyKey(j)}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return b.key.Compare(a.key)
	})

	out := make([]model.Job, len(cands))
	for i, c := range cands {
		out[i] = c.job
	}
	return out
}

// RecencyKey is the later of the job's update and creation times.
// Unparsable or missing timestamps count as the zero time.
func RecencyKey(j model.Job) time.Time {
	updated, _ := ParseTimestamp(j.UpdatedAt)
	created, _ := ParseTimestamp(j.CreatedAt)
	if updated.After(created) {
		return updated
	}
	return created
}

// ServiceBucket is the de-duplication key for a service name: trimmed and
// lowercased, with blank names sharing NoServiceBucket.
func ServiceBucket(service string) string {
	s := strings.TrimSpace(service)
	if s == "" {
		return NoServiceBucket
	}
	// Casers are stateful, so one per call.
	return cases.Lower(language.Und).String(s)
}
