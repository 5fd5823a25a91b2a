// Package normalize maps loosely-typed CRM records onto model.Job.
//
// Normalization is total: every input, however malformed, yields a Job.
// Missing or oddly shaped fields resolve to their documented defaults.
package normalize

import (
	"encoding/json"

	"github.com/okian/jobfeed/internal/domain/model"
	"github.com/okian/jobfeed/internal/domain/visibility"
)

// DefaultPlaceholder is used when a record has no usable photo.
const DefaultPlaceholder = "https://placehold.co/1200x800?text=Job+Photo"

// Normalizer converts RawRecords to Jobs.
type Normalizer struct {
	placeholder string
	visibility  *visibility.Filter
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithPlaceholder sets the fallback photo URL.
func WithPlaceholder(url string) Option {
	return func(n *Normalizer) {
		if url != "" {
			n.placeholder = url
		}
	}
}

// WithVisibility sets the filter used to derive Job.ShowOnWebsite.
func WithVisibility(f *visibility.Filter) Option {
	return func(n *Normalizer) {
		if f != nil {
			n.visibility = f
		}
	}
}

// New creates a Normalizer with default placeholder and visibility policy.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		placeholder: DefaultPlaceholder,
		visibility:  visibility.New(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds the Job for one record.
func (n *Normalizer) Normalize(raw model.RawRecord) model.Job {
	photoValue, _ := first(raw, photoAliases)
	photos := ResolvePhotos(photoValue, n.placeholder)

	return model.Job{
		ID:            recordID(raw),
		JobNumber:     stringField(raw, jobNumberAliases),
		Contact:       stringField(raw, contactAliases),
		Service:       stringField(raw, serviceAliases),
		Title:         stringField(raw, titleAliases),
		Description:   stringField(raw, descriptionAliases),
		City:          stringField(raw, cityAliases),
		Date:          stringField(raw, dateAliases),
		Amount:        Amount(raw),
		Cover:         photos[0],
		Photos:        photos,
		HeroImage:     stringField(raw, heroImageAliases),
		ShowOnWebsite: n.visibility.Visible(raw),
		CreatedAt:     timestampField(raw, createdAtAliases),
		UpdatedAt:     timestampField(raw, updatedAtAliases),
	}
}

// NormalizeAll keeps input order.
func (n *Normalizer) NormalizeAll(records []model.RawRecord) []model.Job {
	jobs := make([]model.Job, len(records))
	for i, r := range records {
		jobs[i] = n.Normalize(r)
	}
	return jobs
}

// Amount extracts the job amount. A {currency, value} mapping contributes its
// value; a scalar is used directly. The result is nil unless it is a finite
// number.
func Amount(raw model.RawRecord) *float64 {
	v, ok := first(raw, amountAliases)
	if !ok {
		return nil
	}
	if m, isMap := v.(map[string]any); isMap {
		inner, has := m["value"]
		if !has || inner == nil {
			return nil
		}
		v = inner
	}
	f, ok := asNumber(v)
	if !ok {
		return nil
	}
	return &f
}

// recordID keeps the identifier exactly as the CRM sent it.
func recordID(raw model.RawRecord) string {
	for _, a := range idAliases {
		v, ok := raw.Lookup(a.bag, a.key)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case json.Number:
			return t.String()
		default:
			if s := asString(t); s != "" {
				return s
			}
		}
	}
	return ""
}
