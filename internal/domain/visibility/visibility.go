// Package visibility decides whether a CRM job record may be listed publicly.
//
// A record carries a list of tags under its "show on website" field. It is
// hidden when that list contains one of the hidden tags; a missing or empty
// list means the record is shown.
package visibility

import (
	"strings"

	"github.com/okian/jobfeed/internal/domain/model"
)

// DefaultHiddenTag is the only exclusion tag observed in CRM data so far.
const DefaultHiddenTag = "dont_post_to_website"

var flagKeys = []string{"show_on_website", "showOnWebsite", "show_on_site"}

// Decision is the outcome for one record. Flag holds the tags that were
// read, for logging.
type Decision struct {
	Visible bool
	Flag    []string
}

// Filter applies the tag-exclusion policy.
type Filter struct {
	hidden map[string]struct{}
}

// Option applies a configuration option to a Filter.
type Option func(*Filter)

// WithHiddenTags replaces the set of tags that hide a record.
// An empty list keeps the default.
func WithHiddenTags(tags ...string) Option {
	return func(f *Filter) {
		set := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			if t = normalizeTag(t); t != "" {
				set[t] = struct{}{}
			}
		}
		if len(set) > 0 {
			f.hidden = set
		}
	}
}

// New creates a Filter hiding DefaultHiddenTag unless configured otherwise.
func New(opts ...Option) *Filter {
	f := &Filter{hidden: map[string]struct{}{DefaultHiddenTag: {}}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Decide evaluates one record.
func (f *Filter) Decide(raw model.RawRecord) Decision {
	flag := Flag(raw)
	for _, tag := range flag {
		if _, hide := f.hidden[normalizeTag(tag)]; hide {
			return Decision{Visible: false, Flag: flag}
		}
	}
	return Decision{Visible: true, Flag: flag}
}

// Visible is shorthand for Decide(raw).Visible.
func (f *Filter) Visible(raw model.RawRecord) bool {
	return f.Decide(raw).Visible
}

// Apply keeps visible records in their original order and reports how many
// were dropped.
func (f *Filter) Apply(records []model.RawRecord) ([]model.RawRecord, int) {
	out := make([]model.RawRecord, 0, len(records))
	for _, r := range records {
		if f.Visible(r) {
			out = append(out, r)
		}
	}
	return out, len(records) - len(out)
}

// Flag reads the tag list from the first bag that has one. A single string
// counts as a one-element list; booleans and other shapes count as no tags.
func Flag(raw model.RawRecord) []string {
	for _, bag := range model.PropertyBags {
		for _, key := range flagKeys {
			v, ok := raw.Lookup(bag, key)
			if !ok || v == nil {
				continue
			}
			return tags(v)
		}
	}
	return nil
}

func tags(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return t
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
