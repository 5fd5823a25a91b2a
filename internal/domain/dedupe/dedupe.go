// Package dedupe provides first-seen ordered de-duplication of string keys.
package dedupe

// Set remembers which keys it has seen.
// A Set belongs to one computation; it is not safe for concurrent use.
type Set struct {
	seen  map[string]struct{}
	keyFn func(string) string
}

// New creates an empty Set.
func New(opts ...Option) *Set {
	s := &Set{
		seen:  make(map[string]struct{}),
		keyFn: func(k string) string { return k },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeenAndRecord returns true if the (normalized) key was already recorded,
// false if it was newly recorded.
func (s *Set) SeenAndRecord(key string) bool {
	k := s.keyFn(key)
	if _, exists := s.seen[k]; exists {
		return true
	}
	s.seen[k] = struct{}{}
	return false
}

// Strings returns values without duplicates, keeping the first occurrence of
// each. The returned values are the originals, not the normalized keys.
func Strings(values []string, opts ...Option) []string {
	s := New(opts...)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !s.SeenAndRecord(v) {
			out = append(out, v)
		}
	}
	return out
}
