package dedupe

// Option applies a configuration option to a Set.
type Option func(*Set)

// WithKeyFunc normalizes keys before comparison, e.g. lowercasing.
// Two inputs with the same normalized key are duplicates.
func WithKeyFunc(fn func(string) string) Option {
	return func(s *Set) {
		if fn != nil {
			s.keyFn = fn
		}
	}
}
