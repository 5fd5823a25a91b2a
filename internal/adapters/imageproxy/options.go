package imageproxy

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Proxy.
type Option func(*Proxy)

// WithAllowedPrefix restricts source URLs to those starting with prefix.
func WithAllowedPrefix(prefix string) Option {
	return func(p *Proxy) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithMaxBytes caps the size of a fetched source image.
func WithMaxBytes(n int64) Option {
	return func(p *Proxy) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// WithTimeout bounds each origin fetch.
func WithTimeout(d time.Duration) Option {
	return func(p *Proxy) {
		if d > 0 {
			p.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(p *Proxy) {
		if h != nil {
			p.http = h
		}
	}
}

