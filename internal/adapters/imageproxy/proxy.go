// Package imageproxy fetches images from the CRM media bucket and re-encodes
// them at a bounded width and quality.
package imageproxy

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/okian/jobfeed/pkg/metrics"
)

// Proxy defaults.
const (
	DefaultAllowedPrefix = "https://msgsndr-private.storage.googleapis.com/"
	DefaultMaxBytes      = 20 << 20
	defaultTimeout       = 15 * time.Second
)

// Image is an encoded transform result.
type Image struct {
	Data        []byte
	ContentType string
}

// Proxy is safe for concurrent use.
type Proxy struct {
	http     *http.Client
	prefix   string
	maxBytes int64
}

// New creates a Proxy.
func New(opts ...Option) *Proxy {
	p := &Proxy{
		http:     &http.Client{Timeout: defaultTimeout},
		prefix:   DefaultAllowedPrefix,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Allowed reports whether src may be fetched.
func (p *Proxy) Allowed(src string) bool {
	return strings.HasPrefix(src, p.prefix)
}

// Serve validates, fetches and transforms one image.
func (p *Proxy) Serve(ctx context.Context, params Params) (*Image, error) {
	if params.URL == "" {
		return nil, ErrMissingURL
	}
	if !p.Allowed(params.URL) {
		return nil, ErrUnsupportedHost
	}

	start := time.Now()
	src, err := p.Fetch(ctx, params.URL)
	if err != nil {
		metrics.RecordImageTransform(string(params.Format), "fetch_error")
		return nil, err
	}

	out, err := Transform(src, params)
	if err != nil {
		metrics.RecordImageTransform(string(params.Format), "process_error")
		return nil, err
	}

	metrics.RecordImageTransform(string(params.Format), "ok")
	metrics.RecordImageBytes(len(src), len(out.Data))
	metrics.RecordImageLatency(float64(time.Since(start).Milliseconds()))
	return out, nil
}

// Fetch downloads src. Non-2xx answers yield an *UpstreamError.
func (p *Proxy) Fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Transform decodes src honoring EXIF orientation, narrows it to
// params.Width (never enlarging) and encodes it in params.Format.
func Transform(src []byte, params Params) (*Image, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrProcess, err)
	}
	img = fitWidth(img, params.Width)

	var buf bytes.Buffer
	switch params.Format {
	case FormatJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(params.Quality))
	case FormatPNG:
		// PNG is lossless; quality does not apply.
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(params.Quality)})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", ErrProcess, params.Format, err)
	}
	return &Image{Data: buf.Bytes(), ContentType: params.Format.ContentType()}, nil
}

func fitWidth(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}
