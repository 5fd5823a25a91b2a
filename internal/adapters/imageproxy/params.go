package imageproxy

import (
	"net/url"
	"strconv"
	"strings"
)

// Parameter bounds.
const (
	DefaultWidth   = 900
	MaxWidth       = 1600
	DefaultQuality = 72
	MaxQuality     = 90
)

// Format is an output encoding.
type Format string

// Supported output formats.
const (
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return "image/webp"
	}
}

// Params describe one transform.
type Params struct {
	URL     string
	Width   int
	Quality int
	Format  Format
}

// ParseParams reads url, w, q and f from a query string. Out of range or
// non-numeric sizes fall back to defaults and are clamped to the maximum;
// unknown formats become webp. Only a missing url is an error.
func ParseParams(q url.Values) (Params, error) {
	p := Params{
		URL:     strings.TrimSpace(q.Get("url")),
		Width:   clamp(q.Get("w"), DefaultWidth, MaxWidth),
		Quality: clamp(q.Get("q"), DefaultQuality, MaxQuality),
		Format:  parseFormat(q.Get("f")),
	}
	if p.URL == "" {
		return p, ErrMissingURL
	}
	return p, nil
}

func clamp(raw string, def, maxVal int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		n = def
	}
	return min(n, maxVal)
}

func parseFormat(raw string) Format {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "jpg", "jpeg":
		return FormatJPEG
	case "png":
		return FormatPNG
	default:
		return FormatWebP
	}
}
