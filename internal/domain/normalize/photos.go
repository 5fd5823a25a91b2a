package normalize

import (
	"strings"

	"github.com/okian/jobfeed/internal/domain/dedupe"
)

// ResolvePhotos turns a raw photo field into a non-empty, de-duplicated,
// ordered list of URLs. When nothing usable is found the list holds only
// placeholder.
func ResolvePhotos(raw any, placeholder string) []string {
	urls := photoURLs(raw)
	if len(urls) == 0 {
		return []string{placeholder}
	}
	return dedupe.Strings(urls)
}

func photoURLs(raw any) []string {
	switch t := raw.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if u := photoElementURL(e); u != "" {
				out = append(out, u)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if u := strings.TrimSpace(e); u != "" {
				out = append(out, u)
			}
		}
		return out
	case string:
		return splitList(t)
	}
	return nil
}

// photoElementURL handles one element of a photo sequence: strings pass
// through, file objects contribute their url.
func photoElementURL(e any) string {
	switch t := e.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if u, ok := t["url"].(string); ok {
			return strings.TrimSpace(u)
		}
	}
	return ""
}

// splitList splits a newline or comma separated string.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
