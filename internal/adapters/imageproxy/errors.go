package imageproxy

import (
	"errors"
	"fmt"
)

// Sentinel kinds for image proxy errors.
var (
	ErrMissingURL      = errors.New("missing url")
	ErrUnsupportedHost = errors.New("unsupported host")
	ErrFetch           = errors.New("image fetch failed")
	ErrTooLarge        = errors.New("source image too large")
	ErrProcess         = errors.New("image processing failed")
)

// UpstreamError is a non-2xx answer from the image origin.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("image origin responded %d", e.Status)
}

// Is lets errors.Is(err, ErrFetch) match.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrFetch
}
