package crm

import (
	"errors"
	"fmt"
)

// Sentinel kinds for CRM errors.
var (
	ErrUpstream  = errors.New("crm upstream error")
	ErrTransport = errors.New("crm transport error")
	ErrDecode    = errors.New("crm response decode failed")
)

// UpstreamError is a non-2xx answer from the CRM. Body is the raw response
// text, unmodified.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("crm responded %d", e.Status)
}

// Is lets errors.Is(err, ErrUpstream) match.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
