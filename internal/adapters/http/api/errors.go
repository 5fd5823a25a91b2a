package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNilDependency = errors.New("api: nil dependency")
)

// Error envelope messages. Clients match on these strings.
const (
	msgNotConfigured    = "API not configured"
	msgUpstream         = "Error from CRM API"
	msgUnableToFetch    = "Unable to fetch jobs"
	msgMethodNotAllowed = "Method not allowed"

	msgMissingURL      = "Missing url"
	msgUnsupportedHost = "Unsupported host"
	msgUpstreamFetch   = "Upstream fetch failed"
	msgImageProcessing = "Image processing error"
)

type errorResponse struct {
	Error string `json:"error"`
}

type missingSettings struct {
	HasAPIKey         bool `json:"hasApiKey"`
	HasLocationID     bool `json:"hasLocationId"`
	HasJobsObjectName bool `json:"hasJobsObjectName"`
}

type configErrorResponse struct {
	Error   string          `json:"error"`
	Missing missingSettings `json:"missing"`
}

type upstreamErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Body   string `json:"body"`
}
