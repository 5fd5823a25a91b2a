// Package crm is a client for the HighLevel (LeadConnector) custom object
// search API.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/jobfeed/internal/domain/model"
)

// Client defaults.
const (
	DefaultBaseURL    = "https://services.leadconnectorhq.com"
	DefaultAPIVersion = "2021-07-28"
	defaultTimeout    = 10 * time.Second
	maxResponseBytes  = 8 << 20
)

// SearchRequest identifies one page of records of a custom object.
type SearchRequest struct {
	APIKey     string
	ObjectKey  string
	LocationID string
	Page       int
	PageLimit  int
}

// searchBody is the JSON body of POST /objects/{key}/records/search.
type searchBody struct {
	LocationID string `json:"locationId"`
	Page       int    `json:"page"`
	PageLimit  int    `json:"pageLimit"`
}

// SearchResult holds the records of one search page.
type SearchResult struct {
	Records []model.RawRecord
	// Envelope names the response field the records came from:
	// "records", "data" or "" when neither was present.
	Envelope string
}

// Client talks to the CRM REST API.
type Client struct {
	http       *http.Client
	baseURL    string
	apiVersion string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAPIVersion sets the Version header value.
func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: defaultTimeout, Transport: http.DefaultTransport.(*http.Transport).Clone()},
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// SearchRecords performs one record search. A non-2xx response yields an
// *UpstreamError carrying the status and raw body. Network and decode
// failures wrap ErrTransport or ErrDecode.
func (c *Client) SearchRecords(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	payload, err := json.Marshal(searchBody{
		LocationID: req.LocationID,
		Page:       req.Page,
		PageLimit:  req.PageLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal body: %w", ErrTransport, err)
	}

	endpoint := c.baseURL + "/objects/" + url.PathEscape(req.ObjectKey) + "/records/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Version", c.apiVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	return decodeSearch(body)
}

// decodeSearch extracts records from either known envelope. Numbers are kept
// as json.Number so identifiers survive unchanged.
func decodeSearch(body []byte) (*SearchResult, error) {
	var decoded any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	envelope, _ := decoded.(map[string]any)

	for _, key := range []string{"records", "data"} {
		list, ok := envelope[key].([]any)
		if !ok {
			continue
		}
		records := make([]model.RawRecord, 0, len(list))
		for _, item := range list {
			if m, isObject := item.(map[string]any); isObject {
				records = append(records, model.RawRecord(m))
			}
		}
		return &SearchResult{Records: records, Envelope: key}, nil
	}
	return &SearchResult{Records: []model.RawRecord{}}, nil
}
