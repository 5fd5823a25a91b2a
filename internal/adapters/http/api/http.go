// Package api wires the public HTTP surface: job listing, image proxy,
// health and metrics.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/jobfeed/internal/adapters/imageproxy"
	service "github.com/okian/jobfeed/internal/app"
	"github.com/okian/jobfeed/pkg/logger"
)

// DefaultJobsCacheControl lets a CDN serve a listing for a minute.
const DefaultJobsCacheControl = "public, s-maxage=60, stale-while-revalidate=300"

// ImageServer produces transformed images.
type ImageServer interface {
	Serve(ctx context.Context, params imageproxy.Params) (*imageproxy.Image, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	jobsHandler   *JobsHandler
	imageHandler  *ImageHandler
	healthHandler *HealthHandler
	allowOrigin   string
	logger        logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*serverOptions)

type serverOptions struct {
	cacheControl string
	allowOrigin  string
	logger       logger.Logger
}

// WithJobsCacheControl sets the Cache-Control header of successful listings.
func WithJobsCacheControl(v string) Option {
	return func(o *serverOptions) {
		if v != "" {
			o.cacheControl = v
		}
	}
}

// WithAllowedOrigin sets Access-Control-Allow-Origin.
func WithAllowedOrigin(origin string) Option {
	return func(o *serverOptions) {
		if origin != "" {
			o.allowOrigin = origin
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(jobs service.JobLister, images ImageServer, opts ...Option) (*Server, error) {
	if jobs == nil || images == nil {
		return nil, ErrNilDependency
	}
	o := serverOptions{
		cacheControl: DefaultJobsCacheControl,
		allowOrigin:  "*",
		logger:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		jobsHandler:   NewJobsHandler(jobs, o.cacheControl, o.logger),
		imageHandler:  NewImageHandler(images, o.logger),
		healthHandler: NewHealthHandler(),
		allowOrigin:   o.allowOrigin,
		logger:        o.logger,
	}, nil
}

// Register attaches all HTTP routes and middleware to r. OPTIONS is routed
// so that the CORS middleware can answer preflight requests.
func (s *Server) Register(r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	chain := []mux.MiddlewareFunc{RequestIDMiddleware, RecoveryMiddleware(s.logger), CORSMiddleware(s.allowOrigin)}
	r.Use(chain...)

	r.HandleFunc("/api/jobs", MetricsMiddleware(s.jobsHandler.HandleListJobs, "jobs")).
		Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/img", MetricsMiddleware(s.imageHandler.HandleImage, "img")).
		Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).
		Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)

	// Router middleware does not run on a method mismatch.
	var notAllowed http.Handler = http.HandlerFunc(handleMethodNotAllowed)
	for i := len(chain) - 1; i >= 0; i-- {
		notAllowed = chain[i](notAllowed)
	}
	r.MethodNotAllowedHandler = notAllowed
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
