package api

import (
	"errors"
	"net/http"

	"github.com/okian/jobfeed/internal/adapters/crm"
	service "github.com/okian/jobfeed/internal/app"
	"github.com/okian/jobfeed/pkg/logger"
)

// JobsHandler serves GET /api/jobs.
type JobsHandler struct {
	jobs         service.JobLister
	cacheControl string
	logger       logger.Logger
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(jobs service.JobLister, cacheControl string, l logger.Logger) *JobsHandler {
	return &JobsHandler{jobs: jobs, cacheControl: cacheControl, logger: l}
}

// HandleListJobs returns {"jobs": [...]} or one of the error envelopes.
func (h *JobsHandler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.jobs.ListJobs(ctx)
	if err != nil {
		h.writeListError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", h.cacheControl)
	writeJSON(w, http.StatusOK, res)
}

func (h *JobsHandler) writeListError(w http.ResponseWriter, r *http.Request, err error) {
	var cfgErr *service.ConfigError
	var upstream *crm.UpstreamError

	switch {
	case errors.As(err, &cfgErr):
		h.logger.Warn(r.Context(), "jobs requested while unconfigured", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, configErrorResponse{
			Error: msgNotConfigured,
			Missing: missingSettings{
				HasAPIKey:         cfgErr.HasAPIKey,
				HasLocationID:     cfgErr.HasLocationID,
				HasJobsObjectName: cfgErr.HasJobsObjectName,
			},
		})
	case errors.As(err, &upstream):
		writeJSON(w, upstream.Status, upstreamErrorResponse{
			Error:  msgUpstream,
			Status: upstream.Status,
			Body:   upstream.Body,
		})
	default:
		h.logger.Error(r.Context(), "listing jobs failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgUnableToFetch})
	}
}
