package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/jobfeed/internal/adapters/imageproxy"
	"github.com/okian/jobfeed/pkg/logger"
)

// imageCacheControl keeps transformed images at the edge for 30 days.
const imageCacheControl = "public, s-maxage=2592000, stale-while-revalidate=86400"

// ImageHandler serves GET /api/img.
type ImageHandler struct {
	images ImageServer
	logger logger.Logger
}

// NewImageHandler creates an image handler.
func NewImageHandler(images ImageServer, l logger.Logger) *ImageHandler {
	return &ImageHandler{images: images, logger: l}
}

// HandleImage validates the query, then streams the transformed image.
func (h *ImageHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	params, err := imageproxy.ParseParams(r.URL.Query())
	if err != nil {
		writeText(w, http.StatusBadRequest, msgMissingURL)
		return
	}

	img, err := h.images.Serve(r.Context(), params)
	if err != nil {
		var upstream *imageproxy.UpstreamError
		switch {
		case errors.Is(err, imageproxy.ErrMissingURL):
			writeText(w, http.StatusBadRequest, msgMissingURL)
		case errors.Is(err, imageproxy.ErrUnsupportedHost):
			writeText(w, http.StatusBadRequest, msgUnsupportedHost)
		case errors.As(err, &upstream):
			writeText(w, upstream.Status, msgUpstreamFetch)
		default:
			h.logger.Error(r.Context(), "image request failed",
				logger.String("url", params.URL),
				logger.String("format", string(params.Format)),
				logger.Error(err),
			)
			writeText(w, http.StatusInternalServerError, msgImageProcessing)
		}
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", imageCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}
