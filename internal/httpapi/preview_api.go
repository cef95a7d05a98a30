package httpapi

import (
	"net/http"

	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/preview"
)

// PreviewAPI serves OpenGraph link previews
type PreviewAPI struct {
	previewSvc *preview.Fetcher
	logger     *logging.Logger
}

// NewPreviewAPI creates a new preview API handler
func NewPreviewAPI(previewSvc *preview.Fetcher, logger *logging.Logger) *PreviewAPI {
	return &PreviewAPI{
		previewSvc: previewSvc,
		logger:     logger,
	}
}

// RegisterRoutes registers preview routes on the given mux
func (api *PreviewAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/preview", corsMiddleware(api.handlePreview))
}

func (api *PreviewAPI) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	p, err := api.previewSvc.Fetch(r.Context(), url)
	if err != nil {
		api.logger.Warn("preview fetch failed",
			logging.WithField("url", url),
			logging.WithField("error", err.Error()))
		writeError(w, http.StatusBadGateway, "failed to fetch preview")
		return
	}

	writeJSON(w, http.StatusOK, p)
}
