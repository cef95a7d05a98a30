package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/metrics"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

// maxBulkURLs caps a single bulk request.
const maxBulkURLs = 20

// MetricsAPI handles HTTP API requests for metric fetching and history
type MetricsAPI struct {
	metricsSvc *metrics.Service
	logger     *logging.Logger
}

// NewMetricsAPI creates a new metrics API handler
func NewMetricsAPI(metricsSvc *metrics.Service, logger *logging.Logger) *MetricsAPI {
	return &MetricsAPI{
		metricsSvc: metricsSvc,
		logger:     logger,
	}
}

// RegisterRoutes registers metrics routes on the given mux
func (api *MetricsAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/metrics", corsMiddleware(api.handleGetMetrics))
	mux.HandleFunc("/api/metrics/bulk", corsMiddleware(api.handleBulkMetrics))
	mux.HandleFunc("/api/metrics/history", corsMiddleware(api.handleHistory))
	mux.HandleFunc("/api/metrics/latest", corsMiddleware(api.handleLatest))
}

// handleGetMetrics fetches current metrics for one URL
func (api *MetricsAPI) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	rec := api.metricsSvc.Fetch(r.Context(), url)
	writeJSON(w, http.StatusOK, rec)
}

// handleBulkMetrics fetches metrics for up to maxBulkURLs URLs at once
func (api *MetricsAPI) handleBulkMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls must not be empty")
		return
	}
	if len(req.URLs) > maxBulkURLs {
		writeError(w, http.StatusBadRequest, "too many urls (max 20)")
		return
	}

	records := api.metricsSvc.FetchBulk(r.Context(), req.URLs)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": records,
	})
}

// handleHistory lists stored records, newest first
func (api *MetricsAPI) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	filter := models.HistoryFilter{
		URL:      query.Get("url"),
		Platform: models.Platform(query.Get("platform")),
		Limit:    50,
	}
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if o := query.Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}

	history, err := api.metricsSvc.History(r.Context(), filter)
	if err != nil {
		api.logger.Error("failed to read history", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if history == nil {
		history = []models.StoredMetrics{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}

// handleLatest returns the most recent record for a URL
func (api *MetricsAPI) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	latest, err := api.metricsSvc.Latest(r.Context(), url)
	if err != nil {
		api.logger.Error("failed to read latest metrics", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read latest metrics")
		return
	}
	if latest == nil {
		writeError(w, http.StatusNotFound, "no metrics recorded for this url")
		return
	}

	writeJSON(w, http.StatusOK, latest)
}
