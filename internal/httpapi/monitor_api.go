package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/buzzwatch/buzzwatch/internal/alerts"
	"github.com/buzzwatch/buzzwatch/internal/auth"
	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/metrics"
	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/monitor"
)

// MonitorAPI handles HTTP API requests for recurring monitors
type MonitorAPI struct {
	registry       *monitor.Registry
	metricsSvc     *metrics.Service
	evaluator      *alerts.Evaluator
	authMiddleware *auth.Middleware
	logger         *logging.Logger
}

// NewMonitorAPI creates a new monitor API handler
func NewMonitorAPI(registry *monitor.Registry, metricsSvc *metrics.Service, evaluator *alerts.Evaluator, authMiddleware *auth.Middleware, logger *logging.Logger) *MonitorAPI {
	return &MonitorAPI{
		registry:       registry,
		metricsSvc:     metricsSvc,
		evaluator:      evaluator,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

// RegisterRoutes registers monitor routes on the given mux
func (api *MonitorAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/monitors", corsMiddleware(api.handleMonitors))
}

func (api *MonitorAPI) handleMonitors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		api.listMonitors(w, r)
	case http.MethodPost:
		api.authMiddleware.RequireAuth(api.startMonitor)(w, r)
	case http.MethodDelete:
		api.authMiddleware.RequireAuth(api.stopMonitor)(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *MonitorAPI) listMonitors(w http.ResponseWriter, r *http.Request) {
	active := api.registry.Active()
	if active == nil {
		active = []models.MonitorEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"monitors": active,
		"count":    len(active),
	})
}

func (api *MonitorAPI) startMonitor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL        string `json:"url"`
		IntervalMs int64  `json:"intervalMs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.IntervalMs < 0 {
		writeError(w, http.StatusBadRequest, "intervalMs must not be negative")
		return
	}

	interval := time.Duration(req.IntervalMs) * time.Millisecond
	api.registry.Start(req.URL, interval, api.onTick)

	if interval <= 0 {
		interval = monitor.DefaultInterval
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"url":        req.URL,
		"intervalMs": interval.Milliseconds(),
	})
}

// onTick records every monitored fetch and runs it through the alert
// evaluator when one is configured.
func (api *MonitorAPI) onTick(rec models.MetricsRecord) {
	ctx := context.Background()
	api.metricsSvc.Record(ctx, rec)
	if api.evaluator != nil {
		api.evaluator.Evaluate(ctx, rec)
	}
}

func (api *MonitorAPI) stopMonitor(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	api.registry.Stop(url)
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "stopped",
		"url":    url,
	})
}
