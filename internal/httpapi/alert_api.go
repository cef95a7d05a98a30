package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/buzzwatch/buzzwatch/internal/auth"
	"github.com/buzzwatch/buzzwatch/internal/database"
	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

// AlertAPI handles HTTP API requests for threshold alerts
type AlertAPI struct {
	alertStore     *database.AlertStore
	authMiddleware *auth.Middleware
	logger         *logging.Logger
}

// NewAlertAPI creates a new alert API handler
func NewAlertAPI(alertStore *database.AlertStore, authMiddleware *auth.Middleware, logger *logging.Logger) *AlertAPI {
	return &AlertAPI{
		alertStore:     alertStore,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

// RegisterRoutes registers alert routes on the given mux
func (api *AlertAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/alerts", corsMiddleware(api.handleAlerts))
	mux.HandleFunc("/api/alerts/events", corsMiddleware(api.handleEvents))
	mux.HandleFunc("/api/alerts/", corsMiddleware(api.authMiddleware.RequireAuth(api.handleAlertItem)))
}

func (api *AlertAPI) handleAlerts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		api.listAlerts(w, r)
	case http.MethodPost:
		api.authMiddleware.RequireAuth(api.createAlert)(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *AlertAPI) listAlerts(w http.ResponseWriter, r *http.Request) {
	all, err := api.alertStore.List(r.Context())
	if err != nil {
		api.logger.Error("failed to list alerts", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	if all == nil {
		all = []models.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": all,
		"count":  len(all),
	})
}

func (api *AlertAPI) createAlert(w http.ResponseWriter, r *http.Request) {
	var params models.CreateAlertParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if params.Metric == "" {
		writeError(w, http.StatusBadRequest, "metric is required")
		return
	}
	if params.Threshold <= 0 {
		writeError(w, http.StatusBadRequest, "threshold must be positive")
		return
	}

	alert, err := api.alertStore.Create(r.Context(), params)
	if err != nil {
		api.logger.Error("failed to create alert", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create alert")
		return
	}

	writeJSON(w, http.StatusCreated, alert)
}

func (api *AlertAPI) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events, err := api.alertStore.ListEvents(r.Context(), limit)
	if err != nil {
		api.logger.Error("failed to list alert events", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list alert events")
		return
	}
	if events == nil {
		events = []models.AlertEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// handleAlertItem covers enable/disable and delete for a single alert
func (api *AlertAPI) handleAlertItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/alerts/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		api.updateAlert(w, r, id)
	case http.MethodDelete:
		api.deleteAlert(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *AlertAPI) updateAlert(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	ok, err := api.alertStore.SetEnabled(r.Context(), id, *req.Enabled)
	if err != nil {
		api.logger.Error("failed to update alert", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to update alert")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"enabled": *req.Enabled,
	})
}

func (api *AlertAPI) deleteAlert(w http.ResponseWriter, r *http.Request, id string) {
	ok, err := api.alertStore.Delete(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to delete alert", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to delete alert")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
		"id":     id,
	})
}
