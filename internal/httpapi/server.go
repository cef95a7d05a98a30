// Package httpapi exposes the JSON API consumed by the web client.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/buzzwatch/buzzwatch/internal/alerts"
	"github.com/buzzwatch/buzzwatch/internal/auth"
	"github.com/buzzwatch/buzzwatch/internal/database"
	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/metrics"
	"github.com/buzzwatch/buzzwatch/internal/monitor"
	"github.com/buzzwatch/buzzwatch/internal/preview"
)

type Server struct {
	metricsSvc     *metrics.Service
	registry       *monitor.Registry
	evaluator      *alerts.Evaluator
	alertStore     *database.AlertStore
	replyStore     *database.ReplyStore
	previewSvc     *preview.Fetcher
	authMiddleware *auth.Middleware
	logger         *logging.Logger
	server         *http.Server
}

func New(metricsSvc *metrics.Service, registry *monitor.Registry, evaluator *alerts.Evaluator, alertStore *database.AlertStore, replyStore *database.ReplyStore, previewSvc *preview.Fetcher, authMiddleware *auth.Middleware, logger *logging.Logger) *Server {
	return &Server{
		metricsSvc:     metricsSvc,
		registry:       registry,
		evaluator:      evaluator,
		alertStore:     alertStore,
		replyStore:     replyStore,
		previewSvc:     previewSvc,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.buildMux(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("HTTP API server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

func (s *Server) buildMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Metrics routes
	metricsAPI := NewMetricsAPI(s.metricsSvc, s.logger)
	metricsAPI.RegisterRoutes(mux, s.corsMiddleware)

	// Monitor routes
	monitorAPI := NewMonitorAPI(s.registry, s.metricsSvc, s.evaluator, s.authMiddleware, s.logger)
	monitorAPI.RegisterRoutes(mux, s.corsMiddleware)

	// Alert routes (require a database)
	if s.alertStore != nil {
		alertAPI := NewAlertAPI(s.alertStore, s.authMiddleware, s.logger)
		alertAPI.RegisterRoutes(mux, s.corsMiddleware)
	}

	// Reply routes (require a database)
	if s.replyStore != nil {
		replyAPI := NewReplyAPI(s.replyStore, s.authMiddleware, s.logger)
		replyAPI.RegisterRoutes(mux, s.corsMiddleware)
	}

	// Preview route
	if s.previewSvc != nil {
		previewAPI := NewPreviewAPI(s.previewSvc, s.logger)
		previewAPI.RegisterRoutes(mux, s.corsMiddleware)
	}

	// RSS export and charts
	feedAPI := NewFeedAPI(s.metricsSvc, s.logger)
	feedAPI.RegisterRoutes(mux, s.corsMiddleware)
	dashboard := NewDashboard(s.metricsSvc, s.registry, s.logger)
	dashboard.RegisterRoutes(mux, s.corsMiddleware)

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	return mux
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
