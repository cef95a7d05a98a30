package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/buzzwatch/buzzwatch/internal/auth"
	"github.com/buzzwatch/buzzwatch/internal/database"
	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

// ReplyAPI handles HTTP API requests for drafted replies and their feedback
type ReplyAPI struct {
	replyStore     *database.ReplyStore
	authMiddleware *auth.Middleware
	logger         *logging.Logger
}

// NewReplyAPI creates a new reply API handler
func NewReplyAPI(replyStore *database.ReplyStore, authMiddleware *auth.Middleware, logger *logging.Logger) *ReplyAPI {
	return &ReplyAPI{
		replyStore:     replyStore,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

// RegisterRoutes registers reply routes on the given mux
func (api *ReplyAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/replies", corsMiddleware(api.handleReplies))
	mux.HandleFunc("/api/replies/", corsMiddleware(api.handleReplyItem))
}

func (api *ReplyAPI) handleReplies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		api.listReplies(w, r)
	case http.MethodPost:
		api.authMiddleware.RequireAuth(api.createReply)(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *ReplyAPI) listReplies(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	replies, err := api.replyStore.ListByURL(r.Context(), url)
	if err != nil {
		api.logger.Error("failed to list replies", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list replies")
		return
	}
	if replies == nil {
		replies = []models.Reply{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"replies": replies,
		"count":   len(replies),
	})
}

func (api *ReplyAPI) createReply(w http.ResponseWriter, r *http.Request) {
	var params models.CreateReplyParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if strings.TrimSpace(params.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	reply, err := api.replyStore.Create(r.Context(), params)
	if err != nil {
		api.logger.Error("failed to create reply", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create reply")
		return
	}

	writeJSON(w, http.StatusCreated, reply)
}

// handleReplyItem routes /api/replies/{id}/feedback
func (api *ReplyAPI) handleReplyItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/replies/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "feedback" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	replyID := parts[0]

	switch r.Method {
	case http.MethodGet:
		api.listFeedback(w, r, replyID)
	case http.MethodPost:
		api.authMiddleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			api.addFeedback(w, r, replyID)
		})(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *ReplyAPI) listFeedback(w http.ResponseWriter, r *http.Request, replyID string) {
	feedback, err := api.replyStore.ListFeedback(r.Context(), replyID)
	if err != nil {
		api.logger.Error("failed to list feedback", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}
	if feedback == nil {
		feedback = []models.ReplyFeedback{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": feedback,
		"count":    len(feedback),
	})
}

func (api *ReplyAPI) addFeedback(w http.ResponseWriter, r *http.Request, replyID string) {
	var params models.CreateFeedbackParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params.ReplyID = replyID

	if params.Rating != models.RatingUp && params.Rating != models.RatingDown {
		writeError(w, http.StatusBadRequest, `rating must be "up" or "down"`)
		return
	}

	fb, err := api.replyStore.AddFeedback(r.Context(), params)
	if err != nil {
		api.logger.Error("failed to add feedback", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to add feedback")
		return
	}

	writeJSON(w, http.StatusCreated, fb)
}
