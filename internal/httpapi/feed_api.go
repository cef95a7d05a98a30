package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/metrics"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

// FeedAPI exports recent metric snapshots as an RSS feed, so history can be
// followed from a feed reader.
type FeedAPI struct {
	metricsSvc *metrics.Service
	logger     *logging.Logger
}

// NewFeedAPI creates a new feed API handler
func NewFeedAPI(metricsSvc *metrics.Service, logger *logging.Logger) *FeedAPI {
	return &FeedAPI{
		metricsSvc: metricsSvc,
		logger:     logger,
	}
}

// RegisterRoutes registers feed routes on the given mux
func (api *FeedAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/feed.rss", corsMiddleware(api.handleFeed))
}

func (api *FeedAPI) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := models.HistoryFilter{
		URL:   r.URL.Query().Get("url"),
		Limit: 50,
	}
	history, err := api.metricsSvc.History(r.Context(), filter)
	if err != nil {
		api.logger.Error("failed to read history for feed", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	feed := &feeds.Feed{
		Title:       "Buzzwatch engagement metrics",
		Description: "Recent engagement snapshots for monitored posts",
		Link:        &feeds.Link{Href: "/api/feed.rss", Rel: "self"},
		Created:     time.Now(),
	}

	for _, row := range history {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("buzzwatch:metrics:%d", row.ID),
			Title:       feedItemTitle(row),
			Link:        &feeds.Link{Href: row.URL},
			Description: feedItemDescription(row),
			Created:     row.Timestamp,
		})
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.WriteRss(w); err != nil {
		api.logger.Error("failed to write feed", logging.WithField("error", err.Error()))
	}
}

func feedItemTitle(row models.StoredMetrics) string {
	if !row.Success {
		return fmt.Sprintf("[%s] fetch failed: %s", row.Platform, row.URL)
	}
	return fmt.Sprintf("[%s] %s", row.Platform, row.URL)
}

func feedItemDescription(row models.StoredMetrics) string {
	if !row.Success {
		return row.Error
	}

	keys := make([]string, 0, len(row.Metrics))
	for k := range row.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, row.Metrics[k]))
	}
	return strings.Join(parts, ", ")
}
