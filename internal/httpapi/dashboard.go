package httpapi

import (
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/metrics"
	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/monitor"
)

// dashboardHistoryLimit bounds how much history the charts read.
const dashboardHistoryLimit = 500

// Dashboard renders engagement history as charts for a quick operational
// view without the web client.
type Dashboard struct {
	metricsSvc *metrics.Service
	registry   *monitor.Registry
	logger     *logging.Logger
}

// NewDashboard creates a new dashboard handler
func NewDashboard(metricsSvc *metrics.Service, registry *monitor.Registry, logger *logging.Logger) *Dashboard {
	return &Dashboard{
		metricsSvc: metricsSvc,
		registry:   registry,
		logger:     logger,
	}
}

// RegisterRoutes registers the dashboard route on the given mux
func (d *Dashboard) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/dashboard", corsMiddleware(d.handleDashboard))
}

func (d *Dashboard) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	history, err := d.metricsSvc.History(r.Context(), models.HistoryFilter{Limit: dashboardHistoryLimit})
	if err != nil {
		d.logger.Error("failed to read history for dashboard", logging.WithField("error", err.Error()))
		http.Error(w, "failed to read history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Platform share across recorded fetches.
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Fetches by platform"}),
		charts.WithThemeOpts(opts.Theme{Theme: types.ThemeWesteros}),
	)
	platformCounts := make(map[string]int)
	for _, row := range history {
		platformCounts[string(row.Platform)]++
	}
	var pieItems []opts.PieData
	for platform, count := range platformCounts {
		pieItems = append(pieItems, opts.PieData{Name: platform, Value: count})
	}
	pie.AddSeries("Fetches", pieItems)
	if err := pie.Render(w); err != nil {
		d.logger.Error("failed to render chart", logging.WithField("error", err.Error()))
		return
	}

	// One line chart per URL, oldest to newest, one series per metric.
	for _, url := range historyURLs(history) {
		line := charts.NewLine()
		line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: url}))

		rows := rowsForURL(history, url)
		var xAxis []string
		for _, row := range rows {
			xAxis = append(xAxis, row.Timestamp.Format("01-02 15:04"))
		}
		line.SetXAxis(xAxis)

		for _, metric := range metricKeys(rows) {
			var series []opts.LineData
			for _, row := range rows {
				series = append(series, opts.LineData{Value: row.Metrics[metric]})
			}
			line.AddSeries(metric, series)
		}

		if err := line.Render(w); err != nil {
			d.logger.Error("failed to render chart", logging.WithField("error", err.Error()))
			return
		}
	}
}

func historyURLs(history []models.StoredMetrics) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, row := range history {
		if !seen[row.URL] {
			seen[row.URL] = true
			urls = append(urls, row.URL)
		}
	}
	sort.Strings(urls)
	return urls
}

// rowsForURL returns the successful rows for url in chronological order.
// History is newest first, so the walk runs backwards.
func rowsForURL(history []models.StoredMetrics, url string) []models.StoredMetrics {
	var rows []models.StoredMetrics
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].URL == url && history[i].Success {
			rows = append(rows, history[i])
		}
	}
	return rows
}

func metricKeys(rows []models.StoredMetrics) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for k := range row.Metrics {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
