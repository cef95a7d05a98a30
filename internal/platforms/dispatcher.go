package platforms

import (
	"context"
	"strings"
	"sync"

	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

// Dispatcher routes a post URL to the fetcher that handles its platform.
type Dispatcher struct {
	fetchers []Fetcher
	logger   *logging.Logger
}

func NewDispatcher(logger *logging.Logger, fetchers ...Fetcher) *Dispatcher {
	return &Dispatcher{
		fetchers: fetchers,
		logger:   logger,
	}
}

// GetMetrics fetches metrics for a single URL. Matching is done against a
// lowercased copy of the URL; the original string is passed through to the
// fetcher untouched, since Reddit post IDs are case-sensitive. An URL no
// fetcher claims produces an immediate failure record without any network
// activity.
func (d *Dispatcher) GetMetrics(ctx context.Context, url string) models.MetricsRecord {
	lowered := strings.ToLower(url)

	for _, f := range d.fetchers {
		if f.Match(lowered) {
			rec := f.Fetch(ctx, url)
			if !rec.Success {
				d.logger.Warn("metric fetch failed",
					logging.WithField("platform", string(rec.Platform)),
					logging.WithField("url", url),
					logging.WithField("error", rec.Error))
			}
			return rec
		}
	}

	return models.NewFailureRecord(models.PlatformUnknown, url,
		"Unsupported platform. Supported: Reddit, Quora, Twitter/X")
}

// GetBulkMetrics fetches all URLs concurrently. Results are returned in
// input order, one record per URL; individual failures do not affect the
// other entries.
func (d *Dispatcher) GetBulkMetrics(ctx context.Context, urls []string) []models.MetricsRecord {
	results := make([]models.MetricsRecord, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			results[i] = d.GetMetrics(ctx, url)
		}(i, url)
	}
	wg.Wait()

	return results
}
