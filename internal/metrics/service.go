package metrics

import (
	"context"

	"github.com/buzzwatch/buzzwatch/internal/cache"
	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

const latestCachePrefix = "latest:"

// Dispatcher routes URLs to platform fetchers.
type Dispatcher interface {
	GetMetrics(ctx context.Context, url string) models.MetricsRecord
	GetBulkMetrics(ctx context.Context, urls []string) []models.MetricsRecord
}

// Service is the metrics read/write path: it fetches through the
// dispatcher, appends every result to the store and keeps a latest-value
// cache per URL.
type Service struct {
	dispatcher Dispatcher
	store      Store
	cache      cache.Cache
	logger     *logging.Logger
}

func NewService(dispatcher Dispatcher, store Store, c cache.Cache, logger *logging.Logger) *Service {
	return &Service{
		dispatcher: dispatcher,
		store:      store,
		cache:      c,
		logger:     logger,
	}
}

// Fetch gets current metrics for url and records the result. Failed fetches
// are recorded too, so history shows outages.
func (s *Service) Fetch(ctx context.Context, url string) models.MetricsRecord {
	rec := s.dispatcher.GetMetrics(ctx, url)
	s.Record(ctx, rec)
	return rec
}

// FetchBulk fetches all URLs concurrently and records every result. The
// returned slice is in input order.
func (s *Service) FetchBulk(ctx context.Context, urls []string) []models.MetricsRecord {
	records := s.dispatcher.GetBulkMetrics(ctx, urls)
	for _, rec := range records {
		s.Record(ctx, rec)
	}
	return records
}

// Record appends rec to the store and refreshes the latest-value cache.
// Persistence errors are logged, not returned: the fetch result is still
// useful to the caller even if the write failed.
func (s *Service) Record(ctx context.Context, rec models.MetricsRecord) {
	stored, err := s.store.Insert(ctx, rec)
	if err != nil {
		s.logger.Error("failed to persist metrics",
			logging.WithField("url", rec.URL),
			logging.WithField("error", err.Error()))
		return
	}
	s.cache.Set(latestCachePrefix+rec.URL, stored)
}

// History reads stored records, newest first.
func (s *Service) History(ctx context.Context, filter models.HistoryFilter) ([]models.StoredMetrics, error) {
	return s.store.List(ctx, filter)
}

// Latest returns the most recent record for url, or nil when the URL has
// never been fetched.
func (s *Service) Latest(ctx context.Context, url string) (*models.StoredMetrics, error) {
	var cached models.StoredMetrics
	if s.cache.Get(latestCachePrefix+url, &cached) {
		return &cached, nil
	}

	stored, err := s.store.Latest(ctx, url)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.cache.Set(latestCachePrefix+url, stored)
	}
	return stored, nil
}
