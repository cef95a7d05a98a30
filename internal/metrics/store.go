// Package metrics coordinates fetching, persisting and reading engagement
// metrics.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/buzzwatch/buzzwatch/internal/models"
)

// Store is the persistence surface the service needs. The database-backed
// store and the in-memory fallback both implement it.
type Store interface {
	Insert(ctx context.Context, rec models.MetricsRecord) (*models.StoredMetrics, error)
	List(ctx context.Context, filter models.HistoryFilter) ([]models.StoredMetrics, error)
	Latest(ctx context.Context, url string) (*models.StoredMetrics, error)
}

// MemoryStore keeps history in memory. Used when no database is configured;
// contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   []models.StoredMetrics
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Insert(ctx context.Context, rec models.MetricsRecord) (*models.StoredMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := models.StoredMetrics{
		ID:            s.nextID,
		CreatedAt:     time.Now().UTC(),
		MetricsRecord: rec,
	}
	s.nextID++
	s.rows = append(s.rows, stored)
	return &stored, nil
}

func (s *MemoryStore) List(ctx context.Context, filter models.HistoryFilter) ([]models.StoredMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.StoredMetrics
	// Rows are appended in insert order; walk backwards for newest first.
	for i := len(s.rows) - 1; i >= 0; i-- {
		row := s.rows[i]
		if filter.URL != "" && row.URL != filter.URL {
			continue
		}
		if filter.Platform != "" && row.Platform != filter.Platform {
			continue
		}
		out = append(out, row)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Latest(ctx context.Context, url string) (*models.StoredMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].URL == url {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}
