package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buzzwatch/buzzwatch/internal/models"
)

// MetricsStore persists fetched metrics records. History is append-only:
// rows are inserted and read, never updated.
type MetricsStore struct {
	db *DB
}

func NewMetricsStore(db *DB) *MetricsStore {
	return &MetricsStore{db: db}
}

func (s *MetricsStore) Insert(ctx context.Context, rec models.MetricsRecord) (*models.StoredMetrics, error) {
	metricsJSON, err := json.Marshal(rec.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}

	stored := &models.StoredMetrics{MetricsRecord: rec}

	if s.db.Driver() == DriverPostgres {
		query := s.db.Rebind(`
			INSERT INTO metrics_history (url, platform, metrics, success, error, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id, created_at`)
		row := s.db.QueryRowxContext(ctx, query,
			rec.URL, string(rec.Platform), string(metricsJSON), rec.Success, rec.Error, rec.Timestamp)
		if err := row.Scan(&stored.ID, &stored.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert metrics: %w", err)
		}
		return stored, nil
	}

	query := s.db.Rebind(`
		INSERT INTO metrics_history (url, platform, metrics, success, error, fetched_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	res, err := s.db.ExecContext(ctx, query,
		rec.URL, string(rec.Platform), string(metricsJSON), rec.Success, rec.Error, rec.Timestamp, rec.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert metrics: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}
	stored.ID = id
	stored.CreatedAt = rec.Timestamp
	return stored, nil
}

// List returns history rows newest first, filtered by URL and platform when
// set. Limit of zero or less means no limit.
func (s *MetricsStore) List(ctx context.Context, filter models.HistoryFilter) ([]models.StoredMetrics, error) {
	query := `
		SELECT id, url, platform, metrics, success, error, fetched_at, created_at
		FROM metrics_history
		WHERE 1=1`
	var args []interface{}

	if filter.URL != "" {
		query += " AND url = ?"
		args = append(args, filter.URL)
	}
	if filter.Platform != "" {
		query += " AND platform = ?"
		args = append(args, string(filter.Platform))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics history: %w", err)
	}
	defer rows.Close()

	var out []models.StoredMetrics
	for rows.Next() {
		stored, err := scanStoredMetrics(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *stored)
	}
	return out, rows.Err()
}

// Latest returns the most recent row for url, or nil when none exists.
func (s *MetricsStore) Latest(ctx context.Context, url string) (*models.StoredMetrics, error) {
	query := s.db.Rebind(`
		SELECT id, url, platform, metrics, success, error, fetched_at, created_at
		FROM metrics_history
		WHERE url = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`)

	rows, err := s.db.QueryxContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest metrics: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, nil
	}
	return scanStoredMetrics(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStoredMetrics(row rowScanner) (*models.StoredMetrics, error) {
	var stored models.StoredMetrics
	var platform, metricsJSON string

	if err := row.Scan(
		&stored.ID, &stored.URL, &platform, &metricsJSON,
		&stored.Success, &stored.Error, &stored.Timestamp, &stored.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan metrics row: %w", err)
	}

	stored.Platform = models.Platform(platform)
	if err := json.Unmarshal([]byte(metricsJSON), &stored.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics: %w", err)
	}
	return &stored, nil
}
