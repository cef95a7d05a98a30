package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/buzzwatch/buzzwatch/internal/models"
)

// AlertStore persists threshold alerts and the events they trigger.
type AlertStore struct {
	db *DB
}

func NewAlertStore(db *DB) *AlertStore {
	return &AlertStore{db: db}
}

func (s *AlertStore) Create(ctx context.Context, params models.CreateAlertParams) (*models.Alert, error) {
	alert := &models.Alert{
		ID:        uuid.New().String(),
		URL:       params.URL,
		Metric:    params.Metric,
		Threshold: params.Threshold,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}

	query := s.db.Rebind(`
		INSERT INTO alerts (id, url, metric, threshold, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query,
		alert.ID, alert.URL, alert.Metric, alert.Threshold, alert.Enabled, alert.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert alert: %w", err)
	}
	return alert, nil
}

func (s *AlertStore) List(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, url, metric, threshold, enabled, created_at
		FROM alerts
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.URL, &a.Metric, &a.Threshold, &a.Enabled, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListEnabledByURL returns the enabled alerts watching url.
func (s *AlertStore) ListEnabledByURL(ctx context.Context, url string) ([]models.Alert, error) {
	query := s.db.Rebind(`
		SELECT id, url, metric, threshold, enabled, created_at
		FROM alerts
		WHERE url = ? AND enabled = ?
		ORDER BY created_at DESC`)

	rows, err := s.db.QueryxContext(ctx, query, url, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.URL, &a.Metric, &a.Threshold, &a.Enabled, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetEnabled toggles an alert. Returns false when the alert does not exist.
func (s *AlertStore) SetEnabled(ctx context.Context, id string, enabled bool) (bool, error) {
	query := s.db.Rebind(`UPDATE alerts SET enabled = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, enabled, id)
	if err != nil {
		return false, fmt.Errorf("failed to update alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes an alert and, via cascade, its events.
func (s *AlertStore) Delete(ctx context.Context, id string) (bool, error) {
	query := s.db.Rebind(`DELETE FROM alerts WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *AlertStore) RecordEvent(ctx context.Context, event models.AlertEvent) error {
	query := s.db.Rebind(`
		INSERT INTO alert_events (alert_id, url, metric, value, threshold, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query,
		event.AlertID, event.URL, event.Metric, event.Value, event.Threshold, event.TriggeredAt); err != nil {
		return fmt.Errorf("failed to insert alert event: %w", err)
	}
	return nil
}

// ListEvents returns triggered events newest first, optionally limited.
func (s *AlertStore) ListEvents(ctx context.Context, limit int) ([]models.AlertEvent, error) {
	query := `
		SELECT id, alert_id, url, metric, value, threshold, triggered_at
		FROM alert_events
		ORDER BY triggered_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert events: %w", err)
	}
	defer rows.Close()

	var out []models.AlertEvent
	for rows.Next() {
		var e models.AlertEvent
		if err := rows.Scan(&e.ID, &e.AlertID, &e.URL, &e.Metric, &e.Value, &e.Threshold, &e.TriggeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
