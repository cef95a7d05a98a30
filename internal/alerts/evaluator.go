// Package alerts evaluates threshold alerts against incoming metrics.
package alerts

import (
	"context"

	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

// Store is the persistence surface the evaluator needs.
type Store interface {
	ListEnabledByURL(ctx context.Context, url string) ([]models.Alert, error)
	RecordEvent(ctx context.Context, event models.AlertEvent) error
}

// Evaluator checks each fetched record against the enabled alerts for its
// URL and records an event for every threshold that is met.
type Evaluator struct {
	store  Store
	logger *logging.Logger
}

func NewEvaluator(store Store, logger *logging.Logger) *Evaluator {
	return &Evaluator{store: store, logger: logger}
}

// Evaluate processes one fetched record. Failure records are skipped: a
// missing metric says nothing about the threshold.
func (e *Evaluator) Evaluate(ctx context.Context, rec models.MetricsRecord) {
	if !rec.Success {
		return
	}

	alerts, err := e.store.ListEnabledByURL(ctx, rec.URL)
	if err != nil {
		e.logger.Error("failed to load alerts",
			logging.WithField("url", rec.URL),
			logging.WithField("error", err.Error()))
		return
	}

	for _, alert := range alerts {
		value, ok := rec.Metrics[alert.Metric]
		if !ok || value < alert.Threshold {
			continue
		}

		event := models.AlertEvent{
			AlertID:     alert.ID,
			URL:         rec.URL,
			Metric:      alert.Metric,
			Value:       value,
			Threshold:   alert.Threshold,
			TriggeredAt: rec.Timestamp,
		}
		if err := e.store.RecordEvent(ctx, event); err != nil {
			e.logger.Error("failed to record alert event",
				logging.WithField("alert_id", alert.ID),
				logging.WithField("error", err.Error()))
			continue
		}

		e.logger.Info("alert triggered",
			logging.WithField("url", rec.URL),
			logging.WithField("metric", alert.Metric),
			logging.WithField("value", value),
			logging.WithField("threshold", alert.Threshold))
	}
}
