// Package worker contains the alerts worker: it drains budget-alert events
// from the broker into the local store and prunes old rows, so the web
// process can list recent alerts without holding a consumer itself.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aimms/internal/amqp"
	"aimms/internal/storage"
)

// DefaultRetention is how long stored alerts are kept.
const DefaultRetention = 30 * 24 * time.Hour

type AlertsWorker struct {
	store     *storage.Store
	retention time.Duration
}

func NewAlertsWorker(store *storage.Store, retention time.Duration) *AlertsWorker {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &AlertsWorker{store: store, retention: retention}
}

// HandleAlertEvent persists one consumed event. Returning an error requeues
// the delivery, so only storage failures should propagate.
func (w *AlertsWorker) HandleAlertEvent(ctx context.Context, event *amqp.AlertEvent) error {
	if event.UserID == "" {
		slog.WarnContext(ctx, "Dropping alert event without user id",
			"category", event.Category, "level", event.Level)
		return nil
	}

	alert := storage.Alert{
		UserID:    event.UserID,
		Category:  event.Category,
		Level:     event.Level,
		Percent:   event.Percent,
		Message:   event.Message,
		CreatedAt: event.Timestamp,
	}
	if err := w.store.SaveAlert(ctx, alert); err != nil {
		return fmt.Errorf("save alert: %w", err)
	}

	slog.InfoContext(ctx, "Alert stored",
		"user_id", event.UserID,
		"category", event.Category,
		"level", event.Level,
		"percent", event.Percent)
	return nil
}

// PruneOldAlerts drops alerts past the retention window.
func (w *AlertsWorker) PruneOldAlerts(ctx context.Context) error {
	cutoff := time.Now().Add(-w.retention)
	n, err := w.store.PruneAlerts(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune alerts: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Pruned old alerts", "removed", n, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}

// RunPruneLoop prunes on an interval until ctx ends.
func (w *AlertsWorker) RunPruneLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.PruneOldAlerts(ctx); err != nil {
				slog.ErrorContext(ctx, "Alert prune failed", "error", err)
			}
		}
	}
}
