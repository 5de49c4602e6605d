package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"aimms/internal/amqp"
	"aimms/internal/storage"
)

func testWorker(t *testing.T) (*AlertsWorker, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "worker.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewAlertsWorker(store, time.Hour), store
}

func TestHandleAlertEventStores(t *testing.T) {
	w, store := testWorker(t)
	ctx := context.Background()

	event := amqp.NewAlertEvent("42", "Groceries", "ALERT", 85, "Groceries at 85%")
	if err := w.HandleAlertEvent(ctx, event); err != nil {
		t.Fatalf("HandleAlertEvent() error = %v", err)
	}

	alerts, err := store.ListAlerts(ctx, "42", 10)
	if err != nil {
		t.Fatalf("ListAlerts() error = %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("stored %d alerts, want 1", len(alerts))
	}
	if alerts[0].Category != "Groceries" || alerts[0].Level != "ALERT" || alerts[0].Percent != 85 {
		t.Errorf("stored alert = %+v", alerts[0])
	}
}

func TestHandleAlertEventDropsAnonymous(t *testing.T) {
	w, store := testWorker(t)
	ctx := context.Background()

	event := amqp.NewAlertEvent("", "Bills", "OVER", 110, "Bills over limit")
	if err := w.HandleAlertEvent(ctx, event); err != nil {
		t.Fatalf("HandleAlertEvent() error = %v, want nil for anonymous event", err)
	}
	alerts, _ := store.ListAlerts(ctx, "", 10)
	if len(alerts) != 0 {
		t.Errorf("anonymous event was stored")
	}
}

func TestPruneOldAlerts(t *testing.T) {
	w, store := testWorker(t)
	ctx := context.Background()

	old := storage.Alert{UserID: "42", Category: "Rent", Level: "ALERT", Percent: 80,
		Message: "old", CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := storage.Alert{UserID: "42", Category: "Bills", Level: "ALERT", Percent: 80,
		Message: "fresh", CreatedAt: time.Now()}
	for _, a := range []storage.Alert{old, fresh} {
		if err := store.SaveAlert(ctx, a); err != nil {
			t.Fatalf("SaveAlert() error = %v", err)
		}
	}

	if err := w.PruneOldAlerts(ctx); err != nil {
		t.Fatalf("PruneOldAlerts() error = %v", err)
	}

	alerts, _ := store.ListAlerts(ctx, "42", 10)
	if len(alerts) != 1 || alerts[0].Message != "fresh" {
		t.Errorf("after prune: %+v, want only the fresh alert", alerts)
	}
}
