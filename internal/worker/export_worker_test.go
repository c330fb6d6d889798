package worker

import (
	"context"
	"path/filepath"
	"testing"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/export/memory"
	"caixa/internal/storage"
)

func newTestWorker(t *testing.T) (*ExportWorker, *storage.SQLiteRepository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	store := memory.New()
	return NewExportWorker(repo, store, 10), repo, store
}

func seedMovement(t *testing.T, repo *storage.SQLiteRepository, id string) core.Movement {
	t.Helper()
	m, err := repo.Append(context.Background(), core.Movement{
		ID:          id,
		Description: "venda balcao",
		Amount:      core.Money{Cents: 12500},
		Date:        core.NewDate(2024, 12, 2),
		Category:    "vendas",
		Type:        core.Revenue,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return m
}

func TestHandleSyncMessage(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()
	seedMovement(t, repo, "mov-1")

	msg := amqp.NewMovementSyncMessage("mov-1", 1)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	exported := store.All()
	if len(exported) != 1 || exported[0].ID != "mov-1" {
		t.Fatalf("expected mov-1 exported, got %v", exported)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending after sync, got %d", len(pending))
	}
}

func TestHandleSyncMessageVanishedMovement(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()
	seedMovement(t, repo, "mov-1")

	if err := w.HandleSyncMessage(ctx, amqp.NewMovementSyncMessage("mov-1", 1)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if err := repo.SoftDelete(ctx, "mov-1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// A stale sync for a deleted movement removes it from the export.
	if err := w.HandleSyncMessage(ctx, amqp.NewMovementSyncMessage("mov-1", 2)); err != nil {
		t.Fatalf("HandleSyncMessage after delete: %v", err)
	}
	if len(store.All()) != 0 {
		t.Error("expected export cleared for vanished movement")
	}
}

func TestHandleDeleteMessage(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()
	seedMovement(t, repo, "mov-1")

	if err := w.HandleSyncMessage(ctx, amqp.NewMovementSyncMessage("mov-1", 1)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if err := w.HandleSyncMessage(ctx, amqp.NewMovementDeleteMessage("mov-1", 2)); err != nil {
		t.Fatalf("HandleSyncMessage delete: %v", err)
	}

	if len(store.All()) != 0 {
		t.Error("expected movement removed from export")
	}
}

func TestSyncPendingSweep(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()
	seedMovement(t, repo, "a")
	seedMovement(t, repo, "b")

	if err := w.SyncPending(ctx); err != nil {
		t.Fatalf("SyncPending: %v", err)
	}
	if len(store.All()) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(store.All()))
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending after sweep, got %d", len(pending))
	}

	// A second sweep is a no-op.
	if err := w.SyncPending(ctx); err != nil {
		t.Fatalf("SyncPending second pass: %v", err)
	}
	if len(store.All()) != 2 {
		t.Errorf("sweep should be idempotent, got %d", len(store.All()))
	}
}

func TestStartupSyncCheck(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		seedMovement(t, repo, id)
	}

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if len(store.All()) != 3 {
		t.Errorf("expected 3 exported on startup, got %d", len(store.All()))
	}
}
