package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/export"
	"caixa/internal/log"
	"caixa/internal/storage"
)

// ExportWorker mirrors movements from SQLite to the export target.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	exporter  export.MovementExporter
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, exporter export.MovementExporter, batchSize int) *ExportWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &ExportWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single movement sync message from AMQP.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.MovementSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		log.FieldMovementID, msg.ID,
		"version", msg.Version,
		"deleted", msg.Deleted)

	if msg.Deleted {
		return w.handleDelete(ctx, msg.ID)
	}

	movement, err := w.storage.GetMovement(ctx, msg.ID)
	if errors.Is(err, storage.ErrMovementNotFound) {
		// Deleted after the message was queued.
		slog.WarnContext(ctx, "Movement vanished before sync, removing from export",
			log.FieldMovementID, msg.ID)
		return w.handleDelete(ctx, msg.ID)
	}
	if err != nil {
		return fmt.Errorf("get movement from storage: %w", err)
	}

	return w.exportMovement(ctx, movement.ID, movement)
}

func (w *ExportWorker) handleDelete(ctx context.Context, id string) error {
	if w.exporter == nil {
		slog.WarnContext(ctx, "No exporter configured, skipping removal", log.FieldMovementID, id)
		return nil
	}
	if err := w.exporter.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove movement from export: %w", err)
	}
	return nil
}

// SyncPending sweeps movements that never got synced. This is the backup
// path for lost AMQP messages and worker downtime.
func (w *ExportWorker) SyncPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending movements: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending movements", log.FieldCount, len(pending))

	for _, m := range pending {
		if err := w.exportMovement(ctx, m.ID, m); err != nil {
			slog.ErrorContext(ctx, "Failed to sync movement", log.FieldMovementID, m.ID, log.FieldError, err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch once at worker startup.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending movements for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending movements found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending movements on startup, processing...",
		log.FieldCount, len(pending))

	synced := 0
	failed := 0
	for _, m := range pending {
		if err := w.exportMovement(ctx, m.ID, m); err != nil {
			slog.ErrorContext(ctx, "Failed to sync movement during startup",
				log.FieldMovementID, m.ID, log.FieldError, err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *ExportWorker) exportMovement(ctx context.Context, id string, m core.Movement) error {
	if w.exporter == nil {
		return errors.New("no exporter configured")
	}

	ref, err := w.exporter.Append(ctx, m)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", log.FieldMovementID, id, log.FieldError, markErr)
		}
		return fmt.Errorf("append to export: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The export itself worked, so do not fail the message.
		slog.ErrorContext(ctx, "Failed to mark as synced", log.FieldMovementID, id, log.FieldError, err)
	}

	slog.InfoContext(ctx, "Successfully synced movement",
		log.FieldMovementID, id,
		"export_ref", ref,
		log.FieldDescription, m.Description,
		log.FieldAmountCents, m.Amount.Cents)
	return nil
}
