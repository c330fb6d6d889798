package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"caixa/internal/amqp"
	"caixa/internal/calendar"
	"caixa/internal/core"
	"caixa/internal/installment"
	"caixa/internal/ledger"
	"caixa/internal/log"
	"caixa/internal/storage"
)

// MovementService orchestrates movement operations across SQLite and AMQP.
type MovementService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewMovementService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *MovementService {
	return &MovementService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateMovementInput is the request to record a movement. Installments
// above 1 split the amount into that many dated movements.
type CreateMovementInput struct {
	Description  string
	Amount       core.Money
	Date         core.Date
	DueDate      core.Date
	Paid         bool
	Category     string
	Type         core.MovementType
	Installments int
	IntervalDays int
}

// CreateMovement saves the movement locally and publishes sync messages.
// Publish failures never fail the request; the worker catches up later
// from the pending-sync queue.
func (s *MovementService) CreateMovement(ctx context.Context, in CreateMovementInput) ([]core.Movement, error) {
	if in.Date.IsEmpty() {
		in.Date = core.Today()
	}
	if calendar.IsClosedDay(in.Date) {
		slog.WarnContext(ctx, "Recording movement on a closed day",
			log.FieldDate, in.Date.String(),
			log.FieldDescription, in.Description)
	}

	movements, err := s.buildMovements(in)
	if err != nil {
		return nil, err
	}

	created := make([]core.Movement, 0, len(movements))
	for _, m := range movements {
		saved, err := s.storage.Append(ctx, m)
		if err != nil {
			return created, fmt.Errorf("save movement: %w", err)
		}
		created = append(created, saved)

		if err := s.publishSyncMessage(ctx, saved.ID, 1); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				log.FieldMovementID, saved.ID, log.FieldError, err)
		}
	}
	return created, nil
}

func (s *MovementService) buildMovements(in CreateMovementInput) ([]core.Movement, error) {
	if in.Installments > 1 {
		start := in.DueDate
		if start.IsEmpty() {
			start = in.Date
		}
		plan := installment.Plan{
			Description:  in.Description,
			Total:        in.Amount,
			Count:        in.Installments,
			IntervalDays: in.IntervalDays,
			Start:        start,
			Recorded:     in.Date,
			Category:     in.Category,
			Type:         in.Type,
		}
		return installment.BuildMovements(plan), nil
	}

	m := core.Movement{
		ID:           uuid.NewString(),
		Description:  in.Description,
		Amount:       in.Amount,
		Date:         in.Date,
		DueDate:      in.DueDate,
		Paid:         in.Paid,
		Category:     in.Category,
		Type:         in.Type,
		Installments: 1,
		IntervalDays: in.IntervalDays,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return []core.Movement{m}, nil
}

// TogglePaid flips the paid flag and queues a re-sync.
func (s *MovementService) TogglePaid(ctx context.Context, id string) (core.Movement, error) {
	updated, err := s.storage.TogglePaid(ctx, id)
	if err != nil {
		return core.Movement{}, fmt.Errorf("toggle paid: %w", err)
	}

	if err := s.publishSyncMessage(ctx, id, 2); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldMovementID, id, log.FieldError, err)
	}
	return updated, nil
}

// DeleteMovement soft deletes locally and publishes a delete message.
func (s *MovementService) DeleteMovement(ctx context.Context, id string) error {
	if err := s.storage.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("soft delete movement: %w", err)
	}

	if err := s.publishDeleteMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			log.FieldMovementID, id, log.FieldError, err)
	}
	return nil
}

func (s *MovementService) GetMovement(ctx context.Context, id string) (core.Movement, error) {
	return s.storage.GetMovement(ctx, id)
}

// LoadLedger reads the full live ledger snapshot.
func (s *MovementService) LoadLedger(ctx context.Context) (*ledger.Ledger, error) {
	return s.storage.Load(ctx)
}

func (s *MovementService) publishSyncMessage(ctx context.Context, id string, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishMovementSync(ctx, id, version)
}

func (s *MovementService) publishDeleteMessage(ctx context.Context, id string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}
	return s.amqpClient.PublishMovementDelete(ctx, id, 1)
}

// Close closes both storage and AMQP connections.
func (s *MovementService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close movement service: %v", errs)
	}
	return nil
}
