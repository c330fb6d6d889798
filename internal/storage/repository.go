package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"caixa/internal/core"
	"caixa/internal/ledger"
)

var ErrMovementNotFound = errors.New("movement not found")

// SQLiteRepository persists movements in a local SQLite database.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Append(ctx context.Context, m core.Movement) (core.Movement, error) {
	if err := m.Validate(); err != nil {
		return core.Movement{}, err
	}

	p := CreateMovementParams{
		ID:           m.ID,
		Description:  m.Description,
		AmountCents:  m.Amount.Cents,
		Year:         int64(m.Date.Year()),
		Month:        int64(m.Date.Month()),
		Day:          int64(m.Date.Day()),
		Category:     m.Category,
		Kind:         string(m.Type),
		Installments: int64(m.Installments),
		IntervalDays: int64(m.IntervalDays),
	}
	if m.Paid {
		p.Paid = 1
	}
	if !m.DueDate.IsEmpty() {
		p.DueYear = int64(m.DueDate.Year())
		p.DueMonth = int64(m.DueDate.Month())
		p.DueDay = int64(m.DueDate.Day())
	}

	row, err := r.queries.CreateMovement(ctx, p)
	if err != nil {
		return core.Movement{}, fmt.Errorf("inserting movement: %w", err)
	}
	return rowToMovement(row), nil
}

func (r *SQLiteRepository) GetMovement(ctx context.Context, id string) (core.Movement, error) {
	row, err := r.queries.GetMovement(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Movement{}, ErrMovementNotFound
	}
	if err != nil {
		return core.Movement{}, fmt.Errorf("fetching movement: %w", err)
	}
	return rowToMovement(row), nil
}

// Load reads every live movement into an immutable ledger snapshot.
func (r *SQLiteRepository) Load(ctx context.Context) (*ledger.Ledger, error) {
	rows, err := r.queries.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	movements := make([]core.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, rowToMovement(row))
	}
	return ledger.New(movements), nil
}

func (r *SQLiteRepository) LoadMonth(ctx context.Context, year, month int) (*ledger.Ledger, error) {
	rows, err := r.queries.ListMovementsByMonth(ctx, int64(year), int64(month))
	if err != nil {
		return nil, fmt.Errorf("listing movements by month: %w", err)
	}
	movements := make([]core.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, rowToMovement(row))
	}
	return ledger.New(movements), nil
}

// TogglePaid flips the paid flag and returns the updated movement.
func (r *SQLiteRepository) TogglePaid(ctx context.Context, id string) (core.Movement, error) {
	current, err := r.queries.GetMovement(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Movement{}, ErrMovementNotFound
	}
	if err != nil {
		return core.Movement{}, fmt.Errorf("fetching movement: %w", err)
	}

	var next int64
	if current.Paid == 0 {
		next = 1
	}
	row, err := r.queries.SetMovementPaid(ctx, id, next)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Movement{}, ErrMovementNotFound
	}
	if err != nil {
		return core.Movement{}, fmt.Errorf("updating movement: %w", err)
	}
	return rowToMovement(row), nil
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string) error {
	err := r.queries.SoftDeleteMovement(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMovementNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting movement: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]core.Movement, error) {
	rows, err := r.queries.GetPendingSyncMovements(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing pending movements: %w", err)
	}
	movements := make([]core.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, rowToMovement(row))
	}
	return movements, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.queries.MarkMovementSynced(ctx, id)
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	return r.queries.MarkMovementSyncError(ctx, id)
}

func rowToMovement(row MovementRow) core.Movement {
	m := core.Movement{
		ID:           row.ID,
		Description:  row.Description,
		Amount:       core.Money{Cents: row.AmountCents},
		Date:         core.NewDate(int(row.Year), int(row.Month), int(row.Day)),
		Paid:         row.Paid != 0,
		Category:     row.Category,
		Type:         core.MovementType(row.Kind),
		Installments: int(row.Installments),
		IntervalDays: int(row.IntervalDays),
	}
	if row.DueYear != 0 {
		m.DueDate = core.NewDate(int(row.DueYear), int(row.DueMonth), int(row.DueDay))
	}
	return m
}
