package storage

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB / *sql.Tx the queries need.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries bundles the raw SQL statements over the movements table.
type Queries struct {
	db DBTX
}

// MovementRow is the database shape of a movement record.
type MovementRow struct {
	ID           string
	Description  string
	AmountCents  int64
	Year         int64
	Month        int64
	Day          int64
	DueYear      int64
	DueMonth     int64
	DueDay       int64
	Paid         int64
	Category     string
	Kind         string
	Installments int64
	IntervalDays int64
	Version      int64
	SyncStatus   string
	CreatedAt    string
}

const movementColumns = `id, description, amount_cents, year, month, day,
	due_year, due_month, due_day, paid, category, kind,
	installments, interval_days, version, sync_status, created_at`

func scanMovement(s interface{ Scan(...any) error }) (MovementRow, error) {
	var m MovementRow
	err := s.Scan(
		&m.ID, &m.Description, &m.AmountCents, &m.Year, &m.Month, &m.Day,
		&m.DueYear, &m.DueMonth, &m.DueDay, &m.Paid, &m.Category, &m.Kind,
		&m.Installments, &m.IntervalDays, &m.Version, &m.SyncStatus, &m.CreatedAt,
	)
	return m, err
}

type CreateMovementParams struct {
	ID           string
	Description  string
	AmountCents  int64
	Year         int64
	Month        int64
	Day          int64
	DueYear      int64
	DueMonth     int64
	DueDay       int64
	Paid         int64
	Category     string
	Kind         string
	Installments int64
	IntervalDays int64
}

const createMovement = `INSERT INTO movements (
	id, description, amount_cents, year, month, day,
	due_year, due_month, due_day, paid, category, kind,
	installments, interval_days
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + movementColumns

func (q *Queries) CreateMovement(ctx context.Context, p CreateMovementParams) (MovementRow, error) {
	row := q.db.QueryRowContext(ctx, createMovement,
		p.ID, p.Description, p.AmountCents, p.Year, p.Month, p.Day,
		p.DueYear, p.DueMonth, p.DueDay, p.Paid, p.Category, p.Kind,
		p.Installments, p.IntervalDays,
	)
	return scanMovement(row)
}

const getMovement = `SELECT ` + movementColumns + `
FROM movements WHERE id = ? AND deleted = 0`

func (q *Queries) GetMovement(ctx context.Context, id string) (MovementRow, error) {
	return scanMovement(q.db.QueryRowContext(ctx, getMovement, id))
}

const listMovements = `SELECT ` + movementColumns + `
FROM movements WHERE deleted = 0
ORDER BY year, month, day, created_at`

func (q *Queries) ListMovements(ctx context.Context) ([]MovementRow, error) {
	rows, err := q.db.QueryContext(ctx, listMovements)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovements(rows)
}

const listMovementsByMonth = `SELECT ` + movementColumns + `
FROM movements WHERE deleted = 0 AND year = ? AND month = ?
ORDER BY day, created_at`

func (q *Queries) ListMovementsByMonth(ctx context.Context, year, month int64) ([]MovementRow, error) {
	rows, err := q.db.QueryContext(ctx, listMovementsByMonth, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovements(rows)
}

const setMovementPaid = `UPDATE movements
SET paid = ?, version = version + 1, sync_status = 'pending'
WHERE id = ? AND deleted = 0
RETURNING ` + movementColumns

func (q *Queries) SetMovementPaid(ctx context.Context, id string, paid int64) (MovementRow, error) {
	return scanMovement(q.db.QueryRowContext(ctx, setMovementPaid, paid, id))
}

const softDeleteMovement = `UPDATE movements
SET deleted = 1, version = version + 1
WHERE id = ? AND deleted = 0`

func (q *Queries) SoftDeleteMovement(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, softDeleteMovement, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const getPendingSyncMovements = `SELECT ` + movementColumns + `
FROM movements WHERE deleted = 0 AND sync_status = 'pending'
ORDER BY created_at
LIMIT ?`

func (q *Queries) GetPendingSyncMovements(ctx context.Context, limit int64) ([]MovementRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncMovements, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovements(rows)
}

const markMovementSynced = `UPDATE movements SET sync_status = 'synced' WHERE id = ?`

func (q *Queries) MarkMovementSynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markMovementSynced, id)
	return err
}

const markMovementSyncError = `UPDATE movements SET sync_status = 'error' WHERE id = ?`

func (q *Queries) MarkMovementSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markMovementSyncError, id)
	return err
}

func collectMovements(rows *sql.Rows) ([]MovementRow, error) {
	var out []MovementRow
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
