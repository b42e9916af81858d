package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
)

// PostgresEventsRepository events table on Postgres
type PostgresEventsRepository struct {
	db *sql.DB
}

// NewPostgresEventsRepository creates the Postgres events repository
func NewPostgresEventsRepository(db *sql.DB) *PostgresEventsRepository {
	return &PostgresEventsRepository{db: db}
}

var _ EventsRepository = (*PostgresEventsRepository)(nil)

// UpsertEvent relies on the events_natural_key unique constraint; a concurrent writer for the
// same key resolves inside Postgres, never in application code.
func (r *PostgresEventsRepository) UpsertEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	query := `
		INSERT INTO events (timestamp, worker_id, workstation_id, event_type, confidence, count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (timestamp, worker_id, workstation_id, event_type)
		DO UPDATE SET confidence = EXCLUDED.confidence, count = EXCLUDED.count
		RETURNING id, timestamp, worker_id, workstation_id, event_type, confidence, count, created_at
	`

	row := r.db.QueryRowContext(ctx, query,
		e.Timestamp.UTC(),
		e.WorkerID,
		e.WorkstationID,
		string(e.EventType),
		e.Confidence,
		e.Count,
	)

	out, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert event: %w", err)
	}
	return out, nil
}

// buildWhereClause builds the WHERE body and appends its args
func (r *PostgresEventsRepository) buildWhereClause(filter EventFilter, args *[]interface{}) string {
	var where []string
	if filter.WorkerID != "" {
		*args = append(*args, filter.WorkerID)
		where = append(where, fmt.Sprintf("e.worker_id = $%d", len(*args)))
	}
	if filter.WorkstationID != "" {
		*args = append(*args, filter.WorkstationID)
		where = append(where, fmt.Sprintf("e.workstation_id = $%d", len(*args)))
	}
	if filter.EventType != "" {
		*args = append(*args, filter.EventType)
		where = append(where, fmt.Sprintf("e.event_type = $%d", len(*args)))
	}
	return strings.Join(where, " AND ")
}

// ListEvents most recent first, joined with worker/workstation names
func (r *PostgresEventsRepository) ListEvents(ctx context.Context, filter EventFilter) ([]domain.EventRecord, error) {
	query := `
		SELECT
			e.id,
			e.timestamp,
			e.worker_id,
			e.workstation_id,
			e.event_type,
			e.confidence,
			e.count,
			e.created_at,
			w.name,
			ws.name
		FROM events e
		LEFT JOIN workers w ON e.worker_id = w.worker_id
		LEFT JOIN workstations ws ON e.workstation_id = ws.station_id
	`

	args := []interface{}{}
	if where := r.buildWhereClause(filter, &args); where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY e.timestamp DESC, e.id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	records := []domain.EventRecord{}
	for rows.Next() {
		var rec domain.EventRecord
		var eventType string
		var workerName, workstationName sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Timestamp,
			&rec.WorkerID,
			&rec.WorkstationID,
			&eventType,
			&rec.Confidence,
			&rec.Count,
			&rec.CreatedAt,
			&workerName,
			&workstationName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		rec.EventType = domain.EventType(eventType)
		rec.Timestamp = rec.Timestamp.UTC()
		if workerName.Valid {
			rec.WorkerName = &workerName.String
		}
		if workstationName.Valid {
			rec.WorkstationName = &workstationName.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return records, nil
}

// DeleteAllEvents unconditional bulk clear
func (r *PostgresEventsRepository) DeleteAllEvents(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted count: %w", err)
	}
	return n, nil
}

// LoadSnapshot reads events and both identity tables inside one read-only REPEATABLE READ transaction
func (r *PostgresEventsRepository) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := &Snapshot{}

	snap.Events, err = queryAllEvents(ctx, tx)
	if err != nil {
		return nil, err
	}
	snap.Workers, err = queryWorkers(ctx, tx)
	if err != nil {
		return nil, err
	}
	snap.Workstations, err = queryWorkstations(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snap, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryAllEvents(ctx context.Context, q queryer) ([]domain.Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, timestamp, worker_id, workstation_id, event_type, confidence, count, created_at
		FROM events
		ORDER BY timestamp, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	var e domain.Event
	var eventType string
	if err := s.Scan(
		&e.ID,
		&e.Timestamp,
		&e.WorkerID,
		&e.WorkstationID,
		&eventType,
		&e.Confidence,
		&e.Count,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.EventType = domain.EventType(eventType)
	e.Timestamp = e.Timestamp.UTC()
	return &e, nil
}
