package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
)

// PostgresIdentityRepository workers / workstations tables on Postgres
type PostgresIdentityRepository struct {
	db *sql.DB
}

// NewPostgresIdentityRepository creates the Postgres identity repository
func NewPostgresIdentityRepository(db *sql.DB) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{db: db}
}

var _ IdentityRepository = (*PostgresIdentityRepository)(nil)

func (r *PostgresIdentityRepository) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	return queryWorkers(ctx, r.db)
}

func (r *PostgresIdentityRepository) ListWorkstations(ctx context.Context) ([]domain.Workstation, error) {
	return queryWorkstations(ctx, r.db)
}

func (r *PostgresIdentityRepository) GetWorker(ctx context.Context, workerID string) (*domain.Worker, error) {
	var w domain.Worker
	err := r.db.QueryRowContext(ctx,
		`SELECT id, worker_id, name, created_at FROM workers WHERE worker_id = $1`,
		workerID,
	).Scan(&w.ID, &w.WorkerID, &w.Name, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query worker: %w", err)
	}
	return &w, nil
}

func (r *PostgresIdentityRepository) GetWorkstation(ctx context.Context, stationID string) (*domain.Workstation, error) {
	var ws domain.Workstation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, station_id, name, type, created_at FROM workstations WHERE station_id = $1`,
		stationID,
	).Scan(&ws.ID, &ws.StationID, &ws.Name, &ws.Type, &ws.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query workstation: %w", err)
	}
	return &ws, nil
}

// EnsureWorker the no-op DO UPDATE makes RETURNING yield the existing row on conflict; name is left untouched
func (r *PostgresIdentityRepository) EnsureWorker(ctx context.Context, w *domain.Worker) (*domain.Worker, error) {
	var out domain.Worker
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO workers (worker_id, name)
		VALUES ($1, $2)
		ON CONFLICT (worker_id)
		DO UPDATE SET worker_id = EXCLUDED.worker_id
		RETURNING id, worker_id, name, created_at
	`, w.WorkerID, w.Name).Scan(&out.ID, &out.WorkerID, &out.Name, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure worker: %w", err)
	}
	return &out, nil
}

func (r *PostgresIdentityRepository) EnsureWorkstation(ctx context.Context, ws *domain.Workstation) (*domain.Workstation, error) {
	var out domain.Workstation
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO workstations (station_id, name, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (station_id)
		DO UPDATE SET station_id = EXCLUDED.station_id
		RETURNING id, station_id, name, type, created_at
	`, ws.StationID, ws.Name, ws.Type).Scan(&out.ID, &out.StationID, &out.Name, &out.Type, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure workstation: %w", err)
	}
	return &out, nil
}

func queryWorkers(ctx context.Context, q queryer) ([]domain.Worker, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, worker_id, name, created_at FROM workers ORDER BY worker_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	workers := []domain.Worker{}
	for rows.Next() {
		var w domain.Worker
		if err := rows.Scan(&w.ID, &w.WorkerID, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workers: %w", err)
	}
	return workers, nil
}

func queryWorkstations(ctx context.Context, q queryer) ([]domain.Workstation, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, station_id, name, type, created_at FROM workstations ORDER BY station_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workstations: %w", err)
	}
	defer rows.Close()

	stations := []domain.Workstation{}
	for rows.Next() {
		var ws domain.Workstation
		if err := rows.Scan(&ws.ID, &ws.StationID, &ws.Name, &ws.Type, &ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workstation: %w", err)
		}
		stations = append(stations, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workstations: %w", err)
	}
	return stations, nil
}
