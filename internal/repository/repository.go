package repository

import (
	"context"
	"errors"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
)

// ErrNotFound returned by single-row lookups when no row matches
var ErrNotFound = errors.New("not found")

// EventFilter read-side filter for ListEvents; empty fields mean "no constraint"
type EventFilter struct {
	WorkerID      string
	WorkstationID string
	EventType     string
	Limit         int // <= 0 means unlimited
}

// Snapshot everything the aggregation engine reads, taken from a single consistent read where the store allows it
type Snapshot struct {
	Events       []domain.Event
	Workers      []domain.Worker
	Workstations []domain.Workstation
}

// EventsRepository events table.
// UpsertEvent must be a single atomic insert-or-update keyed on the natural key;
// on conflict only confidence and count are overwritten.
type EventsRepository interface {
	UpsertEvent(ctx context.Context, e *domain.Event) (*domain.Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]domain.EventRecord, error)
	DeleteAllEvents(ctx context.Context) (int64, error)
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// IdentityRepository workers and workstations tables (rows are immutable once created)
type IdentityRepository interface {
	ListWorkers(ctx context.Context) ([]domain.Worker, error)
	ListWorkstations(ctx context.Context) ([]domain.Workstation, error)
	GetWorker(ctx context.Context, workerID string) (*domain.Worker, error)
	GetWorkstation(ctx context.Context, stationID string) (*domain.Workstation, error)
	// EnsureWorker inserts w when worker_id is new and returns the stored row either way
	EnsureWorker(ctx context.Context, w *domain.Worker) (*domain.Worker, error)
	EnsureWorkstation(ctx context.Context, ws *domain.Workstation) (*domain.Workstation, error)
}
