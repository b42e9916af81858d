package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
)

// MemoryStore in-process store used when the DB is disabled and in tests.
// It implements both EventsRepository and IdentityRepository; the natural-key
// upsert is atomic under mu.
type MemoryStore struct {
	mu sync.RWMutex

	nextID int64
	now    func() time.Time

	events       map[domain.EventKey]*domain.Event
	workers      map[string]domain.Worker      // worker_id -> row
	workstations map[string]domain.Workstation // station_id -> row
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:          time.Now,
		events:       map[domain.EventKey]*domain.Event{},
		workers:      map[string]domain.Worker{},
		workstations: map[string]domain.Workstation{},
	}
}

var (
	_ EventsRepository   = (*MemoryStore)(nil)
	_ IdentityRepository = (*MemoryStore)(nil)
)

func (m *MemoryStore) UpsertEvent(_ context.Context, e *domain.Event) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := e.Key()
	if existing, ok := m.events[key]; ok {
		existing.Confidence = e.Confidence
		existing.Count = e.Count
		out := *existing
		return &out, nil
	}

	m.nextID++
	stored := *e
	stored.ID = m.nextID
	stored.Timestamp = key.Timestamp
	stored.CreatedAt = m.now().UTC()
	m.events[key] = &stored

	out := stored
	return &out, nil
}

func (m *MemoryStore) ListEvents(_ context.Context, filter EventFilter) ([]domain.EventRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []domain.EventRecord{}
	for _, e := range m.events {
		if filter.WorkerID != "" && e.WorkerID != filter.WorkerID {
			continue
		}
		if filter.WorkstationID != "" && e.WorkstationID != filter.WorkstationID {
			continue
		}
		if filter.EventType != "" && string(e.EventType) != filter.EventType {
			continue
		}

		rec := domain.EventRecord{Event: *e}
		if w, ok := m.workers[e.WorkerID]; ok {
			name := w.Name
			rec.WorkerName = &name
		}
		if ws, ok := m.workstations[e.WorkstationID]; ok {
			name := ws.Name
			rec.WorkstationName = &name
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].ID > records[j].ID
	})

	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

func (m *MemoryStore) DeleteAllEvents(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.events))
	m.events = map[domain.EventKey]*domain.Event{}
	return n, nil
}

// LoadSnapshot copies every table under one read lock
func (m *MemoryStore) LoadSnapshot(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &Snapshot{
		Events:       make([]domain.Event, 0, len(m.events)),
		Workers:      m.sortedWorkers(),
		Workstations: m.sortedWorkstations(),
	}
	for _, e := range m.events {
		snap.Events = append(snap.Events, *e)
	}
	sort.Slice(snap.Events, func(i, j int) bool {
		if !snap.Events[i].Timestamp.Equal(snap.Events[j].Timestamp) {
			return snap.Events[i].Timestamp.Before(snap.Events[j].Timestamp)
		}
		return snap.Events[i].ID < snap.Events[j].ID
	})
	return snap, nil
}

func (m *MemoryStore) ListWorkers(_ context.Context) ([]domain.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedWorkers(), nil
}

func (m *MemoryStore) ListWorkstations(_ context.Context) ([]domain.Workstation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedWorkstations(), nil
}

func (m *MemoryStore) GetWorker(_ context.Context, workerID string) (*domain.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[workerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (m *MemoryStore) GetWorkstation(_ context.Context, stationID string) (*domain.Workstation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ws, ok := m.workstations[stationID]
	if !ok {
		return nil, ErrNotFound
	}
	return &ws, nil
}

func (m *MemoryStore) EnsureWorker(_ context.Context, w *domain.Worker) (*domain.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.workers[w.WorkerID]; ok {
		return &existing, nil
	}
	m.nextID++
	stored := domain.Worker{
		ID:        m.nextID,
		WorkerID:  w.WorkerID,
		Name:      w.Name,
		CreatedAt: m.now().UTC(),
	}
	m.workers[w.WorkerID] = stored
	return &stored, nil
}

func (m *MemoryStore) EnsureWorkstation(_ context.Context, ws *domain.Workstation) (*domain.Workstation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.workstations[ws.StationID]; ok {
		return &existing, nil
	}
	m.nextID++
	stored := domain.Workstation{
		ID:        m.nextID,
		StationID: ws.StationID,
		Name:      ws.Name,
		Type:      ws.Type,
		CreatedAt: m.now().UTC(),
	}
	m.workstations[ws.StationID] = stored
	return &stored, nil
}

// sortedWorkers callers must hold mu
func (m *MemoryStore) sortedWorkers() []domain.Worker {
	out := make([]domain.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkerID < out[j].WorkerID })
	return out
}

// sortedWorkstations callers must hold mu
func (m *MemoryStore) sortedWorkstations() []domain.Workstation {
	out := make([]domain.Workstation, 0, len(m.workstations))
	for _, ws := range m.workstations {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	return out
}
