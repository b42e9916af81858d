package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func newEvent(offset int, worker, station string, et domain.EventType, conf float64, count int) *domain.Event {
	return &domain.Event{
		Timestamp:     baseTime.Add(time.Duration(offset) * 15 * time.Minute),
		WorkerID:      worker,
		WorkstationID: station,
		EventType:     et,
		Confidence:    conf,
		Count:         count,
	}
}

func TestMemoryStore_UpsertDedupLastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.UpsertEvent(ctx, newEvent(0, "W1", "S1", domain.EventTypeProductCount, 0.9, 5))
	require.NoError(t, err)

	second, err := store.UpsertEvent(ctx, newEvent(0, "W1", "S1", domain.EventTypeProductCount, 0.7, 8))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 0.7, second.Confidence)
	assert.Equal(t, 8, second.Count)

	records, err := store.ListEvents(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.7, records[0].Confidence)
	assert.Equal(t, 8, records[0].Count)
}

func TestMemoryStore_DifferentEventTypeIsSeparateRow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.UpsertEvent(ctx, newEvent(0, "W1", "S1", domain.EventTypeWorking, 0.9, 0))
	require.NoError(t, err)
	_, err = store.UpsertEvent(ctx, newEvent(0, "W1", "S1", domain.EventTypeIdle, 0.9, 0))
	require.NoError(t, err)

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Events, 2)
}

func TestMemoryStore_ConcurrentUpsertsSameKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.UpsertEvent(ctx, newEvent(0, "W1", "S1", domain.EventTypeProductCount, 0.5, i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Events, 1)
}

func TestMemoryStore_ListOrderingAndLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, offset := range []int{1, 0, 2} {
		_, err := store.UpsertEvent(ctx, newEvent(offset, "W1", "S1", domain.EventTypeWorking, 0.9, 0))
		require.NoError(t, err)
	}

	records, err := store.ListEvents(ctx, EventFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Timestamp.Equal(baseTime.Add(30*time.Minute)))
	assert.True(t, records[1].Timestamp.Equal(baseTime.Add(15*time.Minute)))
}

func TestMemoryStore_ListFiltersAndLeftJoin(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.EnsureWorker(ctx, &domain.Worker{WorkerID: "W1", Name: "Alice"})
	require.NoError(t, err)
	_, err = store.EnsureWorkstation(ctx, &domain.Workstation{StationID: "S1", Name: "Line 1", Type: "assembly"})
	require.NoError(t, err)

	events := []*domain.Event{
		newEvent(0, "W1", "S1", domain.EventTypeWorking, 0.9, 0),
		newEvent(1, "W1", "S1", domain.EventTypeIdle, 0.9, 0),
		newEvent(2, "W9", "S1", domain.EventTypeWorking, 0.9, 0),
		newEvent(3, "W1", "S9", domain.EventTypeWorking, 0.9, 0),
	}
	for _, e := range events {
		_, err := store.UpsertEvent(ctx, e)
		require.NoError(t, err)
	}

	byWorker, err := store.ListEvents(ctx, EventFilter{WorkerID: "W1"})
	require.NoError(t, err)
	assert.Len(t, byWorker, 3)

	byBoth, err := store.ListEvents(ctx, EventFilter{WorkerID: "W1", WorkstationID: "S1", EventType: "working"})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	require.NotNil(t, byBoth[0].WorkerName)
	assert.Equal(t, "Alice", *byBoth[0].WorkerName)
	require.NotNil(t, byBoth[0].WorkstationName)
	assert.Equal(t, "Line 1", *byBoth[0].WorkstationName)

	orphanWorker, err := store.ListEvents(ctx, EventFilter{WorkerID: "W9"})
	require.NoError(t, err)
	require.Len(t, orphanWorker, 1)
	assert.Nil(t, orphanWorker[0].WorkerName)
	require.NotNil(t, orphanWorker[0].WorkstationName)

	orphanStation, err := store.ListEvents(ctx, EventFilter{WorkstationID: "S9"})
	require.NoError(t, err)
	require.Len(t, orphanStation, 1)
	assert.Nil(t, orphanStation[0].WorkstationName)
}

func TestMemoryStore_EnsureIdentityIsImmutable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.EnsureWorker(ctx, &domain.Worker{WorkerID: "W1", Name: "Alice"})
	require.NoError(t, err)
	second, err := store.EnsureWorker(ctx, &domain.Worker{WorkerID: "W1", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice", second.Name)

	_, err = store.GetWorker(ctx, "W2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetWorkstation(ctx, "S2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteAllKeepsIdentities(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.EnsureWorker(ctx, &domain.Worker{WorkerID: "W1", Name: "Alice"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := store.UpsertEvent(ctx, newEvent(i, "W1", "S1", domain.EventTypeWorking, 0.9, 0))
		require.NoError(t, err)
	}

	n, err := store.DeleteAllEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Events)
	assert.Len(t, snap.Workers, 1)
}

func TestMemoryStore_SnapshotSortedByIdentity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"W3", "W1", "W2"} {
		_, err := store.EnsureWorker(ctx, &domain.Worker{WorkerID: id, Name: fmt.Sprintf("Worker %s", id)})
		require.NoError(t, err)
	}

	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 3)
	assert.Equal(t, "W1", workers[0].WorkerID)
	assert.Equal(t, "W3", workers[2].WorkerID)
}
