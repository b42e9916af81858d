package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeed_ReplacesEventsAndRegistersRoster(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	// a stale event from a previous day must be cleared
	_, err := store.UpsertEvent(ctx, &domain.Event{
		Timestamp:     time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC),
		WorkerID:      "OLD",
		WorkstationID: "OLD",
		EventType:     domain.EventTypeIdle,
		Confidence:    0.5,
	})
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	gen := seed.NewGenerator(rand.New(rand.NewSource(3)), clock)
	svc := NewSeedService(store, store, gen, zap.NewNop())

	res, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 192, res.EventsCount)
	assert.Equal(t, "Generated 192 events for 6 workers", res.Message)

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Events, 192)
	assert.Len(t, snap.Workers, 6)
	assert.Len(t, snap.Workstations, 6)
	for _, e := range snap.Events {
		assert.NotEqual(t, "OLD", e.WorkerID)
	}

	// reseeding is repeatable and keeps identities stable
	res, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 192, res.EventsCount)
	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 6)
}
