package consumer

import (
	"context"
	"testing"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMQTTIngestHandler(t *testing.T) {
	store := repository.NewMemoryStore()
	handler := NewMQTTIngestHandler(newEventService(store), zap.NewNop())

	valid := []byte(`{"timestamp":"2024-01-15T08:00:00Z","worker_id":"W2","workstation_id":"S2","event_type":"absent","confidence":0.99}`)
	require.NoError(t, handler("factory/events", valid))

	// malformed and rejected payloads are dropped without error
	assert.NoError(t, handler("factory/events", []byte("garbage")))
	assert.NoError(t, handler("factory/events", []byte(`{"worker_id":"W2"}`)))

	snap, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "W2", snap.Events[0].WorkerID)
}

func TestMQTTIngestHandler_StorageFailureReturned(t *testing.T) {
	handler := NewMQTTIngestHandler(failingIngester{}, zap.NewNop())
	err := handler("factory/events", []byte(`{}`))
	assert.Error(t, err)
}
