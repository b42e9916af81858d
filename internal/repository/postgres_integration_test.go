//go:build integration
// +build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	commoncfg "github.com/Anshuman122/worker-productivity-dashboard-final/common/config"
	"github.com/Anshuman122/worker-productivity-dashboard-final/common/database"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestDB connects with DB_* env vars and applies the schema; skips when Postgres is unreachable
func getTestDB(t *testing.T) *sql.DB {
	cfg := &commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "workfloor_test",
		SSLMode:  "disable",
	}
	cfg.LoadFromEnv("DB")

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("Skipping integration test: database not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(t, err)
	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	_, err = db.Exec(`TRUNCATE events, workers, workstations RESTART IDENTITY`)
	require.NoError(t, err)
	return db
}

func TestPostgresIntegration_UpsertAndSnapshot(t *testing.T) {
	db := getTestDB(t)
	events := NewPostgresEventsRepository(db)
	identities := NewPostgresIdentityRepository(db)
	ctx := context.Background()

	_, err := identities.EnsureWorker(ctx, &domain.Worker{WorkerID: "W1", Name: "Alice"})
	require.NoError(t, err)
	_, err = identities.EnsureWorker(ctx, &domain.Worker{WorkerID: "W2", Name: "Bob"})
	require.NoError(t, err)

	ts := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	ev := &domain.Event{Timestamp: ts, WorkerID: "W1", WorkstationID: "S1", EventType: domain.EventTypeProductCount, Confidence: 0.9, Count: 3}

	first, err := events.UpsertEvent(ctx, ev)
	require.NoError(t, err)

	ev.Confidence = 0.6
	ev.Count = 7
	second, err := events.UpsertEvent(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 7, second.Count)

	records, err := events.ListEvents(ctx, EventFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].WorkerName)
	assert.Equal(t, "Alice", *records[0].WorkerName)
	assert.Nil(t, records[0].WorkstationName)

	snap, err := events.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Events, 1)
	assert.Len(t, snap.Workers, 2)
	assert.Empty(t, snap.Workstations)

	n, err := events.DeleteAllEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
