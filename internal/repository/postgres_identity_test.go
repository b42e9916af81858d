package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresIdentity_ListWorkers(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresIdentityRepository(db)

	ts := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, worker_id, name, created_at FROM workers ORDER BY worker_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_id", "name", "created_at"}).
			AddRow(int64(1), "W1", "Alice", ts))

	workers, err := repo.ListWorkers(context.Background())
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "Alice", workers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIdentity_GetWorker_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresIdentityRepository(db)

	mock.ExpectQuery(`FROM workers WHERE worker_id = \$1`).
		WithArgs("W404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_id", "name", "created_at"}))

	_, err := repo.GetWorker(context.Background(), "W404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIdentity_GetWorkstation(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresIdentityRepository(db)

	ts := time.Now().UTC()
	mock.ExpectQuery(`FROM workstations WHERE station_id = \$1`).
		WithArgs("S1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "station_id", "name", "type", "created_at"}).
			AddRow(int64(3), "S1", "Line 1", "welding", ts))

	ws, err := repo.GetWorkstation(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "welding", ws.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIdentity_EnsureWorker(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresIdentityRepository(db)

	ts := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO workers .*ON CONFLICT \(worker_id\)`).
		WithArgs("W1", "New Name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_id", "name", "created_at"}).
			AddRow(int64(1), "W1", "Original Name", ts))

	w, err := repo.EnsureWorker(context.Background(), &domain.Worker{WorkerID: "W1", Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "Original Name", w.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIdentity_EnsureWorkstation(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresIdentityRepository(db)

	ts := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO workstations .*ON CONFLICT \(station_id\)`).
		WithArgs("S2", "Packer", "packaging").
		WillReturnRows(sqlmock.NewRows([]string{"id", "station_id", "name", "type", "created_at"}).
			AddRow(int64(2), "S2", "Packer", "packaging", ts))

	ws, err := repo.EnsureWorkstation(context.Background(), &domain.Workstation{StationID: "S2", Name: "Packer", Type: "packaging"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ws.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
