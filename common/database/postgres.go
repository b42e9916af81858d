package database

import (
	"database/sql"
	"fmt"

	"github.com/Anshuman122/worker-productivity-dashboard-final/common/config"

	_ "github.com/lib/pq"
)

// NewPostgresDB opens a Postgres pool and verifies it with a ping
func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes db if it is not nil
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
