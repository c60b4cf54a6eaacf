package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB represents the dataset store connection with pooling
type DB struct {
	*sqlx.DB
	pool   *ConnectionPool
	driver string
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sqlx.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool applies pool limits to db
func NewConnectionPool(db *sqlx.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// ResolveDSN picks the driver for databaseURL. PostgreSQL URLs select lib/pq;
// anything else is treated as a SQLite path, defaulting to a file in dataDir.
func ResolveDSN(dataDir, databaseURL string) (driver, dsn string) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return "postgres", databaseURL
	case databaseURL == "":
		databaseURL = filepath.Join(dataDir, "deliveries.db")
	default:
		databaseURL = strings.TrimPrefix(databaseURL, "sqlite://")
	}
	return "sqlite3", databaseURL + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}

// NewDB opens the dataset store and runs migrations
func NewDB(ctx context.Context, dataDir, databaseURL string) (*DB, error) {
	driver, dsn := ResolveDSN(dataDir, databaseURL)

	if driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(strings.SplitN(dsn, "?", 2)[0]), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool := NewConnectionPool(db, 25, 5, 5*time.Minute)
	if driver == "sqlite3" {
		// SQLite allows a single writer
		pool = NewConnectionPool(db, 1, 1, 0)
	}

	database := &DB{DB: db, pool: pool, driver: driver}

	if err := database.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Dataset store initialized",
		"driver", driver,
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns)

	return database, nil
}

// migrate creates the necessary tables
func (db *DB) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS deliveries (
			order_id BIGINT PRIMARY KEY,
			distance_km DOUBLE PRECISION NOT NULL,
			weather TEXT NOT NULL,
			traffic_level TEXT NOT NULL,
			time_of_day TEXT NOT NULL,
			vehicle_type TEXT NOT NULL DEFAULT '',
			preparation_time_min DOUBLE PRECISION NOT NULL,
			courier_experience_yrs DOUBLE PRECISION NOT NULL,
			courier_experience_category TEXT NOT NULL DEFAULT '',
			delivery_time_min DOUBLE PRECISION NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS import_batches (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			rows_read INTEGER NOT NULL,
			rows_skipped INTEGER NOT NULL,
			rows_imported INTEGER NOT NULL,
			imported_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_deliveries_scope ON deliveries(time_of_day, traffic_level, weather)`,
		`CREATE INDEX IF NOT EXISTS idx_import_batches_imported_at ON import_batches(imported_at)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// Driver returns the database/sql driver name in use
func (db *DB) Driver() string {
	return db.driver
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	stats := db.pool.GetStats()
	stats["driver"] = db.driver
	return stats
}
