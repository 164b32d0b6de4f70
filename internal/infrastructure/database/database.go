package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// MemoryPath selects a private in-memory database.
	MemoryPath = ":memory:"

	dirPermissions  = 0750
	filePermissions = 0600

	connectionTimeout = 5 * time.Second
)

// memorySeq gives each in-memory database its own shared-cache name.
var memorySeq atomic.Uint64

// DB wraps a sql.DB connection.
type DB struct {
	*sql.DB
	path string
}

// Config maps to the database section of config.yaml.
type Config struct {
	// Path is the SQLite file, or ":memory:" (the default) for a database
	// that disappears with the process.
	Path string `yaml:"path" env:"PATH"`

	// WALMode enables write-ahead logging. Ignored in memory.
	WALMode bool `yaml:"wal_mode" env:"WAL_MODE"`

	// BusyTimeout is how long to wait for a lock, in seconds.
	BusyTimeout int `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
}

// InMemory reports whether cfg selects an in-memory database.
func (c Config) InMemory() bool {
	return c.Path == "" || c.Path == MemoryPath
}

// Open connects to the database described by cfg and verifies the
// connection with a ping.
//
// Parameters:
//   - ctx: bounds the connectivity check
//   - cfg: database configuration
//
// Returns:
//   - *DB: connected database
//   - error: if the directory, connection or ping fails
func Open(ctx context.Context, cfg Config) (*DB, error) {
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// lives exactly as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if !cfg.InMemory() {
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close() //nolint:errcheck // best effort on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	path := cfg.Path
	if cfg.InMemory() {
		path = MemoryPath
	} else {
		_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck // file may appear on first write
	}

	return &DB{DB: sqlDB, path: path}, nil
}

func dataSourceName(cfg Config) (string, error) {
	busyMillis := cfg.BusyTimeout * 1000

	if cfg.InMemory() {
		name := fmt.Sprintf("wish-%d", memorySeq.Add(1))
		return fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=%d&_foreign_keys=on", name, busyMillis), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return "", fmt.Errorf("creating database directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, busyMillis)
	if cfg.WALMode {
		dsn += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return dsn, nil
}

// Close closes the connection. An in-memory database is discarded.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the database file path, or ":memory:".
func (db *DB) Path() string {
	return db.path
}

// HealthCheck runs a trivial query.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
