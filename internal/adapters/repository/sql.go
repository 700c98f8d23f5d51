package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type dialect struct {
	get    string
	upsert string
	remove string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		get:    `SELECT value FROM kv WHERE key = ?`,
		upsert: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv WHERE key = ?`,
	},
	DriverPostgres: {
		get:    `SELECT value FROM kv WHERE key = $1`,
		upsert: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv WHERE key = $1`,
	},
}

// SQLKV stores values in a single kv table.
type SQLKV struct {
	db     *sql.DB
	driver string
	q      dialect
}

// OpenSQL connects to dsn with driver (sqlite or postgres) and creates the
// kv table when missing.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLKV, error) {
	q, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer at a time; concurrent sqlite writers fail with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &SQLKV{db: db, driver: driver, q: q}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLKV) migrate(ctx context.Context) error {
	schema, err := migrationsFS.ReadFile("migrations/" + s.driver + ".sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(schema))
	return err
}

// Driver reports the driver name the store was opened with.
func (s *SQLKV) Driver() string { return s.driver }

// Get reads key.
func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(v), nil
}

// Set writes key, replacing any previous value.
func (s *SQLKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.upsert, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes keys in one transaction.
func (s *SQLKV) Remove(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, s.q.remove, k); err != nil {
			tx.Rollback()
			return fmt.Errorf("remove %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// Close closes the database handle.
func (s *SQLKV) Close() error {
	return s.db.Close()
}
