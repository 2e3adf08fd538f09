// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlite "github.com/mattn/go-sqlite3"

	"github.com/codr1/courtside/internal/config"
	dbgen "github.com/codr1/courtside/internal/db/generated"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS exposes the embedded migrations to tooling.
func MigrationsFS() embed.FS {
	return migrationsFS
}

type DB struct {
	*sql.DB
	Queries *dbgen.Queries
}

// DefaultBusyTimeout bounds how long a statement waits for the write lock.
const DefaultBusyTimeout = 5 * time.Second

// New opens a SQLite database with DefaultBusyTimeout.
func New(dataSourceName string) (*DB, error) {
	return Open(dataSourceName, DefaultBusyTimeout)
}

// Open opens a SQLite database for the given data source name, applies the
// connection options the booking engine relies on, runs embedded migrations,
// and returns a DB with generated queries bound to the connection.
// busyTimeout should match the store timeout: the driver does not interrupt
// its busy wait when a context expires.
func Open(dataSourceName string, busyTimeout time.Duration) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", prepareDSN(dataSourceName, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &DB{
		DB:      sqlDB,
		Queries: dbgen.New(sqlDB),
	}, nil
}

// NewFromConfig creates the configured database directory if needed and opens
// it with a busy timeout equal to the booking store timeout.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
		busyTimeout := cfg.Booking.StoreTimeout
		if busyTimeout <= 0 {
			busyTimeout = DefaultBusyTimeout
		}
		return Open(cfg.Database.Filename, busyTimeout)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// prepareDSN enables foreign keys, takes the write lock at BEGIN so claims
// serialize instead of failing on upgrade, and waits on a busy database.
func prepareDSN(dataSourceName string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	options := []string{
		"_fk=1",
		"_txlock=immediate",
		"_busy_timeout=" + strconv.FormatInt(busyTimeout.Milliseconds(), 10),
	}
	for _, option := range options {
		key, _, _ := strings.Cut(option, "=")
		if strings.Contains(dataSourceName, key+"=") {
			continue
		}
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&" + option
		} else {
			dataSourceName += "?" + option
		}
	}
	return dataSourceName
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs", source,
		"sqlite3", driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// WithTx creates a new DB instance with the given transaction
func (db *DB) WithTx(tx *sql.Tx) *DB {
	return &DB{
		DB:      db.DB,
		Queries: dbgen.New(tx),
	}
}

// BeginTx starts a transaction
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return tx, nil
}

// RunInTx runs the given function in a transaction
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txDB := db.WithTx(tx)
	if err := fn(txDB); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a SQLite primary-key or unique
// constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique
}

// IsNoRows reports whether err means the row does not exist.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
