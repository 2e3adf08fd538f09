// cmd/tools/dbmigrate/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/db"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		dbPath         = flag.String("db", "", "Path to SQLite database")
		migrationsPath = flag.String("migrations", "", "Path to migrations directory (default: migrations embedded in the binary)")
		command        = flag.String("command", "", "Command to run (up, down, version, force)")
		version        = flag.Int("version", -1, "Target version for force")
	)
	flag.Parse()

	if *dbPath == "" || *command == "" {
		fmt.Fprintln(os.Stderr, "-db and -command are required:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	absDB, err := filepath.Abs(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database path")
	}
	if err := os.MkdirAll(filepath.Dir(absDB), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	m, err := newMigrate(*migrationsPath, "sqlite3://"+absDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate instance")
	}
	defer m.Close()

	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Str("db", absDB).Msg("Migrations applied")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Failed to roll back migrations")
		}
		log.Info().Str("db", absDB).Msg("Migrations rolled back")

	case "version":
		current, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info().Msg("No migrations applied")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get version")
		}
		log.Info().Uint("version", current).Bool("dirty", dirty).Msg("Current version")

	case "force":
		if *version < 0 {
			log.Fatal().Msg("force requires -version")
		}
		if err := m.Force(*version); err != nil {
			log.Fatal().Err(err).Msg("Failed to force version")
		}
		log.Info().Int("version", *version).Msg("Version forced")

	default:
		log.Fatal().Str("command", *command).Msg("Unknown command")
	}
}

func newMigrate(migrationsPath, databaseURL string) (*migrate.Migrate, error) {
	if migrationsPath == "" {
		source, err := iofs.New(db.MigrationsFS(), "migrations")
		if err != nil {
			return nil, fmt.Errorf("load embedded migrations: %w", err)
		}
		return migrate.NewWithSourceInstance("iofs", source, databaseURL)
	}

	absMigrations, err := filepath.Abs(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("invalid migrations path: %w", err)
	}
	if _, err := os.Stat(absMigrations); err != nil {
		return nil, fmt.Errorf("migrations directory: %w", err)
	}
	return migrate.New("file://"+absMigrations, databaseURL)
}
