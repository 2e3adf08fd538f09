package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/config"
	"github.com/codr1/courtside/internal/db"
	"github.com/codr1/courtside/internal/testutil"
)

func TestMigrationsApplied(t *testing.T) {
	db := testutil.NewTestDB(t)

	expectedTables := []string{
		"courts",
		"clients",
		"price_rules",
		"schedule_blocks",
		"reservations",
		"reservation_slots",
		"payment_transactions",
	}

	for _, table := range expectedTables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?",
			table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			t.Fatalf("missing expected table %q after migrations", table)
		}
		if err != nil {
			t.Fatalf("query table %q existence: %v", table, err)
		}
	}
}

func TestForeignKeyIntegrity(t *testing.T) {
	db := testutil.NewTestDB(t)

	var foreignKeysEnabled int
	if err := db.QueryRow("PRAGMA foreign_keys;").Scan(&foreignKeysEnabled); err != nil {
		t.Fatalf("query foreign_keys pragma: %v", err)
	}
	if foreignKeysEnabled != 1 {
		t.Fatalf("expected foreign_keys pragma enabled, got %d", foreignKeysEnabled)
	}

	_, err := db.Exec(
		`INSERT INTO reservation_slots (court_id, slot_date, slot_minute, reservation_id)
		 VALUES (9999, '2030-01-01', 600, 9999)`,
	)
	if err == nil {
		t.Fatal("expected foreign key constraint failure for unknown court and reservation")
	}
}

func TestBusyTimeoutConfigured(t *testing.T) {
	db := testutil.NewTestDB(t)

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout;").Scan(&timeout); err != nil {
		t.Fatalf("query busy_timeout pragma: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("expected busy_timeout 5000, got %d", timeout)
	}
}

func busyTimeout(t *testing.T, database *db.DB) int {
	t.Helper()

	var timeout int
	if err := database.QueryRow("PRAGMA busy_timeout;").Scan(&timeout); err != nil {
		t.Fatalf("query busy_timeout pragma: %v", err)
	}
	return timeout
}

func TestOpenUsesGivenBusyTimeout(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "busy.db"), 250*time.Millisecond)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	if got := busyTimeout(t, database); got != 250 {
		t.Fatalf("expected busy_timeout 250, got %d", got)
	}
}

func TestNewFromConfigDerivesBusyTimeoutFromStoreTimeout(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = filepath.Join(t.TempDir(), "nested", "app.db")
	cfg.Booking.StoreTimeout = 1500 * time.Millisecond

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer database.Close()

	if got := busyTimeout(t, database); got != 1500 {
		t.Fatalf("expected busy_timeout 1500, got %d", got)
	}
}
