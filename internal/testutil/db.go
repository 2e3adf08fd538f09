package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedCourt inserts an active court of the given type.
func SeedCourt(t *testing.T, database *db.DB, name, courtType string) dbgen.Court {
	t.Helper()

	court, err := database.Queries.CreateCourt(context.Background(), dbgen.CreateCourtParams{
		Name:      name,
		CourtType: courtType,
		Active:    true,
	})
	if err != nil {
		t.Fatalf("seed court %s: %v", name, err)
	}
	return court
}

// SeedClient inserts a client with the given email.
func SeedClient(t *testing.T, database *db.DB, name, email string) dbgen.Client {
	t.Helper()

	client, err := database.Queries.CreateClient(context.Background(), dbgen.CreateClientParams{
		Name:  name,
		Email: email,
		Phone: "+5491155550000",
	})
	if err != nil {
		t.Fatalf("seed client %s: %v", email, err)
	}
	return client
}

// SeedPrice inserts an active price rule for the hour starting at startMinute.
func SeedPrice(t *testing.T, database *db.DB, courtType, bucket string, startMinute, amount int64) dbgen.PriceRule {
	t.Helper()

	rule, err := database.Queries.CreatePriceRule(context.Background(), dbgen.CreatePriceRuleParams{
		CourtType:     courtType,
		WeekdayBucket: bucket,
		StartMinute:   startMinute,
		Amount:        amount,
		CreatedBy:     "test",
	})
	if err != nil {
		t.Fatalf("seed price %s/%s/%d: %v", courtType, bucket, startMinute, err)
	}
	return rule
}

// SeedDayPrices prices every hour of a day for all three buckets.
func SeedDayPrices(t *testing.T, database *db.DB, courtType string, amount int64) {
	t.Helper()

	for _, bucket := range []string{"weekdays", "saturday", "sunday"} {
		for hour := int64(0); hour < 24; hour++ {
			SeedPrice(t, database, courtType, bucket, hour*60, amount)
		}
	}
}

// FixedClock is a settable clock for engine and scheduler tests.
type FixedClock struct {
	Current time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.Current
}

func (c *FixedClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}
