package pricing

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/notify"
	"github.com/codr1/courtside/internal/testutil"
)

func newTestCatalog(t *testing.T) (*Catalog, *notify.Recorder) {
	t.Helper()

	database := testutil.NewTestDB(t)
	recorder := notify.NewRecorder(16)
	return NewCatalog(database, notify.New(recorder, time.Second), 5*time.Second), recorder
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := models.ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return date
}

func TestResolveRoundTrip(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := catalog.UpsertRule(ctx, "marta", RuleInput{
		CourtType: "futbol7",
		Bucket:    models.BucketWeekdays,
		Start:     models.NewTimeOfDay(9, 0),
		Amount:    18000,
	})
	if err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}

	// 2025-06-10 is a Tuesday.
	amount, err := catalog.Resolve(ctx, "futbol7", mustDate(t, "2025-06-10"), models.NewTimeOfDay(9, 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if amount != 18000 {
		t.Fatalf("amount = %d, want 18000", amount)
	}

	_, err = catalog.Resolve(ctx, "futbol7", mustDate(t, "2025-06-14"), models.NewTimeOfDay(9, 0))
	if !errors.Is(err, apperr.ErrPriceNotConfigured) || !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("saturday resolve error = %v, want price not configured", err)
	}
}

func TestUpsertRuleSwapsActiveRule(t *testing.T) {
	catalog, recorder := newTestCatalog(t)
	ctx := context.Background()
	input := RuleInput{CourtType: "padel", Bucket: models.BucketSunday, Start: models.NewTimeOfDay(20, 0), Amount: 9000}

	first, err := catalog.UpsertRule(ctx, "marta", input)
	if err != nil {
		t.Fatalf("first UpsertRule: %v", err)
	}
	input.Amount = 9500
	second, err := catalog.UpsertRule(ctx, "marta", input)
	if err != nil {
		t.Fatalf("second UpsertRule: %v", err)
	}

	if second.Previous == nil || second.Previous.ID != first.Current.ID {
		t.Fatalf("previous = %+v, want rule %d", second.Previous, first.Current.ID)
	}
	if want := []string{"sunday 20:00: 9000 -> 9500"}; !reflect.DeepEqual(second.Changes, want) {
		t.Fatalf("changes = %v, want %v", second.Changes, want)
	}

	active, err := catalog.ListActive(ctx, "padel")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].Amount != 9500 {
		t.Fatalf("active rules = %+v, want single 9500 rule", active)
	}

	old, err := catalog.db.Queries.GetPriceRule(ctx, first.Current.ID)
	if err != nil {
		t.Fatalf("GetPriceRule: %v", err)
	}
	if old.Active || !old.DeactivatedAt.Valid {
		t.Fatalf("superseded rule still active: %+v", old)
	}

	if events := recorder.Events(); len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
}

func TestUpsertRuleSameAmountIsQuiet(t *testing.T) {
	catalog, recorder := newTestCatalog(t)
	ctx := context.Background()
	input := RuleInput{CourtType: "padel", Bucket: models.BucketWeekdays, Start: models.NewTimeOfDay(10, 0), Amount: 7000}

	if _, err := catalog.UpsertRule(ctx, "marta", input); err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}
	recorder.Events()

	change, err := catalog.UpsertRule(ctx, "marta", input)
	if err != nil {
		t.Fatalf("repeat UpsertRule: %v", err)
	}
	if len(change.Changes) != 0 {
		t.Fatalf("changes = %v, want none", change.Changes)
	}
	if events := recorder.Events(); len(events) != 0 {
		t.Fatalf("events = %d, want 0", len(events))
	}
}

func TestDeactivateRuleRemovesPrice(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	change, err := catalog.UpsertRule(ctx, "marta", RuleInput{
		CourtType: "futbol7", Bucket: models.BucketWeekdays, Start: models.NewTimeOfDay(9, 0), Amount: 18000,
	})
	if err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}

	if _, err := catalog.DeactivateRule(ctx, "marta", change.Current.ID); err != nil {
		t.Fatalf("DeactivateRule: %v", err)
	}

	_, err = catalog.Resolve(ctx, "futbol7", mustDate(t, "2025-06-10"), models.NewTimeOfDay(9, 0))
	if !errors.Is(err, apperr.ErrPriceNotConfigured) {
		t.Fatalf("Resolve after deactivate error = %v", err)
	}

	if _, err := catalog.DeactivateRule(ctx, "marta", change.Current.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second DeactivateRule error = %v, want not found", err)
	}
}

func TestUpsertRuleValidation(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	tests := []struct {
		name  string
		input RuleInput
	}{
		{"missing court type", RuleInput{Bucket: models.BucketWeekdays, Start: 540, Amount: 1}},
		{"bad bucket", RuleInput{CourtType: "padel", Bucket: "monday", Start: 540, Amount: 1}},
		{"unaligned start", RuleInput{CourtType: "padel", Bucket: models.BucketWeekdays, Start: 545, Amount: 1}},
		{"midnight end", RuleInput{CourtType: "padel", Bucket: models.BucketWeekdays, Start: 1440, Amount: 1}},
		{"negative amount", RuleInput{CourtType: "padel", Bucket: models.BucketWeekdays, Start: 540, Amount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := catalog.UpsertRule(context.Background(), "marta", tt.input); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}
}

func TestReplaceRules(t *testing.T) {
	catalog, recorder := newTestCatalog(t)
	ctx := context.Background()

	initial := []RuleInput{
		{Bucket: models.BucketWeekdays, Start: models.NewTimeOfDay(9, 0), Amount: 15000},
		{Bucket: models.BucketWeekdays, Start: models.NewTimeOfDay(10, 0), Amount: 15000},
		{Bucket: models.BucketSaturday, Start: models.NewTimeOfDay(9, 0), Amount: 20000},
	}
	if _, err := catalog.ReplaceRules(ctx, "marta", "futbol7", initial); err != nil {
		t.Fatalf("initial ReplaceRules: %v", err)
	}
	recorder.Events()

	next := []RuleInput{
		{Bucket: models.BucketWeekdays, Start: models.NewTimeOfDay(9, 0), Amount: 18000},
		{Bucket: models.BucketWeekdays, Start: models.NewTimeOfDay(10, 0), Amount: 15000},
		{Bucket: models.BucketSunday, Start: models.NewTimeOfDay(9, 0), Amount: 21000},
	}
	changes, err := catalog.ReplaceRules(ctx, "marta", "futbol7", next)
	if err != nil {
		t.Fatalf("ReplaceRules: %v", err)
	}

	want := []string{
		"weekdays 09:00: 15000 -> 18000",
		"saturday 09:00: removed (was 20000)",
		"sunday 09:00: added at 21000",
	}
	if !reflect.DeepEqual(changes, want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}

	active, err := catalog.ListActive(ctx, "futbol7")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("active rules = %d, want 3", len(active))
	}

	events := recorder.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	priceChanged, ok := events[0].(notify.PriceChanged)
	if !ok || priceChanged.CourtType != "futbol7" || priceChanged.AdminName != "marta" {
		t.Fatalf("event = %#v", events[0])
	}
}

func TestReplaceRulesRejectsDuplicates(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	_, err := catalog.ReplaceRules(context.Background(), "marta", "padel", []RuleInput{
		{Bucket: models.BucketWeekdays, Start: 540, Amount: 1},
		{Bucket: models.BucketWeekdays, Start: 540, Amount: 2},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestQuoteSumsSlots(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	for hour, amount := range map[int]int64{18: 20000, 19: 22000} {
		if _, err := catalog.UpsertRule(ctx, "futbol5", RuleInput{
			CourtType: "futbol5", Bucket: models.BucketWeekdays, Start: models.NewTimeOfDay(hour, 0), Amount: amount,
		}); err != nil {
			t.Fatalf("UpsertRule %d: %v", hour, err)
		}
	}

	date := mustDate(t, "2025-07-01")
	total, err := catalog.Quote(ctx, "futbol5", date, models.NewTimeOfDay(18, 0), models.NewTimeOfDay(20, 0), 60)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if total != 42000 {
		t.Fatalf("total = %d, want 42000", total)
	}

	_, err = catalog.Quote(ctx, "futbol5", date, models.NewTimeOfDay(18, 0), models.NewTimeOfDay(21, 0), 60)
	if !errors.Is(err, apperr.ErrPriceNotConfigured) {
		t.Fatalf("Quote with gap error = %v", err)
	}
}
