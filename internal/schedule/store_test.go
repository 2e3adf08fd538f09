package schedule

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/notify"
	"github.com/codr1/courtside/internal/testutil"
)

func setupStore(t *testing.T) (*Store, *db.DB, *notify.Recorder) {
	t.Helper()

	database := testutil.NewTestDB(t)
	recorder := notify.NewRecorder(16)
	store := NewStore(database, notify.New(recorder, time.Second), DefaultHours(), 5*time.Second)
	return store, database, recorder
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := models.ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return date
}

func tod(value string) *models.TimeOfDay {
	parsed, err := models.ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func bookSlot(t *testing.T, database *db.DB, courtID, clientID int64, date string, start, end models.TimeOfDay) {
	t.Helper()
	ctx := context.Background()

	reservation, err := database.Queries.CreateReservation(ctx, dbgen.CreateReservationParams{
		CourtID:         courtID,
		ClientID:        clientID,
		ReservationDate: date,
		StartMinute:     int64(start),
		EndMinute:       int64(end),
		Amount:          1000,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	for _, cell := range Cells(start, end) {
		if err := database.Queries.ClaimReservationSlot(ctx, dbgen.ClaimReservationSlotParams{
			CourtID:       courtID,
			SlotDate:      date,
			SlotMinute:    int64(cell),
			ReservationID: reservation.ID,
		}); err != nil {
			t.Fatalf("claim cell %s: %v", cell, err)
		}
	}
}

func slotAt(t *testing.T, availability Availability, date string, start models.TimeOfDay) models.Slot {
	t.Helper()

	for slot := range availability.All() {
		if models.FormatDate(slot.Date) == date && slot.Start == start {
			return slot
		}
	}
	t.Fatalf("slot %s %s not listed", date, start)
	return models.Slot{}
}

func TestListSlotsStatuses(t *testing.T) {
	store, database, _ := setupStore(t)
	ctx := context.Background()
	court := testutil.SeedCourt(t, database, "Cancha 3", "futbol5")
	client := testutil.SeedClient(t, database, "Ana", "ana@test.com")
	testutil.SeedPrice(t, database, "futbol5", "weekdays", 18*60, 20000)

	bookSlot(t, database, court.ID, client.ID, "2025-07-01", models.NewTimeOfDay(18, 0), models.NewTimeOfDay(19, 0))
	bookSlot(t, database, court.ID, client.ID, "2025-07-01", models.NewTimeOfDay(20, 0), models.NewTimeOfDay(21, 0))

	courtID := court.ID
	if _, err := store.SetBlock(ctx, "marta", BlockInput{
		CourtID: &courtID,
		Date:    "2025-07-01",
		Start:   tod("20:00"),
		End:     tod("22:00"),
		Reason:  "maintenance",
	}); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	date := mustDate(t, "2025-07-01")
	availability, err := store.ListSlots(ctx, court.ID, date, date)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}

	if len(availability.Slots) != 15 {
		t.Fatalf("slots = %d, want 15 one-hour slots from 08:00 to 23:00", len(availability.Slots))
	}

	tests := []struct {
		start models.TimeOfDay
		want  models.SlotStatus
	}{
		{models.NewTimeOfDay(8, 0), models.SlotAvailable},
		{models.NewTimeOfDay(18, 0), models.SlotBooked},
		{models.NewTimeOfDay(20, 0), models.SlotBlocked},
		{models.NewTimeOfDay(21, 0), models.SlotBlocked},
		{models.NewTimeOfDay(22, 0), models.SlotAvailable},
	}
	for _, tt := range tests {
		if got := slotAt(t, availability, "2025-07-01", tt.start).Status; got != tt.want {
			t.Errorf("slot %s status = %s, want %s", tt.start, got, tt.want)
		}
	}

	priced := slotAt(t, availability, "2025-07-01", models.NewTimeOfDay(18, 0))
	if priced.Amount == nil || *priced.Amount != 20000 {
		t.Fatalf("18:00 amount = %v, want 20000", priced.Amount)
	}
	if unpriced := slotAt(t, availability, "2025-07-01", models.NewTimeOfDay(8, 0)); unpriced.Amount != nil {
		t.Fatalf("08:00 amount = %d, want none", *unpriced.Amount)
	}
}

func TestListSlotsIsRestartable(t *testing.T) {
	store, database, _ := setupStore(t)
	court := testutil.SeedCourt(t, database, "Cancha 1", "padel")
	from := mustDate(t, "2025-07-01")

	availability, err := store.ListSlots(context.Background(), court.ID, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}

	count := func() int {
		n := 0
		for range availability.All() {
			n++
		}
		return n
	}
	first, second := count(), count()
	if first != 30 || second != 30 {
		t.Fatalf("iterations = %d and %d, want 30 both times", first, second)
	}
}

func TestListSlotsBucketBlockAllCourts(t *testing.T) {
	store, database, _ := setupStore(t)
	ctx := context.Background()
	court := testutil.SeedCourt(t, database, "Cancha 1", "padel")

	if _, err := store.SetBlock(ctx, "marta", BlockInput{Bucket: models.BucketSunday, Reason: "closed"}); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	// 2025-07-06 is a Sunday, 2025-07-07 a Monday.
	availability, err := store.ListSlots(ctx, court.ID, mustDate(t, "2025-07-06"), mustDate(t, "2025-07-07"))
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	for _, slot := range availability.Slots {
		sunday := slot.Date.Weekday() == time.Sunday
		if sunday && slot.Status != models.SlotBlocked {
			t.Fatalf("sunday slot %s status = %s", slot.Start, slot.Status)
		}
		if !sunday && slot.Status != models.SlotAvailable {
			t.Fatalf("monday slot %s status = %s", slot.Start, slot.Status)
		}
	}
}

func TestListSlotsValidation(t *testing.T) {
	store, database, _ := setupStore(t)
	court := testutil.SeedCourt(t, database, "Cancha 1", "padel")
	from := mustDate(t, "2025-07-01")

	if _, err := store.ListSlots(context.Background(), court.ID, from, from.AddDate(0, 0, 31)); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("32-day range error = %v", err)
	}
	if _, err := store.ListSlots(context.Background(), court.ID, from, from.AddDate(0, 0, -1)); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("inverted range error = %v", err)
	}
	if _, err := store.ListSlots(context.Background(), 999, from, from); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown court error = %v", err)
	}
}

func TestSetAndClearBlockNotify(t *testing.T) {
	store, database, recorder := setupStore(t)
	ctx := context.Background()
	court := testutil.SeedCourt(t, database, "Cancha 1", "padel")

	block, err := store.SetBlock(ctx, "marta", BlockInput{CourtType: "padel", Date: "2025-07-01", Start: tod("09:00"), Reason: "torneo"})
	if err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if block.End == nil || *block.End != models.NewTimeOfDay(10, 0) {
		t.Fatalf("block end = %v, want one hour", block.End)
	}

	blocked, err := store.IsBlocked(ctx, models.CourtFromDB(court), mustDate(t, "2025-07-01"), models.NewTimeOfDay(9, 0), models.NewTimeOfDay(10, 0))
	if err != nil || !blocked {
		t.Fatalf("IsBlocked = %v, %v; want true", blocked, err)
	}

	if _, err := store.ClearBlock(ctx, "marta", block.ID); err != nil {
		t.Fatalf("ClearBlock: %v", err)
	}
	blocked, err = store.IsBlocked(ctx, models.CourtFromDB(court), mustDate(t, "2025-07-01"), models.NewTimeOfDay(9, 0), models.NewTimeOfDay(10, 0))
	if err != nil || blocked {
		t.Fatalf("IsBlocked after clear = %v, %v; want false", blocked, err)
	}

	if _, err := store.ClearBlock(ctx, "marta", block.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second ClearBlock error = %v", err)
	}

	events := recorder.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	set, ok := events[0].(notify.ScheduleChanged)
	if !ok || !strings.HasPrefix(set.Changes[0], "blocked padel courts 2025-07-01 09:00-10:00") {
		t.Fatalf("set event = %#v", events[0])
	}
	cleared := events[1].(notify.ScheduleChanged)
	if !strings.HasPrefix(cleared.Changes[0], "unblocked") {
		t.Fatalf("clear event = %#v", cleared)
	}
}

func TestSetBlockValidation(t *testing.T) {
	store, _, _ := setupStore(t)
	courtID := int64(1)

	tests := []struct {
		name  string
		input BlockInput
	}{
		{"no date or bucket", BlockInput{}},
		{"date and bucket", BlockInput{Date: "2025-07-01", Bucket: models.BucketSunday}},
		{"court and type", BlockInput{CourtID: &courtID, CourtType: "padel", Date: "2025-07-01"}},
		{"bad date", BlockInput{Date: "01/07/2025"}},
		{"until without hour", BlockInput{Date: "2025-07-01", End: tod("10:00")}},
		{"inverted range", BlockInput{Date: "2025-07-01", Start: tod("10:00"), End: tod("09:00")}},
		{"unaligned", BlockInput{Date: "2025-07-01", Start: tod("10:05"), End: tod("11:00")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.SetBlock(context.Background(), "marta", tt.input); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}

	missing := int64(999)
	if _, err := store.SetBlock(context.Background(), "marta", BlockInput{CourtID: &missing, Date: "2025-07-01"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown court error = %v", err)
	}
}

func TestHoursAligned(t *testing.T) {
	hours := DefaultHours()

	if !hours.Aligned(models.NewTimeOfDay(18, 0), models.NewTimeOfDay(20, 0)) {
		t.Fatalf("18:00-20:00 should be aligned")
	}
	if hours.Aligned(models.NewTimeOfDay(18, 30), models.NewTimeOfDay(19, 30)) {
		t.Fatalf("18:30 should not be aligned to hourly slots")
	}
	if hours.Aligned(models.NewTimeOfDay(7, 0), models.NewTimeOfDay(8, 0)) {
		t.Fatalf("07:00 is before opening")
	}
	if hours.Aligned(models.NewTimeOfDay(22, 0), models.NewTimeOfDay(24, 0)) {
		t.Fatalf("23:00-24:00 is after closing")
	}
}
